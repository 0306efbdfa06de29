package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/adhdscreen/internal/display"
)

// NewScalesCommand creates the scales command
func NewScalesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scales",
		Short: "List the scales in the catalog",
		Long: `List the scales in the catalog with their scoring rule, item count and
clinical cutoff.

Examples:
  adhdscreen scales
  adhdscreen scales --refs
  adhdscreen scales --template > answers.yaml
  adhdscreen scales --catalog my-scales.yaml`,
		Args: cobra.NoArgs,
		RunE: runScales,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .adhdscreen/config.yaml)")
	cmd.Flags().String("catalog", "", "Scale catalog file (default: built-in scales)")
	cmd.Flags().Bool("refs", false, "Also print the published source of each scale")
	cmd.Flags().Bool("template", false, "Print an answer sheet template for the score command")
	return cmd
}

func runScales(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if tmpl, _ := cmd.Flags().GetBool("template"); tmpl {
		data, err := sheetTemplate(cat)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	p := display.NewPrinter(out)
	p.Scales(cat)
	if refs, _ := cmd.Flags().GetBool("refs"); refs {
		p.References(cat.References())
	}
	fmt.Fprintf(out, "\n%d scales\n", cat.Len())
	return nil
}
