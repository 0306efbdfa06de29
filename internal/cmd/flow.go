package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/adhdscreen/internal/flow"
)

// NewFlowCommand creates the flow command
func NewFlowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Print the assessment state diagram",
		Long: `Print the assessment state machine as a diagram.

Examples:
  adhdscreen flow | dot -Tpng -o flow.png
  adhdscreen flow --format mermaid`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("format")
			format, err := flow.ParseGraphFormat(name)
			if err != nil {
				return err
			}
			return flow.WriteGraph(cmd.OutOrStdout(), format)
		},
	}

	cmd.Flags().String("format", "dot", "Output format: dot, mermaid")
	return cmd
}
