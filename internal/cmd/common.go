package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/adhdscreen/internal/catalog"
	"github.com/harrison/adhdscreen/internal/config"
	"github.com/harrison/adhdscreen/internal/summary"
)

// addRunFlags registers the flags shared by every command that builds a
// session: config, catalog and analysis settings.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to config file (default: .adhdscreen/config.yaml)")
	cmd.Flags().String("catalog", "", "Scale catalog file (default: built-in scales)")
	cmd.Flags().String("provider", "", fmt.Sprintf("Interpretation provider (%s)", strings.Join(summary.ProviderNames(), ", ")))
	cmd.Flags().String("model", "", "Model name for the interpretation provider")
	cmd.Flags().Duration("timeout", 0, "Interpretation timeout (e.g. 30s, 2m)")
	cmd.Flags().Bool("no-analysis", false, "Do not request an AI interpretation")
	cmd.Flags().String("log-level", "", "Log level (trace, debug, info, warn, error)")
	cmd.Flags().String("out", "", "Save the share summary to this file")
}

// loadSettings loads the config file and applies the flags that were set
// on the command line.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	var f config.Flags
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		f.LogLevel = &v
	}
	if flags.Changed("catalog") {
		v, _ := flags.GetString("catalog")
		f.Catalog = &v
	}
	if flags.Changed("out") {
		v, _ := flags.GetString("out")
		f.Output = &v
	}
	if flags.Changed("no-analysis") {
		v, _ := flags.GetBool("no-analysis")
		enabled := !v
		f.Analysis = &enabled
	}
	if flags.Changed("provider") {
		v, _ := flags.GetString("provider")
		f.Provider = &v
	}
	if flags.Changed("model") {
		v, _ := flags.GetString("model")
		f.Model = &v
	}
	if flags.Changed("timeout") {
		v, _ := flags.GetDuration("timeout")
		f.Timeout = &v
	}
	cfg.MergeWithFlags(f)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadCatalog returns the configured catalog or the built-in one.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	cat, err := catalog.LoadOrDefault(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

// newRequestor builds the interpretation requestor. It returns nil with a
// reason when analysis is off or the provider cannot be constructed, so the
// questionnaire still runs.
func newRequestor(ctx context.Context, cfg *config.Config, cat *catalog.Catalog, log summary.Logger) (*summary.Requestor, string) {
	if !cfg.AnalysisActive() {
		return nil, "AI interpretation is turned off."
	}
	p, err := summary.NewProvider(ctx, cfg.ProviderOptions())
	if err != nil {
		return nil, fmt.Sprintf("The %s provider is not available: %v", cfg.Analysis.Provider, err)
	}
	if p == nil {
		return nil, "AI interpretation is turned off."
	}
	return summary.NewRequestor(p, cat, cfg.Analysis.Timeout, log), ""
}
