package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for adhdscreen
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adhdscreen",
		Short: "Adult ADHD self-assessment questionnaire",
		Long: `adhdscreen administers a battery of adult ADHD self-report scales
(core symptoms, functional impairment, executive function, masking and
childhood history), scores them locally, and optionally asks an AI model
for a plain-language interpretation.

Running adhdscreen without a subcommand starts the interactive questionnaire.
Results are a screening aid, not a diagnosis.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadDotEnv(".env")
		},
		RunE: runCommand,
	}

	addRunFlags(cmd)

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewScoreCommand())
	cmd.AddCommand(NewScalesCommand())
	cmd.AddCommand(NewFlowCommand())
	cmd.AddCommand(NewServeCommand())

	return cmd
}

// loadDotEnv loads API keys from a .env file if one exists. Variables
// already set in the environment win.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
