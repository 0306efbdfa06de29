package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/harrison/adhdscreen/internal/flow"
	"github.com/harrison/adhdscreen/internal/logger"
	"github.com/harrison/adhdscreen/internal/server"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the questionnaire as MCP tools over stdio",
		Long: `Start an MCP server on stdin/stdout so an AI assistant can walk a
respondent through the questionnaire.

Logs go to a file under the configured log directory, since stdout carries
the protocol.

Examples:
  adhdscreen serve
  adhdscreen serve --provider claude --timeout 2m`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	addRunFlags(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	log, err := logger.NewFileLoggerWithDirAndLevel(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req, reason := newRequestor(ctx, cfg, cat, log)
	var sum flow.Summarizer
	if req != nil {
		defer req.Close()
		sum = req
	} else {
		log.LogWarn(reason)
	}

	ctl := flow.New(cat, sum, flow.WithLogger(log), flow.WithContext(ctx))
	s := server.New(ctl, cat, log)

	fmt.Fprintf(cmd.ErrOrStderr(), "adhdscreen MCP server on stdio (log: %s)\n", log.Path())
	return mcpserver.ServeStdio(s)
}
