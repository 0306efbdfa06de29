// Package claude runs the Claude CLI as a plain text generator.
package claude

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultSystemPrompt is used when a request carries no system prompt.
const DefaultSystemPrompt = "You are a careful assistant. Answer in plain prose with light markdown."

// ErrEmptyPrompt is returned when Invoke is called without a prompt.
var ErrEmptyPrompt = errors.New("claude: prompt is required")

// Invoker is a reusable client for the claude binary.
// It follows the http.Client pattern: create once, use many times.
type Invoker struct {
	// ClaudePath is the path to the claude CLI binary. Defaults to "claude".
	ClaudePath string

	// Model is passed through --model when set.
	Model string

	// Timeout bounds each invocation when positive.
	Timeout time.Duration

	// SystemPrompt is the fallback system prompt.
	SystemPrompt string
}

// Request holds per-invocation input.
type Request struct {
	Prompt string
	System string
}

// Response holds the parsed CLI output.
type Response struct {
	Text      string
	SessionID string
	RawOutput []byte
}

// NewInvoker creates an Invoker with default settings.
func NewInvoker() *Invoker {
	return &Invoker{
		ClaudePath:   "claude",
		SystemPrompt: DefaultSystemPrompt,
	}
}

// Invoke runs one non-interactive generation and parses the JSON result.
func (inv *Invoker) Invoke(ctx context.Context, req Request) (*Response, error) {
	if req.Prompt == "" {
		return nil, ErrEmptyPrompt
	}

	ctxToUse := ctx
	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		ctxToUse, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctxToUse, inv.binary(), inv.args(req)...)
	SetCleanEnv(cmd)

	output, err := cmd.Output()
	if err != nil {
		if ctxErr := ctxToUse.Err(); ctxErr != nil {
			return nil, fmt.Errorf("claude invocation aborted: %w", ctxErr)
		}
		return nil, fmt.Errorf("claude invocation failed: %w (output: %s)", err, truncate(string(output), 200))
	}

	text, sessionID, err := ParseResponse(output)
	if err != nil {
		return nil, err
	}
	return &Response{Text: text, SessionID: sessionID, RawOutput: output}, nil
}

func (inv *Invoker) binary() string {
	if inv.ClaudePath == "" {
		return "claude"
	}
	return inv.ClaudePath
}

// args builds: [--model m] --system-prompt s -p prompt --output-format json --settings {...}
func (inv *Invoker) args(req Request) []string {
	var args []string
	if inv.Model != "" {
		args = append(args, "--model", inv.Model)
	}

	system := req.System
	if system == "" {
		system = inv.SystemPrompt
	}
	if system == "" {
		system = DefaultSystemPrompt
	}
	args = append(args, "--system-prompt", system)
	args = append(args, "-p", req.Prompt)
	args = append(args, "--output-format", "json")
	args = append(args, "--settings", `{"disableAllHooks": true}`)
	return args
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
