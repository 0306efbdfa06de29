package summary

import (
	"context"

	"github.com/harrison/adhdscreen/internal/claude"
)

// ClaudeCLIProvider generates interpretations through a local claude binary.
type ClaudeCLIProvider struct {
	inv *claude.Invoker
}

// NewClaudeCLIProvider wraps an Invoker. The requestor enforces the overall
// deadline, so the invoker itself carries no timeout.
func NewClaudeCLIProvider(path, model string) *ClaudeCLIProvider {
	inv := claude.NewInvoker()
	if path != "" {
		inv.ClaudePath = path
	}
	inv.Model = model
	return &ClaudeCLIProvider{inv: inv}
}

// Name returns the provider name.
func (p *ClaudeCLIProvider) Name() string {
	return "claude"
}

// Generate runs the CLI once.
func (p *ClaudeCLIProvider) Generate(ctx context.Context, system, prompt string) (string, error) {
	resp, err := p.inv.Invoke(ctx, claude.Request{Prompt: prompt, System: system})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
