package summary

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Provider names accepted by NewProvider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderNone   = "none"
)

// ProviderNames lists the selectable providers.
func ProviderNames() []string {
	return []string{ProviderGemini, ProviderOpenAI, ProviderClaude, ProviderNone}
}

// ProviderOptions selects and configures a provider.
type ProviderOptions struct {
	Name  string
	Model string
	// APIKeyEnv overrides the environment variable holding the API key.
	APIKeyEnv string
	// ClaudePath is the CLI binary for the claude provider.
	ClaudePath string
}

// NewProvider builds the named provider. "none" returns a nil Provider and
// no error; callers treat that as analysis being unavailable.
func NewProvider(ctx context.Context, opts ProviderOptions) (Provider, error) {
	var key string
	if opts.APIKeyEnv != "" {
		key = os.Getenv(opts.APIKeyEnv)
	}

	switch strings.ToLower(opts.Name) {
	case ProviderGemini, "":
		p, err := NewGeminiProvider(ctx, key, opts.Model)
		if err != nil {
			return nil, err
		}
		return p, nil
	case ProviderOpenAI:
		p, err := NewOpenAIProvider(key, opts.Model)
		if err != nil {
			return nil, err
		}
		return p, nil
	case ProviderClaude:
		return NewClaudeCLIProvider(opts.ClaudePath, opts.Model), nil
	case ProviderNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown provider %q (valid: %s)", opts.Name, strings.Join(ProviderNames(), ", "))
	}
}
