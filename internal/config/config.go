package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harrison/adhdscreen/internal/logger"
	"github.com/harrison/adhdscreen/internal/summary"
)

// AnalysisConfig controls the AI interpretation request
type AnalysisConfig struct {
	// Enabled requests an interpretation after the last scale
	Enabled bool `yaml:"enabled"`

	// Provider selects the text generator (gemini, openai, claude, none)
	Provider string `yaml:"provider"`

	// Model overrides the provider's default model
	Model string `yaml:"model"`

	// Timeout bounds a single interpretation call
	Timeout time.Duration `yaml:"timeout"`

	// APIKeyEnv names the environment variable holding the API key
	APIKeyEnv string `yaml:"api_key_env"`

	// ClaudePath is the claude CLI binary for the claude provider
	ClaudePath string `yaml:"claude_path"`
}

// Config represents adhdscreen configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is where serve mode writes its log files
	LogDir string `yaml:"log_dir"`

	// Catalog is a scale catalog file replacing the built-in one
	Catalog string `yaml:"catalog"`

	// Output is where the share summary is saved after a run (empty = not saved)
	Output string `yaml:"output"`

	// Analysis contains interpretation settings
	Analysis AnalysisConfig `yaml:"analysis"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		LogDir:   filepath.Join(".adhdscreen", "logs"),
		Analysis: AnalysisConfig{
			Enabled:    true,
			Provider:   summary.ProviderGemini,
			Timeout:    summary.DefaultTimeout,
			ClaudePath: "claude",
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations are strings in YAML
	type yamlAnalysis struct {
		Enabled    *bool  `yaml:"enabled"`
		Provider   string `yaml:"provider"`
		Model      string `yaml:"model"`
		Timeout    string `yaml:"timeout"`
		APIKeyEnv  string `yaml:"api_key_env"`
		ClaudePath string `yaml:"claude_path"`
	}
	type yamlConfig struct {
		LogLevel string        `yaml:"log_level"`
		LogDir   string        `yaml:"log_dir"`
		Catalog  string        `yaml:"catalog"`
		Output   string        `yaml:"output"`
		Analysis *yamlAnalysis `yaml:"analysis"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}
	if yamlCfg.Catalog != "" {
		cfg.Catalog = resolve(path, yamlCfg.Catalog)
	}
	if yamlCfg.Output != "" {
		cfg.Output = yamlCfg.Output
	}

	if a := yamlCfg.Analysis; a != nil {
		if a.Enabled != nil {
			cfg.Analysis.Enabled = *a.Enabled
		}
		if a.Provider != "" {
			cfg.Analysis.Provider = a.Provider
		}
		if a.Model != "" {
			cfg.Analysis.Model = a.Model
		}
		if a.Timeout != "" {
			timeout, err := time.ParseDuration(a.Timeout)
			if err != nil {
				return nil, fmt.Errorf("invalid analysis.timeout format %q: %w", a.Timeout, err)
			}
			cfg.Analysis.Timeout = timeout
		}
		if a.APIKeyEnv != "" {
			cfg.Analysis.APIKeyEnv = a.APIKeyEnv
		}
		if a.ClaudePath != "" {
			cfg.Analysis.ClaudePath = a.ClaudePath
		}
	}

	return cfg, nil
}

// resolve interprets a relative catalog path against the config file's directory.
func resolve(configPath, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}

// LoadConfigFromDir loads configuration from .adhdscreen/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".adhdscreen", "config.yaml"))
}

// Flags carries CLI overrides. Nil fields leave the configuration unchanged.
type Flags struct {
	LogLevel *string
	Catalog  *string
	Output   *string
	Analysis *bool
	Provider *string
	Model    *string
	Timeout  *time.Duration
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(f Flags) {
	if f.LogLevel != nil {
		c.LogLevel = *f.LogLevel
	}
	if f.Catalog != nil {
		c.Catalog = *f.Catalog
	}
	if f.Output != nil {
		c.Output = *f.Output
	}
	if f.Analysis != nil {
		c.Analysis.Enabled = *f.Analysis
	}
	if f.Provider != nil {
		c.Analysis.Provider = *f.Provider
	}
	if f.Model != nil {
		c.Analysis.Model = *f.Model
	}
	if f.Timeout != nil {
		c.Analysis.Timeout = *f.Timeout
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	validLevel := false
	for _, l := range logger.ValidLevels() {
		if c.LogLevel == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log_level %q, must be one of: %s", c.LogLevel, strings.Join(logger.ValidLevels(), ", "))
	}

	validProvider := false
	for _, p := range summary.ProviderNames() {
		if strings.ToLower(c.Analysis.Provider) == p {
			validProvider = true
			break
		}
	}
	if !validProvider {
		return fmt.Errorf("invalid analysis.provider %q, must be one of: %s", c.Analysis.Provider, strings.Join(summary.ProviderNames(), ", "))
	}

	if c.Analysis.Timeout < 0 {
		return fmt.Errorf("analysis.timeout must be >= 0, got %v", c.Analysis.Timeout)
	}

	if c.Analysis.Enabled && strings.ToLower(c.Analysis.Provider) == summary.ProviderClaude && c.Analysis.ClaudePath == "" {
		return fmt.Errorf("analysis.claude_path cannot be empty when the claude provider is enabled")
	}

	return nil
}

// AnalysisActive reports whether an interpretation provider should be built.
func (c *Config) AnalysisActive() bool {
	return c.Analysis.Enabled && strings.ToLower(c.Analysis.Provider) != summary.ProviderNone
}

// ProviderOptions converts the analysis settings for summary.NewProvider.
func (c *Config) ProviderOptions() summary.ProviderOptions {
	return summary.ProviderOptions{
		Name:       c.Analysis.Provider,
		Model:      c.Analysis.Model,
		APIKeyEnv:  c.Analysis.APIKeyEnv,
		ClaudePath: c.Analysis.ClaudePath,
	}
}
