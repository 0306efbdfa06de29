package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogDir != filepath.Join(".adhdscreen", "logs") {
		t.Errorf("LogDir = %q, want .adhdscreen/logs", cfg.LogDir)
	}
	if !cfg.Analysis.Enabled {
		t.Error("Analysis.Enabled = false, want true")
	}
	if cfg.Analysis.Provider != "gemini" {
		t.Errorf("Analysis.Provider = %q, want gemini", cfg.Analysis.Provider)
	}
	if cfg.Analysis.Timeout != 60*time.Second {
		t.Errorf("Analysis.Timeout = %v, want 60s", cfg.Analysis.Timeout)
	}
	if cfg.Catalog != "" || cfg.Output != "" {
		t.Errorf("Catalog/Output should be empty by default, got %q/%q", cfg.Catalog, cfg.Output)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

// TestLoadConfigValidFile tests loading a complete YAML config file
func TestLoadConfigValidFile(t *testing.T) {
	path := writeConfig(t, `log_level: debug
log_dir: /tmp/logs
catalog: scales.yaml
output: summary.txt
analysis:
  enabled: false
  provider: openai
  model: gpt-4o-mini
  timeout: 15s
  api_key_env: MY_KEY
  claude_path: /usr/local/bin/claude
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.LogDir != "/tmp/logs" {
		t.Errorf("LogDir = %q, want /tmp/logs", cfg.LogDir)
	}
	if want := filepath.Join(filepath.Dir(path), "scales.yaml"); cfg.Catalog != want {
		t.Errorf("Catalog = %q, want %q", cfg.Catalog, want)
	}
	if cfg.Output != "summary.txt" {
		t.Errorf("Output = %q, want summary.txt", cfg.Output)
	}
	if cfg.Analysis.Enabled {
		t.Error("Analysis.Enabled = true, want false")
	}
	if cfg.Analysis.Provider != "openai" {
		t.Errorf("Analysis.Provider = %q, want openai", cfg.Analysis.Provider)
	}
	if cfg.Analysis.Model != "gpt-4o-mini" {
		t.Errorf("Analysis.Model = %q", cfg.Analysis.Model)
	}
	if cfg.Analysis.Timeout != 15*time.Second {
		t.Errorf("Analysis.Timeout = %v, want 15s", cfg.Analysis.Timeout)
	}
	if cfg.Analysis.APIKeyEnv != "MY_KEY" {
		t.Errorf("Analysis.APIKeyEnv = %q", cfg.Analysis.APIKeyEnv)
	}
	if cfg.Analysis.ClaudePath != "/usr/local/bin/claude" {
		t.Errorf("Analysis.ClaudePath = %q", cfg.Analysis.ClaudePath)
	}
}

// TestLoadConfigPartial keeps defaults for omitted keys
func TestLoadConfigPartial(t *testing.T) {
	path := writeConfig(t, `analysis:
  provider: claude
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.Analysis.Enabled {
		t.Error("omitted analysis.enabled should keep the default")
	}
	if cfg.Analysis.Timeout != 60*time.Second {
		t.Errorf("Analysis.Timeout = %v, want default", cfg.Analysis.Timeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadConfigAbsoluteCatalog(t *testing.T) {
	path := writeConfig(t, "catalog: /etc/adhdscreen/scales.yaml\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Catalog != "/etc/adhdscreen/scales.yaml" {
		t.Errorf("Catalog = %q", cfg.Catalog)
	}
}

// TestLoadConfigMissingFile returns defaults
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected defaults, got LogLevel %q", cfg.LogLevel)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed yaml", "log_level: [unclosed", "failed to parse config file"},
		{"bad timeout", "analysis:\n  timeout: soon\n", "invalid analysis.timeout format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigFromDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".adhdscreen"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".adhdscreen", "config.yaml"), []byte("log_level: warn\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFromDir(dir)
	if err != nil {
		t.Fatalf("LoadConfigFromDir() error = %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

// TestMergeWithFlags verifies flags win over file values and nil flags are ignored
func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = "from-file.txt"

	level := "trace"
	off := false
	provider := "none"
	timeout := 5 * time.Second
	cfg.MergeWithFlags(Flags{
		LogLevel: &level,
		Analysis: &off,
		Provider: &provider,
		Timeout:  &timeout,
	})

	if cfg.LogLevel != "trace" {
		t.Errorf("LogLevel = %q, want trace", cfg.LogLevel)
	}
	if cfg.Analysis.Enabled {
		t.Error("Analysis.Enabled should be overridden to false")
	}
	if cfg.Analysis.Provider != "none" {
		t.Errorf("Provider = %q, want none", cfg.Analysis.Provider)
	}
	if cfg.Analysis.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Analysis.Timeout)
	}
	if cfg.Output != "from-file.txt" {
		t.Errorf("nil Output flag should keep file value, got %q", cfg.Output)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "invalid log_level"},
		{"bad provider", func(c *Config) { c.Analysis.Provider = "oracle" }, "invalid analysis.provider"},
		{"provider case-insensitive", func(c *Config) { c.Analysis.Provider = "OpenAI" }, ""},
		{"negative timeout", func(c *Config) { c.Analysis.Timeout = -time.Second }, "analysis.timeout must be >= 0"},
		{"claude without path", func(c *Config) {
			c.Analysis.Provider = "claude"
			c.Analysis.ClaudePath = ""
		}, "claude_path cannot be empty"},
		{"claude path ignored when disabled", func(c *Config) {
			c.Analysis.Enabled = false
			c.Analysis.Provider = "claude"
			c.Analysis.ClaudePath = ""
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestAnalysisActive(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.AnalysisActive() {
		t.Error("default config should request analysis")
	}
	cfg.Analysis.Provider = "none"
	if cfg.AnalysisActive() {
		t.Error("provider none disables analysis")
	}
	cfg.Analysis.Provider = "gemini"
	cfg.Analysis.Enabled = false
	if cfg.AnalysisActive() {
		t.Error("disabled analysis is inactive")
	}

	opts := DefaultConfig().ProviderOptions()
	if opts.Name != "gemini" || opts.ClaudePath != "claude" {
		t.Errorf("ProviderOptions() = %+v", opts)
	}
}
