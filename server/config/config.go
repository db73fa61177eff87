// Package config loads the optional studyhelper.yaml settings file and
// applies defaults so the binary runs with no configuration at all.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// Config holds the runtime configuration. Flags override file values;
// the Gemini credential itself always comes from the environment.
type Config struct {
	// Provider selects the model backend: "gemini" or "ollama".
	Provider string `yaml:"provider"`

	// Model is the model name passed to the provider.
	Model string `yaml:"model"`

	// OllamaURL is the base URL of the Ollama API (ollama provider only).
	OllamaURL string `yaml:"ollama_url"`

	// WebAddr is the listen address of the web UI, e.g. ":8081".
	WebAddr string `yaml:"web_addr"`

	// PromptStyle selects the prompt phrasing: "study" or "compact".
	PromptStyle string `yaml:"prompt_style"`

	// RequestTimeoutSeconds bounds one whole pipeline invocation.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Provider:              ProviderGemini,
		Model:                 "gemini-2.0-flash",
		OllamaURL:             "http://localhost:11434",
		WebAddr:               ":8081",
		PromptStyle:           "study",
		RequestTimeoutSeconds: 300,
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOllama:
	default:
		return fmt.Errorf("config: unknown provider %q (want %s or %s)", c.Provider, ProviderGemini, ProviderOllama)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("config: request_timeout_seconds must be positive, got %d", c.RequestTimeoutSeconds)
	}
	return nil
}

// RequestTimeout returns the invocation deadline as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
