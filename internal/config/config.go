// Package config loads the service configuration from a YAML file and
// applies defaults for anything the file leaves out.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the resolved service configuration.
type Config struct {
	ListenAddr string    `yaml:"listen_addr"`
	AuditDB    string    `yaml:"audit_db"`
	CatalogDir string    `yaml:"catalog_dir"`
	Generator  Generator `yaml:"generator"`
}

// Generator selects and configures the strategist generation capability.
type Generator struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		ListenAddr: ":8000",
		Generator: Generator{
			Provider:  "mock",
			APIKeyEnv: "CHATBRAIN_GENERATOR_API_KEY",
		},
	}
}

// Load reads and validates a YAML config file. An empty path yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = Default().ListenAddr
	}
	switch cfg.Generator.Provider {
	case "", "mock":
		cfg.Generator.Provider = "mock"
	case "http":
	default:
		return Config{}, fmt.Errorf("%s: generator.provider must be mock or http, got %q", path, cfg.Generator.Provider)
	}
	if cfg.Generator.APIKeyEnv == "" {
		cfg.Generator.APIKeyEnv = Default().Generator.APIKeyEnv
	}
	return cfg, nil
}

// APIKey resolves the generator API key from the configured environment
// variable.
func (g Generator) APIKey() string {
	return os.Getenv(g.APIKeyEnv)
}
