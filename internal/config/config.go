package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	AI       AIConfig       `toml:"ai"`
	Research ResearchConfig `toml:"research"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `toml:"port"`
}

// AIConfig holds completion provider settings.
type AIConfig struct {
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ResearchConfig holds search provider settings.
type ResearchConfig struct {
	APIKey         string `toml:"api_key"`
	MaxResults     int    `toml:"max_results"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

const defaultConfigContent = `[server]
port = 8000

[ai]
api_key = ""                # Groq API key (or set GROQ_API_KEY env var)
model = "llama3-70b-8192"
timeout_seconds = 60

[research]
api_key = ""                # Tavily API key (or set TAVILY_API_KEY env var)
max_results = 5
timeout_seconds = 15
`

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. Environment
// variables override values from the file with highest priority.
//
// Both provider API keys are required: Load fails if either is missing after
// file values and environment overrides are applied.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Validate explicitly-set values before applying defaults, so that
	// explicitly writing "port = 0" is an error rather than silently
	// being replaced with the default.
	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// createDefault writes the default config content to the given path,
// creating any parent directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit checks values that were explicitly set in the TOML file.
// This catches cases like "port = 0" which would otherwise be silently
// replaced by the default value.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("server", "port") {
		if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
			return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
		}
	}
	if md.IsDefined("research", "max_results") {
		if cfg.Research.MaxResults < 1 {
			return fmt.Errorf("invalid research.max_results %d: must be >= 1", cfg.Research.MaxResults)
		}
	}
	return nil
}

// applyDefaults sets default values for any zero-valued fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "llama3-70b-8192"
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 60
	}
	if cfg.Research.MaxResults == 0 {
		cfg.Research.MaxResults = 5
	}
	if cfg.Research.TimeoutSeconds == 0 {
		cfg.Research.TimeoutSeconds = 15
	}
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables take highest priority over config file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		cfg.Research.APIKey = v
	}
}

// validate checks that configuration values are within acceptable ranges and
// that both provider credentials are present.
func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}

	if cfg.AI.APIKey == "" {
		return fmt.Errorf("ai.api_key is not set: add it to the config file or set GROQ_API_KEY")
	}
	if cfg.Research.APIKey == "" {
		return fmt.Errorf("research.api_key is not set: add it to the config file or set TAVILY_API_KEY")
	}

	return nil
}
