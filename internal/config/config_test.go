package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTestConfig is a helper that writes a TOML config file to a temp directory
// and returns its path.
func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}

// clearKeyEnv blanks the API key environment variables so values from the
// developer's shell cannot leak into tests.
func clearKeyEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("TAVILY_API_KEY", "")
}

func TestLoad_ValidConfig(t *testing.T) {
	clearKeyEnv(t)
	content := `
[server]
port = 9090

[ai]
api_key = "gsk-test-key-123"
model = "llama3-8b-8192"
timeout_seconds = 30

[research]
api_key = "tvly-test-key-456"
max_results = 3
timeout_seconds = 10
`
	path := writeTestConfig(t, content)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.AI.APIKey != "gsk-test-key-123" {
		t.Errorf("AI.APIKey = %q, want %q", cfg.AI.APIKey, "gsk-test-key-123")
	}
	if cfg.AI.Model != "llama3-8b-8192" {
		t.Errorf("AI.Model = %q, want %q", cfg.AI.Model, "llama3-8b-8192")
	}
	if cfg.AI.TimeoutSeconds != 30 {
		t.Errorf("AI.TimeoutSeconds = %d, want %d", cfg.AI.TimeoutSeconds, 30)
	}
	if cfg.Research.APIKey != "tvly-test-key-456" {
		t.Errorf("Research.APIKey = %q, want %q", cfg.Research.APIKey, "tvly-test-key-456")
	}
	if cfg.Research.MaxResults != 3 {
		t.Errorf("Research.MaxResults = %d, want %d", cfg.Research.MaxResults, 3)
	}
	if cfg.Research.TimeoutSeconds != 10 {
		t.Errorf("Research.TimeoutSeconds = %d, want %d", cfg.Research.TimeoutSeconds, 10)
	}
}

func TestLoad_MissingFile_CreatesDefault(t *testing.T) {
	clearKeyEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	// The default config has no API keys, so Load must fail -- but the file
	// should still be created for the user to fill in.
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for default config without API keys, got nil")
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config file not created at %q: %v", path, err)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	clearKeyEnv(t)
	content := `
[ai]
api_key = "gsk-test"

[research]
api_key = "tvly-test"
`
	path := writeTestConfig(t, content)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want default %d", cfg.Server.Port, 8000)
	}
	if cfg.AI.Model != "llama3-70b-8192" {
		t.Errorf("AI.Model = %q, want default %q", cfg.AI.Model, "llama3-70b-8192")
	}
	if cfg.AI.TimeoutSeconds != 60 {
		t.Errorf("AI.TimeoutSeconds = %d, want default %d", cfg.AI.TimeoutSeconds, 60)
	}
	if cfg.Research.MaxResults != 5 {
		t.Errorf("Research.MaxResults = %d, want default %d", cfg.Research.MaxResults, 5)
	}
	if cfg.Research.TimeoutSeconds != 15 {
		t.Errorf("Research.TimeoutSeconds = %d, want default %d", cfg.Research.TimeoutSeconds, 15)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	content := `
[ai]
api_key = "from-config"

[research]
api_key = "from-config"
`
	path := writeTestConfig(t, content)
	t.Setenv("GROQ_API_KEY", "from-env-groq")
	t.Setenv("TAVILY_API_KEY", "from-env-tavily")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	if cfg.AI.APIKey != "from-env-groq" {
		t.Errorf("AI.APIKey = %q, want %q (GROQ_API_KEY should override config)", cfg.AI.APIKey, "from-env-groq")
	}
	if cfg.Research.APIKey != "from-env-tavily" {
		t.Errorf("Research.APIKey = %q, want %q (TAVILY_API_KEY should override config)", cfg.Research.APIKey, "from-env-tavily")
	}
}

func TestLoad_EnvOnly(t *testing.T) {
	content := `
[server]
port = 8000
`
	path := writeTestConfig(t, content)
	t.Setenv("GROQ_API_KEY", "env-groq")
	t.Setenv("TAVILY_API_KEY", "env-tavily")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) unexpected error: %v", path, err)
	}

	if cfg.AI.APIKey != "env-groq" {
		t.Errorf("AI.APIKey = %q, want %q", cfg.AI.APIKey, "env-groq")
	}
}

func TestLoad_MissingAPIKeys(t *testing.T) {
	clearKeyEnv(t)
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing groq key",
			content: `
[research]
api_key = "tvly-test"
`,
		},
		{
			name: "missing tavily key",
			content: `
[ai]
api_key = "gsk-test"
`,
		},
		{
			name:    "missing both",
			content: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestConfig(t, tt.content)

			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load(%q) expected error, got nil", path)
			}
		})
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	clearKeyEnv(t)
	tests := []struct {
		name string
		port string
	}{
		{name: "zero", port: "0"},
		{name: "negative", port: "-1"},
		{name: "too high", port: "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := `
[server]
port = ` + tt.port + `

[ai]
api_key = "gsk-test"

[research]
api_key = "tvly-test"
`
			path := writeTestConfig(t, content)

			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load(%q) expected error for port %s, got nil", path, tt.port)
			}
		})
	}
}

func TestLoad_InvalidMaxResults(t *testing.T) {
	clearKeyEnv(t)
	content := `
[ai]
api_key = "gsk-test"

[research]
api_key = "tvly-test"
max_results = 0
`
	path := writeTestConfig(t, content)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for max_results = 0, got nil")
	}
}
