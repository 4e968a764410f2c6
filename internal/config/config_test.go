package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8844, cfg.Server.Port)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 0.8, cfg.Transcript.OverlapThreshold)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	for _, path := range []string{"", filepath.Join(t.TempDir(), "absent.toml")} {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	path := writeConfigFile(t, `
[server]
port = 9000

[logging]
level = "debug"
format = "json"

[transcript]
overlap_threshold = 0.6

[extraction]
stoplist = ["Zoom", "Slack"]

[openai]
api_key = "sk-from-file"
model = "gpt-4o"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	// Untouched sections keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 0.6, cfg.Transcript.OverlapThreshold)
	assert.Equal(t, []string{"Zoom", "Slack"}, cfg.Extraction.Stoplist)
	assert.Equal(t, "sk-from-file", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
}

func TestLoadEnvironmentKeyWinsOverFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	path := writeConfigFile(t, `
[openai]
api_key = "sk-from-file"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.OpenAI.APIKey)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	tests := []struct {
		name    string
		content string
	}{
		{"bad port", "[server]\nport = 0\n"},
		{"bad log level", "[logging]\nlevel = \"loud\"\n"},
		{"bad log format", "[logging]\nformat = \"xml\"\n"},
		{"bad overlap threshold", "[transcript]\noverlap_threshold = 1.5\n"},
		{"empty model", "[openai]\nmodel = \"\"\n"},
		{"bad timeout", "[openai]\ntimeout_seconds = 0\n"},
		{"malformed toml", "[server\nport = 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestRedactedMasksAPIKey(t *testing.T) {
	cfg := Default()
	cfg.OpenAI.APIKey = "sk-secret"

	red := cfg.Redacted()
	assert.Equal(t, "[REDACTED]", red.OpenAI.APIKey)
	// The original is untouched.
	assert.Equal(t, "sk-secret", cfg.OpenAI.APIKey)
}
