package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration for the meetscribe service
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Logging    LoggingConfig    `toml:"logging"`
	Transcript TranscriptConfig `toml:"transcript"`
	Extraction ExtractionConfig `toml:"extraction"`
	OpenAI     OpenAIConfig     `toml:"openai"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Host                   string   `toml:"host"`
	Port                   int      `toml:"port"`
	CORSAllowedOrigins     []string `toml:"cors_allowed_origins"`
	StaticFilesDir         string   `toml:"static_files_dir"`
	ReadTimeoutSeconds     int      `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int      `toml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int      `toml:"shutdown_timeout_seconds"`
}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// TranscriptConfig represents transcript processing configuration
type TranscriptConfig struct {
	// OverlapThreshold is the lexical overlap ratio above which a sentence
	// is discarded as a near-duplicate during post-recording cleanup.
	OverlapThreshold float64 `toml:"overlap_threshold"`
}

// ExtractionConfig represents heuristic extraction configuration
type ExtractionConfig struct {
	// Stoplist replaces the default list of capitalized words that are never
	// treated as participant names. Leave empty to keep the built-in list.
	Stoplist []string `toml:"stoplist"`
}

// OpenAIConfig represents the OpenAI extraction client configuration
type OpenAIConfig struct {
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
	SystemPrompt   string `toml:"system_prompt"`
}

// Default returns a configuration populated with default values
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                   "0.0.0.0",
			Port:                   8844,
			CORSAllowedOrigins:     []string{"*"},
			ReadTimeoutSeconds:     30,
			WriteTimeoutSeconds:    120,
			ShutdownTimeoutSeconds: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Transcript: TranscriptConfig{
			OverlapThreshold: 0.8,
		},
		OpenAI: OpenAIConfig{
			APIKey:         os.Getenv("OPENAI_API_KEY"),
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 45,
			MaxRetries:     2,
		},
	}
}

// Load reads the TOML file at path on top of the defaults. A missing file is
// not an error; the defaults are returned so the service can run with only
// environment-provided settings.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, cfg.Validate()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, cfg.Validate()
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// Environment always wins for the API key so secrets stay out of files.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAI.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	if c.Transcript.OverlapThreshold <= 0 || c.Transcript.OverlapThreshold > 1 {
		return fmt.Errorf("transcript overlap_threshold must be in (0,1], got %v", c.Transcript.OverlapThreshold)
	}

	if c.OpenAI.Model == "" {
		return fmt.Errorf("openai model must not be empty")
	}

	if c.OpenAI.TimeoutSeconds <= 0 {
		return fmt.Errorf("openai timeout_seconds must be positive, got %d", c.OpenAI.TimeoutSeconds)
	}

	return nil
}

// Redacted returns a copy of the configuration safe to expose over the API
func (c *Config) Redacted() *Config {
	out := *c
	if out.OpenAI.APIKey != "" {
		out.OpenAI.APIKey = "[REDACTED]"
	}
	return &out
}
