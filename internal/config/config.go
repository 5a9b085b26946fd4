// Package config provides configuration loading for the resume builder.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds the runtime settings for the server. Values come from an
// optional JSON file, then the environment, then CLI flags; later sources
// win.
type Config struct {
	DatabaseURL  string `json:"database_url,omitempty"`   // PostgreSQL connection URL
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Gemini API key
	Port         int    `json:"port,omitempty"`           // HTTP listen port
	MaxFileSize  int64  `json:"max_file_size,omitempty"`  // Upload cap in bytes
	ChromePath   string `json:"chrome_path,omitempty"`    // Chrome binary for PDF rendering
	HistoryLimit int    `json:"history_limit,omitempty"`  // Default history listing size
}

// Default returns the built-in settings used when nothing else is provided.
func Default() Config {
	return Config{
		Port:         8080,
		MaxFileSize:  10 * 1024 * 1024,
		HistoryLimit: 50,
	}
}

// LoadFile loads configuration from a JSON file.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads the environment overrides. Malformed numeric values are an
// error rather than silently ignored.
func FromEnv() (Config, error) {
	var cfg Config
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.ChromePath = os.Getenv("CHROME_PATH")

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("MAX_FILE_SIZE"); v != "" {
		size, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid MAX_FILE_SIZE %q: %w", v, err)
		}
		cfg.MaxFileSize = size
	}
	if v := os.Getenv("HISTORY_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid HISTORY_LIMIT %q: %w", v, err)
		}
		cfg.HistoryLimit = limit
	}
	return cfg, nil
}

// Validate checks that the configuration can actually run the server.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: database URL is required (set DATABASE_URL)")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("config error: Gemini API key is required (set GEMINI_API_KEY)")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: port %d is out of range", c.Port)
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("config error: max file size must be non-negative")
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("config error: history limit must be non-negative")
	}
	return nil
}

// Merge returns a new Config with unset fields filled from defaults.
func (c *Config) Merge(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxFileSize == 0 {
		result.MaxFileSize = defaults.MaxFileSize
	}
	if result.HistoryLimit == 0 {
		result.HistoryLimit = defaults.HistoryLimit
	}

	return result
}
