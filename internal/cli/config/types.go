// Package config provides configuration management for the reportviewer CLI.
package config

import "time"

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port          int           `koanf:"port"`
	AutoOpen      bool          `koanf:"auto_open"`
	Watch         bool          `koanf:"watch"`
	SessionSecret string        `koanf:"session_secret"`
	AlertTTL      time.Duration `koanf:"alert_ttl"`
	PageSize      int           `koanf:"page_size"`
}

// Config holds all CLI configuration options.
type Config struct {
	APIBaseURL     string        `koanf:"api_base_url"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	Verbose        bool          `koanf:"verbose"`
	OutputFormat   string        `koanf:"output"`
	UI             UIConfig      `koanf:"ui"`
}

// Default configuration values.
const (
	DefaultAPIBaseURL     = "http://localhost:7080"
	DefaultRequestTimeout = 10 * time.Second
	DefaultOutput         = "auto" // Auto-detect: TTY=table, non-TTY=markdown
	DefaultPort           = 7081
	DefaultAlertTTL       = 3 * time.Second
	DefaultPageSize       = 20
)

// Output formats accepted by the output setting and the --format flags.
const (
	FormatAuto     = "auto"
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatYAML     = "yaml"
)

// ConfigFileNames are looked up, in order, when no --config is given.
var ConfigFileNames = []string{"reportviewer.yaml", "reportviewer.yml"}

// EnvPrefix prefixes every environment variable read by the loader.
// A double underscore separates nesting levels: REPORTVIEWER_UI__PORT.
const EnvPrefix = "REPORTVIEWER_"

// Default returns a Config holding only default values.
func Default() *Config {
	return &Config{
		APIBaseURL:     DefaultAPIBaseURL,
		RequestTimeout: DefaultRequestTimeout,
		OutputFormat:   DefaultOutput,
		UI: UIConfig{
			Port:     DefaultPort,
			AutoOpen: true,
			Watch:    false,
			AlertTTL: DefaultAlertTTL,
			PageSize: DefaultPageSize,
		},
	}
}
