/*
Package config provides configuration management for the reporter.

PURPOSE:
  One Config struct for everything the CLI and server need: upstream API
  connection, engine pacing, archive location, and server address. Loaded
  through viper with CLI flags > environment > config file > defaults
  precedence.

SECRETS:
  The upstream API token is environment-only (LOYALTY_API_TOKEN). Config
  files carrying a token are rejected so credentials never land in
  version control.

SEE ALSO:
  - loyalty/client.go: Consumes the upstream connection settings
  - generic/run.go: Consumes the engine pacing settings
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting.
type Config struct {
	// Upstream API connection.
	BaseURL    string
	Token      string
	APIVersion string
	Timeout    time.Duration

	// Engine pacing.
	PerPage     int
	MaxPages    int
	PageDelay   time.Duration
	DetailDelay time.Duration

	// Outputs.
	OutputDir string
	DBPath    string

	// Server.
	Listen string

	// Logging.
	LogLevel string
}

// Default returns configuration with default values.
func Default() *Config {
	return &Config{
		BaseURL:     "https://ca.kognitivloyalty.com/api",
		APIVersion:  "2025.3",
		Timeout:     30 * time.Second,
		PerPage:     100,
		MaxPages:    20,
		PageDelay:   100 * time.Millisecond,
		DetailDelay: 100 * time.Millisecond,
		OutputDir:   ".",
		DBPath:      "./data/reports.db",
		Listen:      ":8080",
		LogLevel:    "info",
	}
}

// Load reads configuration from the optional config file and the
// LOYALTY_-prefixed environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("api.base_url", defaults.BaseURL)
	v.SetDefault("api.version", defaults.APIVersion)
	v.SetDefault("api.timeout", defaults.Timeout.String())
	v.SetDefault("engine.per_page", defaults.PerPage)
	v.SetDefault("engine.max_pages", defaults.MaxPages)
	v.SetDefault("engine.page_delay", defaults.PageDelay.String())
	v.SetDefault("engine.detail_delay", defaults.DetailDelay.String())
	v.SetDefault("output.dir", defaults.OutputDir)
	v.SetDefault("db.path", defaults.DBPath)
	v.SetDefault("server.listen", defaults.Listen)
	v.SetDefault("log.level", defaults.LogLevel)

	// Bind environment variables with LOYALTY_ prefix
	v.SetEnvPrefix("LOYALTY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Tokens are environment-only.
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &Config{
		BaseURL:     v.GetString("api.base_url"),
		Token:       v.GetString("api.token"),
		APIVersion:  v.GetString("api.version"),
		Timeout:     v.GetDuration("api.timeout"),
		PerPage:     v.GetInt("engine.per_page"),
		MaxPages:    v.GetInt("engine.max_pages"),
		PageDelay:   v.GetDuration("engine.page_delay"),
		DetailDelay: v.GetDuration("engine.detail_delay"),
		OutputDir:   v.GetString("output.dir"),
		DBPath:      v.GetString("db.path"),
		Listen:      v.GetString("server.listen"),
		LogLevel:    v.GetString("log.level"),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if cfg.PerPage <= 0 {
		return fmt.Errorf("engine.per_page must be positive, got %d", cfg.PerPage)
	}
	if cfg.MaxPages <= 0 {
		return fmt.Errorf("engine.max_pages must be positive, got %d", cfg.MaxPages)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %v", cfg.Timeout)
	}
	return nil
}

// validateNoSecretsInConfig enforces environment-only credentials.
func validateNoSecretsInConfig(v *viper.Viper) error {
	if v.InConfig("api.token") {
		return fmt.Errorf("API tokens not allowed in config files (use LOYALTY_API_TOKEN environment variable)")
	}
	return nil
}
