package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/spiractl/spira"
)

const placeholderAPIKey = "your-api-key-here"

// Load loads the configuration from file, .env and the environment. When
// configPath is empty a missing config file is not an error.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()

	// Set default values
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".spiractl"))
		}

		// Check /etc
		v.AddConfigPath("/etc/spiractl/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && configPath == "":
			// environment only
		case errors.As(err, &notFound), errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("config file not found: %w", err)
		default:
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Spira defaults
	v.SetDefault("spira.version", "v5_0")
	v.SetDefault("spira.timeout", spira.DefaultTimeout)
	v.SetDefault("spira.connect_timeout", spira.DefaultConnectTimeout)
	v.SetDefault("spira.insecure_tls", false)
	v.SetDefault("spira.rate_limit", 0)
	v.SetDefault("spira.rate_burst", 1)
	v.SetDefault("spira.concurrency", spira.DefaultConcurrency)

	// Output defaults
	v.SetDefault("output.format", "table")
	v.SetDefault("output.markdown", true)
	v.SetDefault("output.tree", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// bindEnv maps the conventional Spira variables onto config keys. Anything
// else can be set as SPIRACTL_<SECTION>_<KEY>.
func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix("spiractl")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string][]string{
		"spira.url":      {"SPIRACTL_SPIRA_URL", "SPIRA_API_URL", "BASE_SPIRA_URL"},
		"spira.username": {"SPIRACTL_SPIRA_USERNAME", "SPIRA_USERNAME"},
		"spira.api_key":  {"SPIRACTL_SPIRA_API_KEY", "SPIRA_API_KEY"},
		"spira.version":  {"SPIRACTL_SPIRA_VERSION", "SPIRA_VERSION"},
	}
	for key, names := range bindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Spira.URL == "" {
		return fmt.Errorf("spira.url is required (or set SPIRA_API_URL)")
	}

	if cfg.Spira.Username == "" {
		return fmt.Errorf("spira.username is required (or set SPIRA_USERNAME)")
	}

	if cfg.Spira.APIKey == "" || cfg.Spira.APIKey == placeholderAPIKey {
		return fmt.Errorf("spira.api_key must be set to a valid API key")
	}

	if _, err := spira.ParseVersion(cfg.Spira.Version); err != nil {
		return fmt.Errorf("spira.version: %w", err)
	}

	if cfg.Spira.Timeout < 0 || cfg.Spira.ConnectTimeout < 0 {
		return fmt.Errorf("spira timeouts must not be negative")
	}

	if cfg.Spira.RateLimit < 0 {
		return fmt.Errorf("spira.rate_limit must not be negative")
	}

	if cfg.Spira.Concurrency < 1 || cfg.Spira.Concurrency > spira.MaxConcurrency {
		return fmt.Errorf("spira.concurrency must be between 1 and %d", spira.MaxConcurrency)
	}

	// Validate output format
	validOutputs := map[string]bool{
		"table": true,
		"json":  true,
		"yaml":  true,
	}
	if !validOutputs[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s", cfg.Output.Format)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	for name, expr := range cfg.Filter {
		if strings.TrimSpace(expr) == "" {
			return fmt.Errorf("filter preset %q is empty", name)
		}
	}

	return nil
}
