package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Spira   SpiraConfig   `mapstructure:"spira"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SpiraConfig holds Spira API connection details
type SpiraConfig struct {
	URL            string        `mapstructure:"url"`
	Username       string        `mapstructure:"username"`
	APIKey         string        `mapstructure:"api_key"`
	Version        string        `mapstructure:"version"`
	Timeout        time.Duration `mapstructure:"timeout"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	InsecureTLS    bool          `mapstructure:"insecure_tls"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateBurst      int           `mapstructure:"rate_burst"`
	Concurrency    int           `mapstructure:"concurrency"`
}

// FilterConfig maps preset names to requirement filter expressions
type FilterConfig map[string]string

// OutputConfig controls how results are printed
type OutputConfig struct {
	Format   string `mapstructure:"format"`
	Markdown bool   `mapstructure:"markdown"`
	Tree     bool   `mapstructure:"tree"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
