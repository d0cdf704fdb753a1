// Package config loads CLI settings from defaults, an optional YAML file,
// a .env file, and PAPERS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/henrybloomingdale/papers-cli/internal/ncbi"
	"github.com/henrybloomingdale/papers-cli/internal/observability"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "PAPERS"

// Config holds all CLI configuration.
type Config struct {
	NCBI    NCBIConfig    `mapstructure:"ncbi"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// NCBIConfig holds E-utilities client settings.
type NCBIConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	APIKey           string        `mapstructure:"api_key"`
	Tool             string        `mapstructure:"tool"`
	Email            string        `mapstructure:"email"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxResponseBytes int64         `mapstructure:"max_response_bytes"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds metrics export settings.
type MetricsConfig struct {
	// Textfile, when set, receives a Prometheus textfile dump after each run.
	Textfile string `mapstructure:"textfile"`
}

// Load reads configuration. path names an explicit YAML file; when empty,
// papers.yaml is looked up in the working directory and
// $HOME/.config/papers-cli, and a missing file is not an error.
func Load(path string) (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("papers")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "papers-cli"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.NCBI.APIKey == "" {
		cfg.NCBI.APIKey = os.Getenv("NCBI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ncbi.base_url", ncbi.DefaultBaseURL)
	v.SetDefault("ncbi.api_key", "")
	v.SetDefault("ncbi.tool", ncbi.DefaultTool)
	v.SetDefault("ncbi.email", "")
	v.SetDefault("ncbi.timeout", ncbi.DefaultTimeout.String())
	v.SetDefault("ncbi.max_response_bytes", ncbi.DefaultMaxResponseBytes)

	def := observability.DefaultLoggingConfig()
	v.SetDefault("logging.level", def.Level)
	v.SetDefault("logging.format", def.Format)

	v.SetDefault("metrics.textfile", "")
}

// Validate checks the configuration for values the client cannot use.
func (c *Config) Validate() error {
	u, err := url.Parse(c.NCBI.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid NCBI base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("NCBI base URL must be an absolute http(s) URL, got %q", c.NCBI.BaseURL)
	}
	if c.NCBI.Timeout <= 0 {
		return fmt.Errorf("NCBI timeout must be positive, got %s", c.NCBI.Timeout)
	}
	if c.NCBI.MaxResponseBytes <= 0 {
		return fmt.Errorf("max response bytes must be positive, got %d", c.NCBI.MaxResponseBytes)
	}
	if !observability.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}
	return nil
}

// ClientOptions converts the NCBI settings into base client options.
func (c *Config) ClientOptions() []ncbi.Option {
	opts := []ncbi.Option{
		ncbi.WithBaseURL(c.NCBI.BaseURL),
		ncbi.WithTool(c.NCBI.Tool),
		ncbi.WithEmail(c.NCBI.Email),
		ncbi.WithTimeout(c.NCBI.Timeout),
		ncbi.WithMaxResponseBytes(c.NCBI.MaxResponseBytes),
	}
	if c.NCBI.APIKey != "" {
		opts = append(opts, ncbi.WithAPIKey(c.NCBI.APIKey))
	}
	return opts
}
