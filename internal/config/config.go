// Package config loads and validates resolver configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every configuration knob loaded via Viper.
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// CatalogConfig points at the tabular dataset and its metadata summary.
type CatalogConfig struct {
	Input   string `mapstructure:"input"`
	Output  string `mapstructure:"output"`
	Summary string `mapstructure:"summary"`
}

// ResolverConfig governs candidate selection and the worker pool.
// The acceptance threshold and size tiers are empirically chosen defaults,
// not derived values; keep them tunable.
type ResolverConfig struct {
	Workers          int      `mapstructure:"workers"`
	AcceptScore      int      `mapstructure:"accept_score"`
	ProbeLimit       int      `mapstructure:"probe_limit"`
	MaxImageElements int      `mapstructure:"max_image_elements"`
	MinImageBytes    int64    `mapstructure:"min_image_bytes"`
	SizeBonusLarge   int64    `mapstructure:"size_bonus_large_bytes"`
	SizeBonusMedium  int64    `mapstructure:"size_bonus_medium_bytes"`
	SizeBonusSmall   int64    `mapstructure:"size_bonus_small_bytes"`
	BlockedDomains   []string `mapstructure:"blocked_domains"`
}

// HTTPConfig configures the two outbound request profiles.
type HTTPConfig struct {
	UserAgent           string  `mapstructure:"user_agent"`
	FetchTimeoutSeconds int     `mapstructure:"fetch_timeout_seconds"`
	ProbeTimeoutSeconds int     `mapstructure:"probe_timeout_seconds"`
	ProbeHostQPS        float64 `mapstructure:"probe_host_qps"`
}

// MetricsConfig controls the optional Prometheus scrape endpoint. An empty
// listen address disables it; counters are still gathered and logged at the
// end of every run.
type MetricsConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RESOLVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.input", "data/catalog.csv")
	v.SetDefault("catalog.output", "data/catalog.csv")
	v.SetDefault("catalog.summary", "data/metadata.json")
	v.SetDefault("resolver.workers", 4)
	v.SetDefault("resolver.accept_score", 20)
	v.SetDefault("resolver.probe_limit", 16)
	v.SetDefault("resolver.max_image_elements", 80)
	v.SetDefault("resolver.min_image_bytes", 4096)
	v.SetDefault("resolver.size_bonus_large_bytes", 250*1024)
	v.SetDefault("resolver.size_bonus_medium_bytes", 80*1024)
	v.SetDefault("resolver.size_bonus_small_bytes", 12*1024)
	v.SetDefault("resolver.blocked_domains", []string{})
	v.SetDefault("http.user_agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	v.SetDefault("http.fetch_timeout_seconds", 15)
	v.SetDefault("http.probe_timeout_seconds", 12)
	v.SetDefault("http.probe_host_qps", 4.0)
	v.SetDefault("metrics.listen_addr", "")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Catalog.Input == "" {
		return fmt.Errorf("catalog.input must be set")
	}
	if c.Catalog.Output == "" {
		return fmt.Errorf("catalog.output must be set")
	}
	if c.Resolver.Workers <= 0 {
		return fmt.Errorf("resolver.workers must be > 0")
	}
	if c.Resolver.ProbeLimit <= 0 {
		return fmt.Errorf("resolver.probe_limit must be > 0")
	}
	if c.Resolver.MaxImageElements <= 0 {
		return fmt.Errorf("resolver.max_image_elements must be > 0")
	}
	if c.Resolver.MinImageBytes < 0 {
		return fmt.Errorf("resolver.min_image_bytes must be >= 0")
	}
	if c.HTTP.UserAgent == "" {
		return fmt.Errorf("http.user_agent must be set")
	}
	if c.HTTP.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("http.fetch_timeout_seconds must be > 0")
	}
	if c.HTTP.ProbeTimeoutSeconds <= 0 {
		return fmt.Errorf("http.probe_timeout_seconds must be > 0")
	}
	if c.HTTP.ProbeHostQPS <= 0 {
		return fmt.Errorf("http.probe_host_qps must be > 0")
	}
	return nil
}

// FetchTimeout returns the document fetch deadline as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.FetchTimeoutSeconds) * time.Second
}

// ProbeTimeout returns the probe request deadline as a duration.
func (c Config) ProbeTimeout() time.Duration {
	return time.Duration(c.HTTP.ProbeTimeoutSeconds) * time.Second
}
