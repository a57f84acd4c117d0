// Package config loads server configuration from environment variables and
// an optional YAML file, with the AUDITOR_ prefix.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable of the server and the audit pipeline.
type Config struct {
	Port    string `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"`
	DataDir string `mapstructure:"data_dir"`

	AllowedOrigins []string `mapstructure:"allowed_origins"`

	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	CacheSize    int           `mapstructure:"cache_size"`
	RobotsTTL    time.Duration `mapstructure:"robots_ttl"`
	RobotsSize   int           `mapstructure:"robots_size"`

	CheckLinks    bool `mapstructure:"check_links"`
	MaxLinkChecks int  `mapstructure:"max_link_checks"`

	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst float64 `mapstructure:"rate_limit_burst"`

	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`
}

// Load reads configuration with precedence: defaults, then the config file
// named by AUDITOR_CONFIG (if any), then AUDITOR_* environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", "8082")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("data_dir", "data")
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("fetch_timeout", 15*time.Second)
	v.SetDefault("cache_ttl", 30*time.Minute)
	v.SetDefault("cache_size", 1000)
	v.SetDefault("robots_ttl", time.Hour)
	v.SetDefault("robots_size", 1000)
	v.SetDefault("check_links", false)
	v.SetDefault("max_link_checks", 50)
	v.SetDefault("rate_limit", 2.0)
	v.SetDefault("rate_limit_burst", 5.0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", true)

	v.SetEnvPrefix("AUDITOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
