package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// Platform identifies the runtime the portal binary was built for. The
// backend is reached on a different address per platform because mobile
// emulators alias the host loopback differently.
const (
	PlatformAndroid = "android"
	PlatformIOS     = "ios"
	PlatformDefault = "default"
)

type APIConfig struct {
	BaseURLs       map[string]string `mapstructure:"base_urls"`
	TimeoutSeconds int               `mapstructure:"timeout_seconds" default:"30"`
	UseMeEndpoints bool              `mapstructure:"use_me_endpoints"`
	MockMode       bool              `mapstructure:"mock_mode" envconfig:"MOCK_MODE"`
	RateLimit      RateLimitConfig   `mapstructure:"rate_limit"`
	Breaker        BreakerConfig     `mapstructure:"breaker"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"10"`
	Burst             int     `mapstructure:"burst" default:"20"`
}

type BreakerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxFailures int           `mapstructure:"max_failures" default:"5"`
	Cooldown    time.Duration `mapstructure:"cooldown" default:"30s"`
}

type CacheConfig struct {
	ListStaleness      time.Duration `mapstructure:"list_staleness" default:"5s"`
	AggregateStaleness time.Duration `mapstructure:"aggregate_staleness" default:"30s"`
	CleanupInterval    time.Duration `mapstructure:"cleanup_interval" default:"1m"`
	RedisURL           string        `mapstructure:"redis_url" envconfig:"REDIS_URL"`
}

type TokenConfig struct {
	Dir        string `mapstructure:"dir" envconfig:"TOKEN_DIR"`
	Passphrase string `mapstructure:"passphrase" envconfig:"TOKEN_PASSPHRASE"`
}

type SessionConfig struct {
	SettleDelay   time.Duration `mapstructure:"settle_delay" default:"200ms"`
	GuardDebounce time.Duration `mapstructure:"guard_debounce" default:"150ms"`
}

type Config struct {
	Platform string        `mapstructure:"platform" envconfig:"PLATFORM"`
	API      APIConfig     `mapstructure:"api"`
	Cache    CacheConfig   `mapstructure:"cache"`
	Token    TokenConfig   `mapstructure:"token"`
	Session  SessionConfig `mapstructure:"session"`
}

// defaultBaseURLs mirrors the per-platform map the app ships with. Android
// emulators reach the host through 10.0.2.2.
func defaultBaseURLs() map[string]string {
	return map[string]string{
		PlatformAndroid: "http://10.0.2.2:3000",
		PlatformIOS:     "http://127.0.0.1:3000",
		PlatformDefault: "http://localhost:3000",
	}
}

// Load reads the optional YAML config file, then applies CLINIC_* env
// overrides on top.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	cfg := Default()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		if err := viper.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := envconfig.Process("clinic", cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Default returns a config with every knob at its shipped default.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Platform == "" {
		c.Platform = PlatformDefault
	}
	if len(c.API.BaseURLs) == 0 {
		c.API.BaseURLs = defaultBaseURLs()
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = 30
	}
	if c.API.RateLimit.RequestsPerSecond <= 0 {
		c.API.RateLimit.RequestsPerSecond = 10
	}
	if c.API.RateLimit.Burst <= 0 {
		c.API.RateLimit.Burst = 20
	}
	if c.API.Breaker.MaxFailures <= 0 {
		c.API.Breaker.MaxFailures = 5
	}
	if c.API.Breaker.Cooldown <= 0 {
		c.API.Breaker.Cooldown = 30 * time.Second
	}
	if c.Cache.ListStaleness <= 0 {
		c.Cache.ListStaleness = 5 * time.Second
	}
	if c.Cache.AggregateStaleness <= 0 {
		c.Cache.AggregateStaleness = 30 * time.Second
	}
	if c.Cache.CleanupInterval <= 0 {
		c.Cache.CleanupInterval = time.Minute
	}
	if c.Session.SettleDelay <= 0 {
		c.Session.SettleDelay = 200 * time.Millisecond
	}
	if c.Session.GuardDebounce <= 0 {
		c.Session.GuardDebounce = 150 * time.Millisecond
	}
}

// BaseURL resolves the backend address for the configured platform,
// falling back to the generic default entry.
func (c *Config) BaseURL() string {
	if url, ok := c.API.BaseURLs[c.Platform]; ok && url != "" {
		return url
	}
	if url, ok := c.API.BaseURLs[PlatformDefault]; ok && url != "" {
		return url
	}
	return "http://localhost:3000"
}

// Timeout is the default request timeout for all API calls.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}
