// Package config holds the application's root configuration, loaded once
// from Viper and shared as a singleton.
package config

import (
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/socialine-cli/internal/humanoid"
)

var (
	instance *Config
	mu       sync.RWMutex
)

// Config is the root configuration structure for the entire application.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	Platform PlatformConfig `mapstructure:"platform"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Vault    VaultConfig    `mapstructure:"vault"`
}

// ColorConfig defines console colors per log level.
type ColorConfig struct {
	Debug string `mapstructure:"debug"`
	Info  string `mapstructure:"info"`
	Warn  string `mapstructure:"warn"`
	Error string `mapstructure:"error"`
	Fatal string `mapstructure:"fatal"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level"`
	Format      string      `mapstructure:"format"`
	AddSource   bool        `mapstructure:"add_source"`
	ServiceName string      `mapstructure:"service_name"`
	LogFile     string      `mapstructure:"log_file"`
	MaxSize     int         `mapstructure:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups"`
	MaxAge      int         `mapstructure:"max_age"`
	Compress    bool        `mapstructure:"compress"`
	Colors      ColorConfig `mapstructure:"colors"`
}

// PostgresConfig holds settings for the database connection.
type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

// BrowserConfig holds settings for the headless browser process.
type BrowserConfig struct {
	Headless          bool              `mapstructure:"headless"`
	IgnoreTLSErrors   bool              `mapstructure:"ignore_tls_errors"`
	UserAgent         string            `mapstructure:"user_agent"`
	Headers           map[string]string `mapstructure:"headers"`
	ViewportWidth     int               `mapstructure:"viewport_width"`
	ViewportHeight    int               `mapstructure:"viewport_height"`
	NavigationTimeout time.Duration     `mapstructure:"navigation_timeout"`
	ActionTimeout     time.Duration     `mapstructure:"action_timeout"`
	SettleInterval    time.Duration     `mapstructure:"settle_interval"`
}

// SelectorsConfig overrides the built-in element candidate lists. Empty
// lists fall back to the platform defaults, so supporting a new UI variant
// is a config change, not a code change.
type SelectorsConfig struct {
	LoggedIn     []string `mapstructure:"logged_in"`
	Like         []string `mapstructure:"like"`
	CommentInput []string `mapstructure:"comment_input"`
	Follow       []string `mapstructure:"follow"`
}

// PlatformConfig holds settings for the target platform.
type PlatformConfig struct {
	HomeURL      string          `mapstructure:"home_url"`
	ProfileURL   string          `mapstructure:"profile_url"`
	Domains      []string        `mapstructure:"domains"`
	LoginMarkers []string        `mapstructure:"login_markers"`
	Selectors    SelectorsConfig `mapstructure:"selectors"`
}

// EngineConfig holds settings for the dispatcher and batch runner.
type EngineConfig struct {
	MaxBatchSize int             `mapstructure:"max_batch_size"`
	SessionTTL   time.Duration   `mapstructure:"session_ttl"`
	Humanoid     humanoid.Config `mapstructure:"humanoid"`
}

// VaultConfig holds the credential vault key material.
type VaultConfig struct {
	// Key is the hex encoding of a 32 byte AES key.
	Key string `mapstructure:"key"`
}

// SetDefaults registers defaults so the app can run with a minimal config.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "socialine-cli")
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("browser.headers", map[string]string{
		"Accept-Language": "en-US,en;q=0.9",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Cache-Control":   "no-cache",
		"Pragma":          "no-cache",
	})
	v.SetDefault("browser.viewport_width", 1366)
	v.SetDefault("browser.viewport_height", 768)
	v.SetDefault("browser.navigation_timeout", 30*time.Second)
	v.SetDefault("browser.action_timeout", 15*time.Second)
	v.SetDefault("browser.settle_interval", 2*time.Second)

	v.SetDefault("platform.home_url", "https://www.facebook.com/")
	v.SetDefault("platform.profile_url", "https://www.facebook.com/me")
	v.SetDefault("platform.domains", []string{"facebook.com", "www.facebook.com", "m.facebook.com"})
	v.SetDefault("platform.login_markers", []string{"login", "checkpoint"})

	v.SetDefault("engine.max_batch_size", 10)
	v.SetDefault("engine.session_ttl", 24*time.Hour)
	v.SetDefault("engine.humanoid.enabled", true)
	v.SetDefault("engine.humanoid.jitter_fraction", 0.25)
	v.SetDefault("engine.humanoid.typing_mean_ms", 80)
	v.SetDefault("engine.humanoid.typing_std_ms", 30)
}

// Validate checks the loaded configuration for unusable values.
func (c *Config) Validate() error {
	if c.Vault.Key != "" {
		key, err := hex.DecodeString(c.Vault.Key)
		if err != nil {
			return fmt.Errorf("vault.key is not valid hex: %w", err)
		}
		if len(key) != 32 {
			return fmt.Errorf("vault.key must decode to 32 bytes, got %d", len(key))
		}
	}
	if c.Engine.MaxBatchSize <= 0 || c.Engine.MaxBatchSize > 10 {
		return fmt.Errorf("engine.max_batch_size must be in [1,10], got %d", c.Engine.MaxBatchSize)
	}
	if c.Browser.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be positive")
	}
	if len(c.Platform.Domains) == 0 {
		return fmt.Errorf("platform.domains must not be empty")
	}
	return nil
}

// Load unmarshals the viper state into the singleton.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	Set(&cfg)
	return &cfg, nil
}

// Set stores the configuration globally.
func Set(cfg *Config) {
	mu.Lock()
	instance = cfg
	mu.Unlock()
}

// Get returns the loaded configuration instance.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("configuration not initialized; call config.Load first")
	}
	return instance
}
