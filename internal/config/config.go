// Package config loads suite configuration from webprobe.yaml with
// WEBPROBE_* environment overrides and hot reload.
package config

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds everything a test suite needs to wire the registry, runner
// and envelope.
type Config struct {
	Locators LocatorsConfig `mapstructure:"locators"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	Retry    RetryConfig    `mapstructure:"retry"`
	Failures FailuresConfig `mapstructure:"failures"`
}

type LocatorsConfig struct {
	// Root is the directory holding <page>.yaml locator documents.
	Root string `mapstructure:"root"`
	// Watch enables cache eviction on document edits.
	Watch bool `mapstructure:"watch"`
}

type BrowserConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Headless       bool          `mapstructure:"headless"`
	SlowMo         int           `mapstructure:"slow_mo"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
}

type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	Delay      time.Duration `mapstructure:"delay"`
}

type FailuresConfig struct {
	Screenshots   bool   `mapstructure:"screenshots"`
	ScreenshotDir string `mapstructure:"screenshot_dir"`
}

var (
	cfg *Config
	mu  sync.RWMutex
)

func defaults(v *viper.Viper) {
	v.SetDefault("locators.root", "./locators")
	v.SetDefault("locators.watch", false)
	v.SetDefault("browser.base_url", "http://localhost:8080")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.slow_mo", 0)
	v.SetDefault("browser.default_timeout", 10*time.Second)
	v.SetDefault("retry.max_retries", 3)
	v.SetDefault("retry.delay", 500*time.Millisecond)
	v.SetDefault("failures.screenshots", true)
	v.SetDefault("failures.screenshot_dir", "./test-results/screenshots")
}

// Load reads webprobe.yaml from configPath with hot reload; a missing file
// falls back to defaults plus environment overrides. The first successful
// Load wins; later calls are no-ops. A failed Load does not latch — callers
// may fix the file and retry.
func Load(configPath string) error {
	mu.Lock()
	defer mu.Unlock()
	if cfg != nil {
		return nil
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("webprobe")
	v.AddConfigPath(configPath)

	defaults(v)

	if readErr := v.ReadInConfig(); readErr != nil {
		if _, ok := readErr.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", readErr)
		}
	}

	v.SetEnvPrefix("WEBPROBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg = c

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Printf("Config file changed: %s", e.Name)
		updated := &Config{}
		if uerr := v.Unmarshal(updated); uerr != nil {
			log.Printf("Failed to reload config: %v", uerr)
			return
		}
		mu.Lock()
		cfg = updated
		mu.Unlock()
	})
	return nil
}

// Get returns the loaded configuration, loading it with defaults if Load
// was never called.
func Get() *Config {
	mu.RLock()
	c := cfg
	mu.RUnlock()
	if c != nil {
		return c
	}

	if err := Load("."); err != nil {
		log.Printf("config load failed, using defaults: %v", err)
		return defaultConfig()
	}
	mu.RLock()
	c = cfg
	mu.RUnlock()
	if c == nil {
		c = defaultConfig()
	}
	return c
}

// ResetForTesting clears the loaded configuration so tests can exercise
// Load from a clean state.
func ResetForTesting() {
	mu.Lock()
	cfg = nil
	mu.Unlock()
}

func defaultConfig() *Config {
	v := viper.New()
	defaults(v)
	c := &Config{}
	_ = v.Unmarshal(c)
	return c
}

// MustLoad is Load that exits the process on error.
func MustLoad(configPath string) {
	if err := Load(configPath); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
}
