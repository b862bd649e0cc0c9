package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Storage backends selectable via config.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type StorageConfig struct {
	Backend   string `yaml:"backend"`
	RedisAddr string `yaml:"redis_addr,omitempty"`
}

type Config struct {
	APIKey         string        `yaml:"api_key"`
	Country        string        `yaml:"country"`
	Categories     []string      `yaml:"categories"`
	CacheTTL       string        `yaml:"cache_ttl"`
	SearchDebounce string        `yaml:"search_debounce"`
	Storage        StorageConfig `yaml:"storage"`
}

// Key returns the resolved NewsAPI key (env var wins over the config file).
func (c *Config) Key() string {
	if k := os.Getenv("NEWS_API_KEY"); k != "" {
		return k
	}
	return c.APIKey
}

func (c *Config) CacheTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

func (c *Config) SearchDebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.SearchDebounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

func (c *Config) CountryOrDefault() string {
	if c.Country == "" {
		return "us"
	}
	return c.Country
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "newsreader", "config.yaml")
}

// StorePath is the on-device sqlite store location.
func StorePath() string {
	return filepath.Join(xdg.DataHome, "newsreader", "newsreader.db")
}

// LogPath holds diagnostics written while the TUI owns the terminal.
func LogPath() string {
	return filepath.Join(xdg.StateHome, "newsreader", "newsreader.log")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if len(cfg.Categories) == 0 {
		return fmt.Errorf("config: at least one category is required")
	}
	for i, c := range cfg.Categories {
		if c == "" {
			return fmt.Errorf("config: category %d is empty", i)
		}
	}
	if cfg.CacheTTL != "" {
		if _, err := time.ParseDuration(cfg.CacheTTL); err != nil {
			return fmt.Errorf("config: invalid cache_ttl %q: %w", cfg.CacheTTL, err)
		}
	}
	if cfg.SearchDebounce != "" {
		if _, err := time.ParseDuration(cfg.SearchDebounce); err != nil {
			return fmt.Errorf("config: invalid search_debounce %q: %w", cfg.SearchDebounce, err)
		}
	}
	switch cfg.Storage.Backend {
	case "", BackendSQLite, BackendMemory:
	case BackendRedis:
		if cfg.Storage.RedisAddr == "" {
			return fmt.Errorf("config: storage backend %q requires redis_addr", BackendRedis)
		}
	default:
		return fmt.Errorf("config: unknown storage backend %q (valid: sqlite, redis, memory)", cfg.Storage.Backend)
	}
	return nil
}
