// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all finnterm configuration.
type Config struct {
	API    API    `yaml:"api"`
	Market Market `yaml:"market"`
	News   News   `yaml:"news"`
	Cache  Cache  `yaml:"cache"`
}

// API holds Finnhub endpoint and credential settings.
type API struct {
	Token     string        `yaml:"token"`
	TokenFile string        `yaml:"token_file"`
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Market holds the startup exchange selection.
type Market struct {
	Default string `yaml:"default"`
}

// News holds market-news and company-news query settings.
type News struct {
	Category string        `yaml:"category"` // general | forex | crypto | merger
	Lookback time.Duration `yaml:"lookback"` // company-news window ending now
}

// Cache holds the directory-snapshot location.
type Cache struct {
	Dir string `yaml:"dir"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: API{
			BaseURL: "https://finnhub.io/api/v1",
			Timeout: 30 * time.Second,
		},
		Market: Market{
			Default: "US",
		},
		News: News{
			Category: "general",
			Lookback: 7 * 24 * time.Hour,
		},
		Cache: Cache{
			Dir: ".finnterm/cache",
		},
	}
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("config: api.base_url cannot be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: api.timeout must be positive, got %v", c.API.Timeout)
	}
	if c.Market.Default == "" {
		return errors.New("config: market.default cannot be empty")
	}
	switch c.News.Category {
	case "general", "forex", "crypto", "merger":
		// valid
	default:
		return fmt.Errorf("config: news.category must be one of general, forex, crypto, merger; got %q", c.News.Category)
	}
	if c.News.Lookback <= 0 {
		return fmt.Errorf("config: news.lookback must be positive, got %v", c.News.Lookback)
	}
	if c.Cache.Dir == "" {
		return errors.New("config: cache.dir cannot be empty")
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: FINNTERM_TOKEN, FINNTERM_TOKEN_FILE,
// FINNTERM_BASE_URL, FINNTERM_TIMEOUT, FINNTERM_MARKET, FINNTERM_CACHE_DIR.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("FINNTERM_TOKEN"); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv("FINNTERM_TOKEN_FILE"); v != "" {
		c.API.TokenFile = v
	}
	if v := os.Getenv("FINNTERM_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("FINNTERM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid FINNTERM_TIMEOUT %q: %w", v, err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv("FINNTERM_MARKET"); v != "" {
		c.Market.Default = v
	}
	if v := os.Getenv("FINNTERM_CACHE_DIR"); v != "" {
		c.Cache.Dir = v
	}
	return nil
}

// ResolveToken returns the API token, reading the token file if no
// inline token is configured. The token is required; there is no
// unauthenticated mode.
func (c *Config) ResolveToken() (string, error) {
	if c.API.Token != "" {
		return c.API.Token, nil
	}
	if c.API.TokenFile == "" {
		return "", errors.New("config: no API token configured (set api.token, api.token_file, or FINNTERM_TOKEN)")
	}
	data, err := os.ReadFile(c.API.TokenFile)
	if err != nil {
		return "", fmt.Errorf("config: reading token file %s: %w", c.API.TokenFile, err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("config: token file %s is empty", c.API.TokenFile)
	}
	return token, nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	API    *rawAPI    `yaml:"api"`
	Market *rawMarket `yaml:"market"`
	News   *rawNews   `yaml:"news"`
	Cache  *rawCache  `yaml:"cache"`
}

type rawAPI struct {
	Token     *string        `yaml:"token"`
	TokenFile *string        `yaml:"token_file"`
	BaseURL   *string        `yaml:"base_url"`
	Timeout   *time.Duration `yaml:"timeout"`
}

type rawMarket struct {
	Default *string `yaml:"default"`
}

type rawNews struct {
	Category *string        `yaml:"category"`
	Lookback *time.Duration `yaml:"lookback"`
}

type rawCache struct {
	Dir *string `yaml:"dir"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.API != nil {
		if layer.API.Token != nil {
			c.API.Token = *layer.API.Token
		}
		if layer.API.TokenFile != nil {
			c.API.TokenFile = *layer.API.TokenFile
		}
		if layer.API.BaseURL != nil {
			c.API.BaseURL = *layer.API.BaseURL
		}
		if layer.API.Timeout != nil {
			c.API.Timeout = *layer.API.Timeout
		}
	}
	if layer.Market != nil {
		if layer.Market.Default != nil {
			c.Market.Default = *layer.Market.Default
		}
	}
	if layer.News != nil {
		if layer.News.Category != nil {
			c.News.Category = *layer.News.Category
		}
		if layer.News.Lookback != nil {
			c.News.Lookback = *layer.News.Lookback
		}
	}
	if layer.Cache != nil {
		if layer.Cache.Dir != nil {
			c.Cache.Dir = *layer.Cache.Dir
		}
	}
}
