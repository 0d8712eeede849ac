package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the pricedex API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Cache      CacheConfig      `yaml:"cache"`
	Search     SearchConfig     `yaml:"search"`
	Scrape     ScrapeConfig     `yaml:"scrape"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	LLM        LLMConfig        `yaml:"llm"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Vendors    VendorsConfig    `yaml:"vendors"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CacheConfig holds result cache store settings.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
	TTLMinutes       int      `yaml:"ttl_minutes"`
}

// SearchConfig holds search provider settings.
type SearchConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Country    string `yaml:"country"` // two-letter market code sent with every query
	TimeoutSec int    `yaml:"timeout_sec"`
	PerVendor  int    `yaml:"results_per_vendor"`
	BroadCount int    `yaml:"broad_results"`
}

// ScrapeConfig holds page fetch settings for availability checks.
type ScrapeConfig struct {
	TimeoutSec int    `yaml:"timeout_sec"`
	UserAgent  string `yaml:"user_agent"`
}

// ScreenshotConfig holds screenshot render service settings.
type ScreenshotConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// LLMConfig holds text and vision model settings.
type LLMConfig struct {
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	TextModel   string `yaml:"text_model"`
	VisionModel string `yaml:"vision_model"`
	TimeoutSec  int    `yaml:"timeout_sec"`
}

// PipelineConfig holds tunables for the comparison pipeline.
type PipelineConfig struct {
	DefaultLimit           int `yaml:"default_limit"`
	MaxLimit               int `yaml:"max_limit"`
	AvailabilityWindow     int `yaml:"availability_window"` // concurrent availability lookups
	VendorSearchTimeoutSec int `yaml:"vendor_search_timeout_sec"`
}

// VendorsConfig extends the built-in vendor panel and domain denylist.
type VendorsConfig struct {
	Extra          []VendorEntry `yaml:"extra"`
	BlockedDomains []string      `yaml:"blocked_domains"`
}

// VendorEntry is a single configured vendor.
type VendorEntry struct {
	Name   string `yaml:"name"`
	Domain string `yaml:"domain"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// A cold-cache run covers the vendor fan-out plus two LLM rounds.
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "pricedex:"
	}
	if c.Cache.TTLMinutes <= 0 {
		c.Cache.TTLMinutes = 120
	}
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = "https://google.serper.dev"
	}
	if c.Search.Country == "" {
		c.Search.Country = "gb"
	}
	if c.Search.TimeoutSec <= 0 {
		c.Search.TimeoutSec = 15
	}
	if c.Search.PerVendor <= 0 {
		c.Search.PerVendor = 5
	}
	if c.Search.BroadCount <= 0 {
		c.Search.BroadCount = 20
	}
	if c.Scrape.TimeoutSec <= 0 {
		c.Scrape.TimeoutSec = 15
	}
	if c.Scrape.UserAgent == "" {
		c.Scrape.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	}
	if c.Screenshot.BaseURL == "" {
		c.Screenshot.BaseURL = "https://api.screenshotone.com"
	}
	if c.Screenshot.TimeoutSec <= 0 {
		c.Screenshot.TimeoutSec = 30
	}
	if c.LLM.TextModel == "" {
		c.LLM.TextModel = "gpt-4o-mini"
	}
	if c.LLM.VisionModel == "" {
		c.LLM.VisionModel = "gpt-4o"
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 60
	}
	if c.Pipeline.DefaultLimit <= 0 {
		c.Pipeline.DefaultLimit = 5
	}
	if c.Pipeline.MaxLimit <= 0 {
		c.Pipeline.MaxLimit = 20
	}
	if c.Pipeline.AvailabilityWindow <= 0 {
		c.Pipeline.AvailabilityWindow = 3
	}
	if c.Pipeline.VendorSearchTimeoutSec <= 0 {
		c.Pipeline.VendorSearchTimeoutSec = 20
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required")
	}
	if c.Pipeline.DefaultLimit > c.Pipeline.MaxLimit {
		return fmt.Errorf("pipeline.default_limit %d exceeds pipeline.max_limit %d",
			c.Pipeline.DefaultLimit, c.Pipeline.MaxLimit)
	}
	for i, v := range c.Vendors.Extra {
		if v.Name == "" || v.Domain == "" {
			return fmt.Errorf("vendors.extra[%d]: name and domain are required", i)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
