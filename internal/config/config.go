package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the inkwell configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Firestore  FirestoreConfig  `yaml:"firestore"`
	Cache      CacheConfig      `yaml:"cache"`
	Outline    OutlineConfig    `yaml:"outline"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Auth       AuthConfig       `yaml:"auth"`
	Site       SiteConfig       `yaml:"site"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings for write routes.
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

// FirestoreConfig holds document store settings.
type FirestoreConfig struct {
	ProjectID  string `yaml:"project_id"`
	Database   string `yaml:"database"`
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
	MaxRetries int    `yaml:"max_retries"`
}

// Timeout returns the per-request timeout.
func (c FirestoreConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// CacheConfig holds response and author cache settings. The Redis query
// cache is off when Addrs is empty.
type CacheConfig struct {
	Addrs             []string `yaml:"addrs"`
	Password          string   `yaml:"password"`
	TTLSec            int      `yaml:"ttl_sec"`
	ReadinessTimeout  int      `yaml:"readiness_timeout_sec"`
	AuthorCacheSize   int      `yaml:"author_cache_size"`
	AuthorCacheTTLSec int      `yaml:"author_cache_ttl_sec"`
}

// Enabled reports whether the Redis query cache is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// OutlineConfig holds table of contents settings.
type OutlineConfig struct {
	Levels      []int  `yaml:"levels"`
	UpdateEvent string `yaml:"update_event"`
	Title       string `yaml:"title"`
	CSSClass    string `yaml:"css_class"`
}

// SummarizerConfig holds excerpt summarizer settings. Disabled without a
// model.
type SummarizerConfig struct {
	APIKey    string       `yaml:"api_key"`
	BaseURL   string       `yaml:"base_url"`
	Model     string       `yaml:"model"`
	MaxTokens int          `yaml:"max_tokens"`
	Budget    BudgetConfig `yaml:"budget"`
}

// BudgetConfig caps summarizer token spend. Zero limits are unlimited.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"`
	Action            string `yaml:"action"` // warn or reject (default: warn)
}

// Enabled reports whether the summarizer is configured.
func (c SummarizerConfig) Enabled() bool { return c.Model != "" }

// SiteConfig describes the public site for the sitemap.
type SiteConfig struct {
	Hostname string `yaml:"hostname"`
	Name     string `yaml:"name"`
	Language string `yaml:"language"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, expanding ${VAR} references, then
// applies defaults and validates.
func Parse(data []byte) (Config, error) {
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
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Firestore.Database == "" {
		c.Firestore.Database = "(default)"
	}
	if c.Firestore.TimeoutSec <= 0 {
		c.Firestore.TimeoutSec = 10
	}
	if c.Firestore.MaxRetries < 0 {
		c.Firestore.MaxRetries = 0
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 60
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Cache.AuthorCacheSize <= 0 {
		c.Cache.AuthorCacheSize = 1000
	}
	if c.Cache.AuthorCacheTTLSec <= 0 {
		c.Cache.AuthorCacheTTLSec = 300
	}
	if len(c.Outline.Levels) == 0 {
		c.Outline.Levels = []int{1, 2, 3}
	}
	if c.Outline.UpdateEvent == "" {
		c.Outline.UpdateEvent = "update:toc"
	}
	if c.Outline.CSSClass == "" {
		c.Outline.CSSClass = "toc"
	}
	if c.Site.Language == "" {
		c.Site.Language = "en"
	}
	if c.Summarizer.Budget.Action == "" {
		c.Summarizer.Budget.Action = "warn"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Firestore.ProjectID == "" {
		return fmt.Errorf("firestore.project_id is required")
	}
	for _, l := range c.Outline.Levels {
		if l < 1 || l > 6 {
			return fmt.Errorf("outline.levels must be between 1 and 6, got %d", l)
		}
	}
	if c.Summarizer.Enabled() && c.Summarizer.APIKey == "" {
		return fmt.Errorf("summarizer.api_key is required when summarizer.model is set")
	}
	if a := c.Summarizer.Budget.Action; a != "" && a != "warn" && a != "reject" {
		return fmt.Errorf("summarizer.budget.action must be warn or reject, got %q", a)
	}
	if c.Summarizer.Budget.DailyTokenLimit < 0 || c.Summarizer.Budget.MonthlyTokenLimit < 0 {
		return fmt.Errorf("summarizer.budget limits must not be negative")
	}
	if c.Site.Hostname != "" && !strings.HasPrefix(c.Site.Hostname, "http://") && !strings.HasPrefix(c.Site.Hostname, "https://") {
		return fmt.Errorf("site.hostname must start with http:// or https://, got %q", c.Site.Hostname)
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
