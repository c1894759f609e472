package inkwell

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	projectID  string
	database   string
	apiKey     string
	baseURL    string
	timeout    time.Duration
	maxRetries int
	httpClient *http.Client

	redisAddrs    []string
	redisPassword string
	cacheTTL      time.Duration

	authorCacheSize int
	authorCacheTTL  time.Duration

	summarizer Summarizer
	levels     []int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithProject sets the Firestore project. Required.
func WithProject(projectID string) Option {
	return optionFunc(func(c *clientConfig) {
		c.projectID = projectID
	})
}

// WithDatabase selects a named Firestore database. Default: "(default)".
func WithDatabase(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.database = name
	})
}

// WithAPIKey authenticates REST calls with a Google API key.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = key
	})
}

// WithBaseURL points the client at another endpoint, e.g. the emulator.
func WithBaseURL(u string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = u
	})
}

// WithTimeout bounds each REST attempt. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithRetries sets the number of extra attempts for transient failures.
// Default: 3.
func WithRetries(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxRetries = n
	})
}

// WithHTTPClient replaces the HTTP client used for REST calls.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithRedis caches query responses in a Redis instance for ttl.
// A non-positive ttl keeps the default of one minute.
func WithRedis(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisAddrs = []string{addr}
		c.redisPassword = password
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	})
}

// WithAuthorCache sizes the in-process author cache used by joins.
// Defaults: 1000 authors, 5 minutes.
func WithAuthorCache(size int, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.authorCacheSize = size
		c.authorCacheTTL = ttl
	})
}

// WithSummarizer fills missing post excerpts on single post reads.
func WithSummarizer(s Summarizer) Option {
	return optionFunc(func(c *clientConfig) {
		c.summarizer = s
	})
}

// WithOutlineLevels restricts which heading levels appear in outlines.
// Default: all levels.
func WithOutlineLevels(levels ...int) Option {
	return optionFunc(func(c *clientConfig) {
		c.levels = levels
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
