package snapcache

import (
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/snapcache/pkg/report"
)

// DefaultCapacity bounds the number of fresh entries. Widget caches hold a
// handful of keys; the bound exists to keep a misbehaving caller from
// growing the process without limit.
const DefaultCapacity = 64

// config holds configuration for both Cache and Fetcher.
type config struct {
	capacity     int
	defaultTTL   time.Duration
	inv          Invalidator
	reporter     *report.Reporter
	logger       *slog.Logger
	fetchTimeout time.Duration
	domain       string
}

func defaultConfig() *config {
	return &config{
		capacity: DefaultCapacity,
		reporter: report.New(),
		logger:   slog.Default(),
		domain:   "snapshot",
	}
}

// Option configures a Cache or Fetcher.
type Option func(*config)

// WithCapacity sets the maximum number of fresh entries.
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithTTL sets the default TTL for entries written without an explicit one.
func WithTTL(d time.Duration) Option {
	return func(c *config) {
		c.defaultTTL = d
	}
}

// WithInvalidator attaches a cross-process invalidation channel. Without
// one, invalidation is process-local only.
func WithInvalidator(inv Invalidator) Option {
	return func(c *config) {
		c.inv = inv
	}
}

// WithReporter sets the diagnostic reporter for degraded-path events.
func WithReporter(r *report.Reporter) Option {
	return func(c *config) {
		if r != nil {
			c.reporter = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithFetchTimeout bounds each backing-store fetch. Zero leaves the
// caller's context in charge. Only applies to Fetcher.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *config) {
		c.fetchTimeout = d
	}
}

// WithDomain sets the error-fingerprint domain for fetch failures. Only
// applies to Fetcher.
func WithDomain(domain string) Option {
	return func(c *config) {
		if domain != "" {
			c.domain = domain
		}
	}
}
