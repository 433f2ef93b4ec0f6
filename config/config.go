// Package config holds the driver's fixed-after-construction
// configuration: endpoint, service type, timeouts, retry policy, and
// rate-limiter defaults. It is a plain typed struct assembled once via
// functional options, the same shape used for connection configs
// wherever a set of settings is load-bearing for the lifetime of a
// connection.
package config

import (
	"time"

	"github.com/redbco/nosqldb/nosqlerr"
	"github.com/redbco/nosqldb/wire"
)

// ServiceType selects which deployment flavor of the service this
// client is talking to.
type ServiceType int

const (
	CloudService ServiceType = iota
	CloudSimService
	KVStoreService
)

func (s ServiceType) String() string {
	switch s {
	case CloudService:
		return "CLOUD"
	case CloudSimService:
		return "CLOUDSIM"
	case KVStoreService:
		return "KVSTORE"
	default:
		return "UNKNOWN"
	}
}

// Config is the fully-resolved, immutable configuration a client is
// built from.
type Config struct {
	Endpoint string
	ServiceType ServiceType
	DefaultTimeout time.Duration
	RetryPolicy nosqlerr.Policy
	SerialVersion wire.SerialVersion

	// RateLimiterEnabled turns on the per-table dual token-bucket
	// limiter (ratelimit package); disabled by default since it
	// requires a table's read/write unit limits to be known first.
	RateLimiterEnabled bool
	RateLimiterPercent float64

	MaxContentLength int64
}

// Option mutates a Config during construction.
type Option func(*Config)

// New builds a Config for the given endpoint, applying options in
// order. Defaults: CloudSim service type, 5s default timeout,
// nosqlerr.DefaultPolicy(), current wire.SerialVersion, rate limiter
// off, 100% of table limits when enabled, 32MB max response size.
func New(endpoint string, opts ...Option) Config {
	cfg := Config{
		Endpoint: endpoint,
		ServiceType: CloudSimService,
		DefaultTimeout: 5 * time.Second,
		RetryPolicy: nosqlerr.DefaultPolicy(),
		SerialVersion: wire.V4,
		RateLimiterPercent: 100.0,
		MaxContentLength: 32 * 1024 * 1024,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func WithServiceType(t ServiceType) Option {
	return func(c *Config) { c.ServiceType = t }
}

func WithDefaultTimeout(d time.Duration) Option {
	return func(c *Config) { c.DefaultTimeout = d }
}

func WithRetryPolicy(p nosqlerr.Policy) Option {
	return func(c *Config) { c.RetryPolicy = p }
}

func WithSerialVersion(v wire.SerialVersion) Option {
	return func(c *Config) { c.SerialVersion = v }
}

func WithRateLimiter(enabledPercent float64) Option {
	return func(c *Config) {
		c.RateLimiterEnabled = true
		c.RateLimiterPercent = enabledPercent
	}
}

func WithMaxContentLength(n int64) Option {
	return func(c *Config) { c.MaxContentLength = n }
}
