// Package nosqldb is the core client runtime: a single Client type that
// dispatches Get/Put/Delete/Query/WriteMultiple and table/admin DDL calls
// over the tagged-binary wire protocol (wire package), with the ambient
// concerns — auth stamping, rate limiting, retry/backoff, version
// negotiation — composed around it per request.
package nosqldb

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/redbco/nosqldb/auth"
	"github.com/redbco/nosqldb/config"
	"github.com/redbco/nosqldb/logger"
	"github.com/redbco/nosqldb/ratelimit"
	"github.com/redbco/nosqldb/transport"
)

// requestPath is the single endpoint every request is POSTed to
//; the opcode
// travels in the request header, not the URL.
const requestPath = "/V2/nosql/data"

// Client is the entry point for every driver operation. It is safe for
// concurrent use by multiple goroutines: the mutable state it owns
// (negotiated serial version, per-table rate limiters, topology per
// prepared statement) is each guarded by its own lock.
type Client struct {
	cfg config.Config
	transport transport.HttpTransport
	authProvider auth.Provider
	log *logger.Logger
	version *versionState
	limiters *ratelimit.Registry
	compartment string

	closeOnce sync.Once
}

// ClientOption mutates a Client during construction, mirroring the
// config package's functional-options idiom.
type ClientOption func(*Client)

// WithAuthProvider overrides the default no-op auth.None provider.
func WithAuthProvider(p auth.Provider) ClientOption {
	return func(c *Client) { c.authProvider = p }
}

// WithLogger overrides the default no-op logger.
func WithLogger(l *logger.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// WithTransport overrides the default net/http transport, primarily for
// tests that substitute internal/testserver's in-process fake.
func WithTransport(t transport.HttpTransport) ClientOption {
	return func(c *Client) { c.transport = t }
}

// WithCompartment sets the cloud compartment (or on-premise namespace)
// every request is scoped to, used as half of the rate-limiter
// registry's key.
func WithCompartment(compartment string) ClientOption {
	return func(c *Client) { c.compartment = compartment }
}

// New builds a Client from cfg, applying opts in order. A nil auth
// provider defaults to auth.None{}; a nil logger discards everything;
// a nil transport builds transport.NewDefaultTransport against
// cfg.Endpoint.
func New(cfg config.Config, opts ...ClientOption) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("nosqldb: config.Endpoint must not be empty")
	}
	c := &Client{
		cfg: cfg,
		authProvider: auth.None{},
		log: logger.Nop(),
		version: newVersionState(cfg.SerialVersion),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.authProvider == nil {
		c.authProvider = auth.None{}
	}
	if c.log == nil {
		c.log = logger.Nop()
	}
	if c.transport == nil {
		c.transport = transport.NewDefaultTransport(cfg.Endpoint, cfg.DefaultTimeout)
	}
	if cfg.RateLimiterEnabled {
		c.limiters = ratelimit.NewRegistry(nil, cfg.RateLimiterPercent)
	}
	return c, nil
}

// Close releases any resources the Client's transport holds (idle
// connections). It does not block in-flight requests.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.transport.Close()
	})
}

// newTraceID returns a fresh request-scoped identifier for log
// correlation; not sent on the wire.
func newTraceID() string {
	return uuid.NewString()
}
