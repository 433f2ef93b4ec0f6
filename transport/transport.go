// Package transport defines the HTTP contract the dispatcher sends
// tagged-binary request bodies through, plus a net/http-backed default
// implementation: a small hand-rolled wrapper around http.Client with
// context-based requests, rather than pulling in a generic REST client
// library, used here for POSTing the wire protocol's binary bodies.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Request is one outgoing call: an opaque tagged-binary body posted to
// a service-relative path, with the Content-Type the protocol expects.
type Request struct {
	Path        string // e.g. "/V2/nosql/data/Get"
	Body        []byte
	Authorization string
	Timeout     time.Duration
}

// Response is the raw result of a call: status plus the response body,
// left undecoded for the wire package to parse.
type Response struct {
	StatusCode int
	Body       []byte
}

// HttpTransport is the contract the dispatcher depends on, letting
// callers substitute a fake for testing (internal/testserver) or wrap
// the default implementation with additional instrumentation.
type HttpTransport interface {
	Do(ctx context.Context, req Request) (*Response, error)
	Close()
}

const (
	headerContentType   = "Content-Type"
	headerAuthorization = "Authorization"
	contentTypeBinary   = "application/octet-stream"
)

// DefaultTransport is the net/http-backed HttpTransport used in
// production. It owns a single *http.Client with a shared, reused
// *http.Transport (idle-connection pool), kept alive for the client's
// whole lifetime instead of being constructed per call.
type DefaultTransport struct {
	baseURL string
	client  *http.Client
}

// NewDefaultTransport builds a DefaultTransport posting to baseURL
// (scheme+host, no trailing slash) with the given overall request
// timeout as a client-level fallback; per-request timeouts still apply
// via the context passed to Do.
func NewDefaultTransport(baseURL string, timeout time.Duration) *DefaultTransport {
	return &DefaultTransport{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (t *DefaultTransport) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+req.Path, bytes.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("nosqldb/transport: build request: %w", err)
	}
	httpReq.Header.Set(headerContentType, contentTypeBinary)
	if req.Authorization != "" {
		httpReq.Header.Set(headerAuthorization, req.Authorization)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("nosqldb/transport: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nosqldb/transport: read response: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// Close releases idle connections held by the underlying client.
func (t *DefaultTransport) Close() {
	if tr, ok := t.client.Transport.(*http.Transport); ok {
		tr.CloseIdleConnections()
	} else {
		t.client.CloseIdleConnections()
	}
}
