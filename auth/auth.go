// Package auth defines the authorization contract the client dispatcher
// stamps onto every request.
package auth

import "context"

// Provider supplies the Authorization header value for an outgoing
// request. Implementations may cache, refresh, or recompute signatures
// per call; AuthorizationString is expected to be cheap enough to call
// on every request.
type Provider interface {
	// AuthorizationString returns the value to set on the request's
	// Authorization header for a call against the given service
	// endpoint path (e.g. "/V2/nosql/data/Get"). Returning an empty
	// string means "send no Authorization header."
	AuthorizationString(ctx context.Context, requestPath string) (string, error)
}

// Refresher is an optional capability a Provider implements when it
// caches a credential that can go stale: the dispatcher calls Refresh
// once after a server response classifies as KindAuthInvalid, before
// retrying the request with a freshly computed AuthorizationString. A
// Provider with nothing to refresh (None, Static) simply doesn't
// implement this interface.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// None is a Provider that never sends an Authorization header, for
// on-premise KVStore deployments with no auth configured.
type None struct{}

func (None) AuthorizationString(ctx context.Context, requestPath string) (string, error) {
	return "", nil
}

// Static is a Provider that always returns the same fixed token,
// suitable for KVStore deployments using a static proxy credential.
type Static string

func (s Static) AuthorizationString(ctx context.Context, requestPath string) (string, error) {
	return string(s), nil
}
