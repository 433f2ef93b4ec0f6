package nosqldb

import (
	"context"
	"time"
)

// withDeadline composes the caller's context with an effective timeout
//. The caller's own cancellation keeps propagating
// through ctx; this only ever tightens the deadline, never loosens a
// shorter one the caller already set.
func withDeadline(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	if dl, ok := ctx.Deadline(); ok {
		if remaining := time.Until(dl); remaining < timeout {
			return context.WithCancel(ctx)
		}
	}
	return context.WithTimeout(ctx, timeout)
}
