// Package admin implements the table/admin completion pollers: "wait for table state X" and "wait for admin completion."
// Uses the same compute-deadline / sleep-honoring-cancellation shape as a
// health-check retry loop watching an async operation land.
package admin

import (
	"context"
	"time"

	"github.com/redbco/nosqldb/nosqlerr"
	"github.com/redbco/nosqldb/types"
)

// GetTableFunc fetches the current TableResult for a table, as the
// dispatcher's GetTable call would return it.
type GetTableFunc func(ctx context.Context, tableName string) (*types.TableResult, error)

// SystemStatusFunc polls a previously submitted admin DDL operation by
// id, as the dispatcher's SystemStatusRequest call would return it.
type SystemStatusFunc func(ctx context.Context, operationID string) (*types.TableResult, error)

// DefaultPollDelay is used when the caller does not specify one.
const DefaultPollDelay = 1 * time.Second

// WaitForTableState polls GetTable until the table reaches target, the
// deadline passes, or the underlying DDL failed.
//
// Special cases: if target is Active and the table is observed Dropped,
// that is a failure (the table vanished). If target is Dropped, a
// TableNotFound error from get is itself the success condition.
func WaitForTableState(ctx context.Context, get GetTableFunc, tableName string, target types.TableState, timeout time.Duration, pollDelay time.Duration) (*types.TableResult, error) {
	if pollDelay <= 0 {
		pollDelay = DefaultPollDelay
	}
	var deadline time.Time
	hasDeadline := timeout > 0
	if hasDeadline {
		deadline = time.Now().Add(timeout)
	}

	for {
		res, err := get(ctx, tableName)
		if err != nil {
			if target == types.Dropped && nosqlerr.KindOf(err) == nosqlerr.KindTableNotFound {
				return &types.TableResult{TableName: tableName, State: types.Dropped}, nil
			}
			return nil, err
		}

		if res.State == types.Dropped && target != types.Dropped {
			return res, nosqlerr.New(nosqlerr.KindInvalidState, "WaitForTableState",
				"table "+tableName+" was dropped while waiting for state "+target.String())
		}
		if res.State == target {
			return res, nil
		}

		if err := sleepOrDeadline(ctx, pollDelay, deadline, hasDeadline); err != nil {
			return res, err
		}
	}
}

// WaitForAdminCompletion polls SystemStatusRequest until the admin
// operation completes (non-in-progress state), the deadline passes, or
// the underlying DDL failed. A failed DDL raises with the operation's
// own SysopResult message rather than returning a TableResult reporting
// success.
func WaitForAdminCompletion(ctx context.Context, status SystemStatusFunc, operationID string, timeout time.Duration, pollDelay time.Duration) (*types.TableResult, error) {
	if pollDelay <= 0 {
		pollDelay = DefaultPollDelay
	}
	var deadline time.Time
	hasDeadline := timeout > 0
	if hasDeadline {
		deadline = time.Now().Add(timeout)
	}

	for {
		res, err := status(ctx, operationID)
		if err != nil {
			return nil, err
		}
		if res.SysopState == types.AdminFailed {
			return res, nosqlerr.New(nosqlerr.KindInvalidState, "WaitForAdminCompletion", res.SysopResult)
		}
		if res.State != types.Updating && res.State != types.Creating && res.State != types.Dropping {
			return res, nil
		}
		if err := sleepOrDeadline(ctx, pollDelay, deadline, hasDeadline); err != nil {
			return res, err
		}
	}
}

func sleepOrDeadline(ctx context.Context, delay time.Duration, deadline time.Time, hasDeadline bool) error {
	if hasDeadline {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nosqlerr.Timeout("poll", 0, nil)
		}
		if delay > remaining {
			delay = remaining
		}
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		if hasDeadline && !time.Now().Before(deadline) {
			return nosqlerr.Timeout("poll", 0, nil)
		}
		return nil
	}
}
