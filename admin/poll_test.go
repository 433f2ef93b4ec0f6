package admin

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redbco/nosqldb/nosqlerr"
	"github.com/redbco/nosqldb/types"
)

func TestWaitForTableStateSucceedsOnFirstMatch(t *testing.T) {
	get := func(ctx context.Context, tableName string) (*types.TableResult, error) {
		return &types.TableResult{TableName: tableName, State: types.Active}, nil
	}
	res, err := WaitForTableState(context.Background(), get, "items", types.Active, time.Second, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if res.State != types.Active {
		t.Fatalf("expected Active, got %v", res.State)
	}
}

func TestWaitForTableStatePollsUntilTargetReached(t *testing.T) {
	calls := 0
	get := func(ctx context.Context, tableName string) (*types.TableResult, error) {
		calls++
		state := types.Creating
		if calls >= 3 {
			state = types.Active
		}
		return &types.TableResult{TableName: tableName, State: state}, nil
	}
	res, err := WaitForTableState(context.Background(), get, "items", types.Active, 5*time.Second, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if res.State != types.Active {
		t.Fatalf("expected Active, got %v", res.State)
	}
	if calls != 3 {
		t.Fatalf("expected 3 polls, got %d", calls)
	}
}

func TestWaitForTableStateFailsWhenTableDroppedUnexpectedly(t *testing.T) {
	get := func(ctx context.Context, tableName string) (*types.TableResult, error) {
		return &types.TableResult{TableName: tableName, State: types.Dropped}, nil
	}
	_, err := WaitForTableState(context.Background(), get, "items", types.Active, time.Second, time.Millisecond)
	if err == nil {
		t.Fatal("expected error when table is dropped while waiting for Active")
	}
	if nosqlerr.KindOf(err) != nosqlerr.KindInvalidState {
		t.Fatalf("expected KindInvalidState, got %v", nosqlerr.KindOf(err))
	}
}

func TestWaitForTableStateTableNotFoundIsSuccessWhenWaitingForDropped(t *testing.T) {
	get := func(ctx context.Context, tableName string) (*types.TableResult, error) {
		return nil, nosqlerr.New(nosqlerr.KindTableNotFound, "GetTable", "no such table")
	}
	res, err := WaitForTableState(context.Background(), get, "items", types.Dropped, time.Second, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if res.State != types.Dropped {
		t.Fatalf("expected Dropped, got %v", res.State)
	}
}

func TestWaitForTableStateTimesOut(t *testing.T) {
	get := func(ctx context.Context, tableName string) (*types.TableResult, error) {
		return &types.TableResult{TableName: tableName, State: types.Creating}, nil
	}
	_, err := WaitForTableState(context.Background(), get, "items", types.Active, 20*time.Millisecond, 5*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if nosqlerr.KindOf(err) != nosqlerr.KindTimeout {
		t.Fatalf("expected KindTimeout, got %v", nosqlerr.KindOf(err))
	}
}

func TestWaitForTableStateHonorsContextCancellation(t *testing.T) {
	get := func(ctx context.Context, tableName string) (*types.TableResult, error) {
		return &types.TableResult{TableName: tableName, State: types.Creating}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := WaitForTableState(ctx, get, "items", types.Active, time.Minute, 5*time.Millisecond)
	if err == nil {
		t.Fatal("expected context deadline error")
	}
}

func TestWaitForAdminCompletionPollsUntilNotInProgress(t *testing.T) {
	calls := 0
	status := func(ctx context.Context, operationID string) (*types.TableResult, error) {
		calls++
		state := types.Updating
		if calls >= 2 {
			state = types.Active
		}
		return &types.TableResult{State: state}, nil
	}
	res, err := WaitForAdminCompletion(context.Background(), status, "op-1", 5*time.Second, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if res.State != types.Active {
		t.Fatalf("expected Active, got %v", res.State)
	}
	if calls != 2 {
		t.Fatalf("expected 2 polls, got %d", calls)
	}
}

func TestWaitForAdminCompletionFailsWhenSysopFails(t *testing.T) {
	status := func(ctx context.Context, operationID string) (*types.TableResult, error) {
		return &types.TableResult{State: types.Updating, SysopState: types.AdminFailed, SysopResult: "CREATE TABLE: column type not supported"}, nil
	}
	_, err := WaitForAdminCompletion(context.Background(), status, "op-1", time.Second, time.Millisecond)
	if err == nil {
		t.Fatal("expected error when the underlying DDL fails")
	}
	if nosqlerr.KindOf(err) != nosqlerr.KindInvalidState {
		t.Fatalf("expected KindInvalidState, got %v", nosqlerr.KindOf(err))
	}
	if !strings.Contains(err.Error(), "column type not supported") {
		t.Fatalf("expected error to carry the original DDL error message, got %v", err)
	}
}

func TestWaitForAdminCompletionPropagatesError(t *testing.T) {
	status := func(ctx context.Context, operationID string) (*types.TableResult, error) {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, "SystemStatus", "bad operation id")
	}
	_, err := WaitForAdminCompletion(context.Background(), status, "op-1", time.Second, time.Millisecond)
	if err == nil {
		t.Fatal("expected propagated error")
	}
}
