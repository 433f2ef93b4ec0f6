package query

import (
	"context"
	"fmt"

	"github.com/redbco/nosqldb/nosqlerr"
	"github.com/redbco/nosqldb/types"
	"github.com/redbco/nosqldb/wire"
)

// BatchExecutor is the one dependency the query runtime has on the
// dispatcher: send a single Query wire request and get its decoded
// response back. The root client package implements this by routing
// through its normal execute() pipeline (auth stamp, rate limiting,
// retry, version downgrade), so the query runtime never talks to
// transport directly.
type BatchExecutor interface {
	ExecuteQueryBatch(ctx context.Context, req *wire.QueryRequest) (*wire.QueryResult, error)
}

// RowIterator is the page-based query iterator. Both Client.QueryOnePage
// and this looping iterator are exposed, matching the bufio.Scanner
// Next()/Row() shape rather than iter.Seq.
type RowIterator struct {
	exec BatchExecutor
	stmt *types.PreparedStatement
	ctx *ExecutionContext
	plan *PlanStep
	base wire.QueryRequest

	simpleDone bool
	nextServerCK []byte
	buffer []types.FieldValue
	bufIdx int

	phase2 *Phase2Coordinator

	consumed types.ConsumedCapacity
	err error
	row types.FieldValue
}

// NewRowIterator builds an iterator for a prepared statement, decoding
// its driver plan (if any) and rejecting plans with unsupported steps.
// Whether execution uses the phase-1/phase-2 sort coordinator or the
// plain continuation loop is decided per response, by whether the server
// returns sort phase-1 results; the plan only supplies the sort fields.
func NewRowIterator(exec BatchExecutor, stmt *types.PreparedStatement, base wire.QueryRequest) (*RowIterator, error) {
	it := &RowIterator{
		exec: exec,
		stmt: stmt,
		ctx: NewExecutionContext(stmt),
		base: base,
	}
	if len(stmt.DriverQueryPlan) > 0 {
		plan, err := DecodePlan(stmt.DriverQueryPlan)
		if err != nil {
			return nil, fmt.Errorf("nosqldb/query: decoding driver plan: %w", err)
		}
		if u := firstUnsupportedStep(plan); u != nil {
			return nil, nosqlerr.New(nosqlerr.KindUnsupportedProtocol, "Query", "unsupported driver plan step "+u.Kind.String())
		}
		it.plan = plan
	}
	return it, nil
}

// Next advances to the next row, returning false once the query is
// fully consumed or an error occurred (retrievable via Err).
func (it *RowIterator) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}
	if it.phase2 != nil {
		row, done, err := it.phase2.Next(ctx)
		if err != nil {
			it.err = err
			return false
		}
		if done {
			return false
		}
		it.row = row
		return true
	}

	for {
		if it.bufIdx < len(it.buffer) {
			it.row = it.buffer[it.bufIdx]
			it.bufIdx++
			return true
		}
		if it.simpleDone {
			return false
		}
		if err := it.fetchNextBatch(ctx); err != nil {
			it.err = err
			return false
		}
	}
}

// fetchNextBatch runs one dispatcher round trip, handling the
// implicit-prepare and all-partitions-sort-phase-1 cases.
func (it *RowIterator) fetchNextBatch(ctx context.Context) error {
	req := it.base
	req.ContinuationKey = it.nextServerCK
	req.MathContext = it.ctx.MathContext
	if it.ctx.HasShardID {
		req.HasShardID = true
		req.ShardID = it.ctx.ShardID
	}

	res, err := it.exec.ExecuteQueryBatch(ctx, &req)
	if err != nil {
		return err
	}
	it.consumed = it.consumed.Add(res.Consumed)

	if res.PreparedStatement != nil {
		it.stmt.ProxyStatementBytes = res.PreparedStatement.ProxyStatementBytes
		it.stmt.DriverQueryPlan = res.PreparedStatement.DriverQueryPlan
		it.stmt.RegisterCount = res.PreparedStatement.RegisterCount
		it.stmt.VariableNames = res.PreparedStatement.VariableNames
		if len(it.stmt.DriverQueryPlan) > 0 {
			plan, err := DecodePlan(it.stmt.DriverQueryPlan)
			if err != nil {
				return fmt.Errorf("nosqldb/query: decoding implicitly-prepared driver plan: %w", err)
			}
			if u := firstUnsupportedStep(plan); u != nil {
				return nosqlerr.New(nosqlerr.KindUnsupportedProtocol, "Query", "unsupported driver plan step "+u.Kind.String())
			}
			it.plan = plan
		}
	}

	if res.Topology != nil {
		it.stmt.Topology.Update(*res.Topology)
	}

	if res.SortPhase1 != nil {
		var fields []SortField
		if it.plan != nil {
			fields = findSortFields(it.plan)
		}
		it.phase2 = NewPhase2Coordinator(it.exec, it.base, fields, res.SortPhase1)
		it.buffer = nil
		it.bufIdx = 0
		it.simpleDone = true
		return nil
	}

	it.buffer = res.Rows
	it.bufIdx = 0
	it.nextServerCK = res.ContinuationKey
	if res.ContinuationKey == nil {
		it.simpleDone = true
	}
	return nil
}

func findSortFields(step *PlanStep) []SortField {
	if step == nil {
		return nil
	}
	if step.Kind == StepDistributedSort || step.Kind == StepSort {
		return step.SortFields
	}
	for _, c := range step.Children {
		if f := findSortFields(c); f != nil {
			return f
		}
	}
	return nil
}

// Row returns the row most recently yielded by a successful Next call.
func (it *RowIterator) Row() types.FieldValue { return it.row }

// Err returns the error, if any, that ended iteration.
func (it *RowIterator) Err() error { return it.err }

// Consumed returns the accumulated capacity consumed across every
// batch this iterator has fetched so far.
func (it *RowIterator) Consumed() types.ConsumedCapacity {
	if it.phase2 != nil {
		return it.consumed.Add(it.phase2.Consumed())
	}
	return it.consumed
}

// ContinuationKey returns the opaque, public continuation key for
// resuming this query later, or nil if it is fully consumed
//.
func (it *RowIterator) ContinuationKey() []byte {
	if it.phase2 != nil {
		open := it.phase2.OpenCursors()
		if len(open) == 0 {
			return nil
		}
		return WrapPhase2(open)
	}
	if it.simpleDone {
		return nil
	}
	return WrapSimple(it.nextServerCK)
}

// ResumeRowIterator rebuilds an iterator from a previously-issued
// opaque continuation key, routing to the phase-2 coordinator or the
// plain continuation loop depending on which kind of key it unwraps as.
func ResumeRowIterator(exec BatchExecutor, stmt *types.PreparedStatement, base wire.QueryRequest, key []byte) (*RowIterator, error) {
	it, err := NewRowIterator(exec, stmt, base)
	if err != nil {
		return nil, err
	}
	if len(key) == 0 {
		return it, nil
	}
	if cursors, cerr := UnwrapPhase2(key); cerr == nil {
		var fields []SortField
		if it.plan != nil {
			fields = findSortFields(it.plan)
		}
		it.phase2 = ResumeFromCursors(exec, base, fields, cursors)
		return it, nil
	}
	serverKey, err := UnwrapSimple(key)
	if err != nil {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, "Query", "malformed continuation key")
	}
	it.nextServerCK = serverKey
	return it, nil
}
