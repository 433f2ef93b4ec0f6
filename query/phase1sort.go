package query

import (
	"container/heap"
	"context"
	"fmt"

	"github.com/redbco/nosqldb/types"
	"github.com/redbco/nosqldb/wire"
)

// PartitionCursor is one partition's open position in an
// all-partitions sorted query: a buffer of
// rows already fetched and not yet yielded, plus the server
// continuation key to refill the buffer once it is drained.
type PartitionCursor struct {
	PartitionID int32
	ContinuationKey []byte
	buffer []types.FieldValue
	bufIdx int
	exhausted bool // true once a refill comes back with a nil ContinuationKey
	queued bool // true while this cursor's head row already has a live heap entry
}

func (c *PartitionCursor) hasBuffered() bool { return c.bufIdx < len(c.buffer) }
func (c *PartitionCursor) peek() types.FieldValue { return c.buffer[c.bufIdx] }
func (c *PartitionCursor) advance() { c.bufIdx++ }

// phase2Item is one heap entry: a partition's current head row plus
// the sort fields used to order it against other partitions' heads.
type phase2Item struct {
	cursor *PartitionCursor
	row types.FieldValue
}

// sortHeap orders phase2Items by the declared ORDER BY fields
//.
type sortHeap struct {
	items []*phase2Item
	fields []SortField
}

func (h *sortHeap) Len() int { return len(h.items) }
func (h *sortHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *sortHeap) Push(x interface{}) { h.items = append(h.items, x.(*phase2Item)) }
func (h *sortHeap) Pop() interface{} {
	n := len(h.items)
	item := h.items[n-1]
	h.items = h.items[:n-1]
	return item
}
func (h *sortHeap) Less(i, j int) bool {
	return compareRows(h.items[i].row, h.items[j].row, h.fields) < 0
}

// compareRows orders two Record rows by fields, ascending unless a
// field says Descending, NULLS ordering per NullsFirst.
func compareRows(a, b types.FieldValue, fields []SortField) int {
	for _, f := range fields {
		av, aok := a.Get(f.FieldName)
		bv, bok := b.Get(f.FieldName)
		c := compareFieldValues(av, aok, bv, bok, f.NullsFirst)
		if f.Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

func compareFieldValues(a types.FieldValue, aok bool, b types.FieldValue, bok bool, nullsFirst bool) int {
	aNull := !aok || a.Tag() == types.TagNull || a.Tag() == types.TagJsonNull
	bNull := !bok || b.Tag() == types.TagNull || b.Tag() == types.TagJsonNull
	if aNull && bNull {
		return 0
	}
	if aNull {
		if nullsFirst {
			return -1
		}
		return 1
	}
	if bNull {
		if nullsFirst {
			return 1
		}
		return -1
	}
	switch a.Tag() {
	case types.TagInteger:
		return compareInt64(int64(a.AsInt()), int64(b.AsInt()))
	case types.TagLong:
		return compareInt64(a.AsLong(), b.AsLong())
	case types.TagDouble:
		return compareFloat64(a.AsDouble(), b.AsDouble())
	case types.TagString, types.TagNumber, types.TagTimestamp:
		as := a.AsString()
		bs := b.AsString()
		if as < bs {
			return -1
		} else if as > bs {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Phase2Coordinator reads rows round-robin from a set of per-partition
// cursors using a priority queue ordered by the sort key, refilling a
// cursor from the server as needed until it is drained.
type Phase2Coordinator struct {
	exec BatchExecutor
	base wire.QueryRequest
	fields []SortField
	h *sortHeap
	cursors map[int32]*PartitionCursor
	consumed types.ConsumedCapacity
}

// NewPhase2Coordinator seeds the coordinator from a freshly-decoded
// SortPhase1Results envelope.
func NewPhase2Coordinator(exec BatchExecutor, base wire.QueryRequest, fields []SortField, phase1 *wire.SortPhase1Results) *Phase2Coordinator {
	c := &Phase2Coordinator{
		exec: exec,
		base: base,
		fields: fields,
		h: &sortHeap{fields: fields},
		cursors: make(map[int32]*PartitionCursor),
	}
	for _, pc := range phase1.Cursors {
		c.cursors[pc.PartitionID] = &PartitionCursor{
			PartitionID: pc.PartitionID,
			ContinuationKey: pc.ContinuationKey,
		}
	}
	heap.Init(c.h)
	return c
}

// ResumeFromCursors rebuilds a coordinator from a continuation key's
// unwrapped cursor bundle (no buffered rows — the next Next() call
// will refill each cursor from the server).
func ResumeFromCursors(exec BatchExecutor, base wire.QueryRequest, fields []SortField, cursors []PartitionCursor) *Phase2Coordinator {
	c := &Phase2Coordinator{
		exec: exec,
		base: base,
		fields: fields,
		h: &sortHeap{fields: fields},
		cursors: make(map[int32]*PartitionCursor),
	}
	for i := range cursors {
		cp := cursors[i]
		c.cursors[cp.PartitionID] = &cp
	}
	heap.Init(c.h)
	return c
}

// fillHeap ensures every cursor with a head row available (buffered or
// freshly fetched) has an entry pushed onto the heap.
func (c *Phase2Coordinator) fillHeap(ctx context.Context) error {
	for id, cur := range c.cursors {
		if cur.queued {
			continue
		}
		for !cur.hasBuffered() && !cur.exhausted {
			if err := c.refill(ctx, cur); err != nil {
				return fmt.Errorf("nosqldb/query: refilling partition %d: %w", id, err)
			}
		}
		if cur.hasBuffered() {
			cur.queued = true
			heap.Push(c.h, &phase2Item{cursor: cur, row: cur.peek()})
		}
	}
	return nil
}

func (c *Phase2Coordinator) refill(ctx context.Context, cur *PartitionCursor) error {
	req := c.base
	req.ContinuationKey = cur.ContinuationKey
	req.HasShardID = true
	req.ShardID = cur.PartitionID
	res, err := c.exec.ExecuteQueryBatch(ctx, &req)
	if err != nil {
		return err
	}
	c.consumed = c.consumed.Add(res.Consumed)
	cur.buffer = res.Rows
	cur.bufIdx = 0
	cur.ContinuationKey = res.ContinuationKey
	if res.ContinuationKey == nil {
		cur.exhausted = true
	}
	return nil
}

// Next returns the next row in sorted order across all partitions, or
// done=true once every cursor is exhausted.
func (c *Phase2Coordinator) Next(ctx context.Context) (row types.FieldValue, done bool, err error) {
	if err := c.fillHeap(ctx); err != nil {
		return types.FieldValue{}, false, err
	}
	if c.h.Len() == 0 {
		return types.FieldValue{}, true, nil
	}
	item := heap.Pop(c.h).(*phase2Item)
	item.cursor.queued = false
	item.cursor.advance()
	return item.row, false, nil
}

// OpenCursors returns the cursors that are not yet exhausted, for
// wrapping into a new opaque continuation key.
func (c *Phase2Coordinator) OpenCursors() []PartitionCursor {
	out := make([]PartitionCursor, 0, len(c.cursors))
	for _, cur := range c.cursors {
		if cur.exhausted && !cur.hasBuffered() {
			continue
		}
		out = append(out, PartitionCursor{PartitionID: cur.PartitionID, ContinuationKey: cur.ContinuationKey})
	}
	return out
}

// Consumed returns the accumulated capacity consumed by refills issued
// by this coordinator so far.
func (c *Phase2Coordinator) Consumed() types.ConsumedCapacity { return c.consumed }
