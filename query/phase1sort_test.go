package query

import (
	"context"
	"testing"

	"github.com/redbco/nosqldb/types"
	"github.com/redbco/nosqldb/wire"
)

func rowWithScore(id string, score int32) types.FieldValue {
	return types.NewRecord().Put("id", types.Str(id)).Put("score", types.Int(score))
}

func TestCompareRowsAscendingByIntField(t *testing.T) {
	fields := []SortField{{FieldName: "score"}}
	a := rowWithScore("a", 1)
	b := rowWithScore("b", 2)
	if compareRows(a, b, fields) >= 0 {
		t.Fatal("expected a < b")
	}
	if compareRows(b, a, fields) <= 0 {
		t.Fatal("expected b > a")
	}
	if compareRows(a, a, fields) != 0 {
		t.Fatal("expected a == a")
	}
}

func TestCompareRowsDescending(t *testing.T) {
	fields := []SortField{{FieldName: "score", Descending: true}}
	a := rowWithScore("a", 1)
	b := rowWithScore("b", 2)
	if compareRows(a, b, fields) <= 0 {
		t.Fatal("expected a > b when descending")
	}
}

func TestCompareFieldValuesNullsOrdering(t *testing.T) {
	present := types.Int(5)
	if compareFieldValues(types.FieldValue{}, false, present, true, true) != -1 {
		t.Fatal("expected missing field to sort first when NullsFirst=true")
	}
	if compareFieldValues(types.FieldValue{}, false, present, true, false) != 1 {
		t.Fatal("expected missing field to sort last when NullsFirst=false")
	}
	if compareFieldValues(types.JsonNull(), true, present, true, true) != -1 {
		t.Fatal("expected json null to be treated as null, sorting first")
	}
}

type fakeBatchExecutor struct {
	pages map[int32][]*wire.QueryResult
	calls int
}

func (f *fakeBatchExecutor) ExecuteQueryBatch(ctx context.Context, req *wire.QueryRequest) (*wire.QueryResult, error) {
	f.calls++
	pages := f.pages[req.ShardID]
	if len(pages) == 0 {
		return &wire.QueryResult{}, nil
	}
	res := pages[0]
	f.pages[req.ShardID] = pages[1:]
	return res, nil
}

func TestPhase2CoordinatorMergesPartitionsInSortOrder(t *testing.T) {
	exec := &fakeBatchExecutor{
		pages: map[int32][]*wire.QueryResult{
			1: {{Rows: []types.FieldValue{rowWithScore("p1-a", 1), rowWithScore("p1-b", 4)}}},
			2: {{Rows: []types.FieldValue{rowWithScore("p2-a", 2), rowWithScore("p2-b", 3)}}},
		},
	}
	fields := []SortField{{FieldName: "score"}}
	phase1 := &wire.SortPhase1Results{
		Cursors: []wire.PartitionSortCursor{
			{PartitionID: 1, ContinuationKey: []byte{1}},
			{PartitionID: 2, ContinuationKey: []byte{1}},
		},
	}
	c := NewPhase2Coordinator(exec, wire.QueryRequest{}, fields, phase1)

	var order []string
	for {
		row, done, err := c.Next(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if done {
			break
		}
		id, _ := row.Get("id")
		order = append(order, id.AsString())
	}

	want := []string{"p1-a", "p2-a", "p2-b", "p1-b"}
	if len(order) != len(want) {
		t.Fatalf("expected %d rows, got %d: %v", len(want), len(order), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected sorted merge order %v, got %v", want, order)
		}
	}
}

func TestPhase2CoordinatorOpenCursorsDropsExhausted(t *testing.T) {
	exec := &fakeBatchExecutor{
		pages: map[int32][]*wire.QueryResult{
			1: {{Rows: nil, ContinuationKey: nil}},
		},
	}
	phase1 := &wire.SortPhase1Results{
		Cursors: []wire.PartitionSortCursor{{PartitionID: 1, ContinuationKey: []byte{1}}},
	}
	c := NewPhase2Coordinator(exec, wire.QueryRequest{}, nil, phase1)

	_, done, err := c.Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Fatal("expected immediately done when the only partition's page is empty and exhausted")
	}
	if len(c.OpenCursors()) != 0 {
		t.Fatalf("expected no open cursors left, got %v", c.OpenCursors())
	}
}
