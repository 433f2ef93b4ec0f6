package query

import (
	"testing"

	"github.com/redbco/nosqldb/binary"
)

func packString(buf []byte, s string) []byte {
	buf = binary.WritePackedInt(buf, int32(len(s)))
	return append(buf, s...)
}

func TestDecodePlanEmptyBlobIsNil(t *testing.T) {
	step, err := DecodePlan(nil)
	if err != nil {
		t.Fatal(err)
	}
	if step != nil {
		t.Fatalf("expected nil step for empty blob, got %+v", step)
	}
}

func TestDecodePlanReceiveLeaf(t *testing.T) {
	buf := []byte{byte(StepReceive), 1} // kind, hasShard=true
	buf = binary.WritePackedInt(buf, 3) // shardID
	buf = binary.WritePackedInt(buf, 0) // no children

	step, err := DecodePlan(buf)
	if err != nil {
		t.Fatal(err)
	}
	if step.Kind != StepReceive || !step.HasShardID || step.ShardID != 3 {
		t.Fatalf("unexpected step: %+v", step)
	}
	if len(step.Children) != 0 {
		t.Fatalf("expected no children, got %d", len(step.Children))
	}
}

func TestDecodePlanSortWithReceiveChild(t *testing.T) {
	var child []byte
	child = append(child, byte(StepReceive), 0)
	child = binary.WritePackedInt(child, 0)

	var root []byte
	root = append(root, byte(StepSort))
	root = binary.WritePackedInt(root, 1) // 1 sort field
	root = packString(root, "score")
	root = append(root, 1) // descending
	root = append(root, 0) // nulls not first
	root = binary.WritePackedInt(root, 1) // 1 child
	root = append(root, child...)

	step, err := DecodePlan(root)
	if err != nil {
		t.Fatal(err)
	}
	if step.Kind != StepSort {
		t.Fatalf("expected SORT root, got %v", step.Kind)
	}
	if len(step.SortFields) != 1 || step.SortFields[0].FieldName != "score" || !step.SortFields[0].Descending {
		t.Fatalf("unexpected sort fields: %+v", step.SortFields)
	}
	if len(step.Children) != 1 || step.Children[0].Kind != StepReceive {
		t.Fatalf("expected one RECEIVE child, got %+v", step.Children)
	}
}

func TestDecodePlanGroupByFields(t *testing.T) {
	var buf []byte
	buf = append(buf, byte(StepGroupBy))
	buf = binary.WritePackedInt(buf, 2)
	buf = packString(buf, "region")
	buf = packString(buf, "category")
	buf = binary.WritePackedInt(buf, 0)

	step, err := DecodePlan(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(step.GroupFields) != 2 || step.GroupFields[0] != "region" || step.GroupFields[1] != "category" {
		t.Fatalf("unexpected group fields: %+v", step.GroupFields)
	}
}

func TestDecodePlanUnknownKindErrors(t *testing.T) {
	_, err := DecodePlan([]byte{99})
	if err == nil {
		t.Fatal("expected error for unknown step kind")
	}
}

func TestContainsDistributedSort(t *testing.T) {
	leaf := &PlanStep{Kind: StepReceive}
	sortNode := &PlanStep{Kind: StepDistributedSort, Children: []*PlanStep{leaf}}
	root := &PlanStep{Kind: StepTopN, Children: []*PlanStep{sortNode}}

	if !ContainsDistributedSort(root) {
		t.Fatal("expected to find the nested DISTRIBUTED_SORT node")
	}
	if ContainsDistributedSort(leaf) {
		t.Fatal("expected RECEIVE leaf to report no distributed sort")
	}
	if ContainsDistributedSort(nil) {
		t.Fatal("expected nil step to report no distributed sort")
	}
}

func TestStepKindString(t *testing.T) {
	if StepSort.String() != "SORT" {
		t.Fatalf("got %q", StepSort.String())
	}
	if StepKind(200).String() != "UNKNOWN" {
		t.Fatalf("got %q", StepKind(200).String())
	}
}
