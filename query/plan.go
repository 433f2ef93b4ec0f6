package query

import (
	"fmt"

	"github.com/redbco/nosqldb/binary"
)

// StepKind identifies one node of a driver query plan tree.
type StepKind byte

const (
	StepReceive StepKind = iota
	StepSort
	StepGroupBy
	StepTopN
	StepDedup
	StepDistributedSort
)

func (k StepKind) String() string {
	switch k {
	case StepReceive:
		return "RECEIVE"
	case StepSort:
		return "SORT"
	case StepGroupBy:
		return "GROUP_BY"
	case StepTopN:
		return "TOP_N"
	case StepDedup:
		return "DEDUP"
	case StepDistributedSort:
		return "DISTRIBUTED_SORT"
	default:
		return "UNKNOWN"
	}
}

// SortField is one ORDER BY term.
type SortField struct {
	FieldName string
	Descending bool
	NullsFirst bool
}

// PlanStep is one node of the driver plan tree. Only the fields
// relevant to Kind are populated.
type PlanStep struct {
	Kind StepKind
	Children []*PlanStep

	// StepReceive
	HasShardID bool
	ShardID int32

	// StepSort / StepDistributedSort
	SortFields []SortField

	// StepTopN
	Limit int32

	// StepGroupBy
	GroupFields []string

	// StepDedup
	DedupRegister int
}

// DecodePlan parses a driver query plan blob into its root step, using
// the same tagged-binary primitives as the wire value codec (this
// protocol family's own small recursive node format: a one-byte kind
// tag, kind-specific fields, then a child count and the children).
func DecodePlan(b []byte) (*PlanStep, error) {
	if len(b) == 0 {
		return nil, nil
	}
	r := binary.NewReader(b)
	return decodeStep(r)
}

func decodeStep(r *binary.Reader) (*PlanStep, error) {
	kindByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	step := &PlanStep{Kind: StepKind(kindByte)}

	switch step.Kind {
	case StepReceive:
		hasShard, err := r.ReadBoolean()
		if err != nil {
			return nil, err
		}
		step.HasShardID = hasShard
		if hasShard {
			id, err := r.ReadPackedInt()
			if err != nil {
				return nil, err
			}
			step.ShardID = id
		}
	case StepSort, StepDistributedSort:
		fields, err := decodeSortFields(r)
		if err != nil {
			return nil, err
		}
		step.SortFields = fields
	case StepTopN:
		limit, err := r.ReadPackedInt()
		if err != nil {
			return nil, err
		}
		step.Limit = limit
	case StepGroupBy:
		n, err := r.ReadPackedInt()
		if err != nil {
			return nil, err
		}
		step.GroupFields = make([]string, 0, n)
		for i := int32(0); i < n; i++ {
			s, _, err := r.ReadRawString()
			if err != nil {
				return nil, err
			}
			step.GroupFields = append(step.GroupFields, s)
		}
	case StepDedup:
		reg, err := r.ReadPackedInt()
		if err != nil {
			return nil, err
		}
		step.DedupRegister = int(reg)
	default:
		return nil, fmt.Errorf("nosqldb/query: unknown plan step kind %d", kindByte)
	}

	childCount, err := r.ReadPackedInt()
	if err != nil {
		return nil, err
	}
	step.Children = make([]*PlanStep, 0, childCount)
	for i := int32(0); i < childCount; i++ {
		child, err := decodeStep(r)
		if err != nil {
			return nil, err
		}
		step.Children = append(step.Children, child)
	}
	return step, nil
}

func decodeSortFields(r *binary.Reader) ([]SortField, error) {
	n, err := r.ReadPackedInt()
	if err != nil {
		return nil, err
	}
	out := make([]SortField, 0, n)
	for i := int32(0); i < n; i++ {
		name, _, err := r.ReadRawString()
		if err != nil {
			return nil, err
		}
		desc, err := r.ReadBoolean()
		if err != nil {
			return nil, err
		}
		nullsFirst, err := r.ReadBoolean()
		if err != nil {
			return nil, err
		}
		out = append(out, SortField{FieldName: name, Descending: desc, NullsFirst: nullsFirst})
	}
	return out, nil
}

// firstUnsupportedStep returns the first node in the tree rooted at step
// whose kind this module has no client-side executor for, or nil if
// every node is one this module knows how to handle. StepGroupBy,
// StepTopN, and StepDedup all require applying the node's operation to
// rows as they stream past (aggregating by group, truncating to a
// limit, suppressing duplicates by a dedup register) — functionality
// no code in this package implements. Returning raw, unaggregated rows
// for such a plan would be silently wrong rather than merely
// incomplete, so callers must reject these plans instead of running
// them.
func firstUnsupportedStep(step *PlanStep) *PlanStep {
	if step == nil {
		return nil
	}
	switch step.Kind {
	case StepGroupBy, StepTopN, StepDedup:
		return step
	}
	for _, c := range step.Children {
		if u := firstUnsupportedStep(c); u != nil {
			return u
		}
	}
	return nil
}

// ContainsDistributedSort reports whether any node of the tree rooted
// at step is a StepDistributedSort, meaning execution must route
// through the phase-1/phase-2 coordinator rather than the simple
// continuation loop.
func ContainsDistributedSort(step *PlanStep) bool {
	if step == nil {
		return false
	}
	if step.Kind == StepDistributedSort {
		return true
	}
	for _, c := range step.Children {
		if ContainsDistributedSort(c) {
			return true
		}
	}
	return false
}
