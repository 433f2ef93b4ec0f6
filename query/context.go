// Package query implements the client-side query runtime: binding, the driver-planned plan-tree interpreter, the
// all-partitions sort phase-1/phase-2 coordinator, and continuation
// looping for both simple and driver-planned queries. Uses the same
// explicit, reflection-free decode style as wire/valuecodec.go,
// generalized here to a small execution-step tree instead of a value
// tree.
package query

import (
	"github.com/redbco/nosqldb/types"
	"github.com/redbco/nosqldb/wire"
)

// ExecutionContext holds everything a plan-tree step needs while it
// runs: bind variables, the fixed math context, the current shard id
// (for sharded execution), the client-side topology, and a register
// array of size RegisterCount.
type ExecutionContext struct {
	BindVariables map[string]types.FieldValue
	MathContext wire.MathContext
	ShardID int32
	HasShardID bool
	Topology *types.TopologyStore
	Registers []types.FieldValue
}

// NewExecutionContext builds a context from a prepared statement's
// current bind variables and shared topology store.
func NewExecutionContext(stmt *types.PreparedStatement) *ExecutionContext {
	return &ExecutionContext{
		BindVariables: stmt.Variables(),
		MathContext: wire.DefaultMathContext(),
		Topology: stmt.Topology,
		Registers: make([]types.FieldValue, stmt.RegisterCount),
	}
}

// SetRegister stores v at register index i, growing the array if the
// driver plan's declared RegisterCount undercounted (defensive; should
// not happen against a well-formed plan).
func (c *ExecutionContext) SetRegister(i int, v types.FieldValue) {
	if i >= len(c.Registers) {
		grown := make([]types.FieldValue, i+1)
		copy(grown, c.Registers)
		c.Registers = grown
	}
	c.Registers[i] = v
}

func (c *ExecutionContext) Register(i int) types.FieldValue {
	if i < 0 || i >= len(c.Registers) {
		return types.Null()
	}
	return c.Registers[i]
}
