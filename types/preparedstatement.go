package types

import "fmt"

// PreparedStatement is {sql_text, proxy_statement_bytes, driver_query_plan,
// register_count, variable_names, bind_variables, namespace, table_name,
// operation_code, topology_info, consumed_capacity}. The plan
// half (everything but bind variables) is immutable and safe to share; the
// bind-variable map is mutable and deliberately not internally
// synchronized — concurrent callers either serialize their own access or
// call CopyWithoutVariables to get an independent handle.
type PreparedStatement struct {
	SQLText string
	ProxyStatementBytes []byte // required, opaque to the client
	DriverQueryPlan []byte // optional driver plan tree, opaque bytes here; query.Plan unmarshals it
	RegisterCount int
	VariableNames []string // positional: variable at index i is VariableNames[i-1]
	Namespace string
	TableName string
	OperationCode int32

	// Topology is shared by every copy produced from the same Prepare call
	// (CopyWithoutVariables included), since shard membership belongs to
	// the plan, not to a particular caller's bind variables.
	Topology *TopologyStore

	bindVariables map[string]FieldValue

	// ConsumedCapacity accumulates across continuation calls that reuse
	// this statement.
	ConsumedCapacity ConsumedCapacity
}

// NewPreparedStatement builds a statement with an empty bind-variable map
// and a fresh topology store.
func NewPreparedStatement(sqlText string, proxyStatementBytes []byte) *PreparedStatement {
	return &PreparedStatement{
		SQLText: sqlText,
		ProxyStatementBytes: proxyStatementBytes,
		bindVariables: make(map[string]FieldValue),
		Topology: &TopologyStore{},
	}
}

// SetVariable binds a named variable.
func (p *PreparedStatement) SetVariable(name string, v FieldValue) {
	if p.bindVariables == nil {
		p.bindVariables = make(map[string]FieldValue)
	}
	p.bindVariables[name] = v
}

// SetVariableByPosition binds the variable at the given 1-based position,
// resolving position -> VariableNames[position-1]. An out-of-range position
// is an error.
func (p *PreparedStatement) SetVariableByPosition(position int, v FieldValue) error {
	if position < 1 || position > len(p.VariableNames) {
		return fmt.Errorf("nosqldb/types: bind position %d out of range (have %d positional variables)", position, len(p.VariableNames))
	}
	p.SetVariable(p.VariableNames[position-1], v)
	return nil
}

// Variable looks up a bound variable by name.
func (p *PreparedStatement) Variable(name string) (FieldValue, bool) {
	v, ok := p.bindVariables[name]
	return v, ok
}

// Variables returns a snapshot copy of the bind-variable map, safe for the
// caller to iterate without racing further SetVariable calls on the
// original statement.
func (p *PreparedStatement) Variables() map[string]FieldValue {
	cp := make(map[string]FieldValue, len(p.bindVariables))
	for k, v := range p.bindVariables {
		cp[k] = v
	}
	return cp
}

// CopyWithoutVariables returns a new PreparedStatement sharing this one's
// immutable plan and TopologyStore but with an empty, independent
// bind-variable map.
func (p *PreparedStatement) CopyWithoutVariables() *PreparedStatement {
	cp := *p
	cp.bindVariables = make(map[string]FieldValue)
	return &cp
}
