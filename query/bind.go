package query

import (
	"github.com/redbco/nosqldb/types"
	"github.com/redbco/nosqldb/wire"
)

// BoundVariablesFor converts a prepared statement's current bind-variable
// map into the ordered []wire.BoundVariable array the wire encoder wants.
// Bound variables are stored in an insertion-keyed map from name to
// FieldValue; order on the wire does not matter to the server, so this
// simply walks the map.
func BoundVariablesFor(stmt *types.PreparedStatement) []wire.BoundVariable {
	vars := stmt.Variables()
	out := make([]wire.BoundVariable, 0, len(vars))
	for name, v := range vars {
		out = append(out, wire.BoundVariable{Name: name, Value: v})
	}
	return out
}
