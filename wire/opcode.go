package wire

// Opcode identifies a request kind on the wire.
type Opcode int32

const (
	OpDelete Opcode = iota
	OpDeleteIfVersion
	OpGet
	OpPut
	OpPutIfAbsent
	OpPutIfPresent
	OpPutIfVersion
	OpQuery
	OpPrepare
	OpWriteMultiple
	OpMultiDelete
	OpGetTable
	OpGetIndexes
	OpGetTableUsage
	OpListTables
	OpTableRequest
	OpScan
	OpIndexScan
	OpCreateTable
	OpSystemRequest
	OpSystemStatusRequest
	OpAddReplica
	OpDropReplica
	OpGetReplicaStats
)

func (o Opcode) String() string {
	switch o {
	case OpDelete:
		return "Delete"
	case OpDeleteIfVersion:
		return "DeleteIfVersion"
	case OpGet:
		return "Get"
	case OpPut:
		return "Put"
	case OpPutIfAbsent:
		return "PutIfAbsent"
	case OpPutIfPresent:
		return "PutIfPresent"
	case OpPutIfVersion:
		return "PutIfVersion"
	case OpQuery:
		return "Query"
	case OpPrepare:
		return "Prepare"
	case OpWriteMultiple:
		return "WriteMultiple"
	case OpMultiDelete:
		return "MultiDelete"
	case OpGetTable:
		return "GetTable"
	case OpGetIndexes:
		return "GetIndexes"
	case OpGetTableUsage:
		return "GetTableUsage"
	case OpListTables:
		return "ListTables"
	case OpTableRequest:
		return "TableRequest"
	case OpScan:
		return "Scan"
	case OpIndexScan:
		return "IndexScan"
	case OpCreateTable:
		return "CreateTable"
	case OpSystemRequest:
		return "SystemRequest"
	case OpSystemStatusRequest:
		return "SystemStatusRequest"
	case OpAddReplica:
		return "AddReplica"
	case OpDropReplica:
		return "DropReplica"
	case OpGetReplicaStats:
		return "GetReplicaStats"
	default:
		return "Unknown"
	}
}

// IsRead reports whether the opcode is a read-class operation, used by the
// retry policy and by the
// rate limiter to pick the read or write bucket.
func (o Opcode) IsRead() bool {
	switch o {
		case OpGet, OpQuery, OpGetTable, OpGetIndexes, OpGetTableUsage, OpListTables,
		OpSystemStatusRequest, OpGetReplicaStats, OpScan, OpIndexScan:
		return true
	default:
		return false
	}
}
