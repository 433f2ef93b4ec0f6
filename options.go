package nosqldb

import (
	"time"

	"github.com/redbco/nosqldb/types"
)

// Consistency selects read consistency for Get/Query.
type Consistency int32

const (
	ConsistencyEventual Consistency = iota
	ConsistencyAbsolute
)

// GetOptions are the per-call overrides for Get.
type GetOptions struct {
	Timeout time.Duration
	Consistency Consistency
}

// PutOptions are the per-call overrides for Put/PutIfAbsent/PutIfPresent/PutIfVersion.
type PutOptions struct {
	Timeout time.Duration
	Durability *types.Durability
	TTL *types.TimeToLive
	UpdateTTL bool
	ReturnRow bool
	ExactMatch bool
	IdentityCacheSize int32
	MatchVersion types.RowVersion // set only for PutIfVersion
}

// DeleteOptions are the per-call overrides for Delete/DeleteIfVersion.
type DeleteOptions struct {
	Timeout time.Duration
	Durability *types.Durability
	ReturnRow bool
	MatchVersion types.RowVersion // set only for DeleteIfVersion
}

// QueryOptions are the per-call overrides for Query/Prepare execution.
type QueryOptions struct {
	Timeout time.Duration
	Consistency Consistency
	Durability *types.Durability
	MaxReadKB int32
	MaxWriteKB int32
	Limit int32
	TraceLevel int32
}

// TableDDLOptions are the per-call overrides for TableRequest.
type TableDDLOptions struct {
	Timeout time.Duration
	Limits *types.TableLimits
}
