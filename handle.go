package nosqldb

import (
	"context"
	"time"

	"github.com/redbco/nosqldb/admin"
	"github.com/redbco/nosqldb/nosqlerr"
	"github.com/redbco/nosqldb/query"
	"github.com/redbco/nosqldb/types"
	"github.com/redbco/nosqldb/wire"
)

// Get fetches one row by primary key.
func (c *Client) Get(ctx context.Context, tableName string, key types.FieldValue, opts GetOptions) (*wire.GetResult, error) {
	if tableName == "" {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, "Get", "table name must not be empty")
	}
	req := &wire.GetRequest{Key: key, Consistency: int32(opts.Consistency)}
	spec := requestSpec{Opcode: wire.OpGet, TableName: tableName, Timeout: opts.Timeout, EncodePayload: req.EncodePayload}
	return execute(c, ctx, spec, wire.DecodeGetResponse, func(r *wire.GetResult) types.ConsumedCapacity { return r.Consumed })
}

func (c *Client) putInternal(ctx context.Context, opcode wire.Opcode, tableName string, value types.FieldValue, opts PutOptions) (*wire.PutResult, error) {
	if tableName == "" {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, opcode.String(), "table name must not be empty")
	}
	if value.Tag() != types.TagRecord {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, opcode.String(), "row value must be a Record, got "+value.Tag().String())
	}
	req := &wire.PutRequest{
		Value: value,
		Durability: opts.Durability,
		ReturnRow: opts.ReturnRow,
		MatchVersion: opts.MatchVersion,
		ExactMatch: opts.ExactMatch,
		UpdateTTL: opts.UpdateTTL,
		TTL: opts.TTL,
		IdentityCacheSize: opts.IdentityCacheSize,
	}
	spec := requestSpec{Opcode: opcode, TableName: tableName, Timeout: opts.Timeout, EncodePayload: req.EncodePayload}
	return execute(c, ctx, spec, wire.DecodePutResponse, func(r *wire.PutResult) types.ConsumedCapacity { return r.Consumed })
}

// Put inserts or overwrites a row unconditionally.
func (c *Client) Put(ctx context.Context, tableName string, value types.FieldValue, opts PutOptions) (*wire.PutResult, error) {
	return c.putInternal(ctx, wire.OpPut, tableName, value, opts)
}

// PutIfAbsent inserts only if no row currently exists for the key.
func (c *Client) PutIfAbsent(ctx context.Context, tableName string, value types.FieldValue, opts PutOptions) (*wire.PutResult, error) {
	return c.putInternal(ctx, wire.OpPutIfAbsent, tableName, value, opts)
}

// PutIfPresent overwrites only if a row currently exists for the key.
func (c *Client) PutIfPresent(ctx context.Context, tableName string, value types.FieldValue, opts PutOptions) (*wire.PutResult, error) {
	return c.putInternal(ctx, wire.OpPutIfPresent, tableName, value, opts)
}

// PutIfVersion overwrites only if the existing row's version matches
// opts.MatchVersion exactly.
func (c *Client) PutIfVersion(ctx context.Context, tableName string, value types.FieldValue, opts PutOptions) (*wire.PutResult, error) {
	if opts.MatchVersion == nil {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, "PutIfVersion", "MatchVersion must be set")
	}
	return c.putInternal(ctx, wire.OpPutIfVersion, tableName, value, opts)
}

func (c *Client) deleteInternal(ctx context.Context, opcode wire.Opcode, tableName string, key types.FieldValue, opts DeleteOptions) (*wire.DeleteResult, error) {
	if tableName == "" {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, opcode.String(), "table name must not be empty")
	}
	req := &wire.DeleteRequest{
		Key: key,
		Durability: opts.Durability,
		ReturnRow: opts.ReturnRow,
		MatchVersion: opts.MatchVersion,
	}
	spec := requestSpec{Opcode: opcode, TableName: tableName, Timeout: opts.Timeout, EncodePayload: req.EncodePayload}
	return execute(c, ctx, spec, wire.DecodeDeleteResponse, func(r *wire.DeleteResult) types.ConsumedCapacity { return r.Consumed })
}

// Delete removes a row unconditionally.
func (c *Client) Delete(ctx context.Context, tableName string, key types.FieldValue, opts DeleteOptions) (*wire.DeleteResult, error) {
	return c.deleteInternal(ctx, wire.OpDelete, tableName, key, opts)
}

// DeleteIfVersion removes a row only if its version matches opts.MatchVersion.
func (c *Client) DeleteIfVersion(ctx context.Context, tableName string, key types.FieldValue, opts DeleteOptions) (*wire.DeleteResult, error) {
	if opts.MatchVersion == nil {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, "DeleteIfVersion", "MatchVersion must be set")
	}
	return c.deleteInternal(ctx, wire.OpDeleteIfVersion, tableName, key, opts)
}

// MultiDelete deletes every row sharing key's shard-key prefix, one
// batch at a time, returning a continuation key when more rows remain
//.
func (c *Client) MultiDelete(ctx context.Context, tableName string, key types.FieldValue, rng *wire.FieldRange, maxWriteKB int32, continuationKey []byte, durability *types.Durability, timeout time.Duration) (*wire.MultiDeleteResult, error) {
	if tableName == "" {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, "MultiDelete", "table name must not be empty")
	}
	req := &wire.MultiDeleteRequest{
		Key: key,
		Durability: durability,
		Range: rng,
		MaxWriteKB: maxWriteKB,
		ContinuationKey: continuationKey,
	}
	spec := requestSpec{Opcode: wire.OpMultiDelete, TableName: tableName, Timeout: timeout, EncodePayload: req.EncodePayload}
	return execute(c, ctx, spec, wire.DecodeMultiDeleteResponse, func(r *wire.MultiDeleteResult) types.ConsumedCapacity { return r.Consumed })
}

// WriteMultiple atomically applies an ordered list of Put/Delete
// sub-operations against a single table.
func (c *Client) WriteMultiple(ctx context.Context, tableName string, ops []wire.SubOperation, timeout time.Duration) (*wire.WriteMultipleResult, error) {
	if tableName == "" {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, "WriteMultiple", "table name must not be empty")
	}
	if len(ops) == 0 {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, "WriteMultiple", "at least one sub-operation is required")
	}
	req := &wire.WriteMultipleRequest{TableName: tableName, Ops: ops}
	spec := requestSpec{Opcode: wire.OpWriteMultiple, TableName: tableName, Timeout: timeout, EncodePayload: req.EncodePayload}
	return execute(c, ctx, spec, wire.DecodeWriteMultipleResponse, func(r *wire.WriteMultipleResult) types.ConsumedCapacity { return r.Consumed })
}

// Prepare compiles statement into a reusable PreparedStatement
//.
func (c *Client) Prepare(ctx context.Context, statement string, getQueryPlan bool, timeout time.Duration) (*wire.PrepareResult, error) {
	if statement == "" {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, "Prepare", "statement must not be empty")
	}
	req := &wire.PrepareRequest{Statement: statement, QueryVersion: int32(c.version.get()), GetQueryPlan: getQueryPlan}
	spec := requestSpec{Opcode: wire.OpPrepare, Timeout: timeout, EncodePayload: req.EncodePayload}
	return execute(c, ctx, spec, wire.DecodePrepareResponse, func(r *wire.PrepareResult) types.ConsumedCapacity { return r.Consumed })
}

// QueryOnePage runs exactly one Query round trip.
func (c *Client) QueryOnePage(ctx context.Context, req *wire.QueryRequest, timeout time.Duration) (*wire.QueryResult, error) {
	if req.QueryVersion == 0 {
		req.QueryVersion = int32(c.version.get())
	}
	spec := requestSpec{Opcode: wire.OpQuery, Timeout: timeout, EncodePayload: req.EncodePayload}
	return execute(c, ctx, spec, wire.DecodeQueryResponse, func(r *wire.QueryResult) types.ConsumedCapacity { return r.Consumed })
}

// Query runs statement as an ad-hoc (implicitly prepared) query and
// returns a RowIterator over its results.
func (c *Client) Query(ctx context.Context, statement string, opts QueryOptions) (*query.RowIterator, error) {
	if statement == "" {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, "Query", "statement must not be empty")
	}
	stmt := types.NewPreparedStatement(statement, nil)
	base := wire.QueryRequest{
		Consistency: int32(opts.Consistency),
		Durability: opts.Durability,
		MaxReadKB: opts.MaxReadKB,
		MaxWriteKB: opts.MaxWriteKB,
		Limit: opts.Limit,
		TraceLevel: opts.TraceLevel,
		QueryVersion: int32(c.version.get()),
		Statement: statement,
		MathContext: wire.DefaultMathContext(),
	}
	return query.NewRowIterator(c, stmt, base)
}

// QueryPrepared runs a previously Prepared statement and returns a
// RowIterator over its results, using whatever bind variables are
// currently set on stmt.
func (c *Client) QueryPrepared(ctx context.Context, stmt *types.PreparedStatement, opts QueryOptions) (*query.RowIterator, error) {
	base := wire.QueryRequest{
		Consistency: int32(opts.Consistency),
		Durability: opts.Durability,
		MaxReadKB: opts.MaxReadKB,
		MaxWriteKB: opts.MaxWriteKB,
		Limit: opts.Limit,
		TraceLevel: opts.TraceLevel,
		QueryVersion: int32(c.version.get()),
		IsPrepared: true,
		PreparedQuery: stmt.ProxyStatementBytes,
		BindVariables: query.BoundVariablesFor(stmt),
		MathContext: wire.DefaultMathContext(),
	}
	return query.NewRowIterator(c, stmt, base)
}

// QueryResume rebuilds a RowIterator from a continuation key previously
// returned by RowIterator.ContinuationKey.
func (c *Client) QueryResume(ctx context.Context, stmt *types.PreparedStatement, opts QueryOptions, continuationKey []byte) (*query.RowIterator, error) {
	base := wire.QueryRequest{
		Consistency: int32(opts.Consistency),
		Durability: opts.Durability,
		MaxReadKB: opts.MaxReadKB,
		MaxWriteKB: opts.MaxWriteKB,
		Limit: opts.Limit,
		TraceLevel: opts.TraceLevel,
		QueryVersion: int32(c.version.get()),
		IsPrepared: len(stmt.ProxyStatementBytes) > 0,
		PreparedQuery: stmt.ProxyStatementBytes,
		Statement: stmt.SQLText,
		BindVariables: query.BoundVariablesFor(stmt),
		MathContext: wire.DefaultMathContext(),
	}
	return query.ResumeRowIterator(c, stmt, base, continuationKey)
}

// TableRequest submits a table DDL statement (create/alter/drop) and
// returns the operation's initial status; poll with GetTable or
// WaitForTableState to observe completion.
func (c *Client) TableRequest(ctx context.Context, tableName, statement string, opts TableDDLOptions) (*types.TableResult, error) {
	if statement == "" {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, "TableRequest", "statement must not be empty")
	}
	req := &wire.TableRequest{Statement: statement, Limits: opts.Limits}
	spec := requestSpec{Opcode: wire.OpTableRequest, TableName: tableName, Timeout: opts.Timeout, EncodePayload: req.EncodePayload}
	res, err := execute(c, ctx, spec, wire.DecodeTableResultResponse, noConsumed[*types.TableResult])
	if err != nil {
		return nil, err
	}
	c.observeTableLimits(tableName, res.Limits)
	return res, nil
}

// GetTable fetches a table's current metadata, optionally scoped to a
// specific in-flight DDL operation's status.
func (c *Client) GetTable(ctx context.Context, tableName, operationID string, timeout time.Duration) (*types.TableResult, error) {
	if tableName == "" {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, "GetTable", "table name must not be empty")
	}
	req := &wire.GetTableRequest{OperationID: operationID}
	spec := requestSpec{Opcode: wire.OpGetTable, TableName: tableName, Timeout: timeout, EncodePayload: req.EncodePayload}
	res, err := execute(c, ctx, spec, wire.DecodeTableResultResponse, noConsumed[*types.TableResult])
	if err != nil {
		return nil, err
	}
	c.observeTableLimits(tableName, res.Limits)
	return res, nil
}

// WaitForTableState polls GetTable until tableName reaches target or
// timeout elapses.
func (c *Client) WaitForTableState(ctx context.Context, tableName string, target types.TableState, timeout, pollDelay time.Duration) (*types.TableResult, error) {
	getFn := func(ctx context.Context, tableName string) (*types.TableResult, error) {
		return c.GetTable(ctx, tableName, "", 0)
	}
	return admin.WaitForTableState(ctx, getFn, tableName, target, timeout, pollDelay)
}

// ListTables pages through the compartment's table names.
func (c *Client) ListTables(ctx context.Context, startIndex, maxToRead int32, timeout time.Duration) (*wire.ListTablesResult, error) {
	req := &wire.ListTablesRequest{StartIndex: startIndex, MaxToRead: maxToRead}
	spec := requestSpec{Opcode: wire.OpListTables, Timeout: timeout, EncodePayload: req.EncodePayload}
	return execute(c, ctx, spec, wire.DecodeListTablesResponse, noConsumed[*wire.ListTablesResult])
}

// ListAllTables pages through ListTables until it has collected every
// table name.
func (c *Client) ListAllTables(ctx context.Context, timeout time.Duration) ([]string, error) {
	var all []string
	start := int32(0)
	for {
		res, err := c.ListTables(ctx, start, 0, timeout)
		if err != nil {
			return nil, err
		}
		if len(res.Tables) == 0 {
			break
		}
		all = append(all, res.Tables...)
		start += int32(len(res.Tables))
	}
	return all, nil
}

// GetIndexes fetches one (indexName != "") or all (indexName == "")
// secondary indexes of a table.
func (c *Client) GetIndexes(ctx context.Context, tableName, indexName string, timeout time.Duration) (*wire.GetIndexesResult, error) {
	if tableName == "" {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, "GetIndexes", "table name must not be empty")
	}
	req := &wire.GetIndexesRequest{IndexName: indexName}
	spec := requestSpec{Opcode: wire.OpGetIndexes, TableName: tableName, Timeout: timeout, EncodePayload: req.EncodePayload}
	return execute(c, ctx, spec, wire.DecodeGetIndexesResponse, noConsumed[*wire.GetIndexesResult])
}

// GetTableUsage fetches periodic capacity/throttle usage samples
// (cloud-only).
func (c *Client) GetTableUsage(ctx context.Context, tableName string, startTime, endTime int64, limit int32, timeout time.Duration) (*wire.GetTableUsageResult, error) {
	if tableName == "" {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, "GetTableUsage", "table name must not be empty")
	}
	req := &wire.GetTableUsageRequest{StartTime: startTime, EndTime: endTime, Limit: limit}
	spec := requestSpec{Opcode: wire.OpGetTableUsage, TableName: tableName, Timeout: timeout, EncodePayload: req.EncodePayload}
	return execute(c, ctx, spec, wire.DecodeGetTableUsageResponse, noConsumed[*wire.GetTableUsageResult])
}

// AddReplica adds a multi-region replica (cloud-only).
func (c *Client) AddReplica(ctx context.Context, tableName, region string, readUnits, writeUnits int32, timeout time.Duration) (*types.TableResult, error) {
	if tableName == "" || region == "" {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, "AddReplica", "table name and region must not be empty")
	}
	req := &wire.AddReplicaRequest{Region: region, ReadUnits: readUnits, WriteUnits: writeUnits}
	spec := requestSpec{Opcode: wire.OpAddReplica, TableName: tableName, Timeout: timeout, EncodePayload: req.EncodePayload}
	return execute(c, ctx, spec, wire.DecodeTableResultResponse, noConsumed[*types.TableResult])
}

// DropReplica removes a multi-region replica (cloud-only).
func (c *Client) DropReplica(ctx context.Context, tableName, region string, timeout time.Duration) (*types.TableResult, error) {
	if tableName == "" || region == "" {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, "DropReplica", "table name and region must not be empty")
	}
	req := &wire.DropReplicaRequest{Region: region}
	spec := requestSpec{Opcode: wire.OpDropReplica, TableName: tableName, Timeout: timeout, EncodePayload: req.EncodePayload}
	return execute(c, ctx, spec, wire.DecodeTableResultResponse, noConsumed[*types.TableResult])
}

// GetReplicaStats fetches per-region replication-lag samples
// (cloud-only).
func (c *Client) GetReplicaStats(ctx context.Context, tableName, region string, startTime int64, limit int32, timeout time.Duration) (*wire.GetReplicaStatsResult, error) {
	if tableName == "" {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, "GetReplicaStats", "table name must not be empty")
	}
	req := &wire.GetReplicaStatsRequest{Region: region, StartTime: startTime, Limit: limit}
	spec := requestSpec{Opcode: wire.OpGetReplicaStats, TableName: tableName, Timeout: timeout, EncodePayload: req.EncodePayload}
	return execute(c, ctx, spec, wire.DecodeGetReplicaStatsResponse, noConsumed[*wire.GetReplicaStatsResult])
}

// SystemRequest submits an on-premise namespace/user/role admin
// statement.
func (c *Client) SystemRequest(ctx context.Context, statement string, timeout time.Duration) (*types.TableResult, error) {
	if statement == "" {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, "SystemRequest", "statement must not be empty")
	}
	req := &wire.SystemRequest{Statement: statement}
	spec := requestSpec{Opcode: wire.OpSystemRequest, Timeout: timeout, EncodePayload: req.EncodePayload}
	return execute(c, ctx, spec, wire.DecodeTableResultResponse, noConsumed[*types.TableResult])
}

// SystemStatusRequest polls a previously submitted SystemRequest by
// operation id.
func (c *Client) SystemStatusRequest(ctx context.Context, operationID, statement string, timeout time.Duration) (*types.TableResult, error) {
	if operationID == "" {
		return nil, nosqlerr.New(nosqlerr.KindIllegalArgument, "SystemStatusRequest", "operation id must not be empty")
	}
	req := &wire.SystemStatusRequest{OperationID: operationID, Statement: statement}
	spec := requestSpec{Opcode: wire.OpSystemStatusRequest, Timeout: timeout, EncodePayload: req.EncodePayload}
	return execute(c, ctx, spec, wire.DecodeTableResultResponse, noConsumed[*types.TableResult])
}

// WaitForAdminCompletion polls SystemStatusRequest until the admin
// operation finishes or timeout elapses.
func (c *Client) WaitForAdminCompletion(ctx context.Context, operationID string, timeout, pollDelay time.Duration) (*types.TableResult, error) {
	statusFn := func(ctx context.Context, operationID string) (*types.TableResult, error) {
		return c.SystemStatusRequest(ctx, operationID, "", 0)
	}
	return admin.WaitForAdminCompletion(ctx, statusFn, operationID, timeout, pollDelay)
}
