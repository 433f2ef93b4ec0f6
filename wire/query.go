package wire

import (
	"github.com/redbco/nosqldb/binary"
	"github.com/redbco/nosqldb/types"
)

// MathContext is fixed for the client's decimal type: {precision, rounding-mode, code="custom"}.
type MathContext struct {
	Precision int32
	RoundingMode int32
	Code string
}

// DefaultMathContext is the implementation's native decimal context; the
// driver does not expose a caller-specified alternative.
func DefaultMathContext() MathContext {
	return MathContext{Precision: 34, RoundingMode: 4, Code: "custom"} // 34-digit precision, HALF_EVEN
}

// BoundVariable is one element of the BindVariables array for a prepared
// query.
type BoundVariable struct {
	Name string
	Value types.FieldValue
}

// QueryRequest is the payload for opcode Query. Exactly one
// of Statement or (IsPrepared && PreparedQuery) is set.
type QueryRequest struct {
	Consistency int32
	Durability *types.Durability
	MaxReadKB int32
	MaxWriteKB int32
	Limit int32
	TraceLevel int32
	QueryVersion int32

	Statement string // raw SQL; empty when IsPrepared
	IsPrepared bool
	IsSimpleQuery bool
	PreparedQuery []byte // opaque ProxyStatement bytes
	BindVariables []BoundVariable

	ContinuationKey []byte
	MathContext MathContext
	ShardID int32
	HasShardID bool
	TopoSeqNum int32
}

func (req *QueryRequest) EncodePayload(w *binary.Writer) error {
	w.WriteFieldName(FConsistency)
	w.WriteInt(req.Consistency)
	if req.Durability != nil {
		w.WriteFieldName(FDurability)
		WriteDurability(w, *req.Durability)
	}
	if req.MaxReadKB > 0 {
		w.WriteFieldName(FMaxReadKB)
		w.WriteInt(req.MaxReadKB)
	}
	if req.MaxWriteKB > 0 {
		w.WriteFieldName(FMaxWriteKB)
		w.WriteInt(req.MaxWriteKB)
	}
	if req.Limit > 0 {
		w.WriteFieldName(FNumberLimit)
		w.WriteInt(req.Limit)
	}
	w.WriteFieldName(FTraceLevel)
	w.WriteInt(req.TraceLevel)
	w.WriteFieldName(FQueryVersion)
	w.WriteInt(req.QueryVersion)

	if req.IsPrepared {
		w.WriteFieldName(FIsPrepared)
		w.WriteBoolean(true)
		w.WriteFieldName(FIsSimpleQuery)
		w.WriteBoolean(req.IsSimpleQuery)
		w.WriteFieldName(FPreparedQuery)
		w.WriteBinary(req.PreparedQuery)
		if len(req.BindVariables) > 0 {
			w.WriteFieldName(FBindVariables)
			w.StartArray()
			for _, bv := range req.BindVariables {
				w.StartMap()
				w.WriteFieldName(FName)
				w.WriteString(bv.Name)
				w.WriteFieldName(FValue)
				if err := EncodeFieldValue(w, bv.Value); err != nil {
					return err
				}
				w.EndMap()
			}
			w.EndArray()
		}
	} else {
		w.WriteFieldName(FStatement)
		w.WriteString(req.Statement)
	}

	if req.ContinuationKey != nil {
		w.WriteFieldName(FContinuationKey)
		w.WriteBinary(req.ContinuationKey)
	}

	w.WriteFieldName(FMathContextPrecision)
	w.WriteInt(req.MathContext.Precision)
	w.WriteFieldName(FMathContextRounding)
	w.WriteInt(req.MathContext.RoundingMode)
	w.WriteFieldName(FMathContextCode)
	w.WriteString(req.MathContext.Code)

	if req.HasShardID {
		w.WriteFieldName(FShardID)
		w.WriteInt(req.ShardID)
	}
	w.WriteFieldName(FTopoSeqNum)
	w.WriteInt(req.TopoSeqNum)
	return nil
}

// PartitionSortCursor is one entry of a SortPhase1Results envelope
//: one partition's result
// count and its own continuation key for phase-2 round-robin refill.
type PartitionSortCursor struct {
	PartitionID int32
	ResultCount int32
	ContinuationKey []byte
}

// SortPhase1Results is the {to_continue, partition_ids[], result_counts[],
// continuation_keys[][]} envelope returned by a phase-1 sort request.
type SortPhase1Results struct {
	ToContinue bool
	Cursors []PartitionSortCursor
}

// QueryResult is the decoded response to a Query request.
type QueryResult struct {
	Rows []types.FieldValue // Records
	ContinuationKey []byte // nil => this query is done at this level
	SortPhase1 *SortPhase1Results
	ReachedLimit bool
	PreparedStatement *types.PreparedStatement // set only when the request was a raw-SQL implicit prepare
	Topology *types.TopologyInfo
	Consumed types.ConsumedCapacity
}

func DecodeQueryResponse(mr *MapReader, firstName string, firstTag types.Tag, hasFirst bool) (*QueryResult, error) {
	res := &QueryResult{}
	var proxyBytes, driverPlan []byte
	var regCount int32
	var varNames []string
	sawPrepared := false

	err := ForEachField(mr, firstName, firstTag, hasFirst, func(name string, tag types.Tag) error {
		switch name {
		case FQueryResults:
			_, count, err := mr.Reader().ComplexHeader()
			if err != nil {
				return err
			}
			rows := make([]types.FieldValue, 0, count)
			for i := int32(0); i < count; i++ {
				rowTag, err := mr.Reader().ReadTag()
				if err != nil {
					return err
				}
				v, err := DecodeFieldValue(mr.Reader(), rowTag)
				if err != nil {
					return err
				}
				rows = append(rows, v)
			}
			res.Rows = rows
			return nil
		case FContinuationKey:
			b, _, err := mr.Reader().ReadRawBinary()
			res.ContinuationKey = b
			return err
		case FReachedLimit:
			v, err := mr.Reader().ReadBoolean()
			res.ReachedLimit = v
			return err
		case FSortPhase1Results:
			sp, err := decodeSortPhase1(mr.Reader(), tag)
			if err != nil {
				return err
			}
			res.SortPhase1 = sp
			return nil
		case FPreparedStmt:
			b, _, err := mr.Reader().ReadRawBinary()
			proxyBytes = b
			sawPrepared = true
			return err
		case FDriverQueryPlan:
			b, _, err := mr.Reader().ReadRawBinary()
			driverPlan = b
			return err
		case "nv":
			v, err := mr.Reader().ReadPackedInt()
			regCount = v
			return err
		case "vn":
			_, count, err := mr.Reader().ComplexHeader()
			if err != nil {
				return err
			}
			varNames = make([]string, 0, count)
			for i := int32(0); i < count; i++ {
				s, _, err := mr.Reader().ReadRawString()
				if err != nil {
					return err
				}
				varNames = append(varNames, s)
			}
			return nil
		case FTopologyInfo:
			t, err := ReadTopologyInfo(mr.Reader(), tag)
			if err != nil {
				return err
			}
			res.Topology = &t
			return nil
		case FConsumed:
			c, err := ReadConsumedCapacity(mr.Reader(), tag)
			res.Consumed = c
			return err
		default:
			return mr.Skip(tag)
		}
	})
	if err != nil {
		return nil, err
	}
	if sawPrepared {
		ps := types.NewPreparedStatement("", proxyBytes)
		ps.DriverQueryPlan = driverPlan
		ps.RegisterCount = int(regCount)
		ps.VariableNames = varNames
		if ns, tbl, op, _, perr := ParseProxyHeader(proxyBytes); perr == nil {
			ps.Namespace = ns
			ps.TableName = tbl
			ps.OperationCode = op
		}
		res.PreparedStatement = ps
	}
	return res, nil
}

func decodeSortPhase1(r *binary.Reader, tag types.Tag) (*SortPhase1Results, error) {
	mr, err := ReadMap(r, tag)
	if err != nil {
		return nil, err
	}
	sp := &SortPhase1Results{}
	var partitionIDs, resultCounts []int32
	var contKeys [][]byte
	err = ForEachField(mr, "", 0, false, func(name string, fieldTag types.Tag) error {
		switch name {
		case "tc":
			v, err := mr.Reader().ReadBoolean()
			sp.ToContinue = v
			return err
		case "pi":
			ids, err := readInt32Array(mr.Reader())
			partitionIDs = ids
			return err
		case "rc":
			counts, err := readInt32Array(mr.Reader())
			resultCounts = counts
			return err
		case "ck2":
			_, count, err := mr.Reader().ComplexHeader()
			if err != nil {
				return err
			}
			contKeys = make([][]byte, 0, count)
			for i := int32(0); i < count; i++ {
				b, _, err := mr.Reader().ReadRawBinary()
				if err != nil {
					return err
				}
				contKeys = append(contKeys, b)
			}
			return nil
		default:
			return mr.Skip(fieldTag)
		}
	})
	if err != nil {
		return nil, err
	}
	n := len(partitionIDs)
	sp.Cursors = make([]PartitionSortCursor, n)
	for i := 0; i < n; i++ {
		c := PartitionSortCursor{PartitionID: partitionIDs[i]}
		if i < len(resultCounts) {
			c.ResultCount = resultCounts[i]
		}
		if i < len(contKeys) {
			c.ContinuationKey = contKeys[i]
		}
		sp.Cursors[i] = c
	}
	return sp, nil
}

func readInt32Array(r *binary.Reader) ([]int32, error) {
	_, count, err := r.ComplexHeader()
	if err != nil {
		return nil, err
	}
	out := make([]int32, 0, count)
	for i := int32(0); i < count; i++ {
		v, err := r.ReadPackedInt()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
