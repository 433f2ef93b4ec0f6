package wire

import (
	"github.com/redbco/nosqldb/binary"
	"github.com/redbco/nosqldb/types"
)

// TableRequest is the payload for opcode TableRequest: DDL statement plus
// optional limits update and free-form tags. DefinedTags is not encoded.
type TableRequest struct {
	Statement string
	Limits *types.TableLimits
	FreeFormTags map[string]string
	DefinedTags map[string]map[string]interface{}
}

func (req *TableRequest) EncodePayload(w *binary.Writer) error {
	if req.Statement != "" {
		w.WriteFieldName(FTableDDL)
		w.WriteString(req.Statement)
	}
	if req.Limits != nil {
		w.WriteFieldName(FLimits)
		WriteTableLimits(w, *req.Limits)
	}
	if len(req.FreeFormTags) > 0 {
		w.WriteFieldName(FFreeFormTags)
		w.StartMap()
		for k, v := range req.FreeFormTags {
			w.WriteFieldName(k)
			w.WriteString(v)
		}
		w.EndMap()
	}
	return nil
}

// SystemRequest is the payload for opcode SystemRequest: on-premise admin
// DDL (namespace/user/role management).
type SystemRequest struct {
	Statement string
}

func (req *SystemRequest) EncodePayload(w *binary.Writer) error {
	w.WriteFieldName(FStatement)
	w.WriteString(req.Statement)
	return nil
}

// SystemStatusRequest is the payload for opcode SystemStatusRequest: poll
// the outcome of a previously submitted SystemRequest by operation id.
type SystemStatusRequest struct {
	OperationID string
	Statement string
}

func (req *SystemStatusRequest) EncodePayload(w *binary.Writer) error {
	w.WriteFieldName(FOperationID)
	w.WriteString(req.OperationID)
	if req.Statement != "" {
		w.WriteFieldName(FStatement)
		w.WriteString(req.Statement)
	}
	return nil
}

// GetTableRequest is the payload for opcode GetTable.
type GetTableRequest struct {
	OperationID string // set to poll a specific DDL operation's outcome
}

func (req *GetTableRequest) EncodePayload(w *binary.Writer) error {
	if req.OperationID != "" {
		w.WriteFieldName(FOperationID)
		w.WriteString(req.OperationID)
	}
	return nil
}

// DecodeTableResultResponse decodes the response shared by TableRequest,
// SystemRequest/SystemStatusRequest (as a table-shaped summary when the
// operation targets a table) and GetTable.
func DecodeTableResultResponse(mr *MapReader, firstName string, firstTag types.Tag, hasFirst bool) (*types.TableResult, error) {
	res := &types.TableResult{}
	err := ForEachField(mr, firstName, firstTag, hasFirst, func(name string, tag types.Tag) error {
		switch name {
		case FCompartmentOCID:
			s, _, err := mr.Reader().ReadRawString()
			res.CompartmentID = s
			return err
		case FTableOCID:
			s, _, err := mr.Reader().ReadRawString()
			res.TableOCID = s
			return err
		case FTableName:
			s, _, err := mr.Reader().ReadRawString()
			res.TableName = s
			return err
		case FTableState:
			v, err := mr.Reader().ReadPackedInt()
			res.State = types.TableState(v)
			return err
		case FTableSchema:
			s, _, err := mr.Reader().ReadRawString()
			res.Schema = s
			return err
		case FTableDDL:
			s, _, err := mr.Reader().ReadRawString()
			res.DDL = s
			return err
		case FLimits:
			l, err := ReadTableLimits(mr.Reader(), tag)
			res.Limits = l
			return err
		case FEtag:
			s, _, err := mr.Reader().ReadRawString()
			res.Etag = s
			return err
		case FSchemaFrozen:
			v, err := mr.Reader().ReadBoolean()
			res.SchemaFrozen = v
			return err
		case FInitialized:
			v, err := mr.Reader().ReadBoolean()
			res.LocalReplicaInitialized = v
			return err
		case FOperationID:
			s, _, err := mr.Reader().ReadRawString()
			res.OperationID = s
			return err
		case FSysopState:
			v, err := mr.Reader().ReadPackedInt()
			res.SysopState = types.AdminState(v)
			return err
		case FSysopResult:
			s, _, err := mr.Reader().ReadRawString()
			res.SysopResult = s
			return err
		case FReadThrottleCount:
			v, err := mr.Reader().ReadPackedLong()
			res.ReadThrottleCount = v
			return err
		case FWriteThrottleCount:
			v, err := mr.Reader().ReadPackedLong()
			res.WriteThrottleCount = v
			return err
		case FStorageThrottleCount:
			v, err := mr.Reader().ReadPackedLong()
			res.StorageThrottleCount = v
			return err
		case FFreeFormTags:
			m, err := readStringMap(mr.Reader(), tag)
			res.FreeFormTags = m
			return err
		case FReplicas:
			reps, err := decodeReplicas(mr.Reader(), tag)
			res.Replicas = reps
			return err
		default:
			return mr.Skip(tag)
		}
	})
	return res, err
}

func readStringMap(r *binary.Reader, tag types.Tag) (map[string]string, error) {
	mr, err := ReadMap(r, tag)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	err = ForEachField(mr, "", 0, false, func(name string, fieldTag types.Tag) error {
		s, _, err := mr.Reader().ReadRawString()
		out[name] = s
		return err
	})
	return out, err
}

func decodeReplicas(r *binary.Reader, tag types.Tag) ([]types.ReplicaInfo, error) {
	_, count, err := r.ComplexHeader()
	if err != nil {
		return nil, err
	}
	out := make([]types.ReplicaInfo, 0, count)
	for i := int32(0); i < count; i++ {
		elemTag, err := r.ReadTag()
		if err != nil {
			return nil, err
		}
		mr, err := ReadMap(r, elemTag)
		if err != nil {
			return nil, err
		}
		var info types.ReplicaInfo
		err = ForEachField(mr, "", 0, false, func(name string, fieldTag types.Tag) error {
			switch name {
			case FRegion:
				s, _, err := mr.Reader().ReadRawString()
				info.Region = s
				return err
			case FLimits:
				l, err := ReadTableLimits(mr.Reader(), fieldTag)
				info.Capacity = l
				return err
			case FTableState:
				v, err := mr.Reader().ReadPackedInt()
				info.State = types.TableState(v)
				return err
			case FReadThrottleCount:
				v, err := mr.Reader().ReadPackedLong()
				info.ReadThrottleCount = v
				return err
			case FWriteThrottleCount:
				v, err := mr.Reader().ReadPackedLong()
				info.WriteThrottleCount = v
				return err
			case FReplicaLag:
				v, err := mr.Reader().ReadPackedLong()
				info.ReplicaLagMillis = v
				return err
			default:
				return mr.Skip(fieldTag)
			}
		})
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

// GetTableUsageRequest is the payload for opcode GetTableUsage (cloud only).
type GetTableUsageRequest struct {
	StartTime int64
	EndTime int64
	Limit int32
}

func (req *GetTableUsageRequest) EncodePayload(w *binary.Writer) error {
	w.WriteFieldName(FStart)
	w.WriteLong(req.StartTime)
	w.WriteFieldName(FEnd)
	w.WriteLong(req.EndTime)
	if req.Limit > 0 {
		w.WriteFieldName(FNumberLimit)
		w.WriteInt(req.Limit)
	}
	return nil
}

// TableUsageRecord is one period's usage sample.
type TableUsageRecord struct {
	StartTime int64
	SecondsInPeriod int32
	ReadUnits int32
	WriteUnits int32
	StorageGB int32
	ReadThrottleCount int32
	WriteThrottleCount int32
	StorageThrottleCount int32
}

type GetTableUsageResult struct {
	TableName string
	Usage []TableUsageRecord
}

func DecodeGetTableUsageResponse(mr *MapReader, firstName string, firstTag types.Tag, hasFirst bool) (*GetTableUsageResult, error) {
	res := &GetTableUsageResult{}
	err := ForEachField(mr, firstName, firstTag, hasFirst, func(name string, tag types.Tag) error {
		switch name {
		case FTableName:
			s, _, err := mr.Reader().ReadRawString()
			res.TableName = s
			return err
		case FTableUsage:
			_, count, err := mr.Reader().ComplexHeader()
			if err != nil {
				return err
			}
			res.Usage = make([]TableUsageRecord, 0, count)
			for i := int32(0); i < count; i++ {
				elemTag, err := mr.Reader().ReadTag()
				if err != nil {
					return err
				}
				rec, err := decodeUsageRecord(mr.Reader(), elemTag)
				if err != nil {
					return err
				}
				res.Usage = append(res.Usage, rec)
			}
			return nil
		default:
			return mr.Skip(tag)
		}
	})
	return res, err
}

func decodeUsageRecord(r *binary.Reader, tag types.Tag) (TableUsageRecord, error) {
	var rec TableUsageRecord
	mr, err := ReadMap(r, tag)
	if err != nil {
		return rec, err
	}
	err = ForEachField(mr, "", 0, false, func(name string, fieldTag types.Tag) error {
		switch name {
		case FStart:
			v, err := mr.Reader().ReadPackedLong()
			rec.StartTime = v
			return err
		case FTableUsagePeriod:
			v, err := mr.Reader().ReadPackedInt()
			rec.SecondsInPeriod = v
			return err
		case FReadUnits:
			v, err := mr.Reader().ReadPackedInt()
			rec.ReadUnits = v
			return err
		case FWriteUnits:
			v, err := mr.Reader().ReadPackedInt()
			rec.WriteUnits = v
			return err
		case FStorageGB:
			v, err := mr.Reader().ReadPackedInt()
			rec.StorageGB = v
			return err
		case FReadThrottleCount:
			v, err := mr.Reader().ReadPackedInt()
			rec.ReadThrottleCount = v
			return err
		case FWriteThrottleCount:
			v, err := mr.Reader().ReadPackedInt()
			rec.WriteThrottleCount = v
			return err
		case FStorageThrottleCount:
			v, err := mr.Reader().ReadPackedInt()
			rec.StorageThrottleCount = v
			return err
		default:
			return mr.Skip(fieldTag)
		}
	})
	return rec, err
}

// GetIndexesRequest is the payload for opcode GetIndexes.
type GetIndexesRequest struct {
	IndexName string // empty => all indexes
}

func (req *GetIndexesRequest) EncodePayload(w *binary.Writer) error {
	if req.IndexName != "" {
		w.WriteFieldName(FIndex)
		w.WriteString(req.IndexName)
	}
	return nil
}

type GetIndexesResult struct {
	Indexes []types.IndexInfo
}

func DecodeGetIndexesResponse(mr *MapReader, firstName string, firstTag types.Tag, hasFirst bool) (*GetIndexesResult, error) {
	res := &GetIndexesResult{}
	err := ForEachField(mr, firstName, firstTag, hasFirst, func(name string, tag types.Tag) error {
		switch name {
		case FIndexes:
			_, count, err := mr.Reader().ComplexHeader()
			if err != nil {
				return err
			}
			res.Indexes = make([]types.IndexInfo, 0, count)
			for i := int32(0); i < count; i++ {
				elemTag, err := mr.Reader().ReadTag()
				if err != nil {
					return err
				}
				idx, err := decodeIndexInfo(mr.Reader(), elemTag)
				if err != nil {
					return err
				}
				res.Indexes = append(res.Indexes, idx)
			}
			return nil
		default:
			return mr.Skip(tag)
		}
	})
	return res, err
}

func decodeIndexInfo(r *binary.Reader, tag types.Tag) (types.IndexInfo, error) {
	var idx types.IndexInfo
	mr, err := ReadMap(r, tag)
	if err != nil {
		return idx, err
	}
	err = ForEachField(mr, "", 0, false, func(name string, fieldTag types.Tag) error {
		switch name {
		case FIndex:
			s, _, err := mr.Reader().ReadRawString()
			idx.IndexName = s
			return err
		case FFields:
			_, count, err := mr.Reader().ComplexHeader()
			if err != nil {
				return err
			}
			idx.Fields = make([]types.IndexField, 0, count)
			for i := int32(0); i < count; i++ {
				elemTag, err := mr.Reader().ReadTag()
				if err != nil {
					return err
				}
				fld, err := decodeIndexField(mr.Reader(), elemTag)
				if err != nil {
					return err
				}
				idx.Fields = append(idx.Fields, fld)
			}
			return nil
		default:
			return mr.Skip(fieldTag)
		}
	})
	return idx, err
}

func decodeIndexField(r *binary.Reader, tag types.Tag) (types.IndexField, error) {
	var f types.IndexField
	mr, err := ReadMap(r, tag)
	if err != nil {
		return f, err
	}
	err = ForEachField(mr, "", 0, false, func(name string, fieldTag types.Tag) error {
		switch name {
		case FPath:
			s, _, err := mr.Reader().ReadRawString()
			f.Path = s
			return err
		case FType:
			s, _, err := mr.Reader().ReadRawString()
			f.Type = s
			return err
		default:
			return mr.Skip(fieldTag)
		}
	})
	return f, err
}

// ListTablesRequest is the payload for opcode ListTables, paging via
// ListStartIndex/ListMaxToRead.
type ListTablesRequest struct {
	StartIndex int32
	MaxToRead int32
}

func (req *ListTablesRequest) EncodePayload(w *binary.Writer) error {
	w.WriteFieldName(FListStartIndex)
	w.WriteInt(req.StartIndex)
	if req.MaxToRead > 0 {
		w.WriteFieldName(FListMaxToRead)
		w.WriteInt(req.MaxToRead)
	}
	return nil
}

type ListTablesResult struct {
	Tables []string
	LastIndex int32
}

func DecodeListTablesResponse(mr *MapReader, firstName string, firstTag types.Tag, hasFirst bool) (*ListTablesResult, error) {
	res := &ListTablesResult{}
	err := ForEachField(mr, firstName, firstTag, hasFirst, func(name string, tag types.Tag) error {
		switch name {
		case FTables:
			_, count, err := mr.Reader().ComplexHeader()
			if err != nil {
				return err
			}
			res.Tables = make([]string, 0, count)
			for i := int32(0); i < count; i++ {
				_, err := mr.Reader().ReadTag()
				if err != nil {
					return err
				}
				s, _, err := mr.Reader().ReadRawString()
				if err != nil {
					return err
				}
				res.Tables = append(res.Tables, s)
			}
			return nil
		case FLastIndex:
			v, err := mr.Reader().ReadPackedInt()
			res.LastIndex = v
			return err
		default:
			return mr.Skip(tag)
		}
	})
	return res, err
}

// AddReplicaRequest/DropReplicaRequest are the payloads for the cloud-only
// multi-region opcodes AddReplica/DropReplica.
type AddReplicaRequest struct {
	Region string
	ReadUnits int32
	WriteUnits int32
}

func (req *AddReplicaRequest) EncodePayload(w *binary.Writer) error {
	w.WriteFieldName(FRegion)
	w.WriteString(req.Region)
	if req.ReadUnits > 0 {
		w.WriteFieldName(FReadUnits)
		w.WriteInt(req.ReadUnits)
	}
	if req.WriteUnits > 0 {
		w.WriteFieldName(FWriteUnits)
		w.WriteInt(req.WriteUnits)
	}
	return nil
}

type DropReplicaRequest struct {
	Region string
}

func (req *DropReplicaRequest) EncodePayload(w *binary.Writer) error {
	w.WriteFieldName(FRegion)
	w.WriteString(req.Region)
	return nil
}

// GetReplicaStatsRequest is the payload for opcode GetReplicaStats.
type GetReplicaStatsRequest struct {
	Region string // empty => all regions
	StartTime int64
	Limit int32
}

func (req *GetReplicaStatsRequest) EncodePayload(w *binary.Writer) error {
	if req.Region != "" {
		w.WriteFieldName(FRegion)
		w.WriteString(req.Region)
	}
	w.WriteFieldName(FStart)
	w.WriteLong(req.StartTime)
	if req.Limit > 0 {
		w.WriteFieldName(FNumberLimit)
		w.WriteInt(req.Limit)
	}
	return nil
}

// ReplicaStatRecord is a single lag sample for one replica region.
type ReplicaStatRecord struct {
	Time int64
	ReplicaLagMillis int64
}

type GetReplicaStatsResult struct {
	TableName string
	NextStartTime int64
	StatsByRegion map[string][]ReplicaStatRecord
}

func DecodeGetReplicaStatsResponse(mr *MapReader, firstName string, firstTag types.Tag, hasFirst bool) (*GetReplicaStatsResult, error) {
	res := &GetReplicaStatsResult{StatsByRegion: make(map[string][]ReplicaStatRecord)}
	err := ForEachField(mr, firstName, firstTag, hasFirst, func(name string, tag types.Tag) error {
		switch name {
		case FTableName:
			s, _, err := mr.Reader().ReadRawString()
			res.TableName = s
			return err
		case FNextStartTime:
			v, err := mr.Reader().ReadPackedLong()
			res.NextStartTime = v
			return err
		case FReplicaStats:
			regionMap, err := ReadMap(mr.Reader(), tag)
			if err != nil {
				return err
			}
			return ForEachField(regionMap, "", 0, false, func(region string, regionTag types.Tag) error {
				_, count, err := regionMap.Reader().ComplexHeader()
				if err != nil {
					return err
				}
				recs := make([]ReplicaStatRecord, 0, count)
				for i := int32(0); i < count; i++ {
					elemTag, err := regionMap.Reader().ReadTag()
					if err != nil {
						return err
					}
					rec, err := decodeReplicaStatRecord(regionMap.Reader(), elemTag)
					if err != nil {
						return err
					}
					recs = append(recs, rec)
				}
				res.StatsByRegion[region] = recs
				return nil
			})
		default:
			return mr.Skip(tag)
		}
	})
	return res, err
}

func decodeReplicaStatRecord(r *binary.Reader, tag types.Tag) (ReplicaStatRecord, error) {
	var rec ReplicaStatRecord
	mr, err := ReadMap(r, tag)
	if err != nil {
		return rec, err
	}
	err = ForEachField(mr, "", 0, false, func(name string, fieldTag types.Tag) error {
		switch name {
		case FTime:
			v, err := mr.Reader().ReadPackedLong()
			rec.Time = v
			return err
		case FReplicaLag:
			v, err := mr.Reader().ReadPackedLong()
			rec.ReplicaLagMillis = v
			return err
		default:
			return mr.Skip(fieldTag)
		}
	})
	return rec, err
}
