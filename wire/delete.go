package wire

import (
	"github.com/redbco/nosqldb/binary"
	"github.com/redbco/nosqldb/types"
)

// DeleteRequest is the shared payload for Delete/DeleteIfVersion.
type DeleteRequest struct {
	Key types.FieldValue // PrimaryKey (Map)
	Durability *types.Durability
	ReturnRow bool
	MatchVersion types.RowVersion // set only for DeleteIfVersion
}

func (req *DeleteRequest) EncodePayload(w *binary.Writer) error {
	if req.Durability != nil {
		w.WriteFieldName(FDurability)
		WriteDurability(w, *req.Durability)
	}
	w.WriteFieldName(FReturnRow)
	w.WriteBoolean(req.ReturnRow)
	if req.MatchVersion != nil {
		w.WriteFieldName(FRowVersion)
		w.WriteBinary(req.MatchVersion)
	}
	w.WriteFieldName(FKey)
	return EncodeFieldValue(w, req.Key)
}

// DeleteResult is the decoded response to Delete/DeleteIfVersion.
type DeleteResult struct {
	Success bool
	ExistingValue types.FieldValue
	HasExistingValue bool
	ExistingVersion types.RowVersion
	ExistingModTime int64
	Consumed types.ConsumedCapacity
	Topology *types.TopologyInfo
}

func DecodeDeleteResponse(mr *MapReader, firstName string, firstTag types.Tag, hasFirst bool) (*DeleteResult, error) {
	res := &DeleteResult{}
	err := ForEachField(mr, firstName, firstTag, hasFirst, func(name string, tag types.Tag) error {
		switch name {
		case FSuccess:
			v, err := mr.Reader().ReadBoolean()
			res.Success = v
			return err
		case FExistingValue:
			v, err := mr.DecodeValue(tag)
			if err != nil {
				return err
			}
			res.ExistingValue = v
			res.HasExistingValue = true
			return nil
		case FExistingVersion:
			b, _, err := mr.Reader().ReadRawBinary()
			res.ExistingVersion = types.RowVersion(b)
			return err
		case FExistingModTime:
			v, err := mr.Reader().ReadPackedLong()
			res.ExistingModTime = v
			return err
		case FConsumed:
			c, err := ReadConsumedCapacity(mr.Reader(), tag)
			res.Consumed = c
			return err
		case FTopologyInfo:
			t, err := ReadTopologyInfo(mr.Reader(), tag)
			if err != nil {
				return err
			}
			res.Topology = &t
			return nil
		default:
			return mr.Skip(tag)
		}
	})
	return res, err
}

// FieldRange narrows a MultiDelete's key-prefix scan to a sub-range of
// string-typed partial-key fields.
type FieldRange struct {
	FieldPath string
	Start string
	HasStart bool
	End string
	HasEnd bool
	Inclusive bool
}

// MultiDeleteRequest is the payload for opcode MultiDelete: deletes every
// row sharing Key's shard-key prefix, optionally narrowed by Range and
// capped per batch by MaxWriteKB, resuming via ContinuationKey.
type MultiDeleteRequest struct {
	Key types.FieldValue // partial PrimaryKey (shard-key prefix)
	Durability *types.Durability
	Range *FieldRange
	MaxWriteKB int32
	ContinuationKey []byte
}

func (req *MultiDeleteRequest) EncodePayload(w *binary.Writer) error {
	if req.Durability != nil {
		w.WriteFieldName(FDurability)
		WriteDurability(w, *req.Durability)
	}
	w.WriteFieldName(FKey)
	if err := EncodeFieldValue(w, req.Key); err != nil {
		return err
	}
	if req.Range != nil {
		w.WriteFieldName(FRange)
		w.StartMap()
		w.WriteFieldName(FRangePath)
		w.WriteString(req.Range.FieldPath)
		if req.Range.HasStart {
			w.WriteFieldName(FStart)
			w.WriteString(req.Range.Start)
		}
		if req.Range.HasEnd {
			w.WriteFieldName(FEnd)
			w.WriteString(req.Range.End)
		}
		w.WriteFieldName(FInclusive)
		w.WriteBoolean(req.Range.Inclusive)
		w.EndMap()
	}
	if req.MaxWriteKB > 0 {
		w.WriteFieldName(FMaxWriteKB)
		w.WriteInt(req.MaxWriteKB)
	}
	if req.ContinuationKey != nil {
		w.WriteFieldName(FContinuationKey)
		w.WriteBinary(req.ContinuationKey)
	}
	return nil
}

// MultiDeleteResult is the decoded response to MultiDelete; a present
// ContinuationKey means more rows may remain.
type MultiDeleteResult struct {
	NumDeletions int32
	ContinuationKey []byte
	Consumed types.ConsumedCapacity
}

func DecodeMultiDeleteResponse(mr *MapReader, firstName string, firstTag types.Tag, hasFirst bool) (*MultiDeleteResult, error) {
	res := &MultiDeleteResult{}
	err := ForEachField(mr, firstName, firstTag, hasFirst, func(name string, tag types.Tag) error {
		switch name {
		case FNumDeletions:
			v, err := mr.Reader().ReadPackedInt()
			res.NumDeletions = v
			return err
		case FContinuationKey:
			b, _, err := mr.Reader().ReadRawBinary()
			res.ContinuationKey = b
			return err
		case FConsumed:
			c, err := ReadConsumedCapacity(mr.Reader(), tag)
			res.Consumed = c
			return err
		default:
			return mr.Skip(tag)
		}
	})
	return res, err
}
