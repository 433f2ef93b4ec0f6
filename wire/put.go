package wire

import (
	"github.com/redbco/nosqldb/binary"
	"github.com/redbco/nosqldb/nosqlerr"
	"github.com/redbco/nosqldb/types"
)

// PutRequest is the shared payload for Put/PutIfAbsent/PutIfPresent/
// PutIfVersion. Which opcode
// is used is carried in the envelope Header, not the payload.
type PutRequest struct {
	Value types.FieldValue // Row (Record)
	Durability *types.Durability
	ReturnRow bool
	MatchVersion types.RowVersion // set only for PutIfVersion
	ExactMatch bool
	UpdateTTL bool
	TTL *types.TimeToLive
	IdentityCacheSize int32
}

func (req *PutRequest) EncodePayload(w *binary.Writer) error {
	if req.Value.Tag() != types.TagRecord {
		return nosqlerr.New(nosqlerr.KindIllegalArgument, "Put", "row value must be a Record, got "+req.Value.Tag().String())
	}
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
	if req.ExactMatch {
		w.WriteFieldName(FExactMatch)
		w.WriteBoolean(true)
	}
	if req.UpdateTTL {
		w.WriteFieldName(FUpdateTTL)
		w.WriteBoolean(true)
	}
	if req.TTL != nil {
		w.WriteFieldName(FTTL)
		w.WriteString(req.TTL.WireString())
	}
	if req.IdentityCacheSize > 0 {
		w.WriteFieldName(FIdentityCache)
		w.WriteInt(req.IdentityCacheSize)
	}
	w.WriteFieldName(FValue)
	return EncodeRecord(w, req.Value)
}

// PutResult is the decoded response to any Put* request.
type PutResult struct {
	Success bool
	RowVersion types.RowVersion
	// ExistingValue/ExistingVersion/ExistingModTime are populated on a
	// failed conditional put when ReturnRow was requested.
	ExistingValue types.FieldValue
	HasExistingValue bool
	ExistingVersion types.RowVersion
	ExistingModTime int64
	Generated types.FieldValue // identity-column generated value, if any
	HasGenerated bool
	Consumed types.ConsumedCapacity
	Topology *types.TopologyInfo
}

func DecodePutResponse(mr *MapReader, firstName string, firstTag types.Tag, hasFirst bool) (*PutResult, error) {
	res := &PutResult{}
	err := ForEachField(mr, firstName, firstTag, hasFirst, func(name string, tag types.Tag) error {
		switch name {
		case FSuccess:
			v, err := mr.Reader().ReadBoolean()
			res.Success = v
			return err
		case FRowVersion:
			b, _, err := mr.Reader().ReadRawBinary()
			res.RowVersion = types.RowVersion(b)
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
		case FGenerated:
			v, err := mr.DecodeValue(tag)
			if err != nil {
				return err
			}
			res.Generated = v
			res.HasGenerated = true
			return nil
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
