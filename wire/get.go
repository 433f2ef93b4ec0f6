package wire

import (
	"github.com/redbco/nosqldb/binary"
	"github.com/redbco/nosqldb/types"
)

// GetRequest is the payload for opcode Get.
type GetRequest struct {
	Key types.FieldValue // PrimaryKey (Map)
	Consistency int32
}

// EncodePayload writes the Get request payload fields into the currently
// open Payload map.
func (req *GetRequest) EncodePayload(w *binary.Writer) error {
	w.WriteFieldName(FConsistency)
	w.WriteInt(req.Consistency)
	w.WriteFieldName(FKey)
	return EncodeFieldValue(w, req.Key)
}

// GetResult is the decoded response to a Get request.
type GetResult struct {
	Row types.FieldValue // Record, zero value (FieldValue{}) if no row matched
	Found bool
	RowVersion types.RowVersion
	ModificationTime int64
	Expiration int64
	Consumed types.ConsumedCapacity
	Topology *types.TopologyInfo
}

// DecodeGetResponse decodes a Get response whose error fields have already
// been read into ef, continuing the field loop from (firstName, firstTag).
func DecodeGetResponse(mr *MapReader, firstName string, firstTag types.Tag, hasFirst bool) (*GetResult, error) {
	res := &GetResult{}
	err := ForEachField(mr, firstName, firstTag, hasFirst, func(name string, tag types.Tag) error {
		switch name {
		case FRow:
			v, err := mr.DecodeValue(tag)
			if err != nil {
				return err
			}
			res.Row = v
			res.Found = true
			return nil
		case FRowVersion:
			b, _, err := mr.Reader().ReadRawBinary()
			res.RowVersion = types.RowVersion(b)
			return err
		case FModificationTime:
			v, err := mr.Reader().ReadPackedLong()
			res.ModificationTime = v
			return err
		case FExpirationTime:
			v, err := mr.Reader().ReadPackedLong()
			res.Expiration = v
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
