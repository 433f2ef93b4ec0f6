package wire

import (
	"fmt"

	"github.com/redbco/nosqldb/binary"
	"github.com/redbco/nosqldb/nosqlerr"
	"github.com/redbco/nosqldb/types"
)

// MaxSubOperationBytes is the per-sub-operation request-size limit. Cloud deployments enforce a smaller
// server-side cap; this client-side check fails fast before sending.
const MaxSubOperationBytes = 2 * 1024 * 1024

// SubOperation is one entry of a WriteMultiple request: either a Put* or a
// Delete* payload tagged with its own opcode.
type SubOperation struct {
	Opcode Opcode
	Put *PutRequest
	Delete *DeleteRequest
	AbortIfUnsuccessful bool
}

// WriteMultipleRequest is the payload for opcode WriteMultiple: an ordered
// array of SubOperation, each encoded as its own sub-map carrying its own
// opcode and AbortIfUnsuccessful flag.
type WriteMultipleRequest struct {
	TableName string
	Ops []SubOperation
}

// EncodePayload writes the WriteMultiple payload. Each sub-op is first
// serialized in isolation to enforce MaxSubOperationBytes, then copied into the shared
// writer.
func (req *WriteMultipleRequest) EncodePayload(w *binary.Writer) error {
	w.WriteFieldName(FNumOperations)
	w.WriteInt(int32(len(req.Ops)))
	w.WriteFieldName(FOperations)
	w.StartArray()
	for i, op := range req.Ops {
		sub := binary.NewWriter()
		sub.StartMap()
		sub.WriteFieldName(FOpcode)
		sub.WriteInt(int32(op.Opcode))
		sub.WriteFieldName(FAbortOnFail)
		sub.WriteBoolean(op.AbortIfUnsuccessful)
		switch {
		case op.Put != nil:
			if err := op.Put.EncodePayload(sub); err != nil {
				return err
			}
		case op.Delete != nil:
			if err := op.Delete.EncodePayload(sub); err != nil {
				return err
			}
		default:
			return fmt.Errorf("nosqldb/wire: sub-operation %d has neither Put nor Delete set", i)
		}
		sub.EndMap()
		if sub.Len() > MaxSubOperationBytes {
			return nosqlerr.New(nosqlerr.KindRequestSizeLimit, "WriteMultiple",
				fmt.Sprintf("sub-operation %d is %d bytes, exceeds limit of %d", i, sub.Len(), MaxSubOperationBytes))
		}
		w.WriteRaw(sub.Bytes())
	}
	w.EndArray()
	return nil
}

// SubOpResult is the per-operation result inside a successful WriteMultiple.
type SubOpResult struct {
	Success bool
	RowVersion types.RowVersion
	ExistingVersion types.RowVersion
	Generated types.FieldValue
	HasGenerated bool
}

// WriteMultipleResult is the decoded response: on success
// Results holds one SubOpResult per sub-op in order; on partial abort,
// Success=false, FailedOperationIndex/FailedOperationResult are populated
// and Results is empty.
type WriteMultipleResult struct {
	Success bool
	Results []SubOpResult
	FailedOperationIndex int
	FailedOperationResult *SubOpResult
	Consumed types.ConsumedCapacity
}

func DecodeWriteMultipleResponse(mr *MapReader, firstName string, firstTag types.Tag, hasFirst bool) (*WriteMultipleResult, error) {
	res := &WriteMultipleResult{Success: true}
	err := ForEachField(mr, firstName, firstTag, hasFirst, func(name string, tag types.Tag) error {
		switch name {
		case FWmSuccess:
			_, count, err := mr.Reader().ComplexHeader()
			if err != nil {
				return err
			}
			res.Results = make([]SubOpResult, 0, count)
			for i := int32(0); i < count; i++ {
				sr, err := decodeSubOpResult(mr.Reader())
				if err != nil {
					return err
				}
				res.Results = append(res.Results, sr)
			}
			return nil
		case FWmFailure:
			res.Success = false
			sub, err := ReadMap(mr.Reader(), tag)
			if err != nil {
				return err
			}
			return ForEachField(sub, "", 0, false, func(n string, t types.Tag) error {
				switch n {
				case FWmFailIndex:
					v, err := sub.Reader().ReadPackedInt()
					res.FailedOperationIndex = int(v)
					return err
				case FWmFailResult:
					sr, err := decodeSubOpResultFromTag(sub.Reader(), t)
					if err != nil {
						return err
					}
					res.FailedOperationResult = &sr
					return nil
				default:
					return sub.Skip(t)
				}
			})
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

func decodeSubOpResult(r *binary.Reader) (SubOpResult, error) {
	tag, err := r.ReadTag()
	if err != nil {
		return SubOpResult{}, err
	}
	return decodeSubOpResultFromTag(r, tag)
}

func decodeSubOpResultFromTag(r *binary.Reader, tag types.Tag) (SubOpResult, error) {
	var sr SubOpResult
	mr, err := ReadMap(r, tag)
	if err != nil {
		return sr, err
	}
	err = ForEachField(mr, "", 0, false, func(name string, fieldTag types.Tag) error {
		switch name {
		case FSuccess:
			v, err := mr.Reader().ReadBoolean()
			sr.Success = v
			return err
		case FRowVersion:
			b, _, err := mr.Reader().ReadRawBinary()
			sr.RowVersion = types.RowVersion(b)
			return err
		case FExistingVersion:
			b, _, err := mr.Reader().ReadRawBinary()
			sr.ExistingVersion = types.RowVersion(b)
			return err
		case FGenerated:
			v, err := mr.DecodeValue(fieldTag)
			if err != nil {
				return err
			}
			sr.Generated = v
			sr.HasGenerated = true
			return nil
		default:
			return mr.Skip(fieldTag)
		}
	})
	return sr, err
}
