package wire

import (
	"fmt"

	"github.com/redbco/nosqldb/binary"
	"github.com/redbco/nosqldb/types"
)

// MapReader iterates the entries of a Map/Record value field-by-field,
// giving opcode decoders a place to switch on the short registry token and
// fall through to Skip for anything they don't recognize: unknown field
// names must always be skipped rather than rejected.
type MapReader struct {
	r *binary.Reader
	remaining int32
}

// ReadMap consumes a Map or Record type code plus its header and returns a
// MapReader over its entries. tag must already have been read by the
// caller (typically the top-level envelope or an opcode payload reader).
func ReadMap(r *binary.Reader, tag types.Tag) (*MapReader, error) {
	if tag != types.TagMap && tag != types.TagRecord {
		return nil, fmt.Errorf("nosqldb/wire: expected Map or Record, got tag %v", tag)
	}
	_, count, err := r.ComplexHeader()
	if err != nil {
		return nil, err
	}
	return &MapReader{r: r, remaining: count}, nil
}

// Next reads the next entry's field name and value type code, or reports
// done=true when the map is exhausted. The caller MUST consume the value
// (via a concrete decode, or via Skip) before calling Next again.
func (m *MapReader) Next() (name string, tag types.Tag, done bool, err error) {
	if m.remaining == 0 {
		return "", 0, true, nil
	}
	name, _, err = m.r.ReadRawString()
	if err != nil {
		return "", 0, false, err
	}
	tag, err = m.r.ReadTag()
	if err != nil {
		return "", 0, false, err
	}
	m.remaining--
	return name, tag, false, nil
}

// Skip discards the value for the entry most recently returned by Next,
// used in the default case of an opcode decoder's field switch.
func (m *MapReader) Skip(tag types.Tag) error { return m.r.Skip(tag) }

// DecodeValue decodes the value for the entry most recently returned by
// Next as a generic FieldValue tree, used for opaque payload
// fields like Value/Key/Row.
func (m *MapReader) DecodeValue(tag types.Tag) (types.FieldValue, error) {
	return DecodeFieldValue(m.r, tag)
}

// Reader exposes the underlying binary.Reader for opcode-specific decoding
// of a field's scalar payload (ReadPackedInt, ReadRawString,...).
func (m *MapReader) Reader() *binary.Reader { return m.r }

// ForEachField drives fn over every remaining entry of mr, optionally
// starting with an already-read (first, firstTag) pair — the common case
// after ReadErrorFields has peeked past the error fields and returned the
// first opcode-specific entry it found. fn MUST fully consume (decode or
// Skip) the value for each entry it is given.
func ForEachField(mr *MapReader, first string, firstTag types.Tag, hasFirst bool, fn func(name string, tag types.Tag) error) error {
	if hasFirst {
		if err := fn(first, firstTag); err != nil {
			return err
		}
	}
	for {
		name, tag, done, err := mr.Next()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if err := fn(name, tag); err != nil {
			return err
		}
	}
}
