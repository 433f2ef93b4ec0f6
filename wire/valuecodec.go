package wire

import (
	"fmt"
	"time"

	"github.com/redbco/nosqldb/binary"
	"github.com/redbco/nosqldb/types"
)

// EncodeFieldValue writes a FieldValue tree using this protocol's tag
// encodings. Timestamps are written in their String wire form
// (ISO-8601, millisecond-truncated); callers that additionally need the
// millis-as-Long form write it as a sibling field themselves
// "which form is used is specified per field".
func EncodeFieldValue(w *binary.Writer, v types.FieldValue) error {
	switch v.Tag() {
	case types.TagNull:
		w.WriteTag(types.TagNull)
	case types.TagJsonNull:
		w.WriteTag(types.TagJsonNull)
	case types.TagEmpty:
		w.WriteTag(types.TagEmpty)
	case types.TagInteger:
		w.WriteInt(v.AsInt())
	case types.TagLong:
		w.WriteLong(v.AsLong())
	case types.TagDouble:
		w.WriteDouble(v.AsDouble())
	case types.TagNumber:
		w.WriteNumber(v.AsNumber())
	case types.TagBoolean:
		w.WriteBoolean(v.AsBool())
	case types.TagString:
		w.WriteString(v.AsString())
	case types.TagBinary:
		w.WriteBinary(v.AsBinary())
	case types.TagTimestamp:
		w.WriteTimestampString(v.AsTimestamp().Truncate(time.Millisecond).Format("2006-01-02T15:04:05.000Z"))
	case types.TagArray:
		w.StartArray()
		for _, e := range v.AsArray() {
			if err := EncodeFieldValue(w, e); err != nil {
				return err
			}
		}
		w.EndArray()
	case types.TagMap, types.TagRecord:
		w.StartComplex(v.Tag())
		for _, k := range v.Fields() {
			fv, _ := v.Get(k)
			w.WriteFieldName(k)
			if err := EncodeFieldValue(w, fv); err != nil {
				return err
			}
		}
		w.EndComplex()
	default:
		return fmt.Errorf("nosqldb/wire: cannot encode FieldValue with tag %v", v.Tag())
	}
	return nil
}

// EncodeRecord writes v (which must be a Record) using TagRecord instead of
// TagMap, for top-level row values where the Map/Record distinction matters
// on the wire.
func EncodeRecord(w *binary.Writer, v types.FieldValue) error {
	if v.Tag() != types.TagRecord {
		return fmt.Errorf("nosqldb/wire: EncodeRecord requires a Record, got %v", v.Tag())
	}
	return EncodeFieldValue(w, v)
}

// DecodeFieldValue reads a value whose type code has already been consumed
// as tag. Unknown-tag tolerance at the map-entry level is handled by
// MapReader.Skip, not here: by the time a concrete value is decoded its tag
// is already known to be one of the closed registry of tags.
func DecodeFieldValue(r *binary.Reader, tag types.Tag) (types.FieldValue, error) {
	switch tag {
	case types.TagNull:
		return types.Null(), nil
	case types.TagJsonNull:
		return types.JsonNull(), nil
	case types.TagEmpty:
		return types.Empty(), nil
	case types.TagInteger:
		v, err := r.ReadPackedInt()
		return types.Int(v), err
	case types.TagLong:
		v, err := r.ReadPackedLong()
		return types.Long(v), err
	case types.TagDouble:
		v, err := r.ReadDouble()
		return types.Double(v), err
	case types.TagNumber:
		s, _, err := r.ReadRawString()
		return types.Number(s), err
	case types.TagBoolean:
		v, err := r.ReadBoolean()
		return types.Bool(v), err
	case types.TagString:
		s, _, err := r.ReadRawString()
		return types.Str(s), err
	case types.TagBinary:
		b, _, err := r.ReadRawBinary()
		return types.Binary(b), err
	case types.TagTimestamp:
		s, _, err := r.ReadRawString()
		if err != nil {
			return types.FieldValue{}, err
		}
		t, perr := time.Parse("2006-01-02T15:04:05.000Z", s)
		if perr != nil {
			// fall back to RFC3339Nano for servers that omit trailing zeros
			t, perr = time.Parse(time.RFC3339Nano, s)
			if perr != nil {
				return types.FieldValue{}, fmt.Errorf("nosqldb/wire: invalid timestamp %q: %w", s, perr)
			}
		}
		return types.Timestamp(t), nil
	case types.TagArray:
		_, count, err := r.ComplexHeader()
		if err != nil {
			return types.FieldValue{}, err
		}
		vals := make([]types.FieldValue, 0, count)
		for i := int32(0); i < count; i++ {
			elemTag, err := r.ReadTag()
			if err != nil {
				return types.FieldValue{}, err
			}
			fv, err := DecodeFieldValue(r, elemTag)
			if err != nil {
				return types.FieldValue{}, err
			}
			vals = append(vals, fv)
		}
		return types.Array(vals...), nil
	case types.TagMap, types.TagRecord:
		_, count, err := r.ComplexHeader()
		if err != nil {
			return types.FieldValue{}, err
		}
		var m types.FieldValue
		if tag == types.TagRecord {
			m = types.NewRecord()
		} else {
			m = types.NewMap()
		}
		for i := int32(0); i < count; i++ {
			name, _, err := r.ReadRawString()
			if err != nil {
				return types.FieldValue{}, err
			}
			elemTag, err := r.ReadTag()
			if err != nil {
				return types.FieldValue{}, err
			}
			fv, err := DecodeFieldValue(r, elemTag)
			if err != nil {
				return types.FieldValue{}, err
			}
			m = m.Put(name, fv)
		}
		return m, nil
	default:
		return types.FieldValue{}, fmt.Errorf("nosqldb/wire: unknown field-value tag %v", tag)
	}
}
