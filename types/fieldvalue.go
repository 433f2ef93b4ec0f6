// Package types implements the driver's generic field-value tree: a tagged sum type covering every value the wire protocol can
// carry, plus the higher-level domain types built from it (Row, PrimaryKey,
// TimeToLive, Durability, TableLimits, TableResult, PreparedStatement,
// TopologyInfo, ConsumedCapacity).
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"time"
)

// Tag is the wire type code for a FieldValue variant.
// Numeric values match the closed registry the server and client agree on.
type Tag byte

const (
	TagArray Tag = 0
	TagBinary Tag = 1
	TagBoolean Tag = 2
	TagDouble Tag = 3
	TagInteger Tag = 4
	TagLong Tag = 5
	TagMap Tag = 6
	TagString Tag = 7
	TagTimestamp Tag = 8
	TagNumber Tag = 9
	TagJsonNull Tag = 10
	TagNull Tag = 11
	TagEmpty Tag = 12
	TagRecord Tag = 13
)

func (t Tag) String() string {
	switch t {
	case TagArray:
		return "Array"
	case TagBinary:
		return "Binary"
	case TagBoolean:
		return "Boolean"
	case TagDouble:
		return "Double"
	case TagInteger:
		return "Integer"
	case TagLong:
		return "Long"
	case TagMap:
		return "Map"
	case TagString:
		return "String"
	case TagTimestamp:
		return "Timestamp"
	case TagNumber:
		return "Number"
	case TagJsonNull:
		return "JsonNull"
	case TagNull:
		return "Null"
	case TagEmpty:
		return "Empty"
	case TagRecord:
		return "Record"
	default:
		return fmt.Sprintf("Tag(%d)", byte(t))
	}
}

// FieldValue is the tagged sum type that carries every value crossing the
// wire: exactly one of the typed accessors is meaningful for a given Tag;
// callers switch on Tag() before reading.
type FieldValue struct {
	tag Tag

	i int32
	l int64
	d float64
	s string // also backs Number (arbitrary-precision decimal string)
	bin []byte
	ts time.Time
	b bool
	arr []FieldValue
	mp *orderedMap // backs both Map and Record; Record additionally requires ordered=true
	ordered bool
}

// Tag reports which variant this value holds.
func (v FieldValue) Tag() Tag { return v.tag }

func Null() FieldValue { return FieldValue{tag: TagNull} }
func JsonNull() FieldValue { return FieldValue{tag: TagJsonNull} }
func Empty() FieldValue { return FieldValue{tag: TagEmpty} }

func Int(v int32) FieldValue { return FieldValue{tag: TagInteger, i: v} }
func Long(v int64) FieldValue { return FieldValue{tag: TagLong, l: v} }
func Double(v float64) FieldValue { return FieldValue{tag: TagDouble, d: v} }
func Bool(v bool) FieldValue { return FieldValue{tag: TagBoolean, b: v} }
func Str(v string) FieldValue { return FieldValue{tag: TagString, s: v} }
func Binary(v []byte) FieldValue {
	cp := make([]byte, len(v))
	copy(cp, v)
	return FieldValue{tag: TagBinary, bin: cp}
}

// Number holds an arbitrary-precision decimal encoded as its canonical
// string form. Validity is the caller's responsibility; NumberFromString
// below does validate.
func Number(canonical string) FieldValue { return FieldValue{tag: TagNumber, s: canonical} }

// NumberFromString validates s as a decimal literal before wrapping it.
func NumberFromString(s string) (FieldValue, error) {
	if _, ok := new(big.Float).SetString(s); !ok {
		return FieldValue{}, fmt.Errorf("nosqldb/types: %q is not a valid decimal number", s)
	}
	return Number(s), nil
}

// Timestamp stores a UTC instant at nanosecond precision; wire encodings
// truncate to millisecond precision, so round trips lose sub-millisecond
// resolution.
func Timestamp(t time.Time) FieldValue {
	return FieldValue{tag: TagTimestamp, ts: t.UTC()}
}

func Array(vals ...FieldValue) FieldValue {
	cp := make([]FieldValue, len(vals))
	copy(cp, vals)
	return FieldValue{tag: TagArray, arr: cp}
}

// NewMap creates an empty Map; iteration order over its fields is
// unspecified.
func NewMap() FieldValue { return FieldValue{tag: TagMap, mp: newOrderedMap()} }

// NewRecord creates an empty Record, which preserves field insertion order.
func NewRecord() FieldValue { return FieldValue{tag: TagRecord, mp: newOrderedMap(), ordered: true} }

// ToRecord returns v re-tagged as a Record, carrying over its fields in
// their existing order. v must already be a Map or Record; any other tag
// is returned unchanged, since it has no fields to carry over.
func (v FieldValue) ToRecord() FieldValue {
	if v.tag == TagRecord {
		return v
	}
	if v.tag != TagMap {
		return v
	}
	rec := NewRecord()
	for _, k := range v.Fields() {
		fv, _ := v.Get(k)
		rec = rec.Put(k, fv)
	}
	return rec
}

// AsInt, AsLong,... panic-free accessors returning the zero value when the
// tag does not match; callers that need strictness should check Tag() first.
func (v FieldValue) AsInt() int32 { return v.i }
func (v FieldValue) AsLong() int64 { return v.l }
func (v FieldValue) AsDouble() float64 { return v.d }
func (v FieldValue) AsBool() bool { return v.b }
func (v FieldValue) AsString() string { return v.s }
func (v FieldValue) AsNumber() string { return v.s }
func (v FieldValue) AsBinary() []byte { return v.bin }
func (v FieldValue) AsTimestamp() time.Time { return v.ts }
func (v FieldValue) AsArray() []FieldValue { return v.arr }

// Put inserts or overwrites a field in a Map/Record, returning the
// receiver for chaining. Panics if the value is not a Map or Record.
func (v FieldValue) Put(name string, fv FieldValue) FieldValue {
	if v.tag != TagMap && v.tag != TagRecord {
		panic("nosqldb/types: Put called on non-map FieldValue")
	}
	v.mp.set(name, fv)
	return v
}

// Get looks up a field by name in a Map/Record. ok is false if absent or
// if the receiver is not a Map/Record.
func (v FieldValue) Get(name string) (FieldValue, bool) {
	if v.mp == nil {
		return FieldValue{}, false
	}
	return v.mp.get(name)
}

// Fields returns the field names of a Map/Record in iteration order
// (insertion order for Record; unspecified-but-stable for Map).
func (v FieldValue) Fields() []string {
	if v.mp == nil {
		return nil
	}
	return v.mp.keys()
}

// Len returns the number of elements for Array/Map/Record, 0 otherwise.
func (v FieldValue) Len() int {
	switch v.tag {
	case TagArray:
		return len(v.arr)
	case TagMap, TagRecord:
		return v.mp.len()
	default:
		return 0
	}
}

// Equal implements semantic equality: Records/Maps compare by key/value
// identity regardless of backing order, Timestamps compare at millisecond
// precision (the wire's resolution).
func (v FieldValue) Equal(o FieldValue) bool {
	if v.tag != o.tag {
		return false
	}
	switch v.tag {
	case TagNull, TagJsonNull, TagEmpty:
		return true
	case TagInteger:
		return v.i == o.i
	case TagLong:
		return v.l == o.l
	case TagDouble:
		return v.d == o.d
	case TagBoolean:
		return v.b == o.b
	case TagString, TagNumber:
		return v.s == o.s
	case TagBinary:
		if len(v.bin) != len(o.bin) {
			return false
		}
		for i := range v.bin {
			if v.bin[i] != o.bin[i] {
				return false
			}
		}
		return true
	case TagTimestamp:
		return v.ts.Truncate(time.Millisecond).Equal(o.ts.Truncate(time.Millisecond))
	case TagArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case TagMap, TagRecord:
		if v.mp.len() != o.mp.len() {
			return false
		}
		for _, k := range v.mp.keys() {
			a, _ := v.mp.get(k)
			b, ok := o.mp.get(k)
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// MarshalJSON renders a FieldValue as JSON: Empty has no JSON representation
// and returns an error, Binary marshals base64 like encoding/json's []byte.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.tag {
	case TagNull:
		return []byte("null"), nil
	case TagJsonNull:
		return []byte("null"), nil
	case TagEmpty:
		return nil, fmt.Errorf("nosqldb/types: cannot marshal Empty value to JSON")
	case TagInteger:
		return json.Marshal(v.i)
	case TagLong:
		return json.Marshal(v.l)
	case TagDouble:
		return json.Marshal(v.d)
	case TagNumber:
		return []byte(v.s), nil
	case TagBoolean:
		return json.Marshal(v.b)
	case TagString:
		return json.Marshal(v.s)
	case TagBinary:
		return json.Marshal(v.bin) // base64, matching encoding/json's []byte behavior
	case TagTimestamp:
		return json.Marshal(v.ts.Format(time.RFC3339Nano))
	case TagArray:
		out := make([]json.RawMessage, len(v.arr))
		for i, e := range v.arr {
			b, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}
			out[i] = b
		}
		return json.Marshal(out)
	case TagMap, TagRecord:
		buf := []byte{'{'}
		for i, k := range v.mp.keys() {
			if i > 0 {
				buf = append(buf, ',')
			}
			kb, _ := json.Marshal(k)
			buf = append(buf, kb...)
			buf = append(buf, ':')
			fv, _ := v.mp.get(k)
			vb, err := fv.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, vb...)
		}
		buf = append(buf, '}')
		return buf, nil
	default:
		return nil, fmt.Errorf("nosqldb/types: unknown tag %v", v.tag)
	}
}

// FromJSON parses arbitrary JSON into a FieldValue: objects become
// Maps (field order is not the document's order), arrays become Arrays, JSON null becomes JsonNull,
// numbers become Integer if representable, else Long, else Double.
func FromJSON(data []byte) (FieldValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return FieldValue{}, fmt.Errorf("nosqldb/types: invalid JSON: %w", err)
	}
	return fromAny(raw)
}

func fromAny(raw interface{}) (FieldValue, error) {
	switch x := raw.(type) {
	case nil:
		return JsonNull(), nil
	case bool:
		return Bool(x), nil
	case string:
		return Str(x), nil
	case json.Number:
		return numberFromJSONNumber(x)
	case []interface{}:
		vals := make([]FieldValue, len(x))
		for i, e := range x {
			fv, err := fromAny(e)
			if err != nil {
				return FieldValue{}, err
			}
			vals[i] = fv
		}
		return Array(vals...), nil
	case map[string]interface{}:
		m := NewMap()
		for k, e := range x {
			fv, err := fromAny(e)
			if err != nil {
				return FieldValue{}, err
			}
			m = m.Put(k, fv)
		}
		return m, nil
	default:
		return FieldValue{}, fmt.Errorf("nosqldb/types: unsupported JSON value type %T", raw)
	}
}

func numberFromJSONNumber(n json.Number) (FieldValue, error) {
	if i, err := n.Int64(); err == nil {
		if int64(int32(i)) == i {
			return Int(int32(i)), nil
		}
		return Long(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return FieldValue{}, fmt.Errorf("nosqldb/types: invalid JSON number %q: %w", n, err)
	}
	return Double(f), nil
}
