package binary

import (
	"encoding/binary"
	"math"

	"github.com/redbco/nosqldb/types"
)

// complexFrame tracks the backpatch slots for one open Array/Map: the
// byte-size and element-count fields are reserved as zero when the
// container opens and patched once it closes.
type complexFrame struct {
	sizeOff int // offset of the 4-byte content-size placeholder
	countOff int // offset of the 4-byte element-count placeholder
	contentStart int
	count int
}

// Writer serializes values into the tagged-binary wire format. The zero value is not usable; use NewWriter.
type Writer struct {
	buf []byte
	stack []*complexFrame
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{buf: make([]byte, 0, 256)} }

// Bytes returns the accumulated buffer. Valid only once every
// StartArray/StartMap has a matching End call.
func (w *Writer) Bytes() []byte { return w.buf }

// Len reports the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// afterValue increments the innermost open container's element count. Called
// by every value-writing method after it finishes appending its bytes.
func (w *Writer) afterValue() {
	if len(w.stack) > 0 {
		w.stack[len(w.stack)-1].count++
	}
}

func (w *Writer) putByte(b byte) { w.buf = append(w.buf, b) }

// WriteTag writes a raw type code with no payload (Null/JsonNull/Empty),
// counting as one value in the enclosing container.
func (w *Writer) WriteTag(t types.Tag) {
	w.putByte(byte(t))
	w.afterValue()
}

// WriteInt writes a tagged Integer value.
func (w *Writer) WriteInt(v int32) {
	w.putByte(byte(types.TagInteger))
	w.buf = WritePackedInt(w.buf, v)
	w.afterValue()
}

// WriteLong writes a tagged Long value.
func (w *Writer) WriteLong(v int64) {
	w.putByte(byte(types.TagLong))
	w.buf = WritePackedLong(w.buf, v)
	w.afterValue()
}

// WriteDouble writes a tagged Double value (8-byte big-endian IEEE-754).
func (w *Writer) WriteDouble(v float64) {
	w.putByte(byte(types.TagDouble))
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf = append(w.buf, b[:]...)
	w.afterValue()
}

// WriteBoolean writes a tagged Boolean value (one byte, 0/1).
func (w *Writer) WriteBoolean(v bool) {
	w.putByte(byte(types.TagBoolean))
	if v {
		w.putByte(1)
	} else {
		w.putByte(0)
	}
	w.afterValue()
}

// WriteString writes a tagged String value; length is a packed int, -1 for
// the (conceptually distinct) absence marker used by raw string fields that
// permit null — String itself is never null at the tag level in this
// implementation (use WriteTag(TagNull) for SQL NULL), but the underlying
// writeRawString primitive used by Number shares the -1 convention.
func (w *Writer) WriteString(s string) {
	w.putByte(byte(types.TagString))
	w.writeRawString(s)
	w.afterValue()
}

// WriteNumber writes a tagged Number value (arbitrary-precision decimal
// carried as its canonical string form).
func (w *Writer) WriteNumber(canonical string) {
	w.putByte(byte(types.TagNumber))
	w.writeRawString(canonical)
	w.afterValue()
}

// writeRawString appends a length-prefixed UTF-8 string with no leading tag
// byte; length -1 denotes null.
func (w *Writer) writeRawString(s string) {
	w.buf = WritePackedInt(w.buf, int32(len(s)))
	w.buf = append(w.buf, s...)
}

// writeRawNullString appends the -1-length null marker for a String/Number
// field with no tag byte of its own (used inside fixed sub-headers).
func (w *Writer) writeRawNullString() {
	w.buf = WritePackedInt(w.buf, -1)
}

// WriteBinary writes a tagged Binary value; a nil slice is encoded as the
// -1-length null marker.
func (w *Writer) WriteBinary(b []byte) {
	w.putByte(byte(types.TagBinary))
	if b == nil {
		w.writeRawNullString()
	} else {
		w.buf = WritePackedInt(w.buf, int32(len(b)))
		w.buf = append(w.buf, b...)
	}
	w.afterValue()
}

// WriteTimestampString writes a Timestamp encoded as an ISO-8601 string via
// the String wire form.
func (w *Writer) WriteTimestampString(iso8601 string) {
	w.putByte(byte(types.TagTimestamp))
	w.writeRawString(iso8601)
	w.afterValue()
}

// StartComplex opens an Array/Map/Record container under the given tag and
// reserves its byte-size and element-count slots. Every value written
// before the matching EndComplex becomes an element. Map and Record share
// the same wire shape; only the leading tag byte differs.
func (w *Writer) StartComplex(tag types.Tag) {
	w.putByte(byte(tag))
	w.pushFrame()
}

// EndComplex backpatches the byte-size and element-count of the most
// recently opened complex value opened with StartComplex.
func (w *Writer) EndComplex() { w.popFrame() }

// StartArray opens an Array container; see StartComplex.
func (w *Writer) StartArray() { w.StartComplex(types.TagArray) }

// EndArray closes the most recently opened Array.
func (w *Writer) EndArray() { w.EndComplex() }

// StartMap opens a Map container; see StartComplex. Use StartComplex
// directly with types.TagRecord to write a Record instead.
func (w *Writer) StartMap() { w.StartComplex(types.TagMap) }

// EndMap closes the most recently opened Map.
func (w *Writer) EndMap() { w.EndComplex() }

// WriteFieldName writes a map-entry's field-name (a short registry token);
// it does not itself count as a value — the value written immediately
// after it does.
func (w *Writer) WriteFieldName(name string) {
	w.writeRawString(name)
}

// WriteRaw appends an already-serialized, self-contained value (typically
// produced by encoding it with a separate Writer first, e.g. to size-check
// it before committing it to the real buffer) and counts it as one value of
// the enclosing container.
func (w *Writer) WriteRaw(b []byte) {
	w.buf = append(w.buf, b...)
	w.afterValue()
}

func (w *Writer) pushFrame() {
	sizeOff := len(w.buf)
	w.buf = append(w.buf, 0, 0, 0, 0)
	countOff := len(w.buf)
	w.buf = append(w.buf, 0, 0, 0, 0)
	w.stack = append(w.stack, &complexFrame{sizeOff: sizeOff, countOff: countOff, contentStart: len(w.buf)})
}

func (w *Writer) popFrame() {
	n := len(w.stack)
	f := w.stack[n-1]
	w.stack = w.stack[:n-1]
	contentLen := len(w.buf) - f.contentStart
	binary.BigEndian.PutUint32(w.buf[f.sizeOff:f.sizeOff+4], uint32(contentLen))
	binary.BigEndian.PutUint32(w.buf[f.countOff:f.countOff+4], uint32(f.count))
	w.afterValue()
}
