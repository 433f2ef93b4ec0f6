package binary

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/redbco/nosqldb/types"
)

// Reader deserializes the tagged-binary wire format. The
// zero value is not usable; use NewReader.
type Reader struct {
	buf []byte
	off int
}

// NewReader wraps buf for sequential reading starting at offset 0.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Offset reports the current read position.
func (r *Reader) Offset() int { return r.off }

// Remaining reports how many unread bytes remain.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) need(n int) error {
	if r.off+n > len(r.buf) {
		return fmt.Errorf("nosqldb/binary: truncated input: need %d bytes at offset %d, have %d", n, r.off, len(r.buf)-r.off)
	}
	return nil
}

// ReadByte reads a single raw byte.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

// PeekByte returns the next byte without advancing, or an error if exhausted.
func (r *Reader) PeekByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	return r.buf[r.off], nil
}

// ReadTag reads the next type code.
func (r *Reader) ReadTag() (types.Tag, error) {
	b, err := r.ReadByte()
	return types.Tag(b), err
}

// ReadPackedInt reads a variant-packed zigzag int32.
func (r *Reader) ReadPackedInt() (int32, error) {
	v, next, err := ReadPackedInt(r.buf, r.off)
	if err != nil {
		return 0, err
	}
	r.off = next
	return v, nil
}

// ReadPackedLong reads a variant-packed zigzag int64.
func (r *Reader) ReadPackedLong() (int64, error) {
	v, next, err := ReadPackedLong(r.buf, r.off)
	if err != nil {
		return 0, err
	}
	r.off = next
	return v, nil
}

// ReadUnpackedInt32 reads a fixed-width big-endian i32 (used only for the
// Array/Map byte-size and element-count header fields).
func (r *Reader) ReadUnpackedInt32() (int32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := int32(binary.BigEndian.Uint32(r.buf[r.off: r.off+4]))
	r.off += 4
	return v, nil
}

// ReadDouble reads an 8-byte big-endian IEEE-754 double.
func (r *Reader) ReadDouble() (float64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := math.Float64frombits(binary.BigEndian.Uint64(r.buf[r.off: r.off+8]))
	r.off += 8
	return v, nil
}

// ReadBoolean reads a one-byte 0/1 boolean.
func (r *Reader) ReadBoolean() (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// ReadRawString reads a length-prefixed UTF-8 string with no leading tag
// byte. ok is false if the length was the -1 null marker.
func (r *Reader) ReadRawString() (string, bool, error) {
	n, err := r.ReadPackedInt()
	if err != nil {
		return "", false, err
	}
	if n < 0 {
		return "", false, nil
	}
	if err := r.need(int(n)); err != nil {
		return "", false, err
	}
	s := string(r.buf[r.off: r.off+int(n)])
	r.off += int(n)
	return s, true, nil
}

// ReadRawBinary reads a length-prefixed byte slice with no leading tag byte.
// ok is false if the length was the -1 null marker.
func (r *Reader) ReadRawBinary() ([]byte, bool, error) {
	n, err := r.ReadPackedInt()
	if err != nil {
		return nil, false, err
	}
	if n < 0 {
		return nil, false, nil
	}
	if err := r.need(int(n)); err != nil {
		return nil, false, err
	}
	b := make([]byte, n)
	copy(b, r.buf[r.off:r.off+int(n)])
	r.off += int(n)
	return b, true, nil
}

// ComplexHeader reads the byte-size and element-count header fields that
// follow an Array/Map type code.
func (r *Reader) ComplexHeader() (byteSize int32, elementCount int32, err error) {
	byteSize, err = r.ReadUnpackedInt32()
	if err != nil {
		return 0, 0, err
	}
	elementCount, err = r.ReadUnpackedInt32()
	if err != nil {
		return 0, 0, err
	}
	return byteSize, elementCount, nil
}

// Skip discards the value whose type code was already consumed as tag,
// advancing past it entirely. Complex values are skipped in O(1) using
// their recorded byte-size.
func (r *Reader) Skip(tag types.Tag) error {
	switch tag {
	case types.TagNull, types.TagJsonNull, types.TagEmpty:
		return nil
	case types.TagBoolean:
		_, err := r.ReadByte()
		return err
	case types.TagInteger:
		_, err := r.ReadPackedInt()
		return err
	case types.TagLong:
		_, err := r.ReadPackedLong()
		return err
	case types.TagDouble:
		_, err := r.ReadDouble()
		return err
	case types.TagString, types.TagNumber, types.TagTimestamp:
		_, _, err := r.ReadRawString()
		return err
	case types.TagBinary:
		_, _, err := r.ReadRawBinary()
		return err
	case types.TagArray, types.TagMap, types.TagRecord:
		size, _, err := r.ComplexHeader()
		if err != nil {
			return err
		}
		if err := r.need(int(size)); err != nil {
			return err
		}
		r.off += int(size)
		return nil
	default:
		return fmt.Errorf("nosqldb/binary: cannot skip unknown tag %v", tag)
	}
}
