package binary

import (
	"testing"

	"github.com/redbco/nosqldb/types"
)

func TestWriterMapHeaderBackpatch(t *testing.T) {
	w := NewWriter()
	w.StartMap()
	w.WriteFieldName("a")
	w.WriteInt(42)
	w.WriteFieldName("b")
	w.WriteString("hello")
	w.EndMap()

	buf := w.Bytes()
	r := NewReader(buf)
	tag, err := r.ReadTag()
	if err != nil || tag != types.TagMap {
		t.Fatalf("expected TagMap, got %v err=%v", tag, err)
	}
	size, count, err := r.ComplexHeader()
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("expected element count 2, got %d", count)
	}
	if int(size) != r.Remaining() {
		t.Fatalf("byte-size header %d does not match remaining content %d", size, r.Remaining())
	}
}

func TestWriterNestedArraySkip(t *testing.T) {
	w := NewWriter()
	w.StartMap()
	w.WriteFieldName("outer")
	w.StartArray()
	w.WriteInt(1)
	w.WriteInt(2)
	w.WriteInt(3)
	w.EndArray()
	w.WriteFieldName("after")
	w.WriteBoolean(true)
	w.EndMap()

	r := NewReader(w.Bytes())
	tag, _ := r.ReadTag()
	if tag != types.TagMap {
		t.Fatal("expected map")
	}
	_, count, err := r.ComplexHeader()
	if err != nil || count != 2 {
		t.Fatalf("count=%d err=%v", count, err)
	}

	name, _, _ := r.ReadRawString()
	if name != "outer" {
		t.Fatalf("expected field 'outer', got %q", name)
	}
	arrTag, _ := r.ReadTag()
	if arrTag != types.TagArray {
		t.Fatal("expected array")
	}
	if err := r.Skip(arrTag); err != nil {
		t.Fatalf("skip array: %v", err)
	}

	name2, _, _ := r.ReadRawString()
	if name2 != "after" {
		t.Fatalf("expected field 'after' after skipping array, got %q", name2)
	}
	boolTag, _ := r.ReadTag()
	v, err := r.ReadBoolean()
	if boolTag != types.TagBoolean || err != nil || v != true {
		t.Fatalf("expected trailing boolean true, got tag=%v v=%v err=%v", boolTag, v, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected no remaining bytes, got %d", r.Remaining())
	}
}

func TestWriterBinaryNull(t *testing.T) {
	w := NewWriter()
	w.WriteBinary(nil)
	r := NewReader(w.Bytes())
	tag, _ := r.ReadTag()
	if tag != types.TagBinary {
		t.Fatal("expected binary tag")
	}
	b, ok, err := r.ReadRawBinary()
	if err != nil || ok || b != nil {
		t.Fatalf("expected null binary, got b=%v ok=%v err=%v", b, ok, err)
	}
}
