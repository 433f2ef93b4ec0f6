package binary

import "testing"

func TestPackedIntRoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, 127, 128, -128, -129, 1 << 20, -(1 << 20), 2147483647, -2147483648}
	for _, v := range cases {
		buf := WritePackedInt(nil, v)
		got, next, err := ReadPackedInt(buf, 0)
		if err != nil {
			t.Fatalf("ReadPackedInt(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %d", v, got)
		}
		if next != len(buf) {
			t.Errorf("value %d: expected to consume entire buffer (%d), consumed %d", v, len(buf), next)
		}
	}
}

func TestPackedLongRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 1 << 40, -(1 << 40), 9223372036854775807, -9223372036854775808}
	for _, v := range cases {
		buf := WritePackedLong(nil, v)
		got, next, err := ReadPackedLong(buf, 0)
		if err != nil {
			t.Fatalf("ReadPackedLong(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %d", v, got)
		}
		if next != len(buf) {
			t.Errorf("value %d: did not consume entire buffer", v)
		}
	}
}

func TestReadPackedIntTruncated(t *testing.T) {
	buf := WritePackedInt(nil, 1<<20)
	if _, _, err := ReadPackedInt(buf[:len(buf)-1], 0); err == nil {
		t.Fatal("expected truncation error")
	}
}
