package types

import (
	"testing"
	"time"
)

func TestPutGetOnMap(t *testing.T) {
	m := NewMap().Put("a", Int(1)).Put("b", Str("x"))
	v, ok := m.Get("a")
	if !ok || v.AsInt() != 1 {
		t.Fatalf("expected a=1, got %v ok=%v", v, ok)
	}
	_, ok = m.Get("missing")
	if ok {
		t.Fatal("expected missing key to report ok=false")
	}
}

func TestGetOnNonMapReturnsFalse(t *testing.T) {
	_, ok := Int(5).Get("x")
	if ok {
		t.Fatal("expected Get on a non-map FieldValue to report ok=false")
	}
}

func TestPutOnNonMapPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Put on a non-map FieldValue to panic")
		}
	}()
	Int(5).Put("x", Int(1))
}

func TestFieldsPreservesInsertionOrderForRecord(t *testing.T) {
	r := NewRecord().Put("z", Int(1)).Put("a", Int(2)).Put("m", Int(3))
	got := r.Fields()
	want := []string{"z", "a", "m"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestLenAcrossVariants(t *testing.T) {
	if Array(Int(1), Int(2), Int(3)).Len() != 3 {
		t.Fatal("expected array length 3")
	}
	if NewMap().Put("a", Int(1)).Len() != 1 {
		t.Fatal("expected map length 1")
	}
	if Int(5).Len() != 0 {
		t.Fatal("expected scalar length 0")
	}
}

func TestEqualScalars(t *testing.T) {
	if !Int(5).Equal(Int(5)) {
		t.Fatal("expected Int(5) == Int(5)")
	}
	if Int(5).Equal(Int(6)) {
		t.Fatal("expected Int(5) != Int(6)")
	}
	if Int(5).Equal(Long(5)) {
		t.Fatal("expected different tags to never be equal")
	}
	if !Null().Equal(Null()) {
		t.Fatal("expected Null() == Null()")
	}
}

func TestEqualMapIgnoresInsertionOrder(t *testing.T) {
	a := NewMap().Put("x", Int(1)).Put("y", Str("v"))
	b := NewMap().Put("y", Str("v")).Put("x", Int(1))
	if !a.Equal(b) {
		t.Fatal("expected maps with the same key/value pairs to be equal regardless of insertion order")
	}
}

func TestEqualTimestampAtMillisecondPrecision(t *testing.T) {
	a := Timestamp(time.Date(2024, 1, 1, 0, 0, 0, 123_000_000, time.UTC))
	b := Timestamp(time.Date(2024, 1, 1, 0, 0, 0, 123_999_999, time.UTC))
	if !a.Equal(b) {
		t.Fatal("expected timestamps within the same millisecond to be equal")
	}
	c := Timestamp(time.Date(2024, 1, 1, 0, 0, 0, 124_000_000, time.UTC))
	if a.Equal(c) {
		t.Fatal("expected timestamps in different milliseconds to differ")
	}
}

func TestEqualArrayOrderMatters(t *testing.T) {
	a := Array(Int(1), Int(2))
	b := Array(Int(2), Int(1))
	if a.Equal(b) {
		t.Fatal("expected array element order to matter")
	}
}

func TestMarshalJSONScalars(t *testing.T) {
	cases := []struct {
		v    FieldValue
		want string
	}{
		{Null(), "null"},
		{JsonNull(), "null"},
		{Int(42), "42"},
		{Bool(true), "true"},
		{Str("hi"), `"hi"`},
		{Number("3.14"), "3.14"},
	}
	for _, c := range cases {
		b, err := c.v.MarshalJSON()
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != c.want {
			t.Errorf("expected %q, got %q", c.want, string(b))
		}
	}
}

func TestMarshalJSONEmptyIsError(t *testing.T) {
	_, err := Empty().MarshalJSON()
	if err == nil {
		t.Fatal("expected Empty to fail to marshal")
	}
}

func TestMarshalJSONMapProducesValidObject(t *testing.T) {
	m := NewMap().Put("a", Int(1))
	b, err := m.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"a":1}` {
		t.Fatalf("got %q", string(b))
	}
}

func TestFromJSONObjectBecomesMap(t *testing.T) {
	v, err := FromJSON([]byte(`{"name":"alice","age":30}`))
	if err != nil {
		t.Fatal(err)
	}
	if v.Tag() != TagMap {
		t.Fatalf("expected Map, got %v", v.Tag())
	}
	name, _ := v.Get("name")
	if name.AsString() != "alice" {
		t.Fatalf("expected alice, got %v", name.AsString())
	}
	age, _ := v.Get("age")
	if age.Tag() != TagInteger || age.AsInt() != 30 {
		t.Fatalf("expected Integer 30, got %v %v", age.Tag(), age.AsInt())
	}
}

func TestFromJSONArrayBecomesArray(t *testing.T) {
	v, err := FromJSON([]byte(`[1, "x", true]`))
	if err != nil {
		t.Fatal(err)
	}
	if v.Tag() != TagArray || v.Len() != 3 {
		t.Fatalf("expected 3-element Array, got %v len=%d", v.Tag(), v.Len())
	}
}

func TestFromJSONNullBecomesJsonNull(t *testing.T) {
	v, err := FromJSON([]byte(`null`))
	if err != nil {
		t.Fatal(err)
	}
	if v.Tag() != TagJsonNull {
		t.Fatalf("expected JsonNull, got %v", v.Tag())
	}
}

func TestFromJSONLargeIntegerBecomesLong(t *testing.T) {
	v, err := FromJSON([]byte(`9999999999`))
	if err != nil {
		t.Fatal(err)
	}
	if v.Tag() != TagLong || v.AsLong() != 9999999999 {
		t.Fatalf("expected Long 9999999999, got %v %v", v.Tag(), v.AsLong())
	}
}

func TestFromJSONFloatBecomesDouble(t *testing.T) {
	v, err := FromJSON([]byte(`3.5`))
	if err != nil {
		t.Fatal(err)
	}
	if v.Tag() != TagDouble || v.AsDouble() != 3.5 {
		t.Fatalf("expected Double 3.5, got %v %v", v.Tag(), v.AsDouble())
	}
}

func TestFromJSONInvalidInputErrors(t *testing.T) {
	_, err := FromJSON([]byte(`not json`))
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestNumberFromStringValidatesDecimal(t *testing.T) {
	if _, err := NumberFromString("12.34"); err != nil {
		t.Fatal(err)
	}
	if _, err := NumberFromString("not-a-number"); err == nil {
		t.Fatal("expected error for an invalid decimal literal")
	}
}

func TestTagString(t *testing.T) {
	if TagInteger.String() != "Integer" {
		t.Fatalf("got %q", TagInteger.String())
	}
	if Tag(250).String() != "Tag(250)" {
		t.Fatalf("got %q", Tag(250).String())
	}
}
