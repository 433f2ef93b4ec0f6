package query

import (
	"bytes"
	"testing"
)

func TestWrapUnwrapSimpleRoundTrip(t *testing.T) {
	key := WrapSimple([]byte{1, 2, 3})
	got, err := UnwrapSimple(key)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("expected roundtrip, got %v", got)
	}
}

func TestWrapSimpleNilPassesThrough(t *testing.T) {
	if WrapSimple(nil) != nil {
		t.Fatal("expected WrapSimple(nil) to stay nil")
	}
	got, err := UnwrapSimple(nil)
	if err != nil || got != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", got, err)
	}
}

func TestUnwrapSimpleRejectsPhase2Kind(t *testing.T) {
	key := WrapPhase2([]PartitionCursor{{PartitionID: 1, ContinuationKey: []byte{9}}})
	_, err := UnwrapSimple(key)
	if err == nil {
		t.Fatal("expected error unwrapping a phase-2 bundle as simple")
	}
}

func TestWrapUnwrapPhase2RoundTrip(t *testing.T) {
	cursors := []PartitionCursor{
		{PartitionID: 1, ContinuationKey: []byte{1, 2}},
		{PartitionID: 2, ContinuationKey: nil},
		{PartitionID: 3, ContinuationKey: []byte{9, 9, 9}},
	}
	key := WrapPhase2(cursors)
	got, err := UnwrapPhase2(key)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 cursors, got %d", len(got))
	}
	for i, c := range cursors {
		if got[i].PartitionID != c.PartitionID {
			t.Fatalf("cursor %d: expected partition %d, got %d", i, c.PartitionID, got[i].PartitionID)
		}
		if !bytes.Equal(got[i].ContinuationKey, c.ContinuationKey) {
			t.Fatalf("cursor %d: key mismatch: %v vs %v", i, got[i].ContinuationKey, c.ContinuationKey)
		}
	}
}

func TestUnwrapPhase2RejectsSimpleKind(t *testing.T) {
	key := WrapSimple([]byte{1})
	_, err := UnwrapPhase2(key)
	if err == nil {
		t.Fatal("expected error unwrapping a simple cursor as phase-2")
	}
}

func TestUnwrapPhase2RejectsTruncatedInput(t *testing.T) {
	_, err := UnwrapPhase2([]byte{byte(continuationPhase2), 0, 0, 0})
	if err == nil {
		t.Fatal("expected error for a bundle too short to contain a count")
	}
}
