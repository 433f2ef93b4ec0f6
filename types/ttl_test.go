package types

import (
	"testing"
	"time"
)

func TestDoesNotExpire(t *testing.T) {
	if !DoNotExpire.DoesNotExpire() {
		t.Fatal("expected the zero-value TTL to never expire")
	}
	if OfDays(1).DoesNotExpire() {
		t.Fatal("expected a positive-value TTL to expire")
	}
}

func TestWireString(t *testing.T) {
	if got := OfDays(30).WireString(); got != "30 DAYS" {
		t.Fatalf("expected %q, got %q", "30 DAYS", got)
	}
	if got := OfHours(6).WireString(); got != "6 HOURS" {
		t.Fatalf("expected %q, got %q", "6 HOURS", got)
	}
	if got := OfDays(0).WireString(); got != "0 DAYS" {
		t.Fatalf("expected %q, got %q", "0 DAYS", got)
	}
}

func TestTimeUnitString(t *testing.T) {
	if Days.String() != "DAYS" {
		t.Fatalf("got %q", Days.String())
	}
	if Hours.String() != "HOURS" {
		t.Fatalf("got %q", Hours.String())
	}
}

func TestToExpirationTimeDoNotExpireIsZero(t *testing.T) {
	got := DoNotExpire.ToExpirationTime(time.Now())
	if !got.IsZero() {
		t.Fatalf("expected zero time, got %v", got)
	}
}

func TestToExpirationTimeDaysTruncatesToMidnightThenAdds(t *testing.T) {
	ref := time.Date(2024, 1, 1, 12, 34, 56, 0, time.UTC)
	got := OfDays(30).ToExpirationTime(ref)
	want := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestToExpirationTimeHoursTruncatesToHourThenAdds(t *testing.T) {
	ref := time.Date(2024, 1, 1, 12, 34, 56, 0, time.UTC)
	got := OfHours(5).ToExpirationTime(ref)
	want := time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestToExpirationTimeConvertsNonUTCReferenceFirst(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	ref := time.Date(2024, 1, 1, 21, 34, 56, 0, loc) // = 2024-01-01T12:34:56Z
	got := OfDays(1).ToExpirationTime(ref)
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
