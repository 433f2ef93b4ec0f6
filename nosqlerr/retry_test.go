package nosqlerr

import (
	"testing"
	"time"
)

func TestIsRetryableClassification(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{New(KindThrottling, "op", "throttled"), true},
		{New(KindRetryableTransport, "op", "transport hiccup"), true},
		{New(KindAuthInvalid, "op", "bad token"), false},
		{New(KindPreparedStatementInvalid, "op", "plan expired"), false},
		{New(KindIllegalArgument, "op", "bad arg"), false},
		{New(KindTableNotFound, "op", "no such table"), false},
		{New(KindTableExists, "op", "exists"), false},
		{New(KindRequestSizeLimit, "op", "too big"), false},
		{New(KindProtocol, "op", "garbled response"), false},
		{nil, false},
	}
	for _, c := range cases {
		if got := IsRetryable(c.err); got != c.want {
			t.Errorf("IsRetryable(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestMaxAttemptsForAppliesReadWriteFactors(t *testing.T) {
	p := DefaultPolicy()
	if got := p.MaxAttemptsFor(true); got != 10 {
		t.Fatalf("expected 10 read attempts, got %d", got)
	}
	if got := p.MaxAttemptsFor(false); got != 5 {
		t.Fatalf("expected 5 write attempts, got %d", got)
	}
}

func TestMaxAttemptsForNeverGoesBelowOne(t *testing.T) {
	p := Policy{MaxAttempts: 1, WriteFactor: 0.1, ReadFactor: 0.1}
	if got := p.MaxAttemptsFor(false); got != 1 {
		t.Fatalf("expected a floor of 1 attempt, got %d", got)
	}
}

func TestBackoffIsCappedAtMaxDelay(t *testing.T) {
	p := Policy{BaseDelay: time.Second, MaxDelay: 2 * time.Second, jitterSource: func() float64 { return 1.0 }}
	d := p.Backoff(10) // 2^9 seconds, far past MaxDelay
	if d != 2*time.Second {
		t.Fatalf("expected backoff capped at MaxDelay, got %v", d)
	}
}

func TestBackoffGrowsExponentiallyBeforeCap(t *testing.T) {
	p := Policy{BaseDelay: 10 * time.Millisecond, MaxDelay: time.Second, jitterSource: func() float64 { return 1.0 }}
	d1 := p.Backoff(1)
	d2 := p.Backoff(2)
	d3 := p.Backoff(3)
	if d1 != 10*time.Millisecond || d2 != 20*time.Millisecond || d3 != 40*time.Millisecond {
		t.Fatalf("expected doubling backoff, got %v, %v, %v", d1, d2, d3)
	}
}

func TestBackoffTreatsSubOneAttemptAsFirst(t *testing.T) {
	p := Policy{BaseDelay: 10 * time.Millisecond, MaxDelay: time.Second, jitterSource: func() float64 { return 1.0 }}
	if p.Backoff(0) != p.Backoff(1) {
		t.Fatal("expected attempt<1 to behave like attempt 1")
	}
}
