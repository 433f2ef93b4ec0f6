package nosqldb

import (
	"sync"
	"testing"

	"github.com/redbco/nosqldb/wire"
)

func TestVersionStateDowngradeFromV4ToV3(t *testing.T) {
	s := newVersionState(wire.V4)
	next, ok := s.downgradeFrom(wire.V4)
	if !ok || next != wire.V3 {
		t.Fatalf("expected downgrade to V3, got next=%v ok=%v", next, ok)
	}
	if s.get() != wire.V3 {
		t.Fatalf("expected state to persist V3, got %v", s.get())
	}
}

func TestVersionStateDowngradeExhausted(t *testing.T) {
	s := newVersionState(wire.V3)
	next, ok := s.downgradeFrom(wire.V3)
	if ok {
		t.Fatalf("expected no further downgrade below V3, got next=%v ok=%v", next, ok)
	}
	if s.get() != wire.V3 {
		t.Fatalf("expected state to remain V3, got %v", s.get())
	}
}

func TestVersionStateDowngradeIsIdempotentUnderConcurrentObservations(t *testing.T) {
	s := newVersionState(wire.V4)

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, ok := s.downgradeFrom(wire.V4)
			results[idx] = ok
		}(i)
	}
	wg.Wait()

	for i, ok := range results {
		if !ok {
			t.Fatalf("expected every concurrent observation to report ok=true, goroutine %d got false", i)
		}
	}
	if s.get() != wire.V3 {
		t.Fatalf("expected exactly one effective downgrade to V3, got %v", s.get())
	}
}

func TestVersionStateStaleObservationIsNoop(t *testing.T) {
	s := newVersionState(wire.V3)
	next, ok := s.downgradeFrom(wire.V4)
	if !ok || next != wire.V3 {
		t.Fatalf("expected a stale observation (already below V4) to be a satisfied no-op, got next=%v ok=%v", next, ok)
	}
}
