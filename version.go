package nosqldb

import (
	"sync"

	"github.com/redbco/nosqldb/wire"
)

// versionState holds the dispatcher's current serial version, guarded
// by a single lock so concurrent downgrade observations do not flap
//.
type versionState struct {
	mu sync.Mutex
	current wire.SerialVersion
}

func newVersionState(v wire.SerialVersion) *versionState {
	return &versionState{current: v}
}

func (s *versionState) get() wire.SerialVersion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// downgradeFrom attempts to move the stored version below observed,
// the version the caller just learned is unsupported. If another
// goroutine already downgraded below observed, this is a no-op that
// still reports ok=true (the observation's demand is already
// satisfied) — this is what makes concurrent downgrade observations
// not flap.
func (s *versionState) downgradeFrom(observed wire.SerialVersion) (next wire.SerialVersion, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current < observed {
		return s.current, true
	}
	next, ok = wire.DecrementSerialVersion(s.current)
	if ok {
		s.current = next
	}
	return s.current, ok
}
