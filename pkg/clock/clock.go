package clock

import (
	"sync"
	"time"
)

// Clock is the ledger's only time source. Deadlines are computed from
// readings taken at call time; nothing schedules work against it.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func System() Clock { return systemClock{} }

// Manual is a hand-advanced clock for tests.
type Manual struct {
	mu sync.Mutex
	t  time.Time
}

func NewManual(start time.Time) *Manual { return &Manual{t: start.UTC()} }

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.t
}

func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.t = m.t.Add(d)
}
