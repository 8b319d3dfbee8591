package clock

import (
	"testing"
	"time"
)

func TestSystem_IsUTC(t *testing.T) {
	now := System().Now()
	if now.Location() != time.UTC {
		t.Fatalf("location = %v, want UTC", now.Location())
	}
}

func TestManual_AdvanceIsMonotonic(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewManual(start)

	if !m.Now().Equal(start) {
		t.Fatalf("now = %v, want %v", m.Now(), start)
	}
	m.Advance(2 * time.Second)
	if got, want := m.Now(), start.Add(2*time.Second); !got.Equal(want) {
		t.Fatalf("now = %v, want %v", got, want)
	}
	m.Advance(0)
	if got := m.Now(); got.Before(start) {
		t.Fatalf("clock went backwards: %v", got)
	}
}
