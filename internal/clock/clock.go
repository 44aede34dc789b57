// Package clock supplies wall-clock time to the session and room packages.
// Stored timestamps are Unix milliseconds.
package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

// System reads the real wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Millis returns c's current time as Unix milliseconds.
func Millis(c Clock) int64 {
	return c.Now().UnixMilli()
}

// Manual is a Clock that only moves when told to. Safe for concurrent use.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a Manual clock set to the given Unix millisecond instant.
func NewManual(ms int64) *Manual {
	return &Manual{now: time.UnixMilli(ms)}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to the given Unix millisecond instant.
func (m *Manual) Set(ms int64) {
	m.mu.Lock()
	m.now = time.UnixMilli(ms)
	m.mu.Unlock()
}

func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}
