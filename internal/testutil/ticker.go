package testutil

import (
	"sync"
	"time"
)

// ManualTicker is a tick source driven by the test.
//
// Start has the shape of exercise.TickerFunc. Each Start opens a new
// unbuffered channel; Tick delivers to the most recent one that has not
// been stopped.
type ManualTicker struct {
	mu      sync.Mutex
	current chan time.Time
	started int
	stopped int
	now     time.Time
}

// NewManualTicker creates a ticker with no active source.
func NewManualTicker() *ManualTicker {
	return &ManualTicker{now: time.Unix(0, 0).UTC()}
}

// Start opens a tick source. The period is ignored.
func (m *ManualTicker) Start(time.Duration) (<-chan time.Time, func()) {
	ch := make(chan time.Time)

	m.mu.Lock()
	m.current = ch
	m.started++
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.stopped++
			if m.current == ch {
				m.current = nil
			}
		})
	}
}

// Tick delivers one tick to the active source. It reports false when no
// source is active or the receiver does not take the tick within a second.
func (m *ManualTicker) Tick() bool {
	m.mu.Lock()
	ch := m.current
	m.now = m.now.Add(time.Second)
	now := m.now
	m.mu.Unlock()

	if ch == nil {
		return false
	}
	select {
	case ch <- now:
		return true
	case <-time.After(time.Second):
		return false
	}
}

// Active returns the number of started sources not yet stopped.
func (m *ManualTicker) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started - m.stopped
}

// Started returns how many sources have been opened.
func (m *ManualTicker) Started() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}
