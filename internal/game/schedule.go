// internal/game/schedule.go
//
// Deferred execution for the outcome sequence.
//   - TimerScheduler runs callbacks on real timers.
//   - ManualScheduler queues callbacks until Advance moves its clock, so tests
//     can step through the sequence without sleeping.

package game

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs f once, d after the call.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// TimerScheduler is backed by time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

// ManualScheduler is a Scheduler driven by Advance.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []pendingFunc
}

type pendingFunc struct {
	at  time.Duration
	seq int
	f   func()
}

// NewManualScheduler returns a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

func (m *ManualScheduler) AfterFunc(d time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.pending = append(m.pending, pendingFunc{at: m.now + d, seq: m.seq, f: f})
}

// Advance moves the clock forward by d and runs every callback that falls due,
// including ones scheduled by callbacks run during this call.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		sort.Slice(m.pending, func(i, j int) bool {
			if m.pending[i].at != m.pending[j].at {
				return m.pending[i].at < m.pending[j].at
			}
			return m.pending[i].seq < m.pending[j].seq
		})
		if len(m.pending) == 0 || m.pending[0].at > target {
			m.now = target
			m.mu.Unlock()
			return
		}
		next := m.pending[0]
		m.pending = m.pending[1:]
		m.now = next.at
		m.mu.Unlock()

		next.f()
	}
}

// Pending reports how many callbacks have not run yet.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
