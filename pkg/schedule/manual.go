package schedule

import (
	"sync"
	"time"
)

// Manual is a Scheduler driven explicitly by Advance. It is meant for tests:
// nothing fires until the caller moves time forward.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	frame   time.Duration
	seq     uint64
	pending []*manualTimer
}

var _ Scheduler = (*Manual)(nil)

type manualTimer struct {
	m       *Manual
	at      time.Duration
	seq     uint64
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// NewManual creates a manual scheduler whose frames last DefaultFrameInterval.
func NewManual() *Manual {
	return &Manual{frame: DefaultFrameInterval}
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{m: m, at: m.now + d, seq: m.seq, f: f}
	m.pending = append(m.pending, t)
	return t
}

func (m *Manual) NextFrame(f func()) Timer {
	return m.AfterFunc(m.frame, f)
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Frame advances virtual time by one frame.
func (m *Manual) Frame() {
	m.Advance(m.frame)
}

// Advance moves virtual time forward by d, running every callback that
// becomes due, in due order. Callbacks scheduled while advancing also run
// if they fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.popDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.at
		next.fired = true
		m.mu.Unlock()

		next.f()
	}
}

// Pending returns the number of callbacks that have not run or been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// popDue removes and returns the earliest live timer due by target.
func (m *Manual) popDue(target time.Duration) *manualTimer {
	idx := -1
	live := m.pending[:0]
	for _, t := range m.pending {
		if t.stopped || t.fired {
			continue
		}
		live = append(live, t)
	}
	m.pending = live

	for i, t := range m.pending {
		if t.at > target {
			continue
		}
		if idx == -1 || t.at < m.pending[idx].at || (t.at == m.pending[idx].at && t.seq < m.pending[idx].seq) {
			idx = i
		}
	}
	if idx == -1 {
		return nil
	}
	t := m.pending[idx]
	m.pending = append(m.pending[:idx], m.pending[idx+1:]...)
	return t
}
