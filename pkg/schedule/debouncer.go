package schedule

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is long enough to merge a marquee selection but
// short enough that a person does not notice the delay.
const DefaultDebounceDuration = 50 * time.Millisecond

// Debouncer coalesces bursts of triggers into a single trailing call.
// Every Trigger restarts the window; only the most recent callback runs.
type Debouncer struct {
	mu       sync.Mutex
	sched    Scheduler
	duration time.Duration
	timer    Timer
	seq      uint64
}

// NewDebouncer creates a debouncer. A non-positive duration falls back to
// DefaultDebounceDuration and a nil scheduler to the wall clock.
func NewDebouncer(d time.Duration, sched Scheduler) *Debouncer {
	if d <= 0 {
		d = DefaultDebounceDuration
	}
	if sched == nil {
		sched = NewClock(0)
	}
	return &Debouncer{sched: sched, duration: d}
}

// Trigger schedules fn to run once the window passes without another Trigger.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = d.sched.AfterFunc(d.duration, func() {
		d.mu.Lock()
		if seq != d.seq {
			// superseded after this timer had already started firing
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}

// Duration returns the coalescing window.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}
