// Package schedule provides the deferred-work primitives used by the HUD:
// timed callbacks, next-paint callbacks and trailing-edge debouncing.
package schedule

import "time"

// DefaultFrameInterval approximates one display refresh at 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or was already stopped.
	Stop() bool
}

// Scheduler runs callbacks later. Callbacks may run on another goroutine.
type Scheduler interface {
	// AfterFunc runs f once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
	// NextFrame runs f after the next paint.
	NextFrame(f func()) Timer
}

// Clock is a Scheduler backed by the runtime timers.
type Clock struct {
	frame time.Duration
}

var _ Scheduler = (*Clock)(nil)

// NewClock creates a wall-clock scheduler. A non-positive frame interval
// falls back to DefaultFrameInterval.
func NewClock(frame time.Duration) *Clock {
	if frame <= 0 {
		frame = DefaultFrameInterval
	}
	return &Clock{frame: frame}
}

func (c *Clock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (c *Clock) NextFrame(f func()) Timer {
	return time.AfterFunc(c.frame, f)
}
