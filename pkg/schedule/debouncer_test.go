package schedule

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	m := NewManual()
	d := NewDebouncer(50*time.Millisecond, m)

	calls := 0
	for i := 0; i < 10; i++ {
		d.Trigger(func() { calls++ })
		m.Advance(10 * time.Millisecond)
	}
	if calls != 0 {
		t.Fatalf("expected no call while triggers keep arriving, got %d", calls)
	}

	m.Advance(50 * time.Millisecond)
	if calls != 1 {
		t.Errorf("expected 1 callback invocation, got %d", calls)
	}
}

func TestDebouncer_RunsLatestCallback(t *testing.T) {
	m := NewManual()
	d := NewDebouncer(50*time.Millisecond, m)

	var got string
	d.Trigger(func() { got = "first" })
	d.Trigger(func() { got = "second" })
	m.Advance(time.Second)

	if got != "second" {
		t.Errorf("expected trailing callback 'second', got %q", got)
	}
}

func TestDebouncer_Retriggerable(t *testing.T) {
	m := NewManual()
	d := NewDebouncer(50*time.Millisecond, m)

	calls := 0
	d.Trigger(func() { calls++ })
	m.Advance(60 * time.Millisecond)
	d.Trigger(func() { calls++ })
	m.Advance(60 * time.Millisecond)

	if calls != 2 {
		t.Errorf("expected one call per separated burst, got %d", calls)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	m := NewManual()
	d := NewDebouncer(50*time.Millisecond, m)

	called := false
	d.Trigger(func() { called = true })
	d.Cancel()
	m.Advance(100 * time.Millisecond)

	if called {
		t.Error("callback should not have been invoked after cancel")
	}
}

func TestDebouncer_DefaultDuration(t *testing.T) {
	d := NewDebouncer(0, nil)
	if d.Duration() != DefaultDebounceDuration {
		t.Errorf("expected default duration %v, got %v", DefaultDebounceDuration, d.Duration())
	}
}

func TestDebouncer_WallClock(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping wall-clock debounce test in short mode")
	}
	d := NewDebouncer(20*time.Millisecond, NewClock(0))

	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(2 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	if n := calls.Load(); n != 1 {
		t.Errorf("expected 1 callback invocation, got %d", n)
	}
}
