// Package timer provides elapsed-time tracking for multi-stage CLI operations.
package timer

import (
	"sync"
	"time"
)

// Timer tracks the total elapsed time of an operation and the elapsed time of
// the current stage within it. Commands start the timer once and call NewStage
// at each stage boundary so success messages can report both durations.
type Timer interface {
	// Start begins tracking. Calling Start on a running timer restarts it.
	Start()
	// NewStage marks the beginning of a new stage, resetting the stage clock.
	NewStage()
	// GetTiming returns the total elapsed time and the current stage's elapsed time.
	GetTiming() (total time.Duration, stage time.Duration)
	// Stop freezes the timer. Subsequent GetTiming calls return the frozen values.
	Stop()
}

// RealTimer is the wall-clock implementation of Timer.
type RealTimer struct {
	mu        sync.Mutex
	startedAt time.Time
	stageAt   time.Time
	frozenTot time.Duration
	frozenStg time.Duration
	running   bool
}

var _ Timer = (*RealTimer)(nil)

// New creates a new timer. The timer is idle until Start is called.
func New() *RealTimer {
	return &RealTimer{}
}

// Start begins tracking. Calling Start on a running timer restarts it.
func (t *RealTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.startedAt = now
	t.stageAt = now
	t.running = true
}

// NewStage marks the beginning of a new stage, resetting the stage clock.
// Calling NewStage on an idle timer implicitly starts it.
func (t *RealTimer) NewStage() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if !t.running {
		t.startedAt = now
		t.running = true
	}

	t.stageAt = now
}

// GetTiming returns the total elapsed time and the current stage's elapsed time.
// Durations are rounded to millisecond precision for display.
func (t *RealTimer) GetTiming() (time.Duration, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return t.frozenTot, t.frozenStg
	}

	now := time.Now()

	return now.Sub(t.startedAt).Round(time.Millisecond),
		now.Sub(t.stageAt).Round(time.Millisecond)
}

// Stop freezes the timer. Subsequent GetTiming calls return the frozen values.
func (t *RealTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}

	now := time.Now()
	t.frozenTot = now.Sub(t.startedAt).Round(time.Millisecond)
	t.frozenStg = now.Sub(t.stageAt).Round(time.Millisecond)
	t.running = false
}
