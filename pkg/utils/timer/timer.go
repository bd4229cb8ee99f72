// Package timer tracks elapsed wall-clock time for a whole command and for its current stage.
package timer

import (
	"sync"
	"time"
)

// Timer measures the total duration of a command and the duration of its current stage.
type Timer interface {
	// Start resets the timer and begins measuring both total and stage time.
	Start()
	// NewStage marks the beginning of a new stage; total time keeps running.
	NewStage()
	// GetTiming returns the total elapsed time and the elapsed time of the current stage.
	GetTiming() (time.Duration, time.Duration)
	// Stop freezes the timer so later GetTiming calls return the same values.
	Stop()
}

// StageTimer is the default Timer implementation.
type StageTimer struct {
	mu         sync.Mutex
	now        func() time.Time
	start      time.Time
	stageStart time.Time
	stoppedAt  time.Time
}

// New creates a StageTimer backed by the wall clock.
func New() *StageTimer {
	return &StageTimer{now: time.Now}
}

// NewWithClock creates a StageTimer that reads time from the given clock.
func NewWithClock(clock func() time.Time) *StageTimer {
	return &StageTimer{now: clock}
}

// Start implements Timer.
func (t *StageTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.start = now
	t.stageStart = now
	t.stoppedAt = time.Time{}
}

// NewStage implements Timer.
func (t *StageTimer) NewStage() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.start.IsZero() {
		t.start = t.now()
	}

	t.stageStart = t.now()
}

// GetTiming implements Timer.
func (t *StageTimer) GetTiming() (time.Duration, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.start.IsZero() {
		return 0, 0
	}

	now := t.now()
	if !t.stoppedAt.IsZero() {
		now = t.stoppedAt
	}

	return now.Sub(t.start), now.Sub(t.stageStart)
}

// Stop implements Timer.
func (t *StageTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stoppedAt.IsZero() {
		t.stoppedAt = t.now()
	}
}
