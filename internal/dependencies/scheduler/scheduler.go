package scheduler

import "time"

// Scheduler provides delayed task execution that can be mocked for testing.
// Tasks are fire-and-forget: nothing cancels them, so callers must re-check
// relevance when the task fires.
type Scheduler interface {
	// After runs fn once after the given delay
	After(d time.Duration, fn func())
}

// RealScheduler implements Scheduler using timers
type RealScheduler struct{}

// New creates a new RealScheduler
func New() *RealScheduler {
	return &RealScheduler{}
}

// After runs fn on its own goroutine after d elapses
func (s *RealScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}
