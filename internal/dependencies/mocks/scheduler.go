package mocks

import (
	"time"

	"github.com/CuteLittleSky/LimboAuth/internal/dependencies/scheduler"
)

// ScheduledTask is a task captured by MockScheduler
type ScheduledTask struct {
	Delay time.Duration
	Fn    func()
}

// MockScheduler is a mock implementation of Scheduler for testing.
// Tasks are captured rather than run; tests fire them explicitly.
type MockScheduler struct {
	Tasks []ScheduledTask
}

// Ensure MockScheduler implements Scheduler
var _ scheduler.Scheduler = (*MockScheduler)(nil)

// NewMockScheduler creates an empty MockScheduler
func NewMockScheduler() *MockScheduler {
	return &MockScheduler{}
}

// After captures the task without running it
func (s *MockScheduler) After(d time.Duration, fn func()) {
	s.Tasks = append(s.Tasks, ScheduledTask{Delay: d, Fn: fn})
}

// FireAll runs every captured task in order and clears the queue
func (s *MockScheduler) FireAll() {
	tasks := s.Tasks
	s.Tasks = nil
	for _, t := range tasks {
		t.Fn()
	}
}

// FireNext runs the oldest captured task, if any
func (s *MockScheduler) FireNext() {
	if len(s.Tasks) == 0 {
		return
	}
	t := s.Tasks[0]
	s.Tasks = s.Tasks[1:]
	t.Fn()
}
