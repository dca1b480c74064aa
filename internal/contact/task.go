package contact

import (
	"sync"
	"time"
)

// Task is a function scheduled to run once after a delay. It can be
// cancelled until it starts.
type Task struct {
	timer *time.Timer
	done  chan struct{}

	mu       sync.Mutex
	finished bool
	ran      bool
}

// Schedule runs fn after delay on its own goroutine.
func Schedule(delay time.Duration, fn func()) *Task {
	t := &Task{done: make(chan struct{})}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timer = time.AfterFunc(delay, func() {
		t.mu.Lock()
		if t.finished {
			t.mu.Unlock()
			return
		}
		t.finished = true
		t.ran = true
		t.mu.Unlock()

		defer close(t.done)
		fn()
	})
	return t
}

// Cancel stops the task if it has not started and reports whether it did.
// Calling it again, or after the task ran, is a no-op.
func (t *Task) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished {
		return false
	}
	t.finished = true
	t.timer.Stop()
	close(t.done)
	return true
}

// Done is closed once the task has run to completion or was cancelled.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Ran reports whether fn was invoked.
func (t *Task) Ran() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ran
}
