package flood

import (
	"fmt"
	"sync"
)

// Dispatcher ensures at most one flood fill runs per (x, z, biome)
// fingerprint at a time. The first caller to reach a fingerprint becomes the
// producer and runs the fill; every other caller joins the same Task and
// waits on its result. Once a Task completes it stays in the table
// permanently, so a later caller at the same fingerprint gets the cached
// result in O(1) rather than re-running the fill.
type Dispatcher struct {
	mu    sync.Mutex
	tasks map[string]*Task
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{tasks: make(map[string]*Task)}
}

// Fingerprint returns the dispatch key for a flood fill starting at (x, z)
// for target biome id.
func Fingerprint(x, z int32, target fmt.Stringer) string {
	return fmt.Sprintf("%d:%d:%s", x, z, target.String())
}

// Acquire returns the Task for fingerprint, along with whether the caller
// became the producer. A producer runs the fill and publishes the result by
// calling Task.Complete; the Task then remains in the table for any future
// caller at the same fingerprint.
func (d *Dispatcher) Acquire(fingerprint string) (task *Task, isProducer bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.tasks[fingerprint]; ok {
		return t, false
	}
	t := newTask()
	d.tasks[fingerprint] = t
	return t, true
}

// GetExisting returns fingerprint's Task without creating one, for
// introspection callers that want to check whether a fill is in flight or
// already completed without joining as a waiter.
func (d *Dispatcher) GetExisting(fingerprint string) (*Task, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.tasks[fingerprint]
	return t, ok
}

// InFlight reports how many dispatched fills have not yet completed, for
// tests and diagnostics.
func (d *Dispatcher) InFlight() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, t := range d.tasks {
		if !t.Completed() {
			n++
		}
	}
	return n
}
