// Package flood implements the collaborative, deduplicated flood-fill used
// to bound a micro-biome's extent: at most one fill runs per (x, z, biome)
// fingerprint at a time, with every other caller waiting on its result.
package flood

import (
	"context"
	"sync"

	"github.com/alexkapoulas/BiomePruner/biome"
	"github.com/google/uuid"
)

// Result is the outcome of one completed flood fill.
type Result struct {
	Replacement biome.ID
	VisitedSize int
	BailedOut   bool
}

// Task is a single in-flight or completed flood fill, shared by every
// caller racing on the same fingerprint. done is closed exactly once by the
// producer; every other field is safe to read only after done is closed.
// The close is the happens-before edge, the same role a single-assignment
// future's completion would play.
type Task struct {
	ID uuid.UUID

	once   sync.Once
	done   chan struct{}
	result Result
	err    error
}

// newTask returns a fresh, not-yet-completed Task.
func newTask() *Task {
	return &Task{ID: uuid.New(), done: make(chan struct{})}
}

// Complete publishes result (or err) and wakes every waiter. Safe to call
// more than once; only the first call has any effect. The producer that
// wins the dispatcher race is the only one expected to call it, but the
// guard keeps a second call harmless rather than panicking on a closed
// channel.
func (t *Task) Complete(result Result, err error) {
	t.once.Do(func() {
		t.result = result
		t.err = err
		close(t.done)
	})
}

// Await blocks until the task completes or ctx is done, whichever comes
// first.
func (t *Task) Await(ctx context.Context) (Result, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Completed reports whether the task has already finished, without
// blocking.
func (t *Task) Completed() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
