package telemetry

import (
	"sync"

	"golang.org/x/time/rate"
)

// FaultLimiter caps how often a given fault class is allowed to reach the
// sink, enforcing a "log at most once per interval" policy for recoverable
// faults. Backed by one golang.org/x/time/rate limiter per class. Safe for
// concurrent use.
type FaultLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

// NewFaultLimiter returns a FaultLimiter that allows at most one event per
// class every interval, after an initial burst of burst events.
func NewFaultLimiter(every rate.Limit, burst int) *FaultLimiter {
	return &FaultLimiter{
		limiters: make(map[string]*rate.Limiter),
		every:    every,
		burst:    burst,
	}
}

// Allow reports whether an event in class may proceed right now, lazily
// creating a limiter for classes seen for the first time.
func (f *FaultLimiter) Allow(class string) bool {
	f.mu.Lock()
	l, ok := f.limiters[class]
	if !ok {
		l = rate.NewLimiter(f.every, f.burst)
		f.limiters[class] = l
	}
	f.mu.Unlock()
	return l.Allow()
}
