package smoother

import "context"

// reentryKey is the private context key guarding against re-entrant calls
// into the engine while it is already servicing a query on the same
// goroutine tree, such as a nested sampler call that routes back through
// the host's biome source and hits the engine again. Go has no
// thread-locals, so the flag rides on the context.Context already threaded
// through every call, which composes correctly across goroutines a
// thread-local wouldn't.
type reentryKey struct{}

func withReentryGuard(ctx context.Context) context.Context {
	return context.WithValue(ctx, reentryKey{}, true)
}

func isReentrant(ctx context.Context) bool {
	v, _ := ctx.Value(reentryKey{}).(bool)
	return v
}
