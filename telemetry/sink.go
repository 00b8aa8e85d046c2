// Package telemetry carries the engine's debug and performance events out to
// whatever the host wants to do with them (log, metrics, in-game chat),
// without the engine itself depending on any particular sink.
package telemetry

// Sink receives the events the engine emits while it runs. Implementations
// must not block the caller for long, since the engine calls these
// synchronously on the query path when debug or performance logging is
// enabled.
type Sink interface {
	Debug(DebugEvent)
	Performance(PerformanceEvent)
}

// NopSink discards every event. It is the default when the host wires
// nothing: a nil sink would force every call site to check before
// emitting, so NopSink stands in instead.
type NopSink struct{}

func (NopSink) Debug(DebugEvent)             {}
func (NopSink) Performance(PerformanceEvent) {}
