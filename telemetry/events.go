package telemetry

import (
	"time"

	"github.com/google/uuid"
	"github.com/iancoleman/strcase"
)

// DebugEvent records a single decision the engine made at a column, for the
// analyze/inspect path and for the optional debugMessages log.
type DebugEvent struct {
	ID        uuid.UUID
	Metric    string
	X, Y, Z   int32
	Message   string
	Timestamp time.Time
}

// NewDebugEvent builds a DebugEvent with a fresh trace id. metricName is run
// through strcase.ToSnake so callers can pass a Go identifier
// ("FloodFillStart") and get a stable, grep-friendly metric name
// ("flood_fill_start") without every call site doing its own formatting.
func NewDebugEvent(metricName string, x, y, z int32, message string, at time.Time) DebugEvent {
	return DebugEvent{
		ID:        uuid.New(),
		Metric:    strcase.ToSnake(metricName),
		X:         x,
		Y:         y,
		Z:         z,
		Message:   message,
		Timestamp: at,
	}
}

// PerformanceEvent reports a snapshot of cache or dispatcher statistics.
type PerformanceEvent struct {
	ID        uuid.UUID
	Metric    string
	Value     float64
	Timestamp time.Time
}

// NewPerformanceEvent builds a PerformanceEvent with a fresh trace id and a
// normalized metric name, mirroring NewDebugEvent.
func NewPerformanceEvent(metricName string, value float64, at time.Time) PerformanceEvent {
	return PerformanceEvent{
		ID:        uuid.New(),
		Metric:    strcase.ToSnake(metricName),
		Value:     value,
		Timestamp: at,
	}
}
