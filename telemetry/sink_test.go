package telemetry

import (
	"testing"
	"time"

	"golang.org/x/time/rate"
)

type recordingSink struct {
	debugs       []DebugEvent
	performances []PerformanceEvent
}

func (r *recordingSink) Debug(e DebugEvent)             { r.debugs = append(r.debugs, e) }
func (r *recordingSink) Performance(e PerformanceEvent) { r.performances = append(r.performances, e) }

func TestNewDebugEventNormalizesMetricName(t *testing.T) {
	e := NewDebugEvent("FloodFillStart", 1, 2, 3, "starting fill", time.Unix(0, 0))
	if e.Metric != "flood_fill_start" {
		t.Errorf("got metric %q, want flood_fill_start", e.Metric)
	}
	if e.ID.String() == "" {
		t.Error("expected a non-empty trace id")
	}
}

func TestSinkReceivesEvents(t *testing.T) {
	s := &recordingSink{}
	s.Debug(NewDebugEvent("cave_skip", 0, 0, 0, "skipped cave biome", time.Unix(0, 0)))
	s.Performance(NewPerformanceEvent("region_cache_hits", 42, time.Unix(0, 0)))

	if len(s.debugs) != 1 || len(s.performances) != 1 {
		t.Fatalf("expected one debug and one performance event, got %d/%d", len(s.debugs), len(s.performances))
	}
}

func TestNopSinkDiscardsEverything(t *testing.T) {
	var s NopSink
	s.Debug(NewDebugEvent("x", 0, 0, 0, "", time.Unix(0, 0)))
	s.Performance(NewPerformanceEvent("y", 0, time.Unix(0, 0)))
}

func TestFaultLimiterBurstThenThrottle(t *testing.T) {
	l := NewFaultLimiter(rate.Every(time.Hour), 2)
	if !l.Allow("sampler") {
		t.Fatal("expected first call in burst to be allowed")
	}
	if !l.Allow("sampler") {
		t.Fatal("expected second call in burst to be allowed")
	}
	if l.Allow("sampler") {
		t.Fatal("expected third call to be throttled")
	}
}

func TestFaultLimiterClassesAreIndependent(t *testing.T) {
	l := NewFaultLimiter(rate.Every(time.Hour), 1)
	if !l.Allow("sampler") {
		t.Fatal("expected sampler class to be allowed")
	}
	if !l.Allow("height") {
		t.Fatal("expected height class to be allowed independently of sampler class")
	}
}
