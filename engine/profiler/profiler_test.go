package profiler

import (
	"testing"
	"time"
)

func TestTickReportsAverages(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewProfiler(WithQuiet(), WithClock(func() time.Time { return now }))

	for i := range 4 {
		now = now.Add(250 * time.Millisecond)
		reported := p.Tick(Counters{VisibleLayers: 10 + 2*i, Layers: 100, DrawCalls: 12 + 2*i, Instances: 1000})
		if reported != (i == 3) {
			t.Fatalf("tick %d reported=%v", i, reported)
		}
	}

	r := p.Last()
	if r.FPS != 4 {
		t.Fatalf("FPS = %v, want 4", r.FPS)
	}
	if r.VisibleLayers != 13 || r.DrawCalls != 15 || r.Instances != 1000 || r.Layers != 100 {
		t.Fatalf("report = %+v", r)
	}

	// counters reset after each report
	now = now.Add(time.Second)
	p.Tick(Counters{VisibleLayers: 1})
	if r := p.Last(); r.FPS != 1 || r.VisibleLayers != 1 {
		t.Fatalf("second report = %+v", r)
	}
}

func TestIntervalOption(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewProfiler(WithQuiet(), WithClock(func() time.Time { return now }), WithInterval(100*time.Millisecond), WithInterval(0))
	now = now.Add(100 * time.Millisecond)
	if !p.Tick(Counters{}) {
		t.Fatal("expected a report after the configured interval")
	}
}
