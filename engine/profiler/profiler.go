package profiler

import (
	"log"
	"runtime"
	"time"
)

// Counters are the per-frame scene and renderer numbers averaged by the profiler.
type Counters struct {
	VisibleLayers int
	Layers        int
	DrawCalls     int
	Instances     uint64
}

// Report is one logged interval.
type Report struct {
	FPS           float64
	VisibleLayers float64
	Layers        int
	DrawCalls     float64
	Instances     float64
	HeapMB        float64
	AllocRateMB   float64
	GCCount       uint32
}

// Profiler tracks frame rate, visibility and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	now            func() time.Time
	quiet          bool

	visibleSum  int
	drawSum     int
	instanceSum uint64
	layers      int
	last        Report
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often stats are reported.
//
// Parameters:
//   - d: the report interval
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithClock replaces time.Now, for tests and replays.
//
// Parameters:
//   - now: the clock
//
// Returns:
//   - ProfilerOption: option function to apply
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// WithQuiet computes reports without logging them.
//
// Returns:
//   - ProfilerOption: option function to apply
func WithQuiet() ProfilerOption {
	return func(p *Profiler) {
		p.quiet = true
	}
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame after the frame is drawn.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, average visible layers, draw calls and instances, heap usage, allocation rate and GC count.
//
// Parameters:
//   - c: the counters of the frame just drawn
//
// Returns:
//   - bool: true if stats were reported this tick, false otherwise
func (p *Profiler) Tick(c Counters) bool {
	p.frameCount++
	p.visibleSum += c.VisibleLayers
	p.drawSum += c.DrawCalls
	p.instanceSum += c.Instances
	p.layers = c.Layers

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	frames := float64(p.frameCount)
	runtime.ReadMemStats(&p.memStats)
	// Alloc: Bytes of allocated heap objects (live memory)
	// TotalAlloc: Cumulative bytes allocated for heap objects (increases forever, tracks churn)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	p.last = Report{
		FPS:           frames / elapsed.Seconds(),
		VisibleLayers: float64(p.visibleSum) / frames,
		Layers:        p.layers,
		DrawCalls:     float64(p.drawSum) / frames,
		Instances:     float64(p.instanceSum) / frames,
		HeapMB:        float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:   float64(allocDelta) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:       p.memStats.NumGC,
	}

	if !p.quiet {
		log.Printf("[Profiler] FPS: %.2f | Visible: %.0f/%d layers | Draws: %.0f | Instances: %.0f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d",
			p.last.FPS, p.last.VisibleLayers, p.last.Layers, p.last.DrawCalls, p.last.Instances,
			p.last.HeapMB, p.last.AllocRateMB, p.last.GCCount)
	}

	p.frameCount = 0
	p.visibleSum, p.drawSum, p.instanceSum = 0, 0, 0
	p.lastTime = currentTime
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent report.
//
// Returns:
//   - Report: the last interval's averages, zero before the first report
func (p *Profiler) Last() Report {
	return p.last
}
