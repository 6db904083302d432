package profiler

import (
	"log/slog"
	"runtime"
	"time"
)

// Stats is one profiler report.
type Stats struct {
	// FPS is the tick rate over the report interval.
	FPS float64
	// AvgUpdate is the mean duration of the measured work per tick.
	AvgUpdate time.Duration
	// MaxUpdate is the slowest measured tick.
	MaxUpdate time.Duration
	HeapMB    float64
	// AllocRateMB is the heap allocation churn in MB/s.
	AllocRateMB float64
	GCCount     uint32
	LastPause   time.Duration
	MaxPause    time.Duration
	SysMB       float64
}

// Profiler tracks tick rate, update cost and memory statistics.
// Reports are logged at a configurable interval. Not safe for concurrent use:
// call it from the tick goroutine only.
type Profiler struct {
	logger         *slog.Logger
	now            func() time.Time
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	updateTotal    time.Duration
	updateMax      time.Duration
	last           Stats
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...Option) *Profiler {
	p := &Profiler{
		logger:         slog.Default(),
		now:            time.Now,
		updateInterval: time.Second,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	p.logger = p.logger.With("component", "profiler")
	return p
}

// Tick should be called once per tick with the duration of the measured work.
// Logs a report when the update interval has elapsed.
//
// Parameters:
//   - work: how long this tick's camera update took
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(work time.Duration) bool {
	p.frameCount++
	p.updateTotal += work
	p.updateMax = max(p.updateMax, work)

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:       float64(p.frameCount) / elapsed.Seconds(),
		AvgUpdate: p.updateTotal / time.Duration(p.frameCount),
		MaxUpdate: p.updateMax,
		// Alloc is live heap, Sys is the process footprint obtained from the OS.
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     p.memStats.NumGC,
	}

	if gcCount := p.memStats.NumGC; gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses.
		s.LastPause = time.Duration(p.memStats.PauseNs[(gcCount-1)%256])
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			s.MaxPause = max(s.MaxPause, time.Duration(p.memStats.PauseNs[i%256]))
		}
	}

	p.logger.Info("frame stats",
		"fps", s.FPS,
		"update_avg", s.AvgUpdate,
		"update_max", s.MaxUpdate,
		"heap_mb", s.HeapMB,
		"alloc_rate_mb", s.AllocRateMB,
		"gc", s.GCCount,
		"gc_last_pause", s.LastPause,
		"gc_max_pause", s.MaxPause,
		"sys_mb", s.SysMB,
	)

	p.last = s
	p.frameCount = 0
	p.updateTotal, p.updateMax = 0, 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent report.
func (p *Profiler) Last() Stats {
	return p.last
}
