package telemetry

import "github.com/pthm-cable/dye/fluid"

// Collector accumulates per-tick field stats within time windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	segments   int
	divergence []float64
	speed      []float64
	last       fluid.FieldStats

	// Total dye at the end of every flushed window
	densityHistory []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordSegments adds injected stroke segments to the current window.
func (c *Collector) RecordSegments(n int) {
	c.segments += n
}

// RecordTick records the field stats observed after a tick.
func (c *Collector) RecordTick(fs fluid.FieldStats) {
	c.divergence = append(c.divergence, fs.MeanAbsDivergence)
	c.speed = append(c.speed, fs.MaxSpeed)
	c.last = fs
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32) WindowStats {
	divMean, divStd, divP90 := Summarize(c.divergence)
	speedMean, _, _ := Summarize(c.speed)
	var speedMax float64
	for _, v := range c.speed {
		speedMax = max(speedMax, v)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Segments: c.segments,

		TotalDensity: c.last.TotalDensity,
		MaxDensity:   c.last.MaxDensity,

		DivergenceMean: divMean,
		DivergenceStd:  divStd,
		DivergenceP90:  divP90,

		SpeedMean: speedMean,
		SpeedMax:  speedMax,
	}
	c.densityHistory = append(c.densityHistory, stats.TotalDensity)

	// Reset for next window
	c.windowStartTick = currentTick
	c.segments = 0
	c.divergence = c.divergence[:0]
	c.speed = c.speed[:0]

	return stats
}

// DensityHistory returns total dye at the end of each flushed window.
func (c *Collector) DensityHistory() []float64 {
	return c.densityHistory
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
