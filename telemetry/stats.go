package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated flow statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Input during window
	Segments int `csv:"segments"` // injected stroke segments

	// Dye, sampled at window end
	TotalDensity float64 `csv:"total_density"`
	MaxDensity   float64 `csv:"max_density"`

	// Residual divergence over the window's ticks
	DivergenceMean float64 `csv:"div_mean"`
	DivergenceStd  float64 `csv:"div_std"`
	DivergenceP90  float64 `csv:"div_p90"`

	// Peak speed over the window's ticks
	SpeedMean float64 `csv:"speed_mean"`
	SpeedMax  float64 `csv:"speed_max"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Summarize returns the mean, population standard deviation and 90th
// percentile of values.
func Summarize(values []float64) (mean, std, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("segments", s.Segments),
		slog.Float64("total_density", s.TotalDensity),
		slog.Float64("max_density", s.MaxDensity),
		slog.Float64("div_mean", s.DivergenceMean),
		slog.Float64("div_std", s.DivergenceStd),
		slog.Float64("div_p90", s.DivergenceP90),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_max", s.SpeedMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"segments", s.Segments,
		"total_density", s.TotalDensity,
		"max_density", s.MaxDensity,
		"div_mean", s.DivergenceMean,
		"div_p90", s.DivergenceP90,
		"speed_max", s.SpeedMax,
	)
}
