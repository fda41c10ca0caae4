package telemetry

import (
	"strings"

	"github.com/guptarohit/asciigraph"
)

// Chart renders a terminal line chart of values, or "" when there is
// nothing to draw.
func Chart(values []float64, caption string, height int) string {
	if len(values) == 0 {
		return ""
	}
	if len(values) == 1 {
		values = []float64{values[0], values[0]}
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(min(len(values), 72)),
		asciigraph.Caption(caption),
	)
}

// RunSummary renders the per-window charts of a headless run.
func RunSummary(c *Collector, perf *PerfCollector) string {
	var b strings.Builder
	if chart := Chart(c.DensityHistory(), "total dye per window", 8); chart != "" {
		b.WriteString(chart)
		b.WriteString("\n\n")
	}
	if chart := Chart(perf.TickHistoryMS(), "tick ms (recent window)", 6); chart != "" {
		b.WriteString(chart)
		b.WriteString("\n")
	}
	return b.String()
}
