package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/dye/fluid"
)

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1.0, 0.25)

	if c.WindowDurationTicks() != 4 {
		t.Fatalf("window = %d ticks, want 4", c.WindowDurationTicks())
	}

	divs := []float64{0.1, 0.2, 0.3, 0.4}
	speeds := []float64{1, 5, 2, 3}
	for i := range divs {
		c.RecordSegments(2)
		c.RecordTick(fluid.FieldStats{
			TotalDensity:      float64(i + 1),
			MaxDensity:        0.5,
			MeanAbsDivergence: divs[i],
			MaxSpeed:          speeds[i],
		})
		if c.ShouldFlush(int32(i)) {
			t.Fatalf("flush requested early at tick %d", i)
		}
	}
	if !c.ShouldFlush(4) {
		t.Fatal("expected flush at tick 4")
	}

	ws := c.Flush(4)
	if ws.WindowStartTick != 0 || ws.WindowEndTick != 4 {
		t.Errorf("window %d..%d, want 0..4", ws.WindowStartTick, ws.WindowEndTick)
	}
	if ws.SimTimeSec != 1.0 {
		t.Errorf("sim time = %v, want 1", ws.SimTimeSec)
	}
	if ws.Segments != 8 {
		t.Errorf("segments = %d, want 8", ws.Segments)
	}
	if ws.TotalDensity != 4 || ws.MaxDensity != 0.5 {
		t.Errorf("dye taken from the last tick: got %v/%v", ws.TotalDensity, ws.MaxDensity)
	}
	if math.Abs(ws.DivergenceMean-0.25) > 1e-9 {
		t.Errorf("div mean = %v, want 0.25", ws.DivergenceMean)
	}
	if ws.SpeedMax != 5 || math.Abs(ws.SpeedMean-2.75) > 1e-9 {
		t.Errorf("speed mean/max = %v/%v, want 2.75/5", ws.SpeedMean, ws.SpeedMax)
	}

	// Counters reset for the next window
	if c.ShouldFlush(5) {
		t.Error("new window should not flush immediately")
	}
	next := c.Flush(8)
	if next.Segments != 0 || next.DivergenceMean != 0 || next.WindowStartTick != 4 {
		t.Errorf("window not reset: %+v", next)
	}

	hist := c.DensityHistory()
	if len(hist) != 2 || hist[0] != 4 {
		t.Errorf("density history = %v", hist)
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	c := NewCollector(0.001, 0.016)
	if c.WindowDurationTicks() != 1 {
		t.Errorf("window = %d ticks, want 1", c.WindowDurationTicks())
	}
}

func TestChart(t *testing.T) {
	if Chart(nil, "empty", 4) != "" {
		t.Error("expected no chart for empty input")
	}
	if got := Chart([]float64{3}, "one", 4); got == "" {
		t.Error("expected a chart for a single value")
	}

	c := NewCollector(1, 0.5)
	perf := NewPerfCollector(4)
	for tick := int32(1); tick <= 6; tick++ {
		perf.StartTick()
		c.RecordTick(fluid.FieldStats{TotalDensity: float64(tick)})
		perf.EndTick()
		if c.ShouldFlush(tick) {
			c.Flush(tick)
		}
	}
	summary := RunSummary(c, perf)
	if summary == "" {
		t.Error("expected run summary text")
	}
}
