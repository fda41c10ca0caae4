package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	values := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
	mean, std, p90 := Summarize(values)

	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}

	// Population std of 0.1..1.0 is sqrt(0.0825)
	if math.Abs(std-math.Sqrt(0.0825)) > 0.001 {
		t.Errorf("std = %v, want ~0.287", std)
	}

	if math.Abs(p90-0.91) > 0.01 {
		t.Errorf("p90 = %v, want ~0.91", p90)
	}
}

func TestSummarizeUnsortedInput(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3}
	_, _, p90 := Summarize(values)

	if math.Abs(p90-4.6) > 0.001 {
		t.Errorf("p90 = %v, want 4.6", p90)
	}
	if values[0] != 5 || values[1] != 1 {
		t.Errorf("Summarize reordered its input: %v", values)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	mean, std, p90 := Summarize(nil)

	if mean != 0 || std != 0 || p90 != 0 {
		t.Errorf("expected all zeros for empty input, got mean=%v std=%v p90=%v", mean, std, p90)
	}
}
