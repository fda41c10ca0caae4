package fluid

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// FieldStats summarizes the simulation state after a tick.
type FieldStats struct {
	TotalDensity      float64
	MaxDensity        float64
	MeanAbsDivergence float64
	MaxSpeed          float64
}

// statsScratch holds reusable float64 buffers for gonum reductions.
type statsScratch struct {
	buf []float64
}

func (s *statsScratch) load(data []float32, fn func(float32) float64) []float64 {
	if cap(s.buf) < len(data) {
		s.buf = make([]float64, len(data))
	}
	out := s.buf[:len(data)]
	for i, v := range data {
		out[i] = fn(v)
	}
	return out
}

func identity(v float32) float64 { return float64(v) }

func absolute(v float32) float64 { return math.Abs(float64(v)) }

func (s *statsScratch) meanAbs(f *Field) float64 {
	if f == nil || len(f.Data) == 0 {
		return 0
	}
	vals := s.load(f.Data, absolute)
	return floats.Sum(vals) / float64(len(vals))
}

func (s *statsScratch) sumMax(f *Field) (sum, maxVal float64) {
	if f == nil || len(f.Data) == 0 {
		return 0, 0
	}
	vals := s.load(f.Data, identity)
	return floats.Sum(vals), floats.Max(vals)
}

func (s *statsScratch) maxSpeed(vel *Field) float64 {
	if vel == nil || len(vel.Data) == 0 {
		return 0
	}
	n := vel.Cells()
	if cap(s.buf) < n {
		s.buf = make([]float64, n)
	}
	speeds := s.buf[:n]
	for i := range speeds {
		vx := float64(vel.Data[2*i])
		vy := float64(vel.Data[2*i+1])
		speeds[i] = math.Hypot(vx, vy)
	}
	return floats.Max(speeds)
}
