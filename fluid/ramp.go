package fluid

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"slices"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/colorgrad"
)

// ErrEmptyRamp is returned when a ramp has no stops.
var ErrEmptyRamp = errors.New("fluid: color ramp needs at least one stop")

// Stop is one color key of a ramp.
type Stop struct {
	Pos   float64 // in [0,1]
	Color colorful.Color
}

// Ramp is a continuous color ramp interpolated piecewise-linearly in RGB
// between its stops. Below the first stop it holds the first color and above
// the last stop the last color.
type Ramp struct {
	stops []Stop
	grad  colorgrad.Gradient
}

// NewRamp builds a ramp from stops in any order.
func NewRamp(stops ...Stop) (*Ramp, error) {
	if len(stops) == 0 {
		return nil, ErrEmptyRamp
	}

	sorted := make([]Stop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Pos < sorted[j].Pos })

	for _, s := range sorted {
		if s.Pos < 0 || s.Pos > 1 || math.IsNaN(s.Pos) {
			return nil, fmt.Errorf("fluid: ramp stop position %v outside [0,1]", s.Pos)
		}
	}

	// A single stop is a flat ramp.
	keys := sorted
	if len(keys) == 1 {
		keys = []Stop{keys[0], {Pos: math.Nextafter(keys[0].Pos, 2), Color: keys[0].Color}}
	}

	colors := make([]color.Color, len(keys))
	domain := make([]float64, len(keys))
	for i, s := range keys {
		colors[i] = s.Color.Clamped()
		domain[i] = s.Pos
	}

	grad, err := colorgrad.NewGradient().
		Colors(colors...).
		Domain(domain...).
		Mode(colorgrad.BlendRgb).
		Build()
	if err != nil {
		return nil, fmt.Errorf("building color ramp: %w", err)
	}

	return &Ramp{stops: sorted, grad: grad}, nil
}

// MustRamp is like NewRamp but panics on error. Intended for built-in ramps.
func MustRamp(stops ...Stop) *Ramp {
	r, err := NewRamp(stops...)
	if err != nil {
		panic(err)
	}
	return r
}

// GrayscaleRamp returns a black-to-white ramp.
func GrayscaleRamp() *Ramp {
	return MustRamp(
		Stop{Pos: 0, Color: colorful.Color{R: 0, G: 0, B: 0}},
		Stop{Pos: 1, Color: colorful.Color{R: 1, G: 1, B: 1}},
	)
}

// Stops returns a copy of the sorted stops.
func (r *Ramp) Stops() []Stop {
	out := make([]Stop, len(r.stops))
	copy(out, r.stops)
	return out
}

// HasStops reports whether the ramp's sorted stops equal stops exactly.
func (r *Ramp) HasStops(stops []Stop) bool {
	return slices.Equal(r.stops, stops)
}

// At evaluates the ramp at t.
func (r *Ramp) At(t float64) colorful.Color {
	first, last := r.stops[0], r.stops[len(r.stops)-1]
	if t <= first.Pos || math.IsNaN(t) {
		return first.Color.Clamped()
	}
	if t >= last.Pos {
		return last.Color.Clamped()
	}
	return r.grad.At(t).Clamped()
}

// Swatch samples n opaque colors evenly from the first to the last stop
// position.
func (r *Ramp) Swatch(n int) []color.RGBA {
	if n < 1 {
		return nil
	}
	first, last := r.stops[0].Pos, r.stops[len(r.stops)-1].Pos
	out := make([]color.RGBA, n)
	for i := range out {
		t := first
		if n > 1 {
			t += (last - first) * float64(i) / float64(n-1)
		}
		cr, cg, cb := r.At(t).RGB255()
		out[i] = color.RGBA{R: cr, G: cg, B: cb, A: 255}
	}
	return out
}
