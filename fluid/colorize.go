package fluid

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// LUTSize is the number of samples in a gradient lookup table.
const LUTSize = 256

// GradientLUT holds a ramp sampled at t = i/255.
type GradientLUT struct {
	colors []colorful.Color
	stops  []Stop // ramp stops the table was sampled from
}

// Len returns the sample count.
func (l *GradientLUT) Len() int { return len(l.colors) }

// Lookup returns the nearest sample for t, clamped to [0,1].
func (l *GradientLUT) Lookup(t float32) colorful.Color {
	if !(t > 0) {
		return l.colors[0]
	}
	if t >= 1 {
		return l.colors[len(l.colors)-1]
	}
	return l.colors[int(t*float32(len(l.colors)-1)+0.5)]
}

func buildLUT(r *Ramp) *GradientLUT {
	lut := &GradientLUT{
		colors: make([]colorful.Color, LUTSize),
		stops:  r.Stops(),
	}
	for i := range lut.colors {
		lut.colors[i] = r.At(float64(i) / float64(LUTSize-1))
	}
	return lut
}

// Colorizer maps density to display colors through a cached lookup table.
// The table is rebuilt when missing, mis-sized, or when the ramp contents
// change.
type Colorizer struct {
	lut *GradientLUT
}

// LUT returns the current table, or nil before the first colorize.
func (c *Colorizer) LUT() *GradientLUT {
	return c.lut
}

// Invalidate forces a rebuild on the next use.
func (c *Colorizer) Invalidate() {
	c.lut = nil
}

// ensure makes the table match r and reports whether it was rebuilt.
func (c *Colorizer) ensure(r *Ramp) bool {
	if c.lut != nil && c.lut.Len() == LUTSize && r.HasStops(c.lut.stops) {
		return false
	}
	c.lut = buildLUT(r)
	return true
}

// Opacity is the coverage of a cell with density d. It rises monotonically
// from 0 at d <= 0 towards 1; larger contrast makes it rise faster near zero.
func Opacity(d, contrast float32) float32 {
	if d <= 0 || contrast <= 0 {
		return 0
	}
	return 1 - float32(math.Exp(-float64(contrast*d)))
}

// Colorize writes the RGBA display color of every density cell into dst:
// the ramp color at clamp(d,0,1) blended over the background by Opacity(d).
func (sv *Solver) Colorize(c *Colorizer, dst, density *Field, p Params) {
	c.ensure(p.Ramp)
	lut := c.lut

	bg := colorful.Color{R: float64(p.Background.R), G: float64(p.Background.G), B: float64(p.Background.B)}
	bgA := p.Background.A
	w := density.W

	sv.pool.For(density.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				d := density.Data[density.index(x, y)]
				a := Opacity(d, p.Contrast)
				col := bg.BlendRgb(lut.Lookup(d), float64(a))

				i := dst.index(x, y)
				dst.Data[i] = float32(col.R)
				dst.Data[i+1] = float32(col.G)
				dst.Data[i+2] = float32(col.B)
				dst.Data[i+3] = bgA + (1-bgA)*a
			}
		}
	})
}
