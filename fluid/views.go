package fluid

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// View selects which field the simulator presents for display.
type View uint8

const (
	ViewDye View = iota
	ViewDensity
	ViewVelocity
	ViewPressure
	ViewDivergence
	viewCount
)

var viewNames = [...]string{"dye", "density", "velocity", "pressure", "divergence"}

func (v View) String() string {
	if v >= viewCount {
		return "unknown"
	}
	return viewNames[v]
}

// Next cycles to the following view.
func (v View) Next() View {
	return (v + 1) % viewCount
}

// ParseView maps a name to a View.
func ParseView(name string) (View, bool) {
	for i, n := range viewNames {
		if n == name {
			return View(i), true
		}
	}
	return ViewDye, false
}

// Debug view scales. Velocity saturates at velocityScale cells per second,
// signed scalars at signedScale.
const (
	velocityScale = 10
	signedScale   = 0.05
)

// renderDensity writes density as opaque grayscale.
func (sv *Solver) renderDensity(dst, density *Field) {
	sv.pool.For(density.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < density.W; x++ {
				d := min(max(density.Data[density.index(x, y)], 0), 1)
				writeRGBA(dst, x, y, d, d, d, 1)
			}
		}
	})
}

// renderVelocity maps direction to hue and speed to brightness.
func (sv *Solver) renderVelocity(dst, vel *Field) {
	sv.pool.For(vel.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < vel.W; x++ {
				i := vel.index(x, y)
				vx, vy := float64(vel.Data[i]), float64(vel.Data[i+1])
				hue := math.Atan2(vy, vx) * 180 / math.Pi
				if hue < 0 {
					hue += 360
				}
				val := math.Min(math.Hypot(vx, vy)/velocityScale, 1)
				c := colorful.Hsv(hue, 1, val)
				writeRGBA(dst, x, y, float32(c.R), float32(c.G), float32(c.B), 1)
			}
		}
	})
}

// renderSigned shows positive values in red and negative in blue.
func (sv *Solver) renderSigned(dst, f *Field, scale float32) {
	sv.pool.For(f.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < f.W; x++ {
				s := f.Data[f.index(x, y)] / scale
				r := min(max(s, 0), 1)
				b := min(max(-s, 0), 1)
				writeRGBA(dst, x, y, r, 0, b, 1)
			}
		}
	})
}

func writeRGBA(dst *Field, x, y int, r, g, b, a float32) {
	i := dst.index(x, y)
	dst.Data[i] = r
	dst.Data[i+1] = g
	dst.Data[i+2] = b
	dst.Data[i+3] = a
}
