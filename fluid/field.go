// Package fluid implements a 2D stable-fluids solver on a uniform grid:
// double-buffered fields, Jacobi diffusion and pressure projection,
// semi-Lagrangian advection, pointer-driven dye injection and
// density-to-color mapping.
package fluid

import (
	"image/color"
	"math"
)

// Format is the storage precision backing a field.
type Format uint8

const (
	FormatFloat32 Format = iota // full precision
	FormatFloat16               // values rounded through binary16 after every write pass
)

// String returns the config name of the format.
func (f Format) String() string {
	switch f {
	case FormatFloat32:
		return "float32"
	case FormatFloat16:
		return "float16"
	default:
		return "unknown"
	}
}

// ParseFormat maps a config name to a Format.
func ParseFormat(name string) (Format, bool) {
	switch name {
	case "float32":
		return FormatFloat32, true
	case "float16":
		return FormatFloat16, true
	}
	return 0, false
}

// Component counts for the field kinds used by the solver.
const (
	Scalar = 1 // density, pressure, divergence
	Vector = 2 // velocity
	Color  = 4 // RGBA display fields
)

// Field is a W×H grid with Comps interleaved float32 components per cell,
// stored row-major.
type Field struct {
	W, H   int
	Comps  int
	Format Format
	Data   []float32
}

func newField(w, h, comps int, format Format) *Field {
	return &Field{
		W:      w,
		H:      h,
		Comps:  comps,
		Format: format,
		Data:   make([]float32, w*h*comps),
	}
}

// Cells returns the number of grid cells.
func (f *Field) Cells() int { return f.W * f.H }

func (f *Field) index(x, y int) int {
	return (y*f.W + x) * f.Comps
}

// clampedIndex returns the data offset of (x,y) with coordinates clamped to
// the nearest edge cell.
func (f *Field) clampedIndex(x, y int) int {
	if x < 0 {
		x = 0
	} else if x >= f.W {
		x = f.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= f.H {
		y = f.H - 1
	}
	return (y*f.W + x) * f.Comps
}

// At returns the first component at (x,y), clamped to the grid.
func (f *Field) At(x, y int) float32 {
	return f.Data[f.clampedIndex(x, y)]
}

// Vec returns the first two components at (x,y), clamped to the grid.
func (f *Field) Vec(x, y int) (float32, float32) {
	i := f.clampedIndex(x, y)
	return f.Data[i], f.Data[i+1]
}

// Set writes the first component at (x,y).
func (f *Field) Set(x, y int, v float32) {
	f.Data[f.index(x, y)] = v
}

// SetVec writes the first two components at (x,y).
func (f *Field) SetVec(x, y int, vx, vy float32) {
	i := f.index(x, y)
	f.Data[i] = vx
	f.Data[i+1] = vy
}

// Fill sets every component of every cell to v.
func (f *Field) Fill(v float32) {
	for i := range f.Data {
		f.Data[i] = v
	}
}

// Clear zeroes the field.
func (f *Field) Clear() {
	clear(f.Data)
}

// RGBA8 converts a Color field to 8-bit pixels in row order, reusing dst
// when it has the capacity. Components are clamped to [0,1].
func (f *Field) RGBA8(dst []color.RGBA) []color.RGBA {
	n := f.Cells()
	if cap(dst) < n {
		dst = make([]color.RGBA, n)
	}
	dst = dst[:n]
	for i := range dst {
		px := f.Data[i*f.Comps : i*f.Comps+Color]
		dst[i] = color.RGBA{R: unorm8(px[0]), G: unorm8(px[1]), B: unorm8(px[2]), A: unorm8(px[3])}
	}
	return dst
}

func unorm8(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// sampleBilinear interpolates component c at UV coordinates, treating cell
// (x,y) as centered at ((x+0.5)/W, (y+0.5)/H). Reads outside the grid clamp
// to the edge cells.
func (f *Field) sampleBilinear(u, v float32, c int) float32 {
	fx := u*float32(f.W) - 0.5
	fy := v*float32(f.H) - 0.5

	x0f := float32(math.Floor(float64(fx)))
	y0f := float32(math.Floor(float64(fy)))
	tx := fx - x0f
	ty := fy - y0f
	x0 := int(x0f)
	y0 := int(y0f)

	a := f.Data[f.clampedIndex(x0, y0)+c]
	b := f.Data[f.clampedIndex(x0+1, y0)+c]
	d := f.Data[f.clampedIndex(x0, y0+1)+c]
	e := f.Data[f.clampedIndex(x0+1, y0+1)+c]

	top := a + (b-a)*tx
	bottom := d + (e-d)*tx
	return top + (bottom-top)*ty
}

// quantizeRows applies the storage precision to rows [y0,y1).
func (f *Field) quantizeRows(y0, y1 int) {
	if f.Format != FormatFloat16 {
		return
	}
	quantizeHalf(f.Data[y0*f.W*f.Comps : y1*f.W*f.Comps])
}

// Pair is a ping-pong buffered field. Passes read Read and write Write, then
// Swap exchanges the two instances.
type Pair struct {
	Read, Write *Field
}

func newPair(w, h, comps int, format Format) Pair {
	return Pair{
		Read:  newField(w, h, comps, format),
		Write: newField(w, h, comps, format),
	}
}

// Swap exchanges the read and write buffers.
func (p *Pair) Swap() {
	p.Read, p.Write = p.Write, p.Read
}

// Clear zeroes both buffers.
func (p *Pair) Clear() {
	if p.Read != nil {
		p.Read.Clear()
	}
	if p.Write != nil {
		p.Write.Clear()
	}
}

func (p *Pair) allocated() bool {
	return p.Read != nil && p.Write != nil
}
