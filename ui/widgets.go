package ui

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws widgets in a Theme. Methods that lay out a row return the
// Y of the next row.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel fills a framed panel.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.Panel)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.Border)
}

// DrawSectionHeader draws a section title.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFont, r.Theme.Header)
	return y + r.Theme.Line + 2
}

// DrawLabel draws one line of label text.
func (r *Renderer) DrawLabel(x, y int32, text string) {
	rl.DrawText(text, x, y, r.Theme.Font, r.Theme.Label)
}

// DrawLabelValue draws "label: value" with the value in a fixed column.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.Font, r.Theme.Label)
	rl.DrawText(value, x+r.Theme.LabelW, y, r.Theme.Font, r.Theme.Value)
	return y + r.Theme.Line
}

// DrawBar draws a labelled percentage bar, in the warn color above warn.
func (r *Renderer) DrawBar(x, y int32, label string, pct, warn float64, width int32) int32 {
	t := r.Theme
	barX := x + t.LabelW
	barW := width - t.LabelW - 50
	fill := t.Fill
	if pct > warn {
		fill = t.Warn
	}

	rl.DrawText(label, x, y, t.Font, t.Label)
	rl.DrawRectangle(barX, y+2, barW, t.BarH, t.Track)
	rl.DrawRectangle(barX, y+2, int32(float64(barW)*min(max(pct/100, 0), 1)), t.BarH, fill)
	rl.DrawText(fmt.Sprintf("%4.1f%%", pct), barX+barW+5, y, t.Font, t.Value)

	return y + t.Line + 2
}

// DrawSwatch draws colors as equal vertical strips filling a framed box,
// left to right.
func (r *Renderer) DrawSwatch(x, y, width, height int32, colors []color.RGBA) int32 {
	if n := int32(len(colors)); n > 0 && width > 0 {
		for i := int32(0); i < width; i++ {
			c := colors[min(i*n/width, n-1)]
			rl.DrawRectangle(x+i, y, 1, height, rl.Color{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	rl.DrawRectangleLines(x, y, width, height, r.Theme.Track)
	return y + height + r.Theme.Pad/2
}
