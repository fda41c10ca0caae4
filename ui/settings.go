package ui

import (
	"fmt"
	"image/color"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/dye/config"
)

// maxIterationsSlider is the top of the iterations slider. Larger counts
// can still come from the config.
const maxIterationsSlider = 200

// SettingsActions are the buttons pressed on a frame.
type SettingsActions struct {
	ResetSettings   bool
	ResetSimulation bool
	NextView        bool
	NextSize        bool
}

// SettingsPanelData is what the panel shows besides the editable settings.
type SettingsPanelData struct {
	RampName   string
	RampColors []color.RGBA // sampled active ramp, drawn under the button
	ViewName   string
	GridW      int
	GridH      int
}

// SettingsPanel renders the brush and solver controls on the right edge.
type SettingsPanel struct {
	renderer *Renderer
	x, y     float32
	width    float32
}

// NewSettingsPanel creates a settings panel.
func NewSettingsPanel(x, y, width float32) *SettingsPanel {
	return &SettingsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetBounds moves the panel, for example after a window resize.
func (p *SettingsPanel) SetBounds(x, y, width float32) {
	p.x, p.y, p.width = x, y, width
}

// Draw renders the panel, returning the edited settings, the buttons
// pressed and the Y below the panel.
func (p *SettingsPanel) Draw(cfg *config.Config, s config.Settings, data SettingsPanelData, screenH int32) (config.Settings, SettingsActions, float32) {
	var act SettingsActions
	r := p.renderer
	pad := float32(r.Theme.Pad)

	r.DrawPanel(int32(p.x), int32(p.y), int32(p.width), screenH-int32(p.y))

	x := p.x + pad
	y := p.y + pad
	w := p.width - 2*pad
	sliderW := w - 50

	y = float32(r.DrawSectionHeader(int32(x), int32(y), "Brush"))

	r.DrawLabel(int32(x), int32(y), "Size")
	y += 14
	s.Radius = float64(gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: sliderW, Height: 16},
		"", "",
		float32(s.Radius), float32(cfg.Brush.RadiusRange[0]), float32(cfg.Brush.RadiusRange[1]),
	))
	rl.DrawText(fmt.Sprintf("%.1f", s.Radius), int32(x+sliderW+6), int32(y+2), r.Theme.Font, r.Theme.Value)
	y += 24

	r.DrawLabel(int32(x), int32(y), "Force")
	y += 14
	s.Force = float64(gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: sliderW, Height: 16},
		"", "",
		float32(s.Force), float32(cfg.Brush.ForceRange[0]), float32(cfg.Brush.ForceRange[1]),
	))
	rl.DrawText(fmt.Sprintf("%.0f", s.Force), int32(x+sliderW+6), int32(y+2), r.Theme.Font, r.Theme.Value)
	y += 30

	y = float32(r.DrawSectionHeader(int32(x), int32(y), "Solver"))

	r.DrawLabel(int32(x), int32(y), "Iterations")
	y += 14
	iters := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: sliderW, Height: 16},
		"", "",
		float32(min(s.Iterations, maxIterationsSlider)), 1, maxIterationsSlider,
	)
	if n := int(iters + 0.5); n != min(s.Iterations, maxIterationsSlider) {
		s.Iterations = n
	}
	rl.DrawText(fmt.Sprintf("%d", s.Iterations), int32(x+sliderW+6), int32(y+2), r.Theme.Font, r.Theme.Value)
	y += 30

	y = float32(r.DrawSectionHeader(int32(x), int32(y), "Display"))

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 24}, "Ramp: "+data.RampName) {
		s.Ramp++
	}
	y += 28
	y = float32(r.DrawSwatch(int32(x), int32(y), int32(w), 10, data.RampColors))
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 24}, "View: "+data.ViewName) {
		act.NextView = true
	}
	y += 30
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 24}, fmt.Sprintf("Grid: %dx%d", data.GridW, data.GridH)) {
		act.NextSize = true
	}
	y += 40

	half := (w - pad) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 28}, "Reset settings") {
		act.ResetSettings = true
	}
	if gui.Button(rl.Rectangle{X: x + half + pad, Y: y, Width: half, Height: 28}, "Clear") {
		act.ResetSimulation = true
	}
	y += 40

	return cfg.ClampSettings(s), act, y
}
