package ui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/dye/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Tick         uint64
	FPS          int32
	Paused       bool
	GridW, GridH int
	Format       string
	View         string
	Ramp         string
	TotalDensity float64
	Divergence   float64
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Grid: %dx%d %s | View: %s | Ramp: %s", data.GridW, data.GridH, data.Format, data.View, data.Ramp),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | Dye: %.1f | |div|: %.2e", data.Tick, data.FPS, data.TotalDensity, data.Divergence),
		10, 55, 16, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 75, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase timing breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the phase breakdown and returns the Y below the panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) int32 {
	r := p.renderer
	x, y := p.x, p.y

	y = r.DrawSectionHeader(x, y, "Performance")
	y = r.DrawLabelValue(x, y, "Tick", stats.AvgTickDuration.String())
	y = r.DrawLabelValue(x, y, "Ticks/s", fmt.Sprintf("%.0f", stats.TicksPerSecond))

	for _, phase := range telemetry.Phases {
		pct, ok := stats.PhasePct[phase]
		if !ok {
			continue
		}
		label := strings.ReplaceAll(phase, "_", " ")
		y = r.DrawBar(x, y, label, pct, 30, p.width)
	}
	return y
}
