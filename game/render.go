package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/dye/ui"
)

// Draw renders the current frame.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.display.Upload(g.sim.Display())
	g.display.Draw(g.camera)

	g.drawUI()

	rl.EndDrawing()
}

// drawUI renders the HUD, perf breakdown and settings panel.
func (g *Game) drawUI() {
	w, h := g.sim.Size()

	g.hud.Draw(ui.HUDData{
		Title:        Title,
		Tick:         g.sim.Ticks(),
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		GridW:        w,
		GridH:        h,
		Format:       g.sim.Format().String(),
		View:         g.sim.View().String(),
		Ramp:         g.cfg.RampName(g.settings),
		TotalDensity: g.lastStats.TotalDensity,
		Divergence:   g.lastStats.MeanAbsDivergence,
	})

	if g.showPerf {
		g.perfPanel.SetPosition(10, 100)
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	settings, act, _ := g.settingsPanel.Draw(g.cfg, g.settings, ui.SettingsPanelData{
		RampName:   g.cfg.RampName(g.settings),
		RampColors: g.rampSwatch,
		ViewName:   g.sim.View().String(),
		GridW:      w,
		GridH:      h,
	}, int32(g.screenHeight))

	if settings != g.settings {
		g.settings = settings
		g.applySettings()
	}
	switch {
	case act.ResetSettings:
		g.resetSettings()
	case act.ResetSimulation:
		g.resetSimulation()
	case act.NextView:
		g.sim.SetView(g.sim.View().Next())
	case act.NextSize:
		g.cycleGridSize()
	}

	g.hud.DrawControls(int32(g.screenHeight), Controls)
}
