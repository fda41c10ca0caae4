package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/dye/fluid"
)

// mousePointer is the pointer ID of the mouse. Emitters use IDs from
// emitter.FirstPointerID up.
const mousePointer = 0

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	shift := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	if shift && rl.IsKeyPressed(rl.KeyR) {
		g.resetSettings()
	}
	if rl.IsKeyPressed(rl.KeyC) || rl.IsKeyPressed(rl.KeyBackspace) {
		g.resetSimulation()
	}
	if rl.IsKeyPressed(rl.KeyV) {
		g.sim.SetView(g.sim.View().Next())
	}
	if rl.IsKeyPressed(rl.KeyG) {
		g.cycleGridSize()
	}
	if rl.IsKeyPressed(rl.KeyE) {
		g.useEmitters = !g.useEmitters
		if !g.useEmitters {
			g.samples = append(g.samples, g.emitters.Release()...)
		}
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}

	g.handleCameraInput()
	g.handlePointer()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	panel := float32(g.cfg.Screen.PanelWidth)
	g.camera.Resize(0, 0, w-panel, h, g.camera.Aspect)
	g.settingsPanel.SetBounds(w-panel, 0, panel)
}

// handleCameraInput processes zoom and pan controls.
func (g *Game) handleCameraInput() {
	mouse := rl.GetMousePosition()

	if wheel := rl.GetMouseWheelMove(); wheel != 0 && g.camera.InViewport(mouse.X, mouse.Y) {
		g.camera.ZoomAt(1+wheel*0.1, mouse.X, mouse.Y)
	}

	// Right drag pans
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		g.camera.Pan(-d.X, -d.Y)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// handlePointer turns left-button drags into pointer samples. A drag must
// start inside the viewport; it may leave the grid, which ends the stroke
// segment until it comes back.
func (g *Game) handlePointer() {
	mouse := rl.GetMousePosition()
	u, v := g.camera.ScreenToUV(mouse.X, mouse.Y)
	uv := fluid.Vec2{X: u, Y: v}

	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		if !g.camera.InViewport(mouse.X, mouse.Y) {
			return
		}
		g.pointerDown = true
		g.samples = append(g.samples, fluid.PointerSample{ID: mousePointer, Phase: fluid.PointerDown, UV: uv})
	case g.pointerDown && rl.IsMouseButtonDown(rl.MouseButtonLeft):
		g.samples = append(g.samples, fluid.PointerSample{ID: mousePointer, Phase: fluid.PointerDrag, UV: uv})
	case g.pointerDown:
		g.pointerDown = false
		g.samples = append(g.samples, fluid.PointerSample{ID: mousePointer, Phase: fluid.PointerUp, UV: uv})
	}
}
