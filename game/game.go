// Package game embeds the fluid simulator in a raylib window, or runs it
// headless with scripted strokes.
package game

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/pthm-cable/dye/camera"
	"github.com/pthm-cable/dye/config"
	"github.com/pthm-cable/dye/emitter"
	"github.com/pthm-cable/dye/fluid"
	"github.com/pthm-cable/dye/renderer"
	"github.com/pthm-cable/dye/telemetry"
	"github.com/pthm-cable/dye/ui"
)

// Game holds the complete application state.
type Game struct {
	cfg *config.Config

	sim      *fluid.Simulator
	params   fluid.Params
	settings config.Settings

	emitters    *emitter.System
	useEmitters bool

	// Pointer input for this tick
	samples     []fluid.PointerSample
	pointerDown bool

	// Rendering (nil when headless)
	camera        *camera.Camera
	display       *renderer.DisplayRenderer
	hud           *ui.HUD
	perfPanel     *ui.PerfPanel
	settingsPanel *ui.SettingsPanel
	rampSwatch    []color.RGBA

	// State
	tick           int32
	paused         bool
	headless       bool
	stepsPerUpdate int
	showPerf       bool
	lastStats      fluid.FieldStats

	screenWidth, screenHeight float32

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	snapshotDir      string
}

// NewGame creates a game from the global config. In graphical mode the
// raylib window must already exist.
func NewGame(opts Options) (*Game, error) {
	cfg := config.Cfg()

	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = cfg.Physics.StepsPerFrame
	}

	g := &Game{
		cfg:              cfg,
		params:           params,
		settings:         cfg.InitialSettings(),
		emitters:         emitter.New(cfg.Emitters),
		useEmitters:      opts.Emitters || opts.Headless,
		headless:         opts.Headless,
		stepsPerUpdate:   steps,
		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
		screenWidth:      float32(cfg.Screen.Width),
		screenHeight:     float32(cfg.Screen.Height),
	}

	g.sim, err = fluid.NewSimulator(fluid.Options{
		Width:   cfg.Derived.GridW,
		Height:  cfg.Derived.GridH,
		Workers: cfg.Solver.Workers,
		Formats: cfg.FormatSupport(),
		Params:  params,
		Timer:   g.perfCollector,
	})
	if err != nil {
		return nil, fmt.Errorf("creating simulator: %w", err)
	}

	if opts.Snapshot != "" {
		if err := g.restoreSnapshot(opts.Snapshot); err != nil {
			g.sim.Shutdown()
			return nil, err
		}
	}

	g.outputManager, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.sim.Shutdown()
		return nil, err
	}
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if !opts.Headless {
		g.initRendering()
	}

	w, h := g.sim.Size()
	slog.Info("game started",
		"grid_w", w,
		"grid_h", h,
		"format", g.sim.Format().String(),
		"emitters", g.emitters.Count(),
		"headless", opts.Headless,
	)
	return g, nil
}

// initRendering creates the camera, display texture and UI.
func (g *Game) initRendering() {
	panel := float32(g.cfg.Screen.PanelWidth)
	w, h := g.sim.Size()

	g.camera = camera.New(0, 0, g.screenWidth-panel, g.screenHeight, float32(w)/float32(h))
	g.display = renderer.NewDisplayRenderer()
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(0, 0, int32(panel)-20)
	g.settingsPanel = ui.NewSettingsPanel(g.screenWidth-panel, 0, panel)
	g.rampSwatch = g.params.Ramp.Swatch(swatchSamples)
}

// restoreSnapshot loads a saved flow state and its ramp.
func (g *Game) restoreSnapshot(path string) error {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	if err := snap.Apply(g.sim); err != nil {
		return fmt.Errorf("applying snapshot %s: %w", path, err)
	}
	if i, ok := g.cfg.Derived.RampIndex[snap.Ramp]; ok {
		g.settings.Ramp = i
		g.applySettings()
	}
	g.tick = snap.Tick
	slog.Info("snapshot restored", "path", path, "tick", snap.Tick, "grid_w", snap.Width, "grid_h", snap.Height)
	return nil
}

// Update runs one frame in graphical mode.
func (g *Game) Update() {
	g.perfCollector.RecordFrame()
	g.handleInput()

	if g.paused {
		g.samples = g.samples[:0]
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
		// Pointer samples belong to the first step of the frame only
		g.samples = g.samples[:0]
	}
}

// UpdateHeadless runs the configured number of ticks without graphics.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step advances the simulation by one tick and collects telemetry.
func (g *Game) step() {
	g.perfCollector.StartTick()

	samples := g.samples
	if g.useEmitters {
		samples = append(samples, g.emitters.Update(g.cfg.Derived.DT32)...)
	}

	if err := g.sim.Tick(g.cfg.Derived.DT32, samples); err != nil {
		slog.Error("tick failed", "tick", g.tick, "error", err)
		g.perfCollector.EndTick()
		return
	}
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordSegments(countSegments(samples))
	g.lastStats = g.sim.Stats()
	g.collector.RecordTick(g.lastStats)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// countSegments returns the number of samples that can extend a stroke.
func countSegments(samples []fluid.PointerSample) int {
	n := 0
	for _, ps := range samples {
		if ps.Phase == fluid.PointerDrag {
			n++
		}
	}
	return n
}

// applySettings pushes the panel settings into the simulator.
func (g *Game) applySettings() {
	g.cfg.ApplySettings(&g.params, g.settings)
	if err := g.sim.SetParams(g.params); err != nil {
		slog.Error("rejected settings", "error", err)
		return
	}
	if g.settingsPanel != nil {
		g.rampSwatch = g.params.Ramp.Swatch(swatchSamples)
	}
	if g.paused {
		g.sim.Refresh()
	}
}

// resetSettings restores the configured brush, solver and ramp settings.
func (g *Game) resetSettings() {
	size := g.settings.Size
	g.settings = g.cfg.InitialSettings()
	g.applySettings()
	if size != g.settings.Size {
		g.resizeGrid()
	}
	slog.Info("settings reset")
}

// resetSimulation clears the flow.
func (g *Game) resetSimulation() {
	g.sim.Reset()
	g.emitters.Release()
	g.pointerDown = false
	slog.Info("simulation cleared", "tick", g.tick)
}

// cycleGridSize moves to the next grid size preset.
func (g *Game) cycleGridSize() {
	g.settings.Size++
	g.settings = g.cfg.ClampSettings(g.settings)
	g.resizeGrid()
}

// resizeGrid requests the grid size for the current settings. The simulator
// applies it at the next tick.
func (g *Game) resizeGrid() {
	w, h := g.cfg.SettingsGridSize(g.settings)
	g.sim.Resize(w, h)
	g.pointerDown = false
	if g.camera != nil {
		g.camera.Resize(g.camera.ViewportX, g.camera.ViewportY, g.camera.ViewportW, g.camera.ViewportH, float32(w)/float32(h))
	}
	slog.Info("grid resize requested", "grid_w", w, "grid_h", h)
}

// Unload releases all resources and writes the run summary.
func (g *Game) Unload() {
	if summary := telemetry.RunSummary(g.collector, g.perfCollector); summary != "" {
		if g.logStats {
			fmt.Println(summary)
		}
		if err := g.outputManager.WriteSummary(summary); err != nil {
			slog.Error("failed to write summary", "error", err)
		}
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}

	if g.display != nil {
		g.display.Unload()
	}
	g.sim.Shutdown()
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}
