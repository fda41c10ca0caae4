// Color ramp preview tool - interactive view of how density maps to color
// for each configured ramp, with sliders for the colorization settings.
//
// Usage: go run ./cmd/rampreview -config config.yaml
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dye/camera"
	"github.com/pthm-cable/dye/config"
	"github.com/pthm-cable/dye/fluid"
	"github.com/pthm-cable/dye/renderer"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 128
)

// previewParams holds the values the sliders edit.
type previewParams struct {
	Contrast   float32
	MaxDensity float32
	BgAlpha    float32
	Ramp       int
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rampreview: %v\n", err)
		os.Exit(1)
	}
	base, err := cfg.Params()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rampreview: %v\n", err)
		os.Exit(1)
	}

	initial := previewParams{
		Contrast:   base.Contrast,
		MaxDensity: 1,
		BgAlpha:    base.Background.A,
		Ramp:       cfg.Derived.RampIndex[cfg.Color.Ramp],
	}
	params := initial

	sim, err := fluid.NewSimulator(fluid.Options{Width: gridSize, Height: gridSize, Workers: 1, Params: base})
	if err != nil {
		fmt.Fprintf(os.Stderr, "rampreview: %v\n", err)
		os.Exit(1)
	}
	defer sim.Shutdown()

	rl.InitWindow(windowWidth, windowHeight, "Color Ramp Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	cam := camera.New(10, 10, previewSize, previewSize, 1)
	display := renderer.NewDisplayRenderer()
	defer display.Unload()

	needsRegen := true
	lastMax := float32(-1)

	for !rl.WindowShouldClose() {
		if needsRegen {
			if params.MaxDensity != lastMax {
				if err := sim.Restore(gridSize, gridSize, densityPattern(params.MaxDensity), make([]float32, gridSize*gridSize*fluid.Vector), nil); err != nil {
					fmt.Fprintf(os.Stderr, "rampreview: %v\n", err)
					return
				}
				lastMax = params.MaxDensity
			}
			p := base
			p.Contrast = params.Contrast
			p.Background.A = params.BgAlpha
			p.Ramp = cfg.Derived.Ramps[params.Ramp]
			if err := sim.SetParams(p); err == nil {
				sim.Refresh()
			}
			display.Upload(sim.Display())
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		display.Draw(cam)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText("Top: density 0 to max, left to right. Bottom: gaussian blob.", 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Opacity at max: %.3f", fluid.Opacity(params.MaxDensity, params.Contrast)), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Colorization", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		panelY = slider(&params.Contrast, &needsRegen, "Contrast (opacity growth)", panelX, panelY, 0.1, 20, "%.2f")
		panelY = slider(&params.MaxDensity, &needsRegen, "Max density shown", panelX, panelY, 0.1, 5, "%.2f")
		panelY = slider(&params.BgAlpha, &needsRegen, "Background alpha", panelX, panelY, 0, 1, "%.2f")
		panelY += 10

		name := cfg.Color.Ramps[params.Ramp].Name
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Ramp: "+name) {
			params.Ramp = (params.Ramp + 1) % len(cfg.Derived.Ramps)
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = initial
			needsRegen = true
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := fmt.Sprintf("color:\n  background_alpha: %.2f\n  contrast: %.2f\n  ramp: %s", params.BgAlpha, params.Contrast, name)
		rl.DrawText(yaml, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider bar and returns the Y below it.
func slider(v *float32, changed *bool, label string, x, y, lo, hi float32, format string) float32 {
	rl.DrawText(label, int32(x), int32(y), 14, rl.Gray)
	y += 18
	nv := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: float32(panelWidth - 80), Height: 20},
		"", "",
		*v, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, *v), int32(x+float32(panelWidth-70)), int32(y+2), 16, rl.DarkGray)
	if nv != *v {
		*v = nv
		*changed = true
	}
	return y + 35
}

// densityPattern fills the top half with a horizontal density ramp and the
// bottom half with a gaussian blob, both peaking at maxDensity.
func densityPattern(maxDensity float32) []float32 {
	d := make([]float32, gridSize*gridSize)
	half := gridSize / 2
	sigma := float64(gridSize) / 8
	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			if y < half {
				d[y*gridSize+x] = maxDensity * float32(x) / float32(gridSize-1)
				continue
			}
			dx := float64(x) - float64(gridSize)/2
			dy := float64(y) - float64(half+half/2)
			g := math.Exp(-(dx*dx + dy*dy) / (2 * sigma * sigma))
			d[y*gridSize+x] = maxDensity * float32(g)
		}
	}
	return d
}
