// Package ui draws the HUD, the perf breakdown and the settings panel.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds colors and metrics shared by every panel.
type Theme struct {
	Panel, Border rl.Color
	Header        rl.Color
	Label, Value  rl.Color
	Track         rl.Color // empty part of bars and swatch frames
	Fill, Warn    rl.Color

	Pad, Line  int32
	LabelW     int32
	BarH       int32
	Font       int32
	HeaderFont int32
}

// DefaultTheme is a dark theme that stays readable over dye.
func DefaultTheme() Theme {
	return Theme{
		Panel:      rl.Color{R: 14, G: 16, B: 22, A: 235},
		Border:     rl.Color{R: 52, G: 58, B: 72, A: 255},
		Header:     rl.Color{R: 120, G: 200, B: 255, A: 255},
		Label:      rl.Color{R: 170, G: 176, B: 190, A: 255},
		Value:      rl.RayWhite,
		Track:      rl.Color{R: 34, G: 38, B: 48, A: 255},
		Fill:       rl.Color{R: 70, G: 160, B: 220, A: 255},
		Warn:       rl.Color{R: 230, G: 110, B: 80, A: 255},
		Pad:        10,
		Line:       16,
		LabelW:     100,
		BarH:       10,
		Font:       12,
		HeaderFont: 14,
	}
}
