package config

import "github.com/pthm-cable/dye/fluid"

// Settings are the values the settings panel edits at runtime. They start
// from the loaded config and can be reset to it.
type Settings struct {
	Radius     float64
	Force      float64
	Iterations int
	Ramp       int // index into Derived.Ramps
	Size       int // index into Grid.Sizes, -1 for grid.width/height
}

// InitialSettings returns the settings described by the config.
func (c *Config) InitialSettings() Settings {
	return c.ClampSettings(Settings{
		Radius:     c.Brush.Radius,
		Force:      c.Brush.Force,
		Iterations: c.Derived.Iterations,
		Ramp:       c.Derived.RampIndex[c.Color.Ramp],
		Size:       -1,
	})
}

// ClampSettings keeps settings inside the configured ranges. Iterations
// never drop below 1; ramp and size indices wrap.
func (c *Config) ClampSettings(s Settings) Settings {
	s.Radius = clampRange(s.Radius, c.Brush.RadiusRange)
	s.Force = clampRange(s.Force, c.Brush.ForceRange)
	s.Iterations = max(s.Iterations, 1)

	if n := len(c.Derived.Ramps); n > 0 {
		s.Ramp = ((s.Ramp % n) + n) % n
	}
	if n := len(c.Grid.Sizes); n == 0 {
		s.Size = -1
	} else if s.Size < -1 || s.Size >= n {
		s.Size = ((s.Size % n) + n) % n
	}
	return s
}

// ApplySettings copies the settings into solver params.
func (c *Config) ApplySettings(p *fluid.Params, s Settings) {
	p.Radius = float32(s.Radius)
	p.Force = float32(s.Force)
	p.Iterations = max(s.Iterations, 1)
	if s.Ramp >= 0 && s.Ramp < len(c.Derived.Ramps) {
		p.Ramp = c.Derived.Ramps[s.Ramp]
	}
}

// RampName returns the config name of the settings' ramp.
func (c *Config) RampName(s Settings) string {
	if s.Ramp >= 0 && s.Ramp < len(c.Color.Ramps) {
		return c.Color.Ramps[s.Ramp].Name
	}
	return c.Color.Ramp
}

// SettingsGridSize returns the grid dimensions for the settings' size
// preset. Presets set the long edge and keep the view aspect.
func (c *Config) SettingsGridSize(s Settings) (int, int) {
	if s.Size < 0 || s.Size >= len(c.Grid.Sizes) {
		return c.Derived.GridW, c.Derived.GridH
	}
	n := c.Grid.Sizes[s.Size]
	aspect := c.ViewAspect()
	w, h := n, n
	if aspect >= 1 {
		h = int(float64(n)/aspect + 0.5)
	} else {
		w = int(float64(n)*aspect + 0.5)
	}
	return max(w, fluid.MinDimension), max(h, fluid.MinDimension)
}

// clampRange restricts v to r when r is a valid range.
func clampRange(v float64, r [2]float64) float64 {
	if r[1] <= r[0] {
		return v
	}
	return min(max(v, r[0]), r[1])
}
