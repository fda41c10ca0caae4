// Package config provides configuration loading and access for the simulator.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/dye/fluid"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulator configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Grid      GridConfig      `yaml:"grid"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Solver    SolverConfig    `yaml:"solver"`
	Brush     BrushConfig     `yaml:"brush"`
	Color     ColorConfig     `yaml:"color"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Emitters  []EmitterConfig `yaml:"emitters"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	TargetFPS  int `yaml:"target_fps"`
	PanelWidth int `yaml:"panel_width"` // settings panel on the right edge
}

// GridConfig holds simulation grid dimensions.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// AspectDriven derives one dimension from the view aspect: "width" keeps
	// Width and derives Height, "height" the reverse, "" uses both as given.
	AspectDriven string   `yaml:"aspect_driven"`
	Formats      []string `yaml:"formats"` // storage formats the host supports
	Sizes        []int    `yaml:"sizes"`   // resolutions cycled at runtime
}

// PhysicsConfig holds time stepping parameters.
type PhysicsConfig struct {
	DT            float64 `yaml:"dt"`
	StepsPerFrame int     `yaml:"steps_per_frame"`
}

// SolverConfig holds numerical tuning.
type SolverConfig struct {
	Iterations          int     `yaml:"iterations"`
	VelocityDissipation float64 `yaml:"velocity_dissipation"`
	DensityDissipation  float64 `yaml:"density_dissipation"`
	DiffusionRate       float64 `yaml:"diffusion_rate"`
	Workers             int     `yaml:"workers"` // 0 = GOMAXPROCS
}

// BrushConfig holds pointer injection parameters.
type BrushConfig struct {
	Force         float64    `yaml:"force"`
	Radius        float64    `yaml:"radius"` // slider units, 1/100 of the grid
	DensityAmount float64    `yaml:"density_amount"`
	RadiusRange   [2]float64 `yaml:"radius_range"` // slider bounds
	ForceRange    [2]float64 `yaml:"force_range"`
}

// ColorConfig holds density colorization parameters.
type ColorConfig struct {
	Background      string       `yaml:"background"` // hex
	BackgroundAlpha float64      `yaml:"background_alpha"`
	Contrast        float64      `yaml:"contrast"`
	Ramp            string       `yaml:"ramp"` // active ramp name
	Ramps           []RampConfig `yaml:"ramps"`
}

// RampConfig is a named color ramp.
type RampConfig struct {
	Name  string       `yaml:"name"`
	Stops []StopConfig `yaml:"stops"`
}

// StopConfig is one ramp key.
type StopConfig struct {
	Pos   float64 `yaml:"pos"`
	Color string  `yaml:"color"` // hex
}

// TelemetryConfig holds headless statistics settings.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds of sim time per stats row
	PerfWindow  int     `yaml:"perf_window"`  // ticks in the rolling perf window
}

// EmitterConfig scripts a stroke that orbits a point and pulses on and off.
type EmitterConfig struct {
	Center [2]float64 `yaml:"center"` // UV
	Radius float64    `yaml:"radius"` // orbit radius, UV
	Speed  float64    `yaml:"speed"`  // radians per second, negative is clockwise
	Phase  float64    `yaml:"phase"`  // starting angle, radians
	On     float64    `yaml:"on"`     // seconds pressed
	Off    float64    `yaml:"off"`    // seconds released
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	DT32       float32
	GridW      int
	GridH      int
	Iterations int
	Formats    fluid.FormatList
	Background fluid.RGBA
	Ramps      []*fluid.Ramp
	RampIndex  map[string]int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived validates the loaded values and calculates derived ones.
func (c *Config) computeDerived() error {
	c.Derived.DT32 = float32(c.Physics.DT)
	if c.Physics.StepsPerFrame < 1 {
		c.Physics.StepsPerFrame = 1
	}

	c.Derived.Iterations = c.Solver.Iterations
	if c.Derived.Iterations < 1 {
		slog.Warn("solver iterations below 1, clamping", "iterations", c.Solver.Iterations)
		c.Derived.Iterations = 1
	}

	c.Derived.GridW, c.Derived.GridH = c.GridSize(c.ViewAspect())

	c.Derived.Formats = c.Derived.Formats[:0]
	for _, name := range c.Grid.Formats {
		f, ok := fluid.ParseFormat(name)
		if !ok {
			return fmt.Errorf("grid.formats: unknown storage format %q", name)
		}
		c.Derived.Formats = append(c.Derived.Formats, f)
	}

	bg, err := colorful.Hex(c.Color.Background)
	if err != nil {
		return fmt.Errorf("color.background: %w", err)
	}
	c.Derived.Background = fluid.RGBA{
		R: float32(bg.R),
		G: float32(bg.G),
		B: float32(bg.B),
		A: float32(clamp01(c.Color.BackgroundAlpha)),
	}

	// Fall back to a grayscale ramp if none specified
	if len(c.Color.Ramps) == 0 {
		c.Color.Ramps = []RampConfig{{
			Name:  "grayscale",
			Stops: []StopConfig{{Pos: 0, Color: "#000000"}, {Pos: 1, Color: "#ffffff"}},
		}}
	}

	c.Derived.Ramps = make([]*fluid.Ramp, len(c.Color.Ramps))
	c.Derived.RampIndex = make(map[string]int, len(c.Color.Ramps))
	for i, rc := range c.Color.Ramps {
		r, err := rc.Build()
		if err != nil {
			return fmt.Errorf("color.ramps[%d] %q: %w", i, rc.Name, err)
		}
		c.Derived.Ramps[i] = r
		c.Derived.RampIndex[rc.Name] = i
	}
	if _, ok := c.Derived.RampIndex[c.Color.Ramp]; !ok {
		slog.Warn("unknown color ramp, using first", "ramp", c.Color.Ramp, "using", c.Color.Ramps[0].Name)
		c.Color.Ramp = c.Color.Ramps[0].Name
	}

	return nil
}

// ViewAspect returns width/height of the area the grid is displayed in.
func (c *Config) ViewAspect() float64 {
	w := c.Screen.Width - c.Screen.PanelWidth
	if w <= 0 || c.Screen.Height <= 0 {
		return 1
	}
	return float64(w) / float64(c.Screen.Height)
}

// GridSize returns the grid dimensions for a view aspect, applying
// grid.aspect_driven.
func (c *Config) GridSize(aspect float64) (int, int) {
	w, h := c.Grid.Width, c.Grid.Height
	switch c.Grid.AspectDriven {
	case "width":
		h = int(float64(w)/aspect + 0.5)
	case "height":
		w = int(float64(h)*aspect + 0.5)
	}
	return max(w, fluid.MinDimension), max(h, fluid.MinDimension)
}

// Build converts the ramp config into a fluid.Ramp.
func (rc RampConfig) Build() (*fluid.Ramp, error) {
	stops := make([]fluid.Stop, len(rc.Stops))
	for i, s := range rc.Stops {
		col, err := colorful.Hex(s.Color)
		if err != nil {
			return nil, fmt.Errorf("stop %d: %w", i, err)
		}
		stops[i] = fluid.Stop{Pos: s.Pos, Color: col}
	}
	return fluid.NewRamp(stops...)
}

// RampNames returns the configured ramp names in order.
func (c *Config) RampNames() []string {
	names := make([]string, len(c.Color.Ramps))
	for i, r := range c.Color.Ramps {
		names[i] = r.Name
	}
	return names
}

// Ramp returns the named ramp, or the first one if the name is unknown.
func (c *Config) Ramp(name string) *fluid.Ramp {
	if i, ok := c.Derived.RampIndex[name]; ok {
		return c.Derived.Ramps[i]
	}
	return c.Derived.Ramps[0]
}

// Params builds validated solver parameters from the config.
func (c *Config) Params() (fluid.Params, error) {
	p := fluid.Params{
		Force:               float32(c.Brush.Force),
		Radius:              float32(c.Brush.Radius),
		DensityAmount:       float32(c.Brush.DensityAmount),
		Iterations:          c.Derived.Iterations,
		VelocityDissipation: float32(c.Solver.VelocityDissipation),
		DensityDissipation:  float32(c.Solver.DensityDissipation),
		DiffusionRate:       float32(c.Solver.DiffusionRate),
		Background:          c.Derived.Background,
		Contrast:            float32(c.Color.Contrast),
		Ramp:                c.Ramp(c.Color.Ramp),
	}
	if err := p.Validate(); err != nil {
		return fluid.Params{}, fmt.Errorf("building solver params: %w", err)
	}
	return p, nil
}

// FormatSupport returns the storage formats the host declares. An empty
// list in the config means every format is supported.
func (c *Config) FormatSupport() fluid.FormatSupport {
	if len(c.Grid.Formats) == 0 {
		return fluid.AllFormats
	}
	return c.Derived.Formats
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
