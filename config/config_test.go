package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/dye/fluid"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Grid.Width != 256 || cfg.Grid.Height != 256 {
		t.Errorf("expected 256x256 grid, got %dx%d", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Derived.DT32 != 0.016 {
		t.Errorf("expected dt 0.016, got %v", cfg.Derived.DT32)
	}
	if len(cfg.Derived.Ramps) != len(cfg.Color.Ramps) || len(cfg.Derived.Ramps) == 0 {
		t.Fatalf("expected every ramp built, got %d of %d", len(cfg.Derived.Ramps), len(cfg.Color.Ramps))
	}

	p, err := cfg.Params()
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if p.Iterations != 20 || p.Force != 100 || p.Radius != 2 {
		t.Errorf("unexpected params %+v", p)
	}
	if p.Ramp != cfg.Ramp(cfg.Color.Ramp) {
		t.Error("expected the active ramp in params")
	}
	if p.Background != (fluid.RGBA{A: 1}) {
		t.Errorf("expected opaque black background, got %+v", p.Background)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := writeConfig(t, `
solver:
  iterations: 0
brush:
  force: 250
color:
  background: "#ff0000"
  background_alpha: 0.5
  ramp: mono
  ramps:
    - name: mono
      stops:
        - { pos: 0, color: "#000000" }
        - { pos: 1, color: "#00ff00" }
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Values absent from the file keep their defaults.
	if cfg.Solver.VelocityDissipation != 0.99 {
		t.Errorf("expected default velocity dissipation, got %v", cfg.Solver.VelocityDissipation)
	}

	p, err := cfg.Params()
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if p.Iterations != 1 {
		t.Errorf("expected iterations clamped to 1, got %d", p.Iterations)
	}
	if p.Force != 250 {
		t.Errorf("expected force 250, got %v", p.Force)
	}
	if p.Background != (fluid.RGBA{R: 1, A: 0.5}) {
		t.Errorf("unexpected background %+v", p.Background)
	}
	if names := cfg.RampNames(); len(names) != 1 || names[0] != "mono" {
		t.Errorf("expected ramps replaced by the file, got %v", names)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"format":     "grid:\n  formats: [rgba8]\n",
		"background": "color:\n  background: chartreuse\n",
		"ramp":       "color:\n  ramps:\n    - name: bad\n      stops: []\n",
		"yaml":       "screen: [\n",
	}
	for name, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}

	_, err := Load(writeConfig(t, "color:\n  ramps:\n    - name: bad\n      stops: []\n"))
	if !errors.Is(err, fluid.ErrEmptyRamp) {
		t.Errorf("expected wrapped ErrEmptyRamp, got %v", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected missing file to fail")
	}
}

func TestUnknownRampFallsBack(t *testing.T) {
	cfg, err := Load(writeConfig(t, "color:\n  ramp: nope\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Color.Ramp != cfg.Color.Ramps[0].Name {
		t.Errorf("expected first ramp, got %q", cfg.Color.Ramp)
	}
}

func TestGridSizeAspect(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
screen: { width: 1040, height: 400, panel_width: 240 }
grid: { width: 200, height: 100, aspect_driven: width }
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Derived.GridW != 200 || cfg.Derived.GridH != 100 {
		t.Errorf("aspect 2: got %dx%d, want 200x100", cfg.Derived.GridW, cfg.Derived.GridH)
	}

	cfg.Grid.AspectDriven = "height"
	if w, h := cfg.GridSize(0.5); w != 50 || h != 100 {
		t.Errorf("height-driven: got %dx%d, want 50x100", w, h)
	}

	cfg.Grid.AspectDriven = ""
	if w, h := cfg.GridSize(3); w != 200 || h != 100 {
		t.Errorf("fixed: got %dx%d, want 200x100", w, h)
	}

	cfg.Grid.AspectDriven = "width"
	if _, h := cfg.GridSize(100); h != fluid.MinDimension {
		t.Errorf("expected derived height clamped to %d, got %d", fluid.MinDimension, h)
	}
}

func TestFormatSupport(t *testing.T) {
	cfg, err := Load(writeConfig(t, "grid:\n  formats: [float16]\n"))
	if err != nil {
		t.Fatal(err)
	}
	fs := cfg.FormatSupport()
	if fs.Supports(fluid.FormatFloat32) || !fs.Supports(fluid.FormatFloat16) {
		t.Error("expected only float16 supported")
	}

	cfg.Grid.Formats = nil
	if !cfg.FormatSupport().Supports(fluid.FormatFloat32) {
		t.Error("expected an empty list to support everything")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Brush.Force = 321

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Brush.Force != 321 {
		t.Errorf("expected force 321 after round trip, got %v", back.Brush.Force)
	}
	if len(back.Color.Ramps) != len(cfg.Color.Ramps) {
		t.Error("expected ramps preserved")
	}
}

func TestInitAndCfg(t *testing.T) {
	MustInit("")
	if Cfg().Screen.Width == 0 {
		t.Error("expected screen width from defaults")
	}
}
