package emitter

import (
	"math"
	"testing"

	"github.com/pthm-cable/dye/config"
	"github.com/pthm-cable/dye/fluid"
)

func TestEmitterPulseSchedule(t *testing.T) {
	s := New([]config.EmitterConfig{
		{Center: [2]float64{0.5, 0.5}, Radius: 0.1, Speed: 1, On: 1, Off: 1},
	})

	// dt 0.25: pressed for ticks 0-3, released at 4, pressed again at 8
	want := []struct {
		emit  bool
		phase fluid.Phase
	}{
		{true, fluid.PointerDown},
		{true, fluid.PointerDrag},
		{true, fluid.PointerDrag},
		{true, fluid.PointerDrag},
		{true, fluid.PointerUp},
		{false, 0},
		{false, 0},
		{false, 0},
		{true, fluid.PointerDown},
	}

	for i, w := range want {
		samples := s.Update(0.25)
		if !w.emit {
			if len(samples) != 0 {
				t.Errorf("tick %d: expected no samples, got %v", i, samples)
			}
			continue
		}
		if len(samples) != 1 {
			t.Fatalf("tick %d: expected 1 sample, got %d", i, len(samples))
		}
		if samples[0].Phase != w.phase {
			t.Errorf("tick %d: phase %v, want %v", i, samples[0].Phase, w.phase)
		}
		if samples[0].ID != FirstPointerID {
			t.Errorf("tick %d: pointer %d, want %d", i, samples[0].ID, FirstPointerID)
		}
	}
}

func TestEmitterOrbit(t *testing.T) {
	s := New([]config.EmitterConfig{
		{Center: [2]float64{0.5, 0.5}, Radius: 0.2, Speed: math.Pi, Phase: 0, On: 10, Off: 1},
	})

	first := s.Update(0.5)
	if len(first) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(first))
	}
	if math.Abs(float64(first[0].UV.X-0.7)) > 1e-5 || math.Abs(float64(first[0].UV.Y-0.5)) > 1e-5 {
		t.Errorf("start at %v, want (0.7, 0.5)", first[0].UV)
	}

	// Half a second at pi rad/s is a quarter turn
	second := s.Update(0.5)
	if math.Abs(float64(second[0].UV.X-0.5)) > 1e-5 || math.Abs(float64(second[0].UV.Y-0.7)) > 1e-5 {
		t.Errorf("quarter turn at %v, want (0.5, 0.7)", second[0].UV)
	}
}

func TestEmitterSamplesOrderedByPointer(t *testing.T) {
	cfgs := make([]config.EmitterConfig, 5)
	for i := range cfgs {
		cfgs[i] = config.EmitterConfig{Center: [2]float64{0.5, 0.5}, Radius: 0.1, On: 1, Off: 0}
	}
	s := New(cfgs)
	if s.Count() != 5 {
		t.Fatalf("count = %d, want 5", s.Count())
	}

	samples := s.Update(0.1)
	if len(samples) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(samples))
	}
	for i, ps := range samples {
		if ps.ID != FirstPointerID+i {
			t.Errorf("sample %d has pointer %d", i, ps.ID)
		}
	}
}

func TestEmitterNeverPressed(t *testing.T) {
	s := New([]config.EmitterConfig{{Center: [2]float64{0.5, 0.5}, On: 0, Off: 1}})
	for i := 0; i < 10; i++ {
		if samples := s.Update(0.1); len(samples) != 0 {
			t.Fatalf("tick %d: unexpected samples %v", i, samples)
		}
	}
}

func TestEmitterRelease(t *testing.T) {
	s := New([]config.EmitterConfig{
		{Center: [2]float64{0.5, 0.5}, Radius: 0.1, On: 5, Off: 1},
		{Center: [2]float64{0.5, 0.5}, Radius: 0.1, On: 0, Off: 1},
	})
	s.Update(0.1)
	s.Update(0.1)

	released := s.Release()
	if len(released) != 1 || released[0].Phase != fluid.PointerUp || released[0].ID != FirstPointerID {
		t.Fatalf("unexpected release samples %v", released)
	}

	// Schedules restart, so the next update presses again
	samples := s.Update(0.1)
	if len(samples) != 1 || samples[0].Phase != fluid.PointerDown {
		t.Errorf("expected a fresh press after release, got %v", samples)
	}
}

func TestEmittersStirSimulator(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	s := New(cfg.Emitters)

	p := fluid.DefaultParams()
	p.Iterations = 4
	p.Radius = 10
	sim, err := fluid.NewSimulator(fluid.Options{Width: 32, Height: 32, Params: p})
	if err != nil {
		t.Fatal(err)
	}
	defer sim.Shutdown()

	for i := 0; i < 10; i++ {
		if err := sim.Tick(0.016, s.Update(0.016)); err != nil {
			t.Fatal(err)
		}
	}
	if fs := sim.Stats(); fs.TotalDensity <= 0 || fs.MaxSpeed <= 0 {
		t.Errorf("emitters left no trace: %+v", fs)
	}
}
