package telemetry

import (
	"testing"
	"time"

	"github.com/pthm-cable/dye/fluid"
)

func TestPerfCollectorProjectAccumulates(t *testing.T) {
	pc := NewPerfCollector(10)

	// The solver enters project twice per tick.
	for i := 0; i < 3; i++ {
		pc.StartTick()
		pc.StartPhase(fluid.PhaseProject)
		time.Sleep(time.Millisecond)
		pc.StartPhase(fluid.PhaseAdvectVelocity)
		pc.StartPhase(fluid.PhaseProject)
		time.Sleep(time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if got := stats.PhaseAvg[fluid.PhaseProject]; got < 2*time.Millisecond {
		t.Errorf("project avg = %v, want >= 2ms", got)
	}
	if _, ok := stats.PhaseAvg[fluid.PhaseAdvectVelocity]; !ok {
		t.Error("expected advect_velocity to be tracked")
	}
	if _, ok := stats.PhaseAvg[fluid.PhaseColorize]; ok {
		t.Error("colorize never ran and should be absent")
	}
	if stats.PhasePct[fluid.PhaseProject] <= stats.PhasePct[fluid.PhaseAdvectVelocity] {
		t.Errorf("project share %v%% should exceed advect share %v%%",
			stats.PhasePct[fluid.PhaseProject], stats.PhasePct[fluid.PhaseAdvectVelocity])
	}
	if stats.AvgTickDuration < stats.PhaseAvg[fluid.PhaseProject] {
		t.Errorf("tick avg %v below project avg %v", stats.AvgTickDuration, stats.PhaseAvg[fluid.PhaseProject])
	}
}

func TestPerfCollectorUnknownPhase(t *testing.T) {
	pc := NewPerfCollector(4)
	pc.StartTick()
	pc.StartPhase("warmup")
	time.Sleep(time.Millisecond)
	pc.EndTick()

	stats := pc.Stats()
	if _, ok := stats.PhaseAvg["warmup"]; ok {
		t.Error("unknown phase should not get its own entry")
	}
	if stats.PhaseAvg[PhaseOther] < time.Millisecond {
		t.Errorf("other avg = %v, want >= 1ms", stats.PhaseAvg[PhaseOther])
	}
	if row := stats.ToCSV(1); row.OtherPct <= 0 {
		t.Errorf("other_pct = %v, want > 0", row.OtherPct)
	}
}

func TestPerfCollectorTickBounds(t *testing.T) {
	pc := NewPerfCollector(5)
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(fluid.PhaseInject)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 || stats.TicksPerSecond <= 0 {
		t.Errorf("expected positive timing, got avg %v tps %v", stats.AvgTickDuration, stats.TicksPerSecond)
	}
	if stats.MinTickDuration > stats.P95TickDuration || stats.P95TickDuration > stats.MaxTickDuration {
		t.Errorf("want min <= p95 <= max, got %v %v %v",
			stats.MinTickDuration, stats.P95TickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollectorEmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("expected zero timing for empty collector, got %+v", stats)
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollectorFrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0, 70] for a 16ms frame, got %v", stats.FPS)
	}
}

func TestPerfCollectorTickHistory(t *testing.T) {
	pc := NewPerfCollector(3)

	if len(pc.TickHistoryMS()) != 0 {
		t.Error("expected empty history before any tick")
	}

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(fluid.PhaseInject)
		time.Sleep(time.Duration(i+1) * time.Millisecond)
		pc.EndTick()
	}

	hist := pc.TickHistoryMS()
	if len(hist) != 3 {
		t.Fatalf("expected window of 3 ticks, got %d", len(hist))
	}
	// Oldest first: the surviving ticks slept 3, 4 and 5 ms.
	if hist[0] < 3 || hist[2] < 5 {
		t.Errorf("unexpected history %v", hist)
	}
}

func TestPerfCollectorTimesSimulatorPhases(t *testing.T) {
	pc := NewPerfCollector(10)
	p := fluid.DefaultParams()
	p.Iterations = 2
	sim, err := fluid.NewSimulator(fluid.Options{Width: 16, Height: 16, Params: p, Timer: pc})
	if err != nil {
		t.Fatal(err)
	}
	defer sim.Shutdown()

	for i := 0; i < 3; i++ {
		pc.StartTick()
		if err := sim.Tick(0.016, nil); err != nil {
			t.Fatal(err)
		}
		pc.EndTick()
	}

	stats := pc.Stats()
	for _, phase := range Phases {
		if phase == PhaseTelemetry || phase == PhaseOther {
			continue
		}
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("expected %s phase to be tracked", phase)
		}
	}

	row := stats.ToCSV(3)
	if row.WindowEnd != 3 || row.AvgTickUS < 0 {
		t.Errorf("unexpected csv row %+v", row)
	}
}
