package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/dye/fluid"
)

// PhaseTelemetry covers stats collection and output after the solver step.
const PhaseTelemetry = "telemetry"

// PhaseOther collects time from phase names outside Phases.
const PhaseOther = "other"

const numPhases = 9

var phaseOrder = [numPhases]string{
	fluid.PhaseInject,
	fluid.PhaseDiffuseVelocity,
	fluid.PhaseProject,
	fluid.PhaseAdvectVelocity,
	fluid.PhaseDiffuseDensity,
	fluid.PhaseAdvectDensity,
	fluid.PhaseColorize,
	PhaseTelemetry,
	PhaseOther,
}

// Phases lists every timed phase in pipeline order.
var Phases = phaseOrder[:]

var phaseSlots = func() map[string]int {
	m := make(map[string]int, len(Phases))
	for i, name := range Phases {
		m[name] = i
	}
	return m
}()

const noPhase = -1

func phaseSlot(name string) int {
	if i, ok := phaseSlots[name]; ok {
		return i
	}
	return phaseSlots[PhaseOther]
}

// tickSample is the timing of one tick, split by phase slot.
type tickSample struct {
	total  time.Duration
	phases [numPhases]time.Duration
	seen   uint16 // bit per slot entered this tick
}

// PerfCollector keeps per-phase tick timings over a rolling window of ticks.
// It satisfies fluid.PhaseTimer; the solver calls StartPhase as each pass
// begins and the caller brackets the tick with StartTick and EndTick.
type PerfCollector struct {
	ring  []tickSample
	next  int
	count int

	current    tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      int

	lastFrame     time.Time
	frameDuration time.Duration

	scratch []float64
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ring:  make([]tickSample, windowSize),
		phase: noPhase,
	}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = tickSample{}
	p.phase = noPhase
}

// StartPhase closes the running phase and starts the named one. Time spent
// in a phase entered twice per tick, like project, adds up.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phaseSlot(name)
	p.current.seen |= 1 << p.phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != noPhase {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the running phase and stores the tick in the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = noPhase
	p.current.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.current
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// RecordFrame marks the start of a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// oldest returns the ring index of the i-th oldest sample in the window.
func (p *PerfCollector) oldest(i int) int {
	if p.count < len(p.ring) {
		return i
	}
	return (p.next + i) % len(p.ring)
}

// TickHistoryMS returns the tick durations in the window, oldest first, in
// milliseconds.
func (p *PerfCollector) TickHistoryMS() []float64 {
	out := make([]float64, p.count)
	for i := range out {
		out[i] = ms(p.ring[p.oldest(i)].total)
	}
	return out
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func fromMS(v float64) time.Duration {
	return time.Duration(v * float64(time.Millisecond))
}

// PerfStats summarizes the timings in the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// Average time and share of the average tick per phase. Phases never
	// entered in the window are absent.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats summarizes the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.count == 0 {
		return s
	}

	ticks := p.TickHistoryMS()
	avg := stat.Mean(ticks, nil)
	s.AvgTickDuration = fromMS(avg)
	s.MinTickDuration = fromMS(floats.Min(ticks))
	s.MaxTickDuration = fromMS(floats.Max(ticks))
	sort.Float64s(ticks)
	s.P95TickDuration = fromMS(Percentile(ticks, 0.95))
	if avg > 0 {
		s.TicksPerSecond = 1000 / avg
	}

	if cap(p.scratch) < p.count {
		p.scratch = make([]float64, p.count)
	}
	per := p.scratch[:p.count]
	for slot, name := range Phases {
		ran := false
		for i := range per {
			sample := &p.ring[p.oldest(i)]
			per[i] = ms(sample.phases[slot])
			ran = ran || sample.seen&(1<<slot) != 0
		}
		if !ran {
			continue
		}
		phaseAvg := stat.Mean(per, nil)
		s.PhaseAvg[name] = fromMS(phaseAvg)
		if avg > 0 {
			s.PhasePct[name] = phaseAvg / avg * 100
		}
	}
	return s
}

// LogStats logs the window summary with phases above 0.1% of the tick.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"p95_tick_us", s.P95TickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd          int32   `csv:"window_end"`
	AvgTickUS          int64   `csv:"avg_tick_us"`
	MinTickUS          int64   `csv:"min_tick_us"`
	P95TickUS          int64   `csv:"p95_tick_us"`
	MaxTickUS          int64   `csv:"max_tick_us"`
	TicksPerSec        float64 `csv:"ticks_per_sec"`
	FPS                float64 `csv:"fps"`
	InjectPct          float64 `csv:"inject_pct"`
	DiffuseVelocityPct float64 `csv:"diffuse_velocity_pct"`
	ProjectPct         float64 `csv:"project_pct"`
	AdvectVelocityPct  float64 `csv:"advect_velocity_pct"`
	DiffuseDensityPct  float64 `csv:"diffuse_density_pct"`
	AdvectDensityPct   float64 `csv:"advect_density_pct"`
	ColorizePct        float64 `csv:"colorize_pct"`
	TelemetryPct       float64 `csv:"telemetry_pct"`
	OtherPct           float64 `csv:"other_pct"`
}

// ToCSV flattens the stats into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:          windowEnd,
		AvgTickUS:          s.AvgTickDuration.Microseconds(),
		MinTickUS:          s.MinTickDuration.Microseconds(),
		P95TickUS:          s.P95TickDuration.Microseconds(),
		MaxTickUS:          s.MaxTickDuration.Microseconds(),
		TicksPerSec:        s.TicksPerSecond,
		FPS:                s.FPS,
		InjectPct:          s.PhasePct[fluid.PhaseInject],
		DiffuseVelocityPct: s.PhasePct[fluid.PhaseDiffuseVelocity],
		ProjectPct:         s.PhasePct[fluid.PhaseProject],
		AdvectVelocityPct:  s.PhasePct[fluid.PhaseAdvectVelocity],
		DiffuseDensityPct:  s.PhasePct[fluid.PhaseDiffuseDensity],
		AdvectDensityPct:   s.PhasePct[fluid.PhaseAdvectDensity],
		ColorizePct:        s.PhasePct[fluid.PhaseColorize],
		TelemetryPct:       s.PhasePct[PhaseTelemetry],
		OtherPct:           s.PhasePct[PhaseOther],
	}
}
