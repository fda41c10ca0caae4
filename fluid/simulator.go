package fluid

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrShutdown is returned by Tick after Shutdown.
var ErrShutdown = errors.New("fluid: simulator is shut down")

// ErrStateSize is returned by Restore when the data does not match the grid.
var ErrStateSize = errors.New("fluid: state does not match grid size")

// Options configure a Simulator.
type Options struct {
	Width, Height int
	Workers       int           // <=0 means GOMAXPROCS
	Formats       FormatSupport // nil supports every format
	Params        Params
	Timer         PhaseTimer // optional per-phase timing hook
}

// Simulator is the embedding API of the solver: Init via NewSimulator, then
// Tick once per frame, then Shutdown. All methods must be called from one
// goroutine.
type Simulator struct {
	store     *Store
	pool      *Pool
	solver    *Solver
	colorizer Colorizer
	stats     statsScratch

	params  Params
	view    View
	strokes map[int]*Stroke

	pendingW, pendingH int
	resizePending      bool
	shutdown           bool
	ticks              uint64
}

// NewSimulator validates the parameters and allocates a grid.
func NewSimulator(opts Options) (*Simulator, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, fmt.Errorf("creating simulator: %w", err)
	}

	pool := NewPool(opts.Workers)
	s := &Simulator{
		store:   NewStore(opts.Formats),
		pool:    pool,
		solver:  NewSolver(pool, opts.Timer),
		params:  opts.Params,
		strokes: make(map[int]*Stroke),
	}

	if err := s.store.Allocate(opts.Width, opts.Height); err != nil {
		pool.Stop()
		return nil, fmt.Errorf("creating simulator: %w", err)
	}

	slog.Info("fluid simulator started",
		"width", s.store.W,
		"height", s.store.H,
		"format", s.store.Format().String(),
		"workers", pool.Workers(),
	)
	return s, nil
}

// Tick advances the simulation by dt. Pending resizes are applied first,
// then each pointer sample is routed to its stroke and injected, then the
// step pipeline runs and the display field is refreshed.
func (s *Simulator) Tick(dt float32, samples []PointerSample) error {
	if s.shutdown {
		return ErrShutdown
	}
	if err := s.params.Validate(); err != nil {
		return err
	}

	if s.resizePending {
		s.resizePending = false
		if err := s.store.Allocate(s.pendingW, s.pendingH); err != nil {
			return err
		}
		s.clearStrokes()
	}

	s.solver.phase(PhaseInject)
	for _, ps := range samples {
		stroke := s.strokes[ps.ID]
		if stroke == nil {
			stroke = &Stroke{}
			s.strokes[ps.ID] = stroke
		}
		if from, to, ok := stroke.Sample(ps); ok {
			s.solver.Inject(s.store, from, to, dt, s.params)
		}
	}

	s.solver.Step(s.store, dt, s.params)

	s.solver.phase(PhaseColorize)
	s.render()

	s.ticks++
	return nil
}

// render refreshes the dye field and, for a debug view, the debug field.
func (s *Simulator) render() {
	st := s.store
	s.solver.Colorize(&s.colorizer, st.Dye, st.Density.Read, s.params)

	switch s.view {
	case ViewDensity:
		s.solver.renderDensity(st.Debug, st.Density.Read)
	case ViewVelocity:
		s.solver.renderVelocity(st.Debug, st.Velocity.Read)
	case ViewPressure:
		s.solver.renderSigned(st.Debug, st.Pressure.Read, signedScale)
	case ViewDivergence:
		s.solver.renderSigned(st.Debug, st.Divergence, signedScale)
	}
}

// Shutdown stops the workers and releases every field. Idempotent.
func (s *Simulator) Shutdown() {
	if s.shutdown {
		return
	}
	s.shutdown = true
	s.pool.Stop()
	s.store.Release()
	s.clearStrokes()
	slog.Info("fluid simulator stopped", "ticks", s.ticks)
}

// Reset zeroes the flow state without reallocating.
func (s *Simulator) Reset() {
	if s.shutdown {
		return
	}
	s.store.Reset()
	s.clearStrokes()
	s.render()
	slog.Info("fluid simulator reset")
}

// Restore reallocates the grid to w×h and loads the given flow state.
// Pressure may be nil to start the solver cold. Strokes in progress are
// dropped.
func (s *Simulator) Restore(w, h int, density, velocity, pressure []float32) error {
	if s.shutdown {
		return ErrShutdown
	}
	if w < MinDimension || h < MinDimension {
		return fmt.Errorf("restoring %dx%d: %w", w, h, ErrStateSize)
	}
	n := w * h
	if len(density) != n || len(velocity) != n*Vector || (pressure != nil && len(pressure) != n) {
		return fmt.Errorf("restoring %dx%d: %w", w, h, ErrStateSize)
	}

	if err := s.store.Allocate(w, h); err != nil {
		return err
	}
	s.resizePending = false
	s.store.Reset()
	s.clearStrokes()

	st := s.store
	copy(st.Density.Read.Data, density)
	copy(st.Velocity.Read.Data, velocity)
	if pressure != nil {
		copy(st.Pressure.Read.Data, pressure)
	}
	st.Density.Read.quantizeRows(0, h)
	st.Velocity.Read.quantizeRows(0, h)
	st.Pressure.Read.quantizeRows(0, h)

	s.render()
	return nil
}

// Resize requests new grid dimensions, applied at the start of the next
// tick. The flow state is lost when the dimensions change.
func (s *Simulator) Resize(w, h int) {
	s.pendingW, s.pendingH = w, h
	s.resizePending = true
}

// Params returns the current tunables.
func (s *Simulator) Params() Params {
	return s.params
}

// SetParams replaces the tunables used from the next tick on. A changed ramp
// is picked up by the colorizer automatically.
func (s *Simulator) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.params = p
	return nil
}

// Refresh re-renders the display fields from the current state and params
// without advancing the flow.
func (s *Simulator) Refresh() {
	if s.shutdown || !s.store.Allocated() {
		return
	}
	s.render()
}

// View returns the selected display view.
func (s *Simulator) View() View {
	return s.view
}

// SetView selects the field returned by Display.
func (s *Simulator) SetView(v View) {
	if v >= viewCount {
		v = ViewDye
	}
	s.view = v
	if !s.shutdown {
		s.render()
	}
}

// Display returns the RGBA field for the selected view.
func (s *Simulator) Display() *Field {
	if s.view == ViewDye {
		return s.store.Dye
	}
	return s.store.Debug
}

// Size returns the allocated grid dimensions.
func (s *Simulator) Size() (int, int) {
	return s.store.W, s.store.H
}

// Format returns the storage format the fields were allocated with.
func (s *Simulator) Format() Format {
	return s.store.Format()
}

// Ticks returns the number of completed ticks.
func (s *Simulator) Ticks() uint64 {
	return s.ticks
}

// Density returns the current density field.
func (s *Simulator) Density() *Field { return s.store.Density.Read }

// Velocity returns the current velocity field.
func (s *Simulator) Velocity() *Field { return s.store.Velocity.Read }

// Pressure returns the current pressure field.
func (s *Simulator) Pressure() *Field { return s.store.Pressure.Read }

// Divergence returns the divergence computed by the last projection.
func (s *Simulator) Divergence() *Field { return s.store.Divergence }

// Stats recomputes the divergence of the current velocity and summarizes the
// fields.
func (s *Simulator) Stats() FieldStats {
	if s.shutdown || !s.store.Allocated() {
		return FieldStats{}
	}
	s.solver.ComputeDivergence(s.store)

	var fs FieldStats
	fs.TotalDensity, fs.MaxDensity = s.stats.sumMax(s.store.Density.Read)
	fs.MeanAbsDivergence = s.stats.meanAbs(s.store.Divergence)
	fs.MaxSpeed = s.stats.maxSpeed(s.store.Velocity.Read)
	return fs
}

func (s *Simulator) clearStrokes() {
	clear(s.strokes)
}
