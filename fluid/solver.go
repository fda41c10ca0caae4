package fluid

import "gonum.org/v1/gonum/blas/blas32"

// Phase names reported to a PhaseTimer during a tick.
const (
	PhaseInject          = "inject"
	PhaseDiffuseVelocity = "diffuse_velocity"
	PhaseProject         = "project"
	PhaseAdvectVelocity  = "advect_velocity"
	PhaseDiffuseDensity  = "diffuse_density"
	PhaseAdvectDensity   = "advect_density"
	PhaseColorize        = "colorize"
)

// PhaseTimer receives a call as each pipeline phase begins.
type PhaseTimer interface {
	StartPhase(name string)
}

// Solver runs the grid passes of the stable-fluids pipeline. Every pass is a
// row-parallel dispatch on the pool; a pass never writes the buffer it reads.
type Solver struct {
	pool  *Pool
	timer PhaseTimer
}

// NewSolver creates a solver dispatching on pool. timer may be nil.
func NewSolver(pool *Pool, timer PhaseTimer) *Solver {
	return &Solver{pool: pool, timer: timer}
}

func (sv *Solver) phase(name string) {
	if sv.timer != nil {
		sv.timer.StartPhase(name)
	}
}

// Step advances the store by one tick: diffuse and project velocity, let it
// advect itself, project again, then diffuse and advect density along the
// updated velocity. Dissipation is applied once per field, right after its
// advection.
func (sv *Solver) Step(st *Store, dt float32, p Params) {
	alpha := p.DiffusionRate * float32(st.W) * float32(st.H)
	beta := 4 + alpha

	sv.phase(PhaseDiffuseVelocity)
	sv.diffuse(&st.Velocity, p.Iterations, alpha, beta)

	sv.phase(PhaseProject)
	sv.Project(st, p.Iterations)

	sv.phase(PhaseAdvectVelocity)
	sv.advect(st.Velocity.Write, st.Velocity.Read, st.Velocity.Read, dt, p.VelocityDissipation)
	st.Velocity.Swap()

	sv.phase(PhaseProject)
	sv.Project(st, p.Iterations)

	sv.phase(PhaseDiffuseDensity)
	sv.diffuse(&st.Density, p.Iterations, alpha, beta)

	sv.phase(PhaseAdvectDensity)
	sv.advect(st.Density.Write, st.Density.Read, st.Velocity.Read, dt, p.DensityDissipation)
	st.Density.Swap()
}

// jacobiPass computes one relaxation step for every component:
//
//	dst = (x[i-1,j] + x[i+1,j] + x[i,j-1] + x[i,j+1] + alpha*b) / beta
//
// with neighbour reads clamped to the edge. b may alias x but dst must not.
func (sv *Solver) jacobiPass(dst, x, b *Field, alpha, beta float32) {
	w, comps := x.W, x.Comps
	invBeta := 1 / beta

	sv.pool.For(x.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for cx := 0; cx < w; cx++ {
				l := x.clampedIndex(cx-1, y)
				r := x.clampedIndex(cx+1, y)
				bt := x.clampedIndex(cx, y-1)
				t := x.clampedIndex(cx, y+1)
				i := x.index(cx, y)
				for c := 0; c < comps; c++ {
					sum := x.Data[l+c] + x.Data[r+c] + x.Data[bt+c] + x.Data[t+c]
					dst.Data[i+c] = (sum + alpha*b.Data[i+c]) * invBeta
				}
			}
		}
		dst.quantizeRows(y0, y1)
	})
}

// diffuse runs iterations Jacobi passes over a field using its own current
// value as the source term, swapping after every pass.
func (sv *Solver) diffuse(pair *Pair, iterations int, alpha, beta float32) {
	for i := 0; i < iterations; i++ {
		sv.jacobiPass(pair.Write, pair.Read, pair.Read, alpha, beta)
		pair.Swap()
	}
}

// Project removes the divergent part of the velocity field: compute the
// divergence, relax the pressure Poisson equation starting from the previous
// pressure, then subtract the pressure gradient.
func (sv *Solver) Project(st *Store, iterations int) {
	sv.ComputeDivergence(st)
	sv.solvePressure(st, iterations)
	sv.subtractGradient(st.Velocity.Write, st.Velocity.Read, st.Pressure.Read)
	st.Velocity.Swap()
}

// ComputeDivergence writes the central-difference divergence of the current
// velocity into st.Divergence.
func (sv *Solver) ComputeDivergence(st *Store) {
	vel := st.Velocity.Read
	div := st.Divergence
	w := vel.W

	sv.pool.For(vel.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				r := vel.Data[vel.clampedIndex(x+1, y)]
				l := vel.Data[vel.clampedIndex(x-1, y)]
				t := vel.Data[vel.clampedIndex(x, y+1)+1]
				b := vel.Data[vel.clampedIndex(x, y-1)+1]
				div.Data[div.index(x, y)] = 0.5 * ((r - l) + (t - b))
			}
		}
		div.quantizeRows(y0, y1)
	})
}

// solvePressure relaxes lap(p) = div. The source enters with alpha = -1 so
// that subtracting grad(p) cancels the divergence; pressure is not reset, so
// each solve starts from the previous one.
func (sv *Solver) solvePressure(st *Store, iterations int) {
	for i := 0; i < iterations; i++ {
		sv.jacobiPass(st.Pressure.Write, st.Pressure.Read, st.Divergence, -1, 4)
		st.Pressure.Swap()
	}
}

// subtractGradient writes vel - 0.5*grad(p) into dst.
func (sv *Solver) subtractGradient(dst, vel, p *Field) {
	w := vel.W

	sv.pool.For(vel.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				gx := 0.5 * (p.Data[p.clampedIndex(x+1, y)] - p.Data[p.clampedIndex(x-1, y)])
				gy := 0.5 * (p.Data[p.clampedIndex(x, y+1)] - p.Data[p.clampedIndex(x, y-1)])
				i := vel.index(x, y)
				dst.Data[i] = vel.Data[i] - gx
				dst.Data[i+1] = vel.Data[i+1] - gy
			}
		}
		dst.quantizeRows(y0, y1)
	})
}

// advect traces every cell center back along vel and writes the bilinearly
// sampled src value into dst, then scales dst by dissipation. The backtrace
// works in UV space: pos - dt*v*(1/W, 1/H).
func (sv *Solver) advect(dst, src, vel *Field, dt, dissipation float32) {
	w, h := src.W, src.H
	invW := 1 / float32(w)
	invH := 1 / float32(h)
	comps := src.Comps

	sv.pool.For(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			v := (float32(y) + 0.5) * invH
			for x := 0; x < w; x++ {
				u := (float32(x) + 0.5) * invW
				vi := vel.index(x, y)
				bu := u - dt*vel.Data[vi]*invW
				bv := v - dt*vel.Data[vi+1]*invH

				i := dst.index(x, y)
				for c := 0; c < comps; c++ {
					dst.Data[i+c] = src.sampleBilinear(bu, bv, c)
				}
			}
		}
	})

	dissipate(dst, dissipation)
	dst.quantizeRows(0, h)
}

// dissipate multiplies every value of f by factor.
func dissipate(f *Field, factor float32) {
	if factor == 1 {
		return
	}
	blas32.Scal(factor, blas32.Vector{N: len(f.Data), Inc: 1, Data: f.Data})
}
