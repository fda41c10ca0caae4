package fluid

import "math"

// Vec2 is a 2D point or vector, usually in UV space.
type Vec2 struct {
	X, Y float32
}

// Phase says whether a pointer sample starts, continues or ends a stroke.
type Phase uint8

const (
	PointerDown Phase = iota
	PointerDrag
	PointerUp
)

// PointerSample is one pointer event in simulation UV space [0,1]².
// Samples with different IDs belong to independent strokes.
type PointerSample struct {
	ID    int
	Phase Phase
	UV    Vec2
}

// InBounds reports whether uv lies inside [0,1]².
func InBounds(uv Vec2) bool {
	return uv.X >= 0 && uv.X <= 1 && uv.Y >= 0 && uv.Y <= 1
}

// Stroke remembers the previous pointer position of one drag.
type Stroke struct {
	last    Vec2
	hasLast bool
}

// HasLast reports whether a previous point is recorded.
func (s *Stroke) HasLast() bool { return s.hasLast }

// Clear forgets the previous point so the next sample starts a new segment.
func (s *Stroke) Clear() { s.hasLast = false }

// Sample feeds one pointer event and returns the segment to inject, if any.
// The first point of a stroke only records the position. A release or a
// sample outside [0,1]² clears the stroke instead of bridging the gap.
func (s *Stroke) Sample(ps PointerSample) (from, to Vec2, ok bool) {
	switch {
	case ps.Phase == PointerUp, !InBounds(ps.UV):
		s.Clear()
		return Vec2{}, Vec2{}, false
	case ps.Phase == PointerDown:
		s.Clear()
	}

	if s.hasLast {
		from, to, ok = s.last, ps.UV, true
	}
	s.last = ps.UV
	s.hasLast = true
	return from, to, ok
}

// Inject adds a velocity impulse and a dye deposit to every cell within the
// brush radius of the segment from→to. The impulse is the drag vector in
// cells, (to-from)*(W,H), scaled by Force*dt; the deposit is
// DensityAmount*dt. A non-positive radius injects nothing.
func (sv *Solver) Inject(st *Store, from, to Vec2, dt float32, p Params) {
	radius := p.brushRadiusUV()
	if radius <= 0 {
		return
	}

	w, h := st.W, st.H
	ix := (to.X - from.X) * float32(w) * p.Force * dt
	iy := (to.Y - from.Y) * float32(h) * p.Force * dt
	deposit := p.DensityAmount * dt

	vel := st.Velocity.Read
	dens := st.Density.Read

	// Only rows overlapping the segment's bounding box can be touched.
	minV := min(from.Y, to.Y) - radius
	maxV := max(from.Y, to.Y) + radius
	rowLo := max(int(math.Floor(float64(minV*float32(h)))), 0)
	rowHi := min(int(math.Ceil(float64(maxV*float32(h))))+1, h)
	if rowLo >= rowHi {
		return
	}

	sv.pool.For(rowHi-rowLo, func(r0, r1 int) {
		for y := rowLo + r0; y < rowLo+r1; y++ {
			v := (float32(y) + 0.5) / float32(h)
			for x := 0; x < w; x++ {
				u := (float32(x) + 0.5) / float32(w)
				if segmentDistance(Vec2{u, v}, from, to) > radius {
					continue
				}
				i := vel.index(x, y)
				vel.Data[i] += ix
				vel.Data[i+1] += iy
				dens.Data[dens.index(x, y)] += deposit
			}
		}
		vel.quantizeRows(rowLo+r0, rowLo+r1)
		dens.quantizeRows(rowLo+r0, rowLo+r1)
	})
}

// segmentDistance returns the distance from p to the segment a→b.
func segmentDistance(p, a, b Vec2) float32 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	var t float32
	if lenSq > 0 {
		t = ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
		t = min(max(t, 0), 1)
	}
	qx := p.X - (a.X + t*dx)
	qy := p.Y - (a.Y + t*dy)
	return float32(math.Sqrt(float64(qx*qx + qy*qy)))
}
