package fluid

import (
	"math"
	"testing"
)

func fieldIsZero(f *Field) bool {
	for _, v := range f.Data {
		if v != 0 {
			return false
		}
	}
	return true
}

func TestStrokeNeedsTwoPoints(t *testing.T) {
	var s Stroke

	if _, _, ok := s.Sample(PointerSample{Phase: PointerDown, UV: Vec2{0.2, 0.2}}); ok {
		t.Fatal("expected the first sample of a stroke to only record its position")
	}
	if !s.HasLast() {
		t.Fatal("expected first sample to be recorded")
	}

	from, to, ok := s.Sample(PointerSample{Phase: PointerDrag, UV: Vec2{0.3, 0.25}})
	if !ok {
		t.Fatal("expected a segment from the second sample")
	}
	if from != (Vec2{0.2, 0.2}) || to != (Vec2{0.3, 0.25}) {
		t.Errorf("segment = %v -> %v", from, to)
	}

	// Dragging continues from the latest point.
	from, _, _ = s.Sample(PointerSample{Phase: PointerDrag, UV: Vec2{0.4, 0.25}})
	if from != (Vec2{0.3, 0.25}) {
		t.Errorf("expected segment to start at previous point, got %v", from)
	}
}

func TestStrokeOutOfBoundsClears(t *testing.T) {
	var s Stroke
	s.Sample(PointerSample{Phase: PointerDown, UV: Vec2{0.5, 0.5}})

	if _, _, ok := s.Sample(PointerSample{Phase: PointerDrag, UV: Vec2{1.2, 0.5}}); ok {
		t.Error("expected out-of-bounds sample not to inject")
	}
	if s.HasLast() {
		t.Error("expected out-of-bounds sample to clear the last point")
	}

	// Re-entering starts a fresh segment instead of bridging the gap.
	if _, _, ok := s.Sample(PointerSample{Phase: PointerDrag, UV: Vec2{0.6, 0.5}}); ok {
		t.Error("expected re-entry to only record its position")
	}
}

func TestStrokeReleaseClears(t *testing.T) {
	var s Stroke
	s.Sample(PointerSample{Phase: PointerDown, UV: Vec2{0.5, 0.5}})
	s.Sample(PointerSample{Phase: PointerUp, UV: Vec2{0.55, 0.5}})
	if s.HasLast() {
		t.Error("expected release to clear the stroke")
	}

	// A new press never connects to a stale point.
	s.Sample(PointerSample{Phase: PointerDrag, UV: Vec2{0.1, 0.1}})
	if _, _, ok := s.Sample(PointerSample{Phase: PointerDown, UV: Vec2{0.9, 0.9}}); ok {
		t.Error("expected press to start a new stroke")
	}
}

func TestInjectWithinRadius(t *testing.T) {
	st := newTestStore(t, 64, 64)
	p := DefaultParams()
	dt := float32(0.016)
	from, to := Vec2{0.25, 0.5}, Vec2{0.5, 0.5}

	sv := NewSolver(nil, nil)
	sv.Inject(st, from, to, dt, p)

	// Cell (20,31) is centered 0.0078 UV from the segment.
	wantDeposit := p.DensityAmount * dt
	if got := st.Density.Read.At(20, 31); math.Abs(float64(got-wantDeposit)) > 1e-6 {
		t.Errorf("density under brush = %f, want %f", got, wantDeposit)
	}

	wantVX := (to.X - from.X) * 64 * p.Force * dt
	vx, vy := st.Velocity.Read.Vec(20, 31)
	if math.Abs(float64(vx-wantVX)) > 1e-4 || vy != 0 {
		t.Errorf("velocity under brush = (%f,%f), want (%f,0)", vx, vy, wantVX)
	}

	// Far from the segment nothing changes.
	for _, c := range [][2]int{{5, 5}, {20, 40}, {40, 31}, {63, 63}} {
		if d := st.Density.Read.At(c[0], c[1]); d != 0 {
			t.Errorf("density at %v = %f, want 0", c, d)
		}
		if vx, vy := st.Velocity.Read.Vec(c[0], c[1]); vx != 0 || vy != 0 {
			t.Errorf("velocity at %v = (%f,%f), want 0", c, vx, vy)
		}
	}

	// Every touched cell lies within the brush radius.
	radius := p.brushRadiusUV()
	for y := 0; y < st.H; y++ {
		for x := 0; x < st.W; x++ {
			if st.Density.Read.At(x, y) == 0 {
				continue
			}
			uv := Vec2{(float32(x) + 0.5) / 64, (float32(y) + 0.5) / 64}
			if segmentDistance(uv, from, to) > radius {
				t.Errorf("cell (%d,%d) outside the brush received dye", x, y)
			}
		}
	}
}

func TestInjectNonPositiveRadiusIsNoop(t *testing.T) {
	for _, r := range []float32{0, -3} {
		st := newTestStore(t, 32, 32)
		p := DefaultParams()
		p.Radius = r

		sv := NewSolver(nil, nil)
		sv.Inject(st, Vec2{0.2, 0.5}, Vec2{0.8, 0.5}, 0.016, p)

		if !fieldIsZero(st.Density.Read) || !fieldIsZero(st.Velocity.Read) {
			t.Errorf("radius %v: expected no injection", r)
		}
	}
}

func TestSegmentDistance(t *testing.T) {
	a, b := Vec2{0, 0}, Vec2{1, 0}

	if d := segmentDistance(Vec2{0.5, 0.25}, a, b); math.Abs(float64(d-0.25)) > 1e-6 {
		t.Errorf("perpendicular distance = %f, want 0.25", d)
	}
	if d := segmentDistance(Vec2{2, 0}, a, b); math.Abs(float64(d-1)) > 1e-6 {
		t.Errorf("distance past the end = %f, want 1", d)
	}
	// Degenerate segment is a point.
	if d := segmentDistance(Vec2{0, 0.5}, a, a); math.Abs(float64(d-0.5)) > 1e-6 {
		t.Errorf("distance to point = %f, want 0.5", d)
	}
}
