package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(0, 0, 1040, 800, 1)

	if cam.X != 0.5 || cam.Y != 0.5 {
		t.Errorf("expected camera at (0.5, 0.5), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestLetterbox(t *testing.T) {
	tests := []struct {
		name       string
		vw, vh     float32
		aspect     float32
		x, y, w, h float32
	}{
		// Square grid in a wide viewport: bars left and right
		{"pillarbox", 1040, 800, 1, 120, 0, 800, 800},
		// Wide grid in a square viewport: bars top and bottom
		{"letterbox", 800, 800, 2, 0, 200, 800, 400},
		{"exact", 1000, 500, 2, 0, 0, 1000, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(0, 0, tt.vw, tt.vh, tt.aspect)
			x, y, w, h := cam.Rect()
			if !near(x, tt.x) || !near(y, tt.y) || !near(w, tt.w) || !near(h, tt.h) {
				t.Errorf("Rect() = (%f, %f, %f, %f), want (%f, %f, %f, %f)", x, y, w, h, tt.x, tt.y, tt.w, tt.h)
			}
		})
	}
}

func TestScreenToUVCorners(t *testing.T) {
	cam := New(0, 0, 1040, 800, 1)

	u, v := cam.ScreenToUV(120, 0)
	if !near(u, 0) || !near(v, 0) {
		t.Errorf("top-left of grid maps to (%f, %f)", u, v)
	}
	u, v = cam.ScreenToUV(920, 800)
	if !near(u, 1) || !near(v, 1) {
		t.Errorf("bottom-right of grid maps to (%f, %f)", u, v)
	}

	// Letterbox bar is outside the grid
	u, _ = cam.ScreenToUV(50, 400)
	if u >= 0 {
		t.Errorf("bar should map outside the grid, got u=%f", u)
	}
}

func TestScreenToUVRoundtrip(t *testing.T) {
	cam := New(10, 20, 1280, 720, 1.5)
	cam.SetZoom(2)
	cam.Pan(100, -50)

	testCases := []struct{ sx, sy float32 }{
		{650, 380},
		{100, 100},
		{1200, 600},
	}

	for _, tc := range testCases {
		u, v := cam.ScreenToUV(tc.sx, tc.sy)
		sx, sy := cam.UVToScreen(u, v)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, u, v, sx, sy)
		}
	}
}

func TestViewportOffset(t *testing.T) {
	cam := New(0, 0, 1040, 800, 1)
	if !cam.InViewport(0, 0) || !cam.InViewport(1039, 799) {
		t.Error("corners should be in the viewport")
	}
	// Settings panel to the right of the viewport
	if cam.InViewport(1100, 400) {
		t.Error("panel area should be outside the viewport")
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(0, 0, 800, 800, 1)

	cam.SetZoom(0.1)
	if cam.Zoom != 1 {
		t.Errorf("expected zoom clamped to 1, got %f", cam.Zoom)
	}

	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestPanStaysInGrid(t *testing.T) {
	cam := New(0, 0, 800, 800, 1)

	// Fully visible grid cannot pan
	cam.Pan(300, 300)
	if cam.X != 0.5 || cam.Y != 0.5 {
		t.Errorf("fitted view moved to (%f, %f)", cam.X, cam.Y)
	}

	// At 2x the visible half-extent is 0.25
	cam.SetZoom(2)
	cam.Pan(-5000, 5000)
	if !near(cam.X, 0.25) || !near(cam.Y, 0.75) {
		t.Errorf("expected pan clamped to (0.25, 0.75), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	cam := New(0, 0, 800, 800, 1)

	u0, v0 := cam.ScreenToUV(300, 350)
	cam.ZoomAt(2, 300, 350)
	u1, v1 := cam.ScreenToUV(300, 350)

	if !near(u0, u1) || !near(v0, v1) {
		t.Errorf("point under cursor moved from (%f,%f) to (%f,%f)", u0, v0, u1, v1)
	}
	if cam.Zoom != 2 {
		t.Errorf("expected zoom 2, got %f", cam.Zoom)
	}
}

func TestResizeRecenters(t *testing.T) {
	cam := New(0, 0, 800, 800, 1)
	cam.SetZoom(4)
	cam.Pan(1000, 0)

	cam.SetZoom(1)
	if cam.X != 0.5 {
		t.Errorf("zooming out should recenter, got X=%f", cam.X)
	}

	cam.Resize(0, 0, 1200, 600, 2)
	x, y, w, h := cam.Rect()
	if !near(x, 0) || !near(y, 0) || !near(w, 1200) || !near(h, 600) {
		t.Errorf("Rect() after resize = (%f, %f, %f, %f)", x, y, w, h)
	}
}

func TestReset(t *testing.T) {
	cam := New(0, 0, 800, 800, 1)
	cam.SetZoom(2.5)
	cam.Pan(100, 100)

	cam.Reset()

	if cam.X != 0.5 || cam.Y != 0.5 {
		t.Errorf("expected position (0.5, 0.5), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
