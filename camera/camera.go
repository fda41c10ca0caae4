// Package camera maps the simulation grid into a screen viewport.
package camera

// Camera letterboxes the grid into a viewport and supports zooming into
// and panning across it. View positions are in UV space, with v growing
// down the screen.
type Camera struct {
	// Position is the view center in UV
	X, Y float32

	// Zoom level (1.0 = whole grid fits the viewport)
	Zoom float32

	// Viewport rectangle in screen pixels
	ViewportX, ViewportY float32
	ViewportW, ViewportH float32

	// Grid width divided by grid height
	Aspect float32

	MaxZoom float32
}

// New creates a camera that fits a grid of the given aspect into the
// viewport.
func New(viewportX, viewportY, viewportW, viewportH, aspect float32) *Camera {
	return &Camera{
		X:         0.5,
		Y:         0.5,
		Zoom:      1.0,
		ViewportX: viewportX,
		ViewportY: viewportY,
		ViewportW: viewportW,
		ViewportH: viewportH,
		Aspect:    aspect,
		MaxZoom:   8.0,
	}
}

// fitHeight returns the on-screen grid height at zoom 1.
func (c *Camera) fitHeight() float32 {
	return min(c.ViewportW/c.Aspect, c.ViewportH)
}

// GridSize returns the on-screen size of the whole grid at the current zoom.
func (c *Camera) GridSize() (w, h float32) {
	h = c.fitHeight() * c.Zoom
	return h * c.Aspect, h
}

// Rect returns the screen rectangle covered by the whole grid. At zoom
// above 1 it extends past the viewport.
func (c *Camera) Rect() (x, y, w, h float32) {
	w, h = c.GridSize()
	x, y = c.UVToScreen(0, 0)
	return x, y, w, h
}

// UVToScreen converts a grid UV position to screen coordinates.
func (c *Camera) UVToScreen(u, v float32) (sx, sy float32) {
	gw, gh := c.GridSize()
	sx = c.ViewportX + c.ViewportW/2 + (u-c.X)*gw
	sy = c.ViewportY + c.ViewportH/2 + (v-c.Y)*gh
	return sx, sy
}

// ScreenToUV converts screen coordinates to grid UV. Points outside the
// grid map outside [0,1].
func (c *Camera) ScreenToUV(sx, sy float32) (u, v float32) {
	gw, gh := c.GridSize()
	u = c.X + (sx-c.ViewportX-c.ViewportW/2)/gw
	v = c.Y + (sy-c.ViewportY-c.ViewportH/2)/gh
	return u, v
}

// InViewport reports whether a screen point lies in the viewport.
func (c *Camera) InViewport(sx, sy float32) bool {
	return sx >= c.ViewportX && sx < c.ViewportX+c.ViewportW &&
		sy >= c.ViewportY && sy < c.ViewportY+c.ViewportH
}

// Resize updates the viewport and grid aspect, keeping the view in bounds.
func (c *Camera) Resize(viewportX, viewportY, viewportW, viewportH, aspect float32) {
	c.ViewportX, c.ViewportY = viewportX, viewportY
	c.ViewportW, c.ViewportH = viewportW, viewportH
	c.Aspect = aspect
	c.clampCenter()
}

// Pan moves the view by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	gw, gh := c.GridSize()
	c.X += dx / gw
	c.Y += dy / gh
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to [1, MaxZoom].
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, 1, c.MaxZoom)
	c.clampCenter()
}

// ZoomAt multiplies the zoom by factor, keeping the grid point under the
// screen position (sx, sy) fixed where the bounds allow.
func (c *Camera) ZoomAt(factor, sx, sy float32) {
	u, v := c.ScreenToUV(sx, sy)
	c.Zoom = clamp(c.Zoom*factor, 1, c.MaxZoom)

	gw, gh := c.GridSize()
	c.X = u - (sx-c.ViewportX-c.ViewportW/2)/gw
	c.Y = v - (sy-c.ViewportY-c.ViewportH/2)/gh
	c.clampCenter()
}

// Reset returns the camera to the fitted view.
func (c *Camera) Reset() {
	c.X = 0.5
	c.Y = 0.5
	c.Zoom = 1.0
}

// clampCenter keeps the visible area inside the grid. An axis that fits
// entirely is centered.
func (c *Camera) clampCenter() {
	gw, gh := c.GridSize()
	c.X = clampAxis(c.X, c.ViewportW/(2*gw))
	c.Y = clampAxis(c.Y, c.ViewportH/(2*gh))
}

func clampAxis(center, half float32) float32 {
	if half >= 0.5 {
		return 0.5
	}
	return clamp(center, half, 1-half)
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
