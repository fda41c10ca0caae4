// Package renderer draws simulator output with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/dye/camera"
	"github.com/pthm-cable/dye/fluid"
)

// DisplayRenderer uploads an RGBA field to a texture and draws it into the
// camera viewport.
type DisplayRenderer struct {
	tex        rl.Texture2D
	texW, texH int
	pixels     []color.RGBA

	Background color.RGBA // letterbox bars
	Bilinear   bool

	initialized bool
}

// NewDisplayRenderer creates a display renderer. The texture is created on
// the first upload, after the raylib window exists.
func NewDisplayRenderer() *DisplayRenderer {
	return &DisplayRenderer{
		Background: color.RGBA{R: 12, G: 12, B: 16, A: 255},
		Bilinear:   true,
	}
}

// init (re)creates the texture at the given size.
func (r *DisplayRenderer) init(w, h int) {
	if r.initialized {
		rl.UnloadTexture(r.tex)
	}

	img := rl.GenImageColor(w, h, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	filter := rl.FilterPoint
	if r.Bilinear {
		filter = rl.FilterBilinear
	}
	rl.SetTextureFilter(r.tex, filter)
	rl.SetTextureWrap(r.tex, rl.WrapClamp)

	r.texW, r.texH = w, h
	r.initialized = true
}

// Upload copies the field to the GPU texture, recreating it when the grid
// size changed.
func (r *DisplayRenderer) Upload(f *fluid.Field) {
	if f == nil || f.Comps != fluid.Color {
		return
	}
	if !r.initialized || f.W != r.texW || f.H != r.texH {
		r.init(f.W, f.H)
	}
	r.pixels = f.RGBA8(r.pixels)
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the texture through the camera, clipped to its viewport.
func (r *DisplayRenderer) Draw(cam *camera.Camera) {
	vx, vy := int32(cam.ViewportX), int32(cam.ViewportY)
	vw, vh := int32(cam.ViewportW), int32(cam.ViewportH)
	rl.DrawRectangle(vx, vy, vw, vh, r.Background)
	if !r.initialized {
		return
	}

	x, y, w, h := cam.Rect()
	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(r.texW), Height: float32(r.texH)}
	dstRect := rl.Rectangle{X: x, Y: y, Width: w, Height: h}

	rl.BeginScissorMode(vx, vy, vw, vh)
	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
	rl.EndScissorMode()
}

// Unload frees GPU resources.
func (r *DisplayRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
