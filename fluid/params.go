package fluid

import "errors"

// ErrInvalidIterations is returned for a Jacobi iteration count below 1.
var ErrInvalidIterations = errors.New("fluid: jacobi iterations must be >= 1")

// ErrNoRamp is returned when Params carry no color ramp.
var ErrNoRamp = errors.New("fluid: color ramp is required")

// RGBA is a straight-alpha color with components in [0,1].
type RGBA struct {
	R, G, B, A float32
}

// Params are the tunables read at the start of every tick.
type Params struct {
	Force         float32 // impulse scale applied to the drag vector
	Radius        float32 // brush radius in slider units; divided by 100 to get UV
	DensityAmount float32 // dye deposited per second under the brush

	Iterations          int     // Jacobi passes for diffusion and pressure
	VelocityDissipation float32 // per-tick velocity multiplier
	DensityDissipation  float32 // per-tick density multiplier
	DiffusionRate       float32

	Background RGBA
	Contrast   float32 // opacity falloff sharpness near zero density
	Ramp       *Ramp
}

// DefaultParams returns the stock tuning with a black-to-white ramp.
func DefaultParams() Params {
	return Params{
		Force:               100,
		Radius:              2,
		DensityAmount:       1,
		Iterations:          20,
		VelocityDissipation: 0.99,
		DensityDissipation:  0.999,
		DiffusionRate:       0.0001,
		Background:          RGBA{A: 1},
		Contrast:            4,
		Ramp:                GrayscaleRamp(),
	}
}

// Validate rejects parameter sets the solver cannot run with.
func (p Params) Validate() error {
	if p.Iterations < 1 {
		return ErrInvalidIterations
	}
	if p.Ramp == nil {
		return ErrNoRamp
	}
	return nil
}

// brushRadiusUV converts the slider radius to UV units.
func (p Params) brushRadiusUV() float32 {
	return p.Radius / 100
}
