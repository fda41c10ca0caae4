// Package components defines ECS components for scripted stroke emitters.
package components

// Position is an emitter's current pointer position in UV space.
type Position struct {
	X, Y float32
}

// Orbit moves an emitter around a fixed center.
type Orbit struct {
	CenterX, CenterY float32
	Radius           float32 // UV
	Speed            float32 // radians per second, negative is clockwise
	Angle            float32 // current angle, radians
}

// Pulse presses and releases the emitter's pointer on a fixed schedule.
type Pulse struct {
	On, Off float64 // seconds pressed, seconds released
	Elapsed float64
	Down    bool // pointer currently pressed
}

// Pointer identifies the stroke an emitter drives.
type Pointer struct {
	ID int
}

// Pressed reports whether the schedule has the pointer pressed at Elapsed.
// A non-positive On never presses; a non-positive Off never releases.
func (p *Pulse) Pressed() bool {
	if p.On <= 0 {
		return false
	}
	if p.Off <= 0 {
		return true
	}
	cycle := p.On + p.Off
	t := p.Elapsed - cycle*float64(int64(p.Elapsed/cycle))
	return t < p.On
}
