// Package emitter drives scripted pointer strokes for unattended runs. Each
// emitter is an ECS entity that orbits a point and presses its pointer on a
// fixed schedule.
package emitter

import (
	"log/slog"
	"math"
	"slices"

	"github.com/mlange-42/ark/ecs"
	"github.com/pthm-cable/dye/components"
	"github.com/pthm-cable/dye/config"
	"github.com/pthm-cable/dye/fluid"
)

// FirstPointerID is the pointer ID of the first emitter. Interactive input
// uses IDs below it.
const FirstPointerID = 100

// System owns the emitter entities.
type System struct {
	world  *ecs.World
	mapper *ecs.Map4[components.Position, components.Orbit, components.Pulse, components.Pointer]
	filter *ecs.Filter4[components.Position, components.Orbit, components.Pulse, components.Pointer]

	count   int
	samples []fluid.PointerSample
}

// New creates a system with one emitter per config entry.
func New(cfgs []config.EmitterConfig) *System {
	world := ecs.NewWorld()
	s := &System{
		world:  world,
		mapper: ecs.NewMap4[components.Position, components.Orbit, components.Pulse, components.Pointer](world),
		filter: ecs.NewFilter4[components.Position, components.Orbit, components.Pulse, components.Pointer](world),
	}
	for _, c := range cfgs {
		s.Spawn(c)
	}
	return s
}

// Spawn adds an emitter and returns its entity.
func (s *System) Spawn(c config.EmitterConfig) ecs.Entity {
	orbit := components.Orbit{
		CenterX: float32(c.Center[0]),
		CenterY: float32(c.Center[1]),
		Radius:  float32(c.Radius),
		Speed:   float32(c.Speed),
		Angle:   float32(c.Phase),
	}
	pos := orbitPosition(&orbit)
	pulse := components.Pulse{On: c.On, Off: c.Off}
	ptr := components.Pointer{ID: FirstPointerID + s.count}
	s.count++

	e := s.mapper.NewEntity(&pos, &orbit, &pulse, &ptr)
	slog.Debug("emitter spawned", "pointer", ptr.ID, "center_x", orbit.CenterX, "center_y", orbit.CenterY)
	return e
}

// Count returns the number of emitters spawned.
func (s *System) Count() int {
	return s.count
}

// Update emits the pointer samples for the current instant and then
// advances every emitter by dt. Samples are ordered by pointer ID. The
// returned slice is reused by the next call.
func (s *System) Update(dt float32) []fluid.PointerSample {
	s.samples = s.samples[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, orbit, pulse, ptr := query.Get()

		*pos = orbitPosition(orbit)
		uv := fluid.Vec2{X: pos.X, Y: pos.Y}

		switch pressed := pulse.Pressed(); {
		case pressed && !pulse.Down:
			pulse.Down = true
			s.samples = append(s.samples, fluid.PointerSample{ID: ptr.ID, Phase: fluid.PointerDown, UV: uv})
		case pressed:
			s.samples = append(s.samples, fluid.PointerSample{ID: ptr.ID, Phase: fluid.PointerDrag, UV: uv})
		case pulse.Down:
			pulse.Down = false
			s.samples = append(s.samples, fluid.PointerSample{ID: ptr.ID, Phase: fluid.PointerUp, UV: uv})
		}

		orbit.Angle += orbit.Speed * dt
		if orbit.Angle > math.Pi || orbit.Angle < -math.Pi {
			orbit.Angle = float32(math.Remainder(float64(orbit.Angle), 2*math.Pi))
		}
		pulse.Elapsed += float64(dt)
	}

	slices.SortFunc(s.samples, func(a, b fluid.PointerSample) int {
		return a.ID - b.ID
	})
	return s.samples
}

// Release lifts every pressed pointer and restarts the schedules.
func (s *System) Release() []fluid.PointerSample {
	s.samples = s.samples[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, _, pulse, ptr := query.Get()
		if pulse.Down {
			s.samples = append(s.samples, fluid.PointerSample{
				ID:    ptr.ID,
				Phase: fluid.PointerUp,
				UV:    fluid.Vec2{X: pos.X, Y: pos.Y},
			})
		}
		pulse.Down = false
		pulse.Elapsed = 0
	}

	slices.SortFunc(s.samples, func(a, b fluid.PointerSample) int {
		return a.ID - b.ID
	})
	return s.samples
}

func orbitPosition(o *components.Orbit) components.Position {
	sin, cos := math.Sincos(float64(o.Angle))
	return components.Position{
		X: o.CenterX + o.Radius*float32(cos),
		Y: o.CenterY + o.Radius*float32(sin),
	}
}
