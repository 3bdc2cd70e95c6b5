package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/staws/sim/internal/component"
	"github.com/staws/sim/internal/core/ecs"
	"github.com/staws/sim/internal/core/event"
	"github.com/staws/sim/internal/physics"
)

var (
	ErrDuplicateName = errors.New("body name already in use")
	ErrUnknownTarget = errors.New("missile target not found")
	ErrEmptyName     = errors.New("body name is empty")
)

// BodySpec describes one body to spawn.
type BodySpec struct {
	Name        string
	Kind        component.Kind
	Mass        float64
	Position    mgl64.Vec3
	Velocity    mgl64.Vec3
	Heading     float64 // degrees about +Z, 0 faces +Y
	Radius      float64 // planets only
	Engine      *physics.Engine
	Autopilot   string // Lua function name, empty for none
	Target      string // missiles only, name of an existing body
	BlastRadius float64
}

// State owns the component stores for bodies and markers.
// Single-goroutine access only (tick loop).
type State struct {
	world *ecs.World
	bus   *event.Bus

	Meta       *ecs.PtrComponentStore[component.Meta]
	Kinematics *ecs.PtrComponentStore[component.Kinematics]
	Engines    *ecs.PtrComponentStore[physics.Engine]
	Astro      *ecs.PtrComponentStore[component.AstroObject]
	Missiles   *ecs.PtrComponentStore[component.Missile]
	Autopilots *ecs.PtrComponentStore[component.Autopilot]
	Markers    *ecs.PtrComponentStore[component.Marker]

	byName map[string]ecs.EntityID
}

func NewState(w *ecs.World, bus *event.Bus) *State {
	s := &State{
		world:      w,
		bus:        bus,
		Meta:       ecs.NewPtrComponentStore[component.Meta](),
		Kinematics: ecs.NewPtrComponentStore[component.Kinematics](),
		Engines:    ecs.NewPtrComponentStore[physics.Engine](),
		Astro:      ecs.NewPtrComponentStore[component.AstroObject](),
		Missiles:   ecs.NewPtrComponentStore[component.Missile](),
		Autopilots: ecs.NewPtrComponentStore[component.Autopilot](),
		Markers:    ecs.NewPtrComponentStore[component.Marker](),
		byName:     make(map[string]ecs.EntityID),
	}
	reg := w.Registry()
	reg.Register(s.Meta)
	reg.Register(s.Kinematics)
	reg.Register(s.Engines)
	reg.Register(s.Astro)
	reg.Register(s.Missiles)
	reg.Register(s.Autopilots)
	reg.Register(s.Markers)
	return s
}

func (s *State) World() *ecs.World { return s.world }

// SpawnBody validates spec and creates the entity. Bodies join the force
// pass in spawn order.
func (s *State) SpawnBody(spec BodySpec) (ecs.EntityID, error) {
	if spec.Name == "" {
		return 0, ErrEmptyName
	}
	if _, dup := s.byName[spec.Name]; dup {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateName, spec.Name)
	}
	if _, err := physics.NewBody(0, spec.Mass, spec.Position); err != nil {
		return 0, fmt.Errorf("body %s: %w", spec.Name, err)
	}
	if !physics.FiniteVec(spec.Velocity) {
		return 0, fmt.Errorf("body %s: %w: velocity %v", spec.Name, physics.ErrNonFinite, spec.Velocity)
	}
	if math.IsNaN(spec.Heading) || math.IsInf(spec.Heading, 0) {
		return 0, fmt.Errorf("body %s: %w: heading %v", spec.Name, physics.ErrNonFinite, spec.Heading)
	}
	if spec.Engine != nil {
		if err := spec.Engine.Validate(); err != nil {
			return 0, fmt.Errorf("body %s: %w", spec.Name, err)
		}
	}
	var target ecs.EntityID
	if spec.Target != "" {
		id, ok := s.byName[spec.Target]
		if !ok {
			return 0, fmt.Errorf("%w: %s targets %s", ErrUnknownTarget, spec.Name, spec.Target)
		}
		target = id
	}

	id := s.world.CreateEntity()
	s.Meta.Set(id, &component.Meta{Name: spec.Name, Kind: spec.Kind})
	s.Kinematics.Set(id, &component.Kinematics{
		Mass:        spec.Mass,
		Position:    spec.Position,
		Velocity:    spec.Velocity,
		Orientation: physics.Heading(spec.Heading),
	})
	if spec.Engine != nil {
		e := *spec.Engine
		if e.Throttle == nil {
			e.Throttle = physics.DefaultThrottle()
		}
		s.Engines.Set(id, &e)
	}
	switch spec.Kind {
	case component.KindPlanet:
		s.Astro.Set(id, &component.AstroObject{Radius: spec.Radius})
	case component.KindMissile:
		s.Missiles.Set(id, &component.Missile{Target: target, BlastRadius: spec.BlastRadius})
	}
	if spec.Autopilot != "" {
		s.Autopilots.Set(id, &component.Autopilot{Function: spec.Autopilot})
	}
	s.byName[spec.Name] = id

	event.Emit(s.bus, event.BodySpawned{EntityID: id, Name: spec.Name, Kind: string(spec.Kind)})
	return id, nil
}

// DestroyBody queues a body for end-of-tick removal. Its name is released
// immediately.
func (s *State) DestroyBody(id ecs.EntityID) bool {
	meta, ok := s.Meta.Get(id)
	if !ok || !s.world.Alive(id) {
		return false
	}
	delete(s.byName, meta.Name)
	s.world.MarkForDestruction(id)
	return true
}

func (s *State) Lookup(name string) (ecs.EntityID, bool) {
	id, ok := s.byName[name]
	return id, ok
}

func (s *State) Name(id ecs.EntityID) string {
	if m, ok := s.Meta.Get(id); ok {
		return m.Name
	}
	return id.String()
}

// BodyCount counts bodies in the force pass, including any queued for
// destruction this tick.
func (s *State) BodyCount() int { return s.Kinematics.Len() }

// Snapshot copies every body into a slice in spawn order. The result shares
// no memory with the stores.
func (s *State) Snapshot() []physics.Body {
	out := make([]physics.Body, 0, s.Kinematics.Len())
	s.Kinematics.Each(func(id ecs.EntityID, k *component.Kinematics) {
		b := physics.Body{
			ID:           id,
			Mass:         k.Mass,
			Position:     k.Position,
			Velocity:     k.Velocity,
			Acceleration: k.Acceleration,
			Orientation:  k.Orientation,
		}
		if e, ok := s.Engines.Get(id); ok {
			cp := *e
			b.Engine = &cp
		}
		out = append(out, b)
	})
	return out
}

// Body returns a detached copy of one body.
func (s *State) Body(id ecs.EntityID) (physics.Body, bool) {
	k, ok := s.Kinematics.Get(id)
	if !ok {
		return physics.Body{}, false
	}
	b := physics.Body{
		ID: id, Mass: k.Mass,
		Position: k.Position, Velocity: k.Velocity, Acceleration: k.Acceleration,
		Orientation: k.Orientation,
	}
	if e, ok := s.Engines.Get(id); ok {
		cp := *e
		b.Engine = &cp
	}
	return b, true
}

// Apply writes integrated state back. Engines are left alone; throttle is
// owned by the control phase.
func (s *State) Apply(bodies []physics.Body) {
	for i := range bodies {
		b := &bodies[i]
		k, ok := s.Kinematics.Get(b.ID)
		if !ok {
			continue
		}
		k.Position = b.Position
		k.Velocity = b.Velocity
		k.Acceleration = b.Acceleration
		k.Orientation = b.Orientation
	}
}

// SetThrottle replaces the throttle of a body's engine. Bodies without an
// engine and non-finite throttles are ignored.
func (s *State) SetThrottle(id ecs.EntityID, t physics.Throttle) bool {
	e, ok := s.Engines.Get(id)
	if !ok || t == nil || physics.ValidateThrottle(t) != nil {
		return false
	}
	e.Throttle = t
	return true
}

// Steer turns a body about +Z by rate·π·dt radians. Non-finite input is
// ignored.
func (s *State) Steer(id ecs.EntityID, rate, dt float64) bool {
	k, ok := s.Kinematics.Get(id)
	if !ok || math.IsNaN(rate*dt) || math.IsInf(rate*dt, 0) {
		return false
	}
	k.Orientation = physics.Turn(k.Orientation, rate, dt)
	return true
}
