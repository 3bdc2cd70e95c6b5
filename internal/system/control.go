package system

import (
	"time"

	"github.com/staws/sim/internal/component"
	"github.com/staws/sim/internal/core/ecs"
	coresys "github.com/staws/sim/internal/core/system"
	"github.com/staws/sim/internal/scripting"
	"github.com/staws/sim/internal/world"
	"go.uber.org/zap"
)

// Pilot resolves controls for one body. scripting.Engine implements it.
type Pilot interface {
	Autopilot(fn string, ctx scripting.PilotContext) (scripting.Command, bool)
}

// ControlSystem resolves throttle and steering for controlled bodies.
// Manual overrides win over autopilot scripts for the tick they are queued
// in. A body whose script fails keeps its previous throttle.
// Phase 0 (Input).
type ControlSystem struct {
	state     *world.State
	pilot     Pilot // nil disables scripts
	clock     *Clock
	log       *zap.Logger
	overrides map[ecs.EntityID]scripting.Command
	failures  map[ecs.EntityID]int
}

func NewControlSystem(state *world.State, pilot Pilot, clock *Clock, log *zap.Logger) *ControlSystem {
	return &ControlSystem{
		state:     state,
		pilot:     pilot,
		clock:     clock,
		log:       log,
		overrides: make(map[ecs.EntityID]scripting.Command),
		failures:  make(map[ecs.EntityID]int),
	}
}

func (s *ControlSystem) Phase() coresys.Phase { return coresys.PhaseInput }

// Override queues a manual command for the next tick.
func (s *ControlSystem) Override(id ecs.EntityID, cmd scripting.Command) {
	s.overrides[id] = cmd
}

// Failures reports how many script calls failed for id.
func (s *ControlSystem) Failures(id ecs.EntityID) int { return s.failures[id] }

func (s *ControlSystem) Update(dt time.Duration) {
	sdt := s.clock.Step(dt)

	for id, cmd := range s.overrides {
		s.apply(id, cmd, sdt)
	}

	if s.pilot != nil {
		ecs.Each2(s.state.Autopilots, s.state.Kinematics, func(id ecs.EntityID, ap *component.Autopilot, k *component.Kinematics) {
			if _, manual := s.overrides[id]; manual {
				return
			}
			cmd, ok := s.pilot.Autopilot(ap.Function, s.context(id, k, sdt))
			if !ok {
				s.failures[id]++
				if s.failures[id] == 1 {
					s.log.Warn("autopilot failed, keeping previous controls",
						zap.String("body", s.state.Name(id)),
						zap.String("func", ap.Function))
				}
				return
			}
			s.apply(id, cmd, sdt)
		})
	}

	clear(s.overrides)
}

func (s *ControlSystem) apply(id ecs.EntityID, cmd scripting.Command, sdt float64) {
	if cmd.Throttle != nil {
		s.state.SetThrottle(id, cmd.Throttle)
	}
	if cmd.Turn != 0 {
		s.state.Steer(id, cmd.Turn, sdt)
	}
}

func (s *ControlSystem) context(id ecs.EntityID, k *component.Kinematics, sdt float64) scripting.PilotContext {
	ctx := scripting.PilotContext{
		Name:         s.state.Name(id),
		Time:         s.clock.Elapsed(),
		Dt:           sdt,
		Position:     k.Position,
		Velocity:     k.Velocity,
		Acceleration: k.Acceleration,
		Heading:      scripting.HeadingOf(k.Orientation),
		Mass:         k.Mass,
	}
	if e, ok := s.state.Engines.Get(id); ok {
		ctx.Fuel = e.Fuel
		ctx.MaxThrust = e.MaxThrust
	}
	return ctx
}
