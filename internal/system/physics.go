package system

import (
	"time"

	"github.com/staws/sim/internal/core/event"
	coresys "github.com/staws/sim/internal/core/system"
	"github.com/staws/sim/internal/physics"
	"github.com/staws/sim/internal/world"
	"go.uber.org/zap"
)

// PhysicsSystem advances the live bodies one step: snapshot, force pass,
// integrate, write back. Phase 2 (Update).
type PhysicsSystem struct {
	state *world.State
	bus   *event.Bus
	sim   physics.Simulator
	clock *Clock
	log   *zap.Logger
	ticks uint64
}

func NewPhysicsSystem(state *world.State, bus *event.Bus, sim physics.Simulator, clock *Clock, log *zap.Logger) *PhysicsSystem {
	return &PhysicsSystem{state: state, bus: bus, sim: sim, clock: clock, log: log}
}

func (s *PhysicsSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *PhysicsSystem) Update(dt time.Duration) {
	s.ticks++
	sdt := s.clock.Step(dt)

	bodies := s.state.Snapshot()
	pass := s.sim.Step(bodies, sdt)
	s.state.Apply(bodies)
	s.clock.Advance(sdt)

	if pass.Coincident > 0 {
		s.log.Warn("coincident bodies skipped in force pass",
			zap.Uint64("tick", s.ticks),
			zap.Int("pairs", pass.Coincident))
		event.Emit(s.bus, event.SingularityDetected{Tick: s.ticks, Pairs: pass.Coincident})
	}
}
