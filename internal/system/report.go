package system

import (
	"time"

	"github.com/staws/sim/internal/component"
	"github.com/staws/sim/internal/core/ecs"
	coresys "github.com/staws/sim/internal/core/system"
	"github.com/staws/sim/internal/marker"
	"github.com/staws/sim/internal/world"
	"go.uber.org/zap"
)

// ReportSystem logs body state every interval ticks. The marker count comes
// from the pool, since despawned markers linger in the store until Cleanup.
// Phase 4 (Output).
type ReportSystem struct {
	state    *world.State
	pool     *marker.Pool // nil when projection is disabled
	clock    *Clock
	log      *zap.Logger
	interval int
	count    int
}

func NewReportSystem(state *world.State, pool *marker.Pool, clock *Clock, interval int, log *zap.Logger) *ReportSystem {
	return &ReportSystem{state: state, pool: pool, clock: clock, interval: interval, log: log}
}

func (s *ReportSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *ReportSystem) Update(_ time.Duration) {
	if s.interval <= 0 {
		return
	}
	s.count++
	if s.count%s.interval != 0 {
		return
	}
	markers := 0
	if s.pool != nil {
		markers = s.pool.Len()
	}
	s.log.Info("simulation report",
		zap.Float64("sim_time", s.clock.Elapsed()),
		zap.Int("bodies", s.state.BodyCount()),
		zap.Int("markers", markers))
	ecs.Each2(s.state.Meta, s.state.Kinematics, func(_ ecs.EntityID, m *component.Meta, k *component.Kinematics) {
		s.log.Debug("body",
			zap.String("name", m.Name),
			zap.String("kind", string(m.Kind)),
			zap.Float64("x", k.Position.X()),
			zap.Float64("y", k.Position.Y()),
			zap.Float64("vx", k.Velocity.X()),
			zap.Float64("vy", k.Velocity.Y()),
			zap.Float64("speed", k.Velocity.Len()))
	})
}
