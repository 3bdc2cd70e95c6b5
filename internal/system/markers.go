package system

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/staws/sim/internal/core/event"
	coresys "github.com/staws/sim/internal/core/system"
	"github.com/staws/sim/internal/marker"
	"go.uber.org/zap"
)

// PointSource supplies the points markers should sit on.
type PointSource interface {
	Points() []mgl64.Vec3
}

// MarkerSystem keeps the marker pool matched to the latest forecast and
// announces count changes. Phase 4 (Output).
type MarkerSystem struct {
	pool   *marker.Pool
	source PointSource
	bus    *event.Bus
	log    *zap.Logger
}

func NewMarkerSystem(pool *marker.Pool, source PointSource, bus *event.Bus, log *zap.Logger) *MarkerSystem {
	return &MarkerSystem{pool: pool, source: source, bus: bus, log: log}
}

func (s *MarkerSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *MarkerSystem) Update(_ time.Duration) {
	d := s.pool.Reconcile(s.source.Points())
	if !d.Changed() {
		return
	}
	s.log.Debug("marker pool resized",
		zap.Int("created", d.Created),
		zap.Int("destroyed", d.Destroyed),
		zap.Int("total", s.pool.Len()))
	event.Emit(s.bus, event.MarkersReconciled{
		Created:   d.Created,
		Destroyed: d.Destroyed,
		Total:     s.pool.Len(),
	})
}
