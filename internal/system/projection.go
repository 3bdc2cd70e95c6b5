package system

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	coresys "github.com/staws/sim/internal/core/system"
	"github.com/staws/sim/internal/projection"
	"github.com/staws/sim/internal/world"
)

// ProjectionSystem forecasts every body from the post-integration state.
// The live stores are only read. Phase 3 (PostUpdate).
type ProjectionSystem struct {
	state     *world.State
	projector *projection.Projector
	last      projection.Projection
}

func NewProjectionSystem(state *world.State, projector *projection.Projector) *ProjectionSystem {
	return &ProjectionSystem{state: state, projector: projector}
}

func (s *ProjectionSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *ProjectionSystem) Update(_ time.Duration) {
	s.last = s.projector.Project(s.state.Snapshot())
}

// Points is the flattened forecast from the latest tick, step-major.
func (s *ProjectionSystem) Points() []mgl64.Vec3 { return s.last.Points }

func (s *ProjectionSystem) Last() projection.Projection { return s.last }
