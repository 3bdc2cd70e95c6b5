package world

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/staws/sim/internal/component"
	"github.com/staws/sim/internal/core/ecs"
)

// SpawnMarker creates a marker entity at the origin.
func (s *State) SpawnMarker() ecs.EntityID {
	id := s.world.CreateEntity()
	s.Markers.Set(id, &component.Marker{})
	return id
}

// DespawnMarker queues a marker for end-of-tick removal.
func (s *State) DespawnMarker(id ecs.EntityID) {
	if s.Markers.Has(id) {
		s.world.MarkForDestruction(id)
	}
}

func (s *State) MoveMarker(id ecs.EntityID, pos mgl64.Vec3) {
	if m, ok := s.Markers.Get(id); ok {
		m.Position = pos
	}
}

// MarkerPositions lists marker positions in creation order.
func (s *State) MarkerPositions() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, 0, s.Markers.Len())
	s.Markers.Each(func(_ ecs.EntityID, m *component.Marker) {
		out = append(out, m.Position)
	})
	return out
}
