package event

import "github.com/staws/sim/internal/core/ecs"

type BodySpawned struct {
	EntityID ecs.EntityID
	Name     string
	Kind     string
}

// MarkersReconciled carries the marker count delta for the rendering side,
// which owns the actual visuals.
type MarkersReconciled struct {
	Created   int
	Destroyed int
	Total     int
}

// SingularityDetected reports body pairs that shared a position during a
// live force pass and were skipped.
type SingularityDetected struct {
	Tick  uint64
	Pairs int
}
