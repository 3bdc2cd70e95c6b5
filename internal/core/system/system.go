package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: resolve autopilot/throttle commands
	PhasePreUpdate               // 1: deliver last tick's events
	PhaseUpdate                  // 2: gravity + integration on the live set
	PhasePostUpdate              // 3: trajectory look-ahead on a private copy
	PhaseOutput                  // 4: marker pool reconcile, render-facing state
	PhaseCleanup                 // 5: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre-update"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post-update"
	case PhaseOutput:
		return "output"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
