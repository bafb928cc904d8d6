package grip

// EventKind names a grip cycle transition.
type EventKind string

const (
	EventCycleStarted   EventKind = "grip_cycle_started"
	EventPhaseCompleted EventKind = "grip_phase_completed"
	EventCycleCompleted EventKind = "grip_cycle_completed"
)

// Event describes one transition of the grip sequencer.
type Event struct {
	Kind   EventKind
	Cycle  int
	Phase  Segment
	Object string
	// Pose is set on EventCycleCompleted.
	Pose CapturedPose
}

// Observer receives sequencer events on the frame callback.
type Observer func(Event)
