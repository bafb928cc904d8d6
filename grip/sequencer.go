package grip

import "github.com/go-gl/mathgl/mgl64"

// GripState is the sequencer state.
type GripState int

const (
	Idle GripState = iota
	Gripping
)

func (s GripState) String() string {
	if s == Gripping {
		return "gripping"
	}
	return "idle"
}

// GripSequencer runs one grip cycle as three blend phases (base, secondary,
// tip), each for the full blend duration. Joints with their contact flag set
// hold their rotation; the flag is re-read on every tick.
type GripSequencer struct {
	skeleton    *FingerSkeleton
	targets     GripTargetPose
	destination []Bone
	observer    Observer

	timer  BlendTimer
	state  GripState
	phase  Segment
	start  []mgl64.Quat
	object string

	cycles   int
	captured CapturedPose
}

// NewGripSequencer expects inputs already validated by NewHand.
func NewGripSequencer(s *FingerSkeleton, targets GripTargetPose, destination []Bone, duration float64, obs Observer) *GripSequencer {
	return &GripSequencer{
		skeleton:    s,
		targets:     targets,
		destination: destination,
		observer:    obs,
		timer:       NewBlendTimer(duration),
	}
}

func (q *GripSequencer) State() GripState {
	if q == nil {
		return Idle
	}
	return q.state
}

// Phase returns the active blend phase while gripping.
func (q *GripSequencer) Phase() (Segment, bool) {
	if q == nil || q.state != Gripping {
		return 0, false
	}
	return q.phase, true
}

// Progress returns the active phase's elapsed/duration.
func (q *GripSequencer) Progress() float64 {
	if q == nil || q.state != Gripping {
		return 0
	}
	return q.timer.Progress()
}

// Cycles returns the number of completed grip cycles.
func (q *GripSequencer) Cycles() int {
	if q == nil {
		return 0
	}
	return q.cycles
}

// LastCapture returns a copy of the pose captured by the last completed cycle.
func (q *GripSequencer) LastCapture() CapturedPose {
	if q == nil || q.captured == nil {
		return nil
	}
	out := make(CapturedPose, len(q.captured))
	copy(out, q.captured)
	return out
}

// Start begins a grip cycle. It returns false if one is already running.
func (q *GripSequencer) Start(object string) bool {
	if q == nil || q.state == Gripping {
		return false
	}
	q.state = Gripping
	q.object = object
	q.skeleton.ClearFlags()
	q.enterPhase(SegmentBase)
	q.emit(Event{Kind: EventCycleStarted, Cycle: q.cycles + 1, Phase: SegmentBase, Object: object})
	return true
}

// Advance moves the active phase forward by dt. Completing the tip phase
// finishes the cycle within the same call.
func (q *GripSequencer) Advance(dt float64) {
	if q == nil || q.state != Gripping {
		return
	}

	q.timer.Advance(dt)
	q.pose()
	if !q.timer.Done() {
		return
	}

	q.emit(Event{Kind: EventPhaseCompleted, Cycle: q.cycles + 1, Phase: q.phase, Object: q.object})
	if q.phase == SegmentTip {
		q.finish()
		return
	}
	q.enterPhase(q.phase + 1)
}

func (q *GripSequencer) enterPhase(seg Segment) {
	q.phase = seg
	q.timer.Reset()

	group := q.skeleton.Group(seg)
	q.start = q.start[:0]
	q.start = group.AppendRotations(q.start)
}

func (q *GripSequencer) pose() {
	group := q.skeleton.Group(q.phase)
	targets := q.targets.Group(q.phase)
	t := q.timer.Progress()
	for i := range group.Joints {
		j := &group.Joints[i]
		if j.Interacting {
			continue
		}
		j.Bone.SetLocalRotation(Slerp(q.start[i], targets[i].LocalRotation(), t))
	}
}

func (q *GripSequencer) finish() {
	q.captured = q.skeleton.Capture()
	q.captured.MapTo(q.destination)
	q.skeleton.Restore()

	q.state = Idle
	q.cycles++
	q.emit(Event{Kind: EventCycleCompleted, Cycle: q.cycles, Phase: SegmentTip, Object: q.object, Pose: q.LastCapture()})
	q.object = ""
}

func (q *GripSequencer) emit(ev Event) {
	if q.observer != nil {
		q.observer(ev)
	}
}
