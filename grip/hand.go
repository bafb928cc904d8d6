package grip

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// FingerBones are the per-finger joint references of the posed skeleton.
type FingerBones struct {
	Base       []Bone
	Secondary  []Bone
	Tip        []Bone
	Fingertips []Bone
}

// Config is the author-time description of one hand. It is read once by
// NewHand.
type Config struct {
	// CaptureRadius is the proximity sphere radius around Anchor, in world units.
	CaptureRadius float64
	// BlendDuration is the length of each blend phase, in seconds.
	BlendDuration float64
	// MotionEpsilon defaults to DefaultMotionEpsilon.
	MotionEpsilon float64
	// Probe radii default per field to DefaultProbeRadii.
	Probe ProbeRadii

	Anchor      Bone
	Fingers     FingerBones
	Targets     GripTargetPose
	Destination []Bone

	Observer Observer
}

// Validate rejects configurations that would index out of range at runtime.
func (c Config) Validate() error {
	if c.CaptureRadius <= 0 {
		return fmt.Errorf("%w: capture radius %v", ErrInvalidConfig, c.CaptureRadius)
	}
	if c.BlendDuration <= 0 {
		return fmt.Errorf("%w: blend duration %v", ErrInvalidConfig, c.BlendDuration)
	}
	if c.Anchor == nil {
		return fmt.Errorf("%w: anchor", ErrNilBone)
	}

	n := len(c.Fingers.Base)
	if n == 0 {
		return fmt.Errorf("%w: no fingers", ErrInvalidConfig)
	}
	groups := []struct {
		name  string
		bones []Bone
	}{
		{"secondary", c.Fingers.Secondary},
		{"tip", c.Fingers.Tip},
		{"fingertips", c.Fingers.Fingertips},
		{"target base", c.Targets.Base},
		{"target secondary", c.Targets.Secondary},
		{"target tip", c.Targets.Tip},
	}
	for _, g := range groups {
		if len(g.bones) != n {
			return fmt.Errorf("%w: %s has %d bones, base has %d", ErrMismatchedGroups, g.name, len(g.bones), n)
		}
	}

	segments := 3 * n
	if len(c.Destination) < segments {
		return fmt.Errorf("%w: %d destination bones for %d segments", ErrDestinationTooShort, len(c.Destination), segments)
	}

	all := append([]struct {
		name  string
		bones []Bone
	}{{"base", c.Fingers.Base}, {"destination", c.Destination}}, groups...)
	for _, g := range all {
		for i, b := range g.bones {
			if b == nil {
				return fmt.Errorf("%w: %s[%d]", ErrNilBone, g.name, i)
			}
		}
	}
	return nil
}

// Hand is the owned state of one grip poser: its skeleton, targets, grip
// state and tracked object. All methods run on the frame callback.
type Hand struct {
	anchor Bone

	skeleton  FingerSkeleton
	contacts  *ContactClassifier
	proximity *ProximityTrigger
	sequencer *GripSequencer

	ticks uint64
}

// NewHand validates cfg, captures the rest pose and wires the hand to query.
// A nil query is allowed and senses nothing.
func NewHand(cfg Config, query SpatialQuery) (*Hand, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		sk  FingerSkeleton
		err error
	)
	if sk.Base, err = NewBoneGroup(SegmentBase, cfg.Fingers.Base); err != nil {
		return nil, err
	}
	if sk.Secondary, err = NewBoneGroup(SegmentSecondary, cfg.Fingers.Secondary); err != nil {
		return nil, err
	}
	if sk.Tip, err = NewBoneGroup(SegmentTip, cfg.Fingers.Tip); err != nil {
		return nil, err
	}
	sk.Fingertips = append([]Bone(nil), cfg.Fingers.Fingertips...)

	h := &Hand{anchor: cfg.Anchor, skeleton: sk}
	probe := NewSpatialProbe(query)
	h.contacts = NewContactClassifier(probe, cfg.Probe)
	h.proximity = NewProximityTrigger(probe, cfg.CaptureRadius, cfg.MotionEpsilon)
	h.sequencer = NewGripSequencer(&h.skeleton, cfg.Targets, append([]Bone(nil), cfg.Destination...), cfg.BlendDuration, cfg.Observer)
	return h, nil
}

// SetQuery swaps the spatial query service, e.g. after a scene reload. The
// tracked object is forgotten; an in-flight cycle keeps running.
func (h *Hand) SetQuery(query SpatialQuery) {
	if h == nil {
		return
	}
	probe := NewSpatialProbe(query)
	h.contacts = NewContactClassifier(probe, h.contacts.Radii())
	h.proximity = NewProximityTrigger(probe, h.proximity.radius, h.proximity.epsilon)
}

// Tick runs one frame: proximity check, contact classification, then one
// blend step. A cycle started this tick begins blending on the next one, so
// the start frame's dt adds no blend time.
func (h *Hand) Tick(dt float64) {
	if h == nil {
		return
	}
	h.ticks++

	started := false
	idle := h.sequencer.State() == Idle
	if body, moved := h.proximity.Observe(h.anchor.WorldPosition(), idle); moved {
		started = h.sequencer.Start(body.ID())
	}

	h.contacts.Classify(&h.skeleton)

	if !started {
		h.sequencer.Advance(dt)
	}
}

func (h *Hand) State() GripState {
	if h == nil {
		return Idle
	}
	return h.sequencer.State()
}

// Phase returns the active blend phase while gripping.
func (h *Hand) Phase() (Segment, bool) {
	if h == nil {
		return 0, false
	}
	return h.sequencer.Phase()
}

// Progress returns elapsed/duration of the active phase.
func (h *Hand) Progress() float64 {
	if h == nil {
		return 0
	}
	return h.sequencer.Progress()
}

// Cycles returns the number of completed grip cycles.
func (h *Hand) Cycles() int {
	if h == nil {
		return 0
	}
	return h.sequencer.Cycles()
}

// Ticks returns the number of frames processed.
func (h *Hand) Ticks() uint64 {
	if h == nil {
		return 0
	}
	return h.ticks
}

// Skeleton exposes the posed finger groups and their contact flags.
func (h *Hand) Skeleton() *FingerSkeleton {
	if h == nil {
		return nil
	}
	return &h.skeleton
}

// LastCapture returns the pose captured by the last completed cycle.
func (h *Hand) LastCapture() CapturedPose {
	if h == nil {
		return nil
	}
	return h.sequencer.LastCapture()
}

// Tracked returns the last snapshot taken inside the capture sphere.
func (h *Hand) Tracked() (TrackedObjectSnapshot, bool) {
	if h == nil {
		return TrackedObjectSnapshot{}, false
	}
	return h.proximity.Tracked()
}

// Current returns the object inside the capture sphere, if any.
func (h *Hand) Current() (Body, bool) {
	if h == nil {
		return nil, false
	}
	return h.proximity.Current()
}

func (h *Hand) CaptureRadius() float64 {
	if h == nil {
		return 0
	}
	return h.proximity.Radius()
}

// AnchorPosition is the world position of the capture sphere centre.
func (h *Hand) AnchorPosition() mgl64.Vec3 {
	if h == nil {
		return mgl64.Vec3{}
	}
	return h.anchor.WorldPosition()
}
