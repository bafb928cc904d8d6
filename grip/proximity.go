package grip

import "github.com/go-gl/mathgl/mgl64"

// DefaultMotionEpsilon is the per-component tolerance used to decide whether
// a tracked object moved between two observations.
const DefaultMotionEpsilon = 1e-5

// TrackedObjectSnapshot is the last observed transform of an object inside
// the capture radius. It outlives the object leaving the radius.
type TrackedObjectSnapshot struct {
	ID        string
	Transform ObjectTransform
}

// ProximityTrigger watches the capture sphere around the hand anchor and
// reports when the object inside it has moved.
type ProximityTrigger struct {
	probe   SpatialProbe
	radius  float64
	epsilon float64

	tracked    TrackedObjectSnapshot
	hasTracked bool
	current    Body
}

func NewProximityTrigger(probe SpatialProbe, radius, epsilon float64) *ProximityTrigger {
	if epsilon <= 0 {
		epsilon = DefaultMotionEpsilon
	}
	return &ProximityTrigger{probe: probe, radius: radius, epsilon: epsilon}
}

// Radius returns the capture radius.
func (p *ProximityTrigger) Radius() float64 {
	if p == nil {
		return 0
	}
	return p.radius
}

// Observe runs one proximity check at anchor. When nothing is in range the
// current object is dropped but the last snapshot is kept, so a stationary
// object that re-enters the radius does not count as moved. When idle is
// false the trigger only performs that dropping step. It returns the
// observed body and whether it moved since the previous observation; an
// object seen for the first time counts as moved.
func (p *ProximityTrigger) Observe(anchor mgl64.Vec3, idle bool) (Body, bool) {
	if p == nil {
		return nil, false
	}
	if !p.probe.Overlaps(anchor, p.radius) {
		p.current = nil
		return nil, false
	}
	if !idle {
		return nil, false
	}

	body, ok := p.probe.FirstOverlap(anchor, p.radius)
	if !ok {
		p.current = nil
		return nil, false
	}

	current := TrackedObjectSnapshot{ID: body.ID(), Transform: body.Transform()}
	moved := !p.hasTracked ||
		p.tracked.ID != current.ID ||
		!p.tracked.Transform.ApproxEqual(current.Transform, p.epsilon)

	p.tracked = current
	p.hasTracked = true
	p.current = body
	return body, moved
}

// Current returns the object seen inside the radius on the last idle
// observation, if it is still there.
func (p *ProximityTrigger) Current() (Body, bool) {
	if p == nil || p.current == nil {
		return nil, false
	}
	return p.current, true
}

// Tracked returns the last snapshot, if any object was ever observed.
func (p *ProximityTrigger) Tracked() (TrackedObjectSnapshot, bool) {
	if p == nil || !p.hasTracked {
		return TrackedObjectSnapshot{}, false
	}
	return p.tracked, true
}
