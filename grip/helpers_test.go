package grip

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

type testBone struct {
	rot mgl64.Quat
	pos mgl64.Vec3
}

func newTestBone(pos mgl64.Vec3) *testBone {
	return &testBone{rot: mgl64.QuatIdent(), pos: pos}
}

func (b *testBone) LocalRotation() mgl64.Quat { return b.rot }
func (b *testBone) SetLocalRotation(q mgl64.Quat) { b.rot = q }
func (b *testBone) WorldPosition() mgl64.Vec3 { return b.pos }
func (b *testBone) setPosition(p mgl64.Vec3) { b.pos = p }
func (b *testBone) setRotation(q mgl64.Quat) *testBone { b.rot = q; return b }

type testBody struct {
	id     string
	center mgl64.Vec3
	radius float64
	rot    mgl64.Quat
	scale  mgl64.Vec3
}

func (b *testBody) ID() string { return b.id }

func (b *testBody) Transform() ObjectTransform {
	return ObjectTransform{Position: b.center, Rotation: b.rot, Scale: b.scale}
}

// testWorld is a sphere-only spatial query.
type testWorld struct {
	bodies []*testBody
}

func (w *testWorld) add(id string, center mgl64.Vec3, radius float64) *testBody {
	b := &testBody{id: id, center: center, radius: radius, rot: mgl64.QuatIdent(), scale: mgl64.Vec3{1, 1, 1}}
	w.bodies = append(w.bodies, b)
	return b
}

func (w *testWorld) CheckSphere(center mgl64.Vec3, radius float64) bool {
	return len(w.OverlapSphere(center, radius)) > 0
}

func (w *testWorld) OverlapSphere(center mgl64.Vec3, radius float64) []Body {
	type hit struct {
		body *testBody
		dist float64
	}
	var hits []hit
	for _, b := range w.bodies {
		d := b.center.Sub(center).Len() - b.radius
		if d <= radius {
			hits = append(hits, hit{b, d})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })
	out := make([]Body, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.body)
	}
	return out
}

func (w *testWorld) SphereCast(origin, direction mgl64.Vec3, radius, maxDistance float64) bool {
	end := origin.Add(direction.Mul(maxDistance))
	for _, b := range w.bodies {
		if pointSegmentDistance(b.center, origin, end) <= radius+b.radius {
			return true
		}
	}
	return false
}

func pointSegmentDistance(p, a, b mgl64.Vec3) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Len()
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return p.Sub(a.Add(ab.Mul(t))).Len()
}

// testRig is a hand with fingers laid out along +X, one finger per Z slot.
type testRig struct {
	anchor      *testBone
	base        []*testBone
	secondary   []*testBone
	tip         []*testBone
	fingertips  []*testBone
	targets     [3][]*testBone
	destination []*testBone
}

func newTestRig(fingers, extraDestination int) *testRig {
	r := &testRig{anchor: newTestBone(mgl64.Vec3{})}
	curl := []float64{-50, -60, -40}
	for i := 0; i < fingers; i++ {
		z := 0.02 * float64(i)
		r.base = append(r.base, newTestBone(mgl64.Vec3{0.02, 0, z}))
		r.secondary = append(r.secondary, newTestBone(mgl64.Vec3{0.06, 0, z}))
		r.tip = append(r.tip, newTestBone(mgl64.Vec3{0.09, 0, z}))
		r.fingertips = append(r.fingertips, newTestBone(mgl64.Vec3{0.11, 0, z}))
		for seg := 0; seg < 3; seg++ {
			deg := curl[seg] - float64(i)
			q := mgl64.QuatRotate(mgl64.DegToRad(deg), mgl64.Vec3{0, 0, 1})
			r.targets[seg] = append(r.targets[seg], newTestBone(mgl64.Vec3{}).setRotation(q))
		}
	}
	for i := 0; i < 3*fingers+extraDestination; i++ {
		r.destination = append(r.destination, newTestBone(mgl64.Vec3{}))
	}
	return r
}

func bones(in []*testBone) []Bone {
	out := make([]Bone, len(in))
	for i, b := range in {
		out[i] = b
	}
	return out
}

func (r *testRig) config(radius, duration float64, obs Observer) Config {
	return Config{
		CaptureRadius: radius,
		BlendDuration: duration,
		Anchor:        r.anchor,
		Fingers: FingerBones{
			Base:       bones(r.base),
			Secondary:  bones(r.secondary),
			Tip:        bones(r.tip),
			Fingertips: bones(r.fingertips),
		},
		Targets: GripTargetPose{
			Base:      bones(r.targets[0]),
			Secondary: bones(r.targets[1]),
			Tip:       bones(r.targets[2]),
		},
		Destination: bones(r.destination),
		Observer:    obs,
	}
}

type eventLog struct {
	events []Event
}

func (l *eventLog) record(ev Event) {
	l.events = append(l.events, ev)
}

func (l *eventLog) count(kind EventKind) int {
	n := 0
	for _, ev := range l.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}
