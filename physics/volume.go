package physics

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/gripposer/grip"
)

var (
	ErrDuplicateID  = errors.New("physics: duplicate body id")
	ErrInvalidShape = errors.New("physics: invalid shape")
)

// ShapeKind selects the collision primitive of a body.
type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	default:
		return "unknown"
	}
}

// ParseShape maps a prefab shape name to a ShapeKind.
func ParseShape(name string) (ShapeKind, error) {
	switch name {
	case "", "sphere", "ball":
		return ShapeSphere, nil
	case "box", "cube":
		return ShapeBox, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidShape, name)
}

// Shape is the unscaled collision geometry of a body.
type Shape struct {
	Kind        ShapeKind
	Radius      float64
	HalfExtents mgl64.Vec3
}

func (s Shape) validate() error {
	switch s.Kind {
	case ShapeSphere:
		if s.Radius <= 0 {
			return fmt.Errorf("%w: sphere radius %v", ErrInvalidShape, s.Radius)
		}
	case ShapeBox:
		if s.HalfExtents.X() <= 0 || s.HalfExtents.Y() <= 0 || s.HalfExtents.Z() <= 0 {
			return fmt.Errorf("%w: box half extents %v", ErrInvalidShape, s.HalfExtents)
		}
	default:
		return fmt.Errorf("%w: kind %d", ErrInvalidShape, s.Kind)
	}
	return nil
}

// VolumeBody is a graspable body tracked by a Volume.
type VolumeBody struct {
	id        string
	shape     Shape
	transform grip.ObjectTransform
}

func (b *VolumeBody) ID() string {
	if b == nil {
		return ""
	}
	return b.id
}

func (b *VolumeBody) Transform() grip.ObjectTransform {
	if b == nil {
		return grip.IdentityTransform()
	}
	return b.transform
}

func (b *VolumeBody) Shape() Shape {
	if b == nil {
		return Shape{}
	}
	return b.shape
}

// radius is the scaled sphere radius.
func (b *VolumeBody) radius() float64 {
	s := b.transform.Scale
	k := math.Max(math.Abs(s.X()), math.Max(math.Abs(s.Y()), math.Abs(s.Z())))
	return b.shape.Radius * k
}

func (b *VolumeBody) halfExtents() mgl64.Vec3 {
	s := b.transform.Scale
	h := b.shape.HalfExtents
	return mgl64.Vec3{h.X() * math.Abs(s.X()), h.Y() * math.Abs(s.Y()), h.Z() * math.Abs(s.Z())}
}

func (b *VolumeBody) toLocal(p mgl64.Vec3) mgl64.Vec3 {
	return b.transform.Rotation.Inverse().Rotate(p.Sub(b.transform.Position))
}

// distance is the distance from p to the body's surface, zero inside.
func (b *VolumeBody) distance(p mgl64.Vec3) float64 {
	switch b.shape.Kind {
	case ShapeBox:
		local := b.toLocal(p)
		h := b.halfExtents()
		var d mgl64.Vec3
		for i := 0; i < 3; i++ {
			d[i] = math.Max(math.Abs(local[i])-h[i], 0)
		}
		return d.Len()
	default:
		return math.Max(p.Sub(b.transform.Position).Len()-b.radius(), 0)
	}
}

// sweptHit reports whether a sphere of radius moving from a to b touches the
// body. A probe that starts in contact counts as a hit.
func (b *VolumeBody) sweptHit(a, c mgl64.Vec3, radius float64) bool {
	switch b.shape.Kind {
	case ShapeBox:
		la := b.toLocal(a)
		d := b.toLocal(c).Sub(la)
		h := b.halfExtents()
		inflated := mgl64.Vec3{h.X() + radius, h.Y() + radius, h.Z() + radius}
		return segmentBoxHit(la, d, inflated)
	default:
		return segmentPointDistance(b.transform.Position, a, c) <= b.radius()+radius
	}
}

// segmentBoxHit is a slab test of the segment p+t*d, t in [0,1], against the
// origin-centred box with half extents h.
func segmentBoxHit(p, d, h mgl64.Vec3) bool {
	tmin, tmax := 0.0, 1.0
	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if p[i] < -h[i] || p[i] > h[i] {
				return false
			}
			continue
		}
		inv := 1 / d[i]
		t1 := (-h[i] - p[i]) * inv
		t2 := (h[i] - p[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmax < tmin {
			return false
		}
	}
	return true
}

func segmentPointDistance(p, a, b mgl64.Vec3) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Len()
	}
	t := mgl64.Clamp(p.Sub(a).Dot(ab)/l2, 0, 1)
	return p.Sub(a.Add(ab.Mul(t))).Len()
}

// Volume is a 3D spatial query world of spheres and oriented boxes.
type Volume struct {
	bodies map[string]*VolumeBody
	order  []string
}

func NewVolume() *Volume {
	return &Volume{bodies: make(map[string]*VolumeBody)}
}

// Add registers a body. IDs are unique within the volume.
func (v *Volume) Add(id string, shape Shape, t grip.ObjectTransform) error {
	if v == nil {
		return nil
	}
	if _, ok := v.bodies[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	if err := shape.validate(); err != nil {
		return fmt.Errorf("physics: add %q: %w", id, err)
	}
	v.bodies[id] = &VolumeBody{id: id, shape: shape, transform: t}
	v.order = append(v.order, id)
	return nil
}

func (v *Volume) AddSphere(id string, radius float64, t grip.ObjectTransform) error {
	return v.Add(id, Shape{Kind: ShapeSphere, Radius: radius}, t)
}

func (v *Volume) AddBox(id string, halfExtents mgl64.Vec3, t grip.ObjectTransform) error {
	return v.Add(id, Shape{Kind: ShapeBox, HalfExtents: halfExtents}, t)
}

// SetTransform moves a body. It reports false for unknown ids.
func (v *Volume) SetTransform(id string, t grip.ObjectTransform) bool {
	if v == nil {
		return false
	}
	b, ok := v.bodies[id]
	if !ok {
		return false
	}
	b.transform = t
	return true
}

func (v *Volume) Remove(id string) bool {
	if v == nil {
		return false
	}
	if _, ok := v.bodies[id]; !ok {
		return false
	}
	delete(v.bodies, id)
	for i, o := range v.order {
		if o == id {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
	return true
}

func (v *Volume) Body(id string) (*VolumeBody, bool) {
	if v == nil {
		return nil, false
	}
	b, ok := v.bodies[id]
	return b, ok
}

// Bodies returns the bodies in insertion order.
func (v *Volume) Bodies() []*VolumeBody {
	if v == nil {
		return nil
	}
	out := make([]*VolumeBody, 0, len(v.order))
	for _, id := range v.order {
		out = append(out, v.bodies[id])
	}
	return out
}

func (v *Volume) Len() int {
	if v == nil {
		return 0
	}
	return len(v.bodies)
}

func (v *Volume) CheckSphere(center mgl64.Vec3, radius float64) bool {
	if v == nil {
		return false
	}
	for _, id := range v.order {
		if v.bodies[id].distance(center) <= radius {
			return true
		}
	}
	return false
}

// OverlapSphere returns overlapping bodies nearest first, ties broken by id.
func (v *Volume) OverlapSphere(center mgl64.Vec3, radius float64) []grip.Body {
	if v == nil {
		return nil
	}
	type hit struct {
		body *VolumeBody
		dist float64
	}
	var hits []hit
	for _, id := range v.order {
		b := v.bodies[id]
		if d := b.distance(center); d <= radius {
			hits = append(hits, hit{b, d})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].body.id < hits[j].body.id
	})
	out := make([]grip.Body, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.body)
	}
	return out
}

func (v *Volume) SphereCast(origin, direction mgl64.Vec3, radius, maxDistance float64) bool {
	if v == nil || maxDistance <= 0 {
		return false
	}
	end := origin.Add(direction.Mul(maxDistance))
	for _, id := range v.order {
		if v.bodies[id].sweptHit(origin, end, radius) {
			return true
		}
	}
	return false
}
