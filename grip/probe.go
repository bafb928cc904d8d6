package grip

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ObjectTransform is the observed world transform of a graspable object.
type ObjectTransform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// IdentityTransform places an object at the origin with unit scale.
func IdentityTransform() ObjectTransform {
	return ObjectTransform{Rotation: mgl64.QuatIdent(), Scale: mgl64.Vec3{1, 1, 1}}
}

// ApproxEqual reports whether position, rotation and scale all match within
// eps. Position and scale compare each component by absolute difference, so
// the result does not depend on distance from the origin. Rotations compare
// by orientation, so q and -q are equal.
func (t ObjectTransform) ApproxEqual(o ObjectTransform, eps float64) bool {
	if !withinAbs(t.Position, o.Position, eps) {
		return false
	}
	if !withinAbs(t.Scale, o.Scale, eps) {
		return false
	}
	return sameOrientation(t.Rotation, o.Rotation, eps)
}

func withinAbs(a, b mgl64.Vec3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// Body is an object reported by the spatial query service.
type Body interface {
	ID() string
	Transform() ObjectTransform
}

// SpatialQuery is the external collision world.
type SpatialQuery interface {
	CheckSphere(center mgl64.Vec3, radius float64) bool
	// OverlapSphere returns the bodies within radius of center, first match
	// first. Backends order by distance, then ID.
	OverlapSphere(center mgl64.Vec3, radius float64) []Body
	// SphereCast sweeps a sphere of radius from origin along the unit
	// direction for at most maxDistance.
	SphereCast(origin, direction mgl64.Vec3, radius, maxDistance float64) bool
}

// SpatialProbe answers the two questions the hand asks of the world. A
// missing query service reads as "no contact".
type SpatialProbe struct {
	query SpatialQuery
}

func NewSpatialProbe(q SpatialQuery) SpatialProbe {
	return SpatialProbe{query: q}
}

// Overlaps reports whether any geometry lies within radius of point.
func (p SpatialProbe) Overlaps(point mgl64.Vec3, radius float64) bool {
	if p.query == nil || radius <= 0 {
		return false
	}
	return p.query.CheckSphere(point, radius)
}

// FirstOverlap returns the first body within radius of point.
func (p SpatialProbe) FirstOverlap(point mgl64.Vec3, radius float64) (Body, bool) {
	if p.query == nil || radius <= 0 {
		return nil, false
	}
	for _, b := range p.query.OverlapSphere(point, radius) {
		if b != nil {
			return b, true
		}
	}
	return nil, false
}

// SweepHits sweeps a probe sphere from origin along direction. The direction
// need not be normalised; a zero direction never hits.
func (p SpatialProbe) SweepHits(origin, direction mgl64.Vec3, probeRadius, maxDistance float64) bool {
	if p.query == nil || maxDistance <= 0 {
		return false
	}
	l := direction.Len()
	if l == 0 || math.IsNaN(l) {
		return false
	}
	return p.query.SphereCast(origin, direction.Mul(1/l), probeRadius, maxDistance)
}
