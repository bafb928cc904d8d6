package physics

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gripposer/grip"
)

// PlanarBody is a graspable body projected onto the XY plane of a Chipmunk
// space.
type PlanarBody struct {
	id        string
	shape     Shape
	transform grip.ObjectTransform
	body      *cp.Body
	cpShape   *cp.Shape
	scale     mgl64.Vec3
}

func (b *PlanarBody) ID() string {
	if b == nil {
		return ""
	}
	return b.id
}

func (b *PlanarBody) Transform() grip.ObjectTransform {
	if b == nil {
		return grip.IdentityTransform()
	}
	return b.transform
}

// Planar answers spatial queries from a cp.Space. Every body is kinematic and
// moved only through SetTransform; the space is never stepped. Z is ignored.
type Planar struct {
	space  *cp.Space
	bodies map[string]*PlanarBody
	shapes map[*cp.Shape]*PlanarBody
}

func NewPlanar() *Planar {
	return &Planar{
		space:  cp.NewSpace(),
		bodies: make(map[string]*PlanarBody),
		shapes: make(map[*cp.Shape]*PlanarBody),
	}
}

// Space exposes the underlying space for debug drawing.
func (p *Planar) Space() *cp.Space {
	if p == nil {
		return nil
	}
	return p.space
}

func (p *Planar) Add(id string, shape Shape, t grip.ObjectTransform) error {
	if p == nil {
		return nil
	}
	if _, ok := p.bodies[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	if err := shape.validate(); err != nil {
		return fmt.Errorf("physics: add %q: %w", id, err)
	}
	body := p.space.AddBody(cp.NewKinematicBody())
	pb := &PlanarBody{id: id, shape: shape, body: body}
	p.bodies[id] = pb
	p.place(pb, t)
	return nil
}

func (p *Planar) AddSphere(id string, radius float64, t grip.ObjectTransform) error {
	return p.Add(id, Shape{Kind: ShapeSphere, Radius: radius}, t)
}

func (p *Planar) AddBox(id string, halfExtents mgl64.Vec3, t grip.ObjectTransform) error {
	return p.Add(id, Shape{Kind: ShapeBox, HalfExtents: halfExtents}, t)
}

func (p *Planar) SetTransform(id string, t grip.ObjectTransform) bool {
	if p == nil {
		return false
	}
	pb, ok := p.bodies[id]
	if !ok {
		return false
	}
	p.place(pb, t)
	return true
}

func (p *Planar) Remove(id string) bool {
	if p == nil {
		return false
	}
	pb, ok := p.bodies[id]
	if !ok {
		return false
	}
	if pb.cpShape != nil {
		delete(p.shapes, pb.cpShape)
		p.space.RemoveShape(pb.cpShape)
	}
	p.space.RemoveBody(pb.body)
	delete(p.bodies, id)
	return true
}

func (p *Planar) Len() int {
	if p == nil {
		return 0
	}
	return len(p.bodies)
}

// place moves the body and re-inserts its shape. The space is never stepped,
// so re-insertion is what refreshes the shape's bounds in the spatial index.
// The shape is rebuilt when the scale changes.
func (p *Planar) place(pb *PlanarBody, t grip.ObjectTransform) {
	pb.transform = t
	if pb.cpShape != nil {
		p.space.RemoveShape(pb.cpShape)
		if pb.scale != t.Scale {
			delete(p.shapes, pb.cpShape)
			pb.cpShape = nil
		}
	}
	pb.body.SetPosition(cp.Vector{X: t.Position.X(), Y: t.Position.Y()})
	pb.body.SetAngle(planarAngle(t.Rotation))

	if pb.cpShape == nil {
		tmp := &VolumeBody{shape: pb.shape, transform: t}
		switch pb.shape.Kind {
		case ShapeBox:
			h := tmp.halfExtents()
			pb.cpShape = cp.NewBox(pb.body, 2*h.X(), 2*h.Y(), 0)
		default:
			pb.cpShape = cp.NewCircle(pb.body, tmp.radius(), cp.Vector{})
		}
		p.shapes[pb.cpShape] = pb
		pb.scale = t.Scale
	}
	p.space.AddShape(pb.cpShape)
}

// planarAngle is the rotation of the X axis about Z.
func planarAngle(q mgl64.Quat) float64 {
	x := q.Rotate(mgl64.Vec3{1, 0, 0})
	return math.Atan2(x.Y(), x.X())
}

func toVector(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Y()}
}

type planarHit struct {
	body *PlanarBody
	dist float64
}

// within returns the bodies whose surface lies no farther than radius from
// center. The boundary is inclusive, matching Volume.
func (p *Planar) within(center mgl64.Vec3, radius float64) []planarHit {
	point := toVector(center)
	var hits []planarHit
	p.space.BBQuery(cp.NewBBForCircle(point, radius), cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		pb, ok := p.shapes[shape]
		if !ok {
			return
		}
		if d := shape.PointQuery(point).Distance; d <= radius {
			hits = append(hits, planarHit{pb, math.Max(d, 0)})
		}
	}, nil)
	return hits
}

func (p *Planar) CheckSphere(center mgl64.Vec3, radius float64) bool {
	if p == nil || len(p.bodies) == 0 {
		return false
	}
	return len(p.within(center, radius)) > 0
}

// OverlapSphere returns overlapping bodies nearest first, ties broken by id.
func (p *Planar) OverlapSphere(center mgl64.Vec3, radius float64) []grip.Body {
	if p == nil || len(p.bodies) == 0 {
		return nil
	}
	hits := p.within(center, radius)
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

// SphereCast sweeps the projected probe. A probe that starts in contact, or
// whose sweep projects to a point, falls back to a point query.
func (p *Planar) SphereCast(origin, direction mgl64.Vec3, radius, maxDistance float64) bool {
	if p == nil || len(p.bodies) == 0 || maxDistance <= 0 {
		return false
	}
	if p.CheckSphere(origin, radius) {
		return true
	}
	a := toVector(origin)
	b := toVector(origin.Add(direction.Mul(maxDistance)))
	if a.Distance(b) == 0 {
		return false
	}
	info := p.space.SegmentQueryFirst(a, b, radius, cp.SHAPE_FILTER_ALL)
	return info.Shape != nil
}
