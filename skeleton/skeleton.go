package skeleton

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrDuplicateBone = errors.New("skeleton: duplicate bone")
	ErrUnknownParent = errors.New("skeleton: unknown parent")
	ErrUnknownBone   = errors.New("skeleton: unknown bone")
)

// BoneDef describes one bone. Parents must be defined before their children.
type BoneDef struct {
	Name     string
	Parent   string
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Bone is a node in a transform hierarchy. Position and rotation are local to
// the parent; root bones are in world space.
type Bone struct {
	name     string
	index    int
	parent   *Bone
	position mgl64.Vec3
	rotation mgl64.Quat
}

func (b *Bone) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

func (b *Bone) Index() int {
	if b == nil {
		return -1
	}
	return b.index
}

func (b *Bone) Parent() *Bone {
	if b == nil {
		return nil
	}
	return b.parent
}

func (b *Bone) LocalPosition() mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	return b.position
}

func (b *Bone) SetLocalPosition(p mgl64.Vec3) {
	if b == nil {
		return
	}
	b.position = p
}

func (b *Bone) LocalRotation() mgl64.Quat {
	if b == nil {
		return mgl64.QuatIdent()
	}
	return b.rotation
}

func (b *Bone) SetLocalRotation(q mgl64.Quat) {
	if b == nil {
		return
	}
	b.rotation = q
}

// WorldRotation chains local rotations from the root down.
func (b *Bone) WorldRotation() mgl64.Quat {
	if b == nil {
		return mgl64.QuatIdent()
	}
	if b.parent == nil {
		return b.rotation
	}
	return b.parent.WorldRotation().Mul(b.rotation)
}

// WorldPosition places the bone's local offset in its parent's frame.
func (b *Bone) WorldPosition() mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	if b.parent == nil {
		return b.position
	}
	return b.parent.WorldPosition().Add(b.parent.WorldRotation().Rotate(b.position))
}

// Skeleton owns a set of bones in definition order.
type Skeleton struct {
	bones  []*Bone
	byName map[string]*Bone
}

// New builds a skeleton from bone definitions. A zero rotation is read as
// identity.
func New(defs []BoneDef) (*Skeleton, error) {
	s := &Skeleton{
		bones:  make([]*Bone, 0, len(defs)),
		byName: make(map[string]*Bone, len(defs)),
	}
	for i, d := range defs {
		if _, ok := s.byName[d.Name]; ok || d.Name == "" {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateBone, d.Name)
		}
		var parent *Bone
		if d.Parent != "" {
			p, ok := s.byName[d.Parent]
			if !ok {
				return nil, fmt.Errorf("%w: %q for bone %q", ErrUnknownParent, d.Parent, d.Name)
			}
			parent = p
		}
		rot := d.Rotation
		if rot == (mgl64.Quat{}) {
			rot = mgl64.QuatIdent()
		}
		b := &Bone{name: d.Name, index: i, parent: parent, position: d.Position, rotation: rot}
		s.bones = append(s.bones, b)
		s.byName[d.Name] = b
	}
	return s, nil
}

func (s *Skeleton) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bones)
}

// Bones returns the bones in definition order.
func (s *Skeleton) Bones() []*Bone {
	if s == nil {
		return nil
	}
	return s.bones
}

// Root returns the first defined bone.
func (s *Skeleton) Root() *Bone {
	if s == nil || len(s.bones) == 0 {
		return nil
	}
	return s.bones[0]
}

func (s *Skeleton) Bone(name string) (*Bone, bool) {
	if s == nil {
		return nil, false
	}
	b, ok := s.byName[name]
	return b, ok
}

// Lookup resolves names in order.
func (s *Skeleton) Lookup(names []string) ([]*Bone, error) {
	out := make([]*Bone, 0, len(names))
	for _, n := range names {
		b, ok := s.Bone(n)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBone, n)
		}
		out = append(out, b)
	}
	return out, nil
}

// EulerDegrees converts XYZ euler angles in degrees to a rotation.
func EulerDegrees(x, y, z float64) mgl64.Quat {
	return mgl64.AnglesToQuat(mgl64.DegToRad(x), mgl64.DegToRad(y), mgl64.DegToRad(z), mgl64.XYZ)
}
