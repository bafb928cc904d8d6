package grip

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Bone is a joint in an external skeletal transform store. Hierarchical
// composition belongs to the store; the grip core reads and writes local
// rotations and reads world positions for probe directions.
type Bone interface {
	LocalRotation() mgl64.Quat
	SetLocalRotation(q mgl64.Quat)
	WorldPosition() mgl64.Vec3
}

// Segment identifies a finger segment category. It doubles as the blend
// phase, since phases run in segment order.
type Segment int

const (
	SegmentBase Segment = iota
	SegmentSecondary
	SegmentTip
)

func (s Segment) String() string {
	switch s {
	case SegmentBase:
		return "base"
	case SegmentSecondary:
		return "secondary"
	case SegmentTip:
		return "tip"
	default:
		return fmt.Sprintf("segment(%d)", int(s))
	}
}

// Joint is one posable bone with its captured rest rotation and contact flag.
type Joint struct {
	Bone        Bone
	Rest        mgl64.Quat
	Interacting bool
}

// BoneGroup is the ordered set of joints of one segment category, indexed by
// finger.
type BoneGroup struct {
	Segment Segment
	Joints  []Joint
}

// NewBoneGroup captures the current local rotation of every bone as its rest
// rotation.
func NewBoneGroup(seg Segment, bones []Bone) (BoneGroup, error) {
	g := BoneGroup{Segment: seg, Joints: make([]Joint, len(bones))}
	for i, b := range bones {
		if b == nil {
			return BoneGroup{}, fmt.Errorf("%w: %s[%d]", ErrNilBone, seg, i)
		}
		g.Joints[i] = Joint{Bone: b, Rest: b.LocalRotation()}
	}
	return g, nil
}

func (g *BoneGroup) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Joints)
}

// Mark sets the contact flag of joint i. Flags are never cleared here.
func (g *BoneGroup) Mark(i int) {
	if g == nil || i < 0 || i >= len(g.Joints) {
		return
	}
	g.Joints[i].Interacting = true
}

func (g *BoneGroup) ClearFlags() {
	if g == nil {
		return
	}
	for i := range g.Joints {
		g.Joints[i].Interacting = false
	}
}

// Restore writes every rest rotation back and clears the contact flags.
func (g *BoneGroup) Restore() {
	if g == nil {
		return
	}
	for i := range g.Joints {
		g.Joints[i].Bone.SetLocalRotation(g.Joints[i].Rest)
		g.Joints[i].Interacting = false
	}
}

// AppendRotations appends the current local rotation of each joint to dst.
func (g *BoneGroup) AppendRotations(dst []mgl64.Quat) []mgl64.Quat {
	if g == nil {
		return dst
	}
	for _, j := range g.Joints {
		dst = append(dst, j.Bone.LocalRotation())
	}
	return dst
}

// FingerSkeleton holds the three posable groups plus the fingertip markers
// used only for sensing. Index i refers to the same finger everywhere.
type FingerSkeleton struct {
	Base       BoneGroup
	Secondary  BoneGroup
	Tip        BoneGroup
	Fingertips []Bone
}

// Fingers returns the number of fingers.
func (s *FingerSkeleton) Fingers() int {
	if s == nil {
		return 0
	}
	return s.Base.Len()
}

// aligned is the number of fingers present in every group.
func (s *FingerSkeleton) aligned() int {
	if s == nil {
		return 0
	}
	return min(s.Base.Len(), s.Secondary.Len(), s.Tip.Len(), len(s.Fingertips))
}

// Segments returns the total number of posable joints.
func (s *FingerSkeleton) Segments() int {
	if s == nil {
		return 0
	}
	return s.Base.Len() + s.Secondary.Len() + s.Tip.Len()
}

// Group returns the bone group for a segment category.
func (s *FingerSkeleton) Group(seg Segment) *BoneGroup {
	if s == nil {
		return nil
	}
	switch seg {
	case SegmentBase:
		return &s.Base
	case SegmentSecondary:
		return &s.Secondary
	case SegmentTip:
		return &s.Tip
	default:
		return nil
	}
}

// Capture snapshots base, then secondary, then tip rotations.
func (s *FingerSkeleton) Capture() CapturedPose {
	if s == nil {
		return nil
	}
	out := make([]mgl64.Quat, 0, s.Segments())
	out = s.Base.AppendRotations(out)
	out = s.Secondary.AppendRotations(out)
	out = s.Tip.AppendRotations(out)
	return CapturedPose(out)
}

func (s *FingerSkeleton) Restore() {
	if s == nil {
		return
	}
	s.Base.Restore()
	s.Secondary.Restore()
	s.Tip.Restore()
}

func (s *FingerSkeleton) ClearFlags() {
	if s == nil {
		return
	}
	s.Base.ClearFlags()
	s.Secondary.ClearFlags()
	s.Tip.ClearFlags()
}

// GripTargetPose is the authored gripped reference pose. It is only read.
type GripTargetPose struct {
	Base      []Bone
	Secondary []Bone
	Tip       []Bone
}

func (p GripTargetPose) Group(seg Segment) []Bone {
	switch seg {
	case SegmentBase:
		return p.Base
	case SegmentSecondary:
		return p.Secondary
	case SegmentTip:
		return p.Tip
	default:
		return nil
	}
}

// CapturedPose is a base‖secondary‖tip snapshot of local rotations.
type CapturedPose []mgl64.Quat

// MapTo writes the pose onto dst in the same concatenated order. Extra
// destination bones are left untouched.
func (p CapturedPose) MapTo(dst []Bone) {
	for i, q := range p {
		if i >= len(dst) {
			return
		}
		dst[i].SetLocalRotation(q)
	}
}
