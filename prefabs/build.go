package prefabs

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/gripposer/grip"
	"github.com/milk9111/gripposer/skeleton"
)

var ErrInvalidRig = errors.New("prefabs: invalid rig")

// Rig is a hand assembled from a RigSpec. Config carries no observer.
type Rig struct {
	Name        string
	Source      *skeleton.Skeleton
	Gripped     *skeleton.Skeleton
	Destination *skeleton.Skeleton
	Config      grip.Config
}

// Root is the source bone the hand entity drives.
func (r *Rig) Root() *skeleton.Bone {
	if r == nil {
		return nil
	}
	return r.Source.Root()
}

func boneDefs(bones []BoneSpec, overrides map[string][3]float64) ([]skeleton.BoneDef, error) {
	defs := make([]skeleton.BoneDef, 0, len(bones))
	seen := make(map[string]bool, len(bones))
	for _, b := range bones {
		rot := b.Rotation
		if o, ok := overrides[b.Name]; ok {
			rot = o
		}
		seen[b.Name] = true
		defs = append(defs, skeleton.BoneDef{
			Name:     b.Name,
			Parent:   b.Parent,
			Position: mgl64.Vec3(b.Position),
			Rotation: skeleton.EulerDegrees(rot[0], rot[1], rot[2]),
		})
	}
	for name := range overrides {
		if !seen[name] {
			return nil, fmt.Errorf("%w: gripped pose names unknown bone %q", ErrInvalidRig, name)
		}
	}
	return defs, nil
}

func lookupBones(s *skeleton.Skeleton, names []string) ([]grip.Bone, error) {
	bones, err := s.Lookup(names)
	if err != nil {
		return nil, err
	}
	out := make([]grip.Bone, len(bones))
	for i, b := range bones {
		out[i] = b
	}
	return out, nil
}

// BuildRig creates the three skeletons of a rig and the grip configuration
// binding them.
func BuildRig(spec RigSpec) (*Rig, error) {
	if len(spec.Bones) == 0 {
		return nil, fmt.Errorf("%w: %q has no bones", ErrInvalidRig, spec.Name)
	}
	if len(spec.Fingers) == 0 {
		return nil, fmt.Errorf("%w: %q has no fingers", ErrInvalidRig, spec.Name)
	}

	rest, err := boneDefs(spec.Bones, nil)
	if err != nil {
		return nil, err
	}
	gripped, err := boneDefs(spec.Bones, spec.Gripped)
	if err != nil {
		return nil, err
	}

	rig := &Rig{Name: spec.Name}
	if rig.Source, err = skeleton.New(rest); err != nil {
		return nil, fmt.Errorf("prefabs: rig %q source: %w", spec.Name, err)
	}
	if rig.Gripped, err = skeleton.New(gripped); err != nil {
		return nil, fmt.Errorf("prefabs: rig %q gripped: %w", spec.Name, err)
	}
	if rig.Destination, err = skeleton.New(rest); err != nil {
		return nil, fmt.Errorf("prefabs: rig %q destination: %w", spec.Name, err)
	}

	var base, secondary, tip, fingertip []string
	for _, f := range spec.Fingers {
		base = append(base, f.Base)
		secondary = append(secondary, f.Secondary)
		tip = append(tip, f.Tip)
		fingertip = append(fingertip, f.Fingertip)
	}
	dest := spec.Destination
	if len(dest) == 0 {
		dest = append(append(append([]string{}, base...), secondary...), tip...)
	}

	cfg := grip.Config{
		CaptureRadius: spec.CaptureRadius,
		BlendDuration: spec.BlendDuration,
		MotionEpsilon: spec.MotionEpsilon,
		Probe: grip.ProbeRadii{
			BaseSweep:        spec.ProbeRadii.BaseSweep,
			BaseOverlap:      spec.ProbeRadii.BaseOverlap,
			SecondarySweep:   spec.ProbeRadii.SecondarySweep,
			SecondaryOverlap: spec.ProbeRadii.SecondaryOverlap,
			TipOverlap:       spec.ProbeRadii.TipOverlap,
		},
	}

	anchor := rig.Source.Root()
	if spec.Anchor != "" {
		b, ok := rig.Source.Bone(spec.Anchor)
		if !ok {
			return nil, fmt.Errorf("%w: anchor %q", skeleton.ErrUnknownBone, spec.Anchor)
		}
		anchor = b
	}
	cfg.Anchor = anchor

	lookups := []struct {
		dst   *[]grip.Bone
		s     *skeleton.Skeleton
		names []string
	}{
		{&cfg.Fingers.Base, rig.Source, base},
		{&cfg.Fingers.Secondary, rig.Source, secondary},
		{&cfg.Fingers.Tip, rig.Source, tip},
		{&cfg.Fingers.Fingertips, rig.Source, fingertip},
		{&cfg.Targets.Base, rig.Gripped, base},
		{&cfg.Targets.Secondary, rig.Gripped, secondary},
		{&cfg.Targets.Tip, rig.Gripped, tip},
		{&cfg.Destination, rig.Destination, dest},
	}
	for _, l := range lookups {
		bones, err := lookupBones(l.s, l.names)
		if err != nil {
			return nil, fmt.Errorf("prefabs: rig %q: %w", spec.Name, err)
		}
		*l.dst = bones
	}

	rig.Config = cfg
	return rig, nil
}

// LoadRig loads and builds a rig prefab.
func LoadRig(filename string) (*Rig, error) {
	spec, err := LoadRigSpec(filename)
	if err != nil {
		return nil, err
	}
	return BuildRig(spec)
}
