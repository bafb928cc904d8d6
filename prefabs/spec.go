package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// DecodeComponentSpec re-decodes a loosely typed component block.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// BoneSpec is one bone of a rig skeleton. Rotation is XYZ euler degrees.
type BoneSpec struct {
	Name     string     `yaml:"name"`
	Parent   string     `yaml:"parent"`
	Position [3]float64 `yaml:"position"`
	Rotation [3]float64 `yaml:"rotation"`
}

// FingerSpec names the four bones of one finger.
type FingerSpec struct {
	Name      string `yaml:"name"`
	Base      string `yaml:"base"`
	Secondary string `yaml:"secondary"`
	Tip       string `yaml:"tip"`
	Fingertip string `yaml:"fingertip"`
}

type ProbeRadiiSpec struct {
	BaseSweep        float64 `yaml:"base_sweep"`
	BaseOverlap      float64 `yaml:"base_overlap"`
	SecondarySweep   float64 `yaml:"secondary_sweep"`
	SecondaryOverlap float64 `yaml:"secondary_overlap"`
	TipOverlap       float64 `yaml:"tip_overlap"`
}

// RigSpec describes a hand. The source, gripped and destination skeletons
// share Bones; Gripped overrides rotations by bone name for the reference
// pose. Destination lists the receiving bones, defaulting to every finger's
// base, then secondary, then tip bones.
type RigSpec struct {
	Name          string                `yaml:"name"`
	CaptureRadius float64               `yaml:"capture_radius"`
	BlendDuration float64               `yaml:"blend_duration"`
	MotionEpsilon float64               `yaml:"motion_epsilon"`
	ProbeRadii    ProbeRadiiSpec        `yaml:"probe_radii"`
	Anchor        string                `yaml:"anchor"`
	Bones         []BoneSpec            `yaml:"bones"`
	Gripped       map[string][3]float64 `yaml:"gripped"`
	Fingers       []FingerSpec          `yaml:"fingers"`
	Destination   []string              `yaml:"destination"`
}

func LoadRigSpec(filename string) (RigSpec, error) {
	return LoadSpec[RigSpec](filename)
}

// EntityBuildSpec is one scene entity with its component blocks keyed by
// component name.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

type SceneSpec struct {
	Name     string            `yaml:"name"`
	Physics  string            `yaml:"physics"`
	Entities []EntityBuildSpec `yaml:"entities"`
}

func LoadSceneSpec(filename string) (SceneSpec, error) {
	return LoadSpec[SceneSpec](filename)
}

type TransformComponentSpec struct {
	Position [3]float64  `yaml:"position"`
	Rotation [3]float64  `yaml:"rotation"`
	Scale    *[3]float64 `yaml:"scale"`
}

type GraspableComponentSpec struct {
	Shape       string     `yaml:"shape"`
	Radius      float64    `yaml:"radius"`
	HalfExtents [3]float64 `yaml:"half_extents"`
}

type ScriptComponentSpec struct {
	Path string `yaml:"path"`
}

type HandComponentSpec struct {
	Rig string `yaml:"rig"`
}
