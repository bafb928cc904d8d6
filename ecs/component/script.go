package component

import "github.com/go-gl/mathgl/mgl64"

// Script drives an entity's transform from a tengo motion script. The
// script's offsets apply to Origin.
type Script struct {
	Path   string
	Origin Transform
	Time   float64
}

var ScriptComponent = NewComponent[Script]("script")

// NewScript anchors a script at the entity's current transform.
func NewScript(path string, origin *Transform) *Script {
	s := &Script{Path: path, Origin: Transform{Rotation: mgl64.QuatIdent(), Scale: mgl64.Vec3{1, 1, 1}}}
	if origin != nil {
		s.Origin = *origin
	}
	return s
}
