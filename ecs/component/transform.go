package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/gripposer/grip"
)

// Transform is an entity's world placement.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

var TransformComponent = NewComponent[Transform]("transform")

func NewTransform(pos mgl64.Vec3) *Transform {
	return &Transform{Position: pos, Rotation: mgl64.QuatIdent(), Scale: mgl64.Vec3{1, 1, 1}}
}

// Object converts the transform to the form the grip core observes.
func (t *Transform) Object() grip.ObjectTransform {
	if t == nil {
		return grip.IdentityTransform()
	}
	return grip.ObjectTransform{Position: t.Position, Rotation: t.Rotation, Scale: t.Scale}
}
