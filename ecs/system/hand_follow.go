package system

import (
	"github.com/milk9111/gripposer/ecs"
	"github.com/milk9111/gripposer/ecs/component"
)

// HandFollowSystem places each rig's root bone at its entity's transform.
type HandFollowSystem struct{}

func NewHandFollowSystem() *HandFollowSystem {
	return &HandFollowSystem{}
}

func (s *HandFollowSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.HandComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, hand *component.Hand, transform *component.Transform) {
		if hand.Root == nil {
			return
		}
		hand.Root.SetLocalPosition(transform.Position)
		hand.Root.SetLocalRotation(transform.Rotation)
	})
}
