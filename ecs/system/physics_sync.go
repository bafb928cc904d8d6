package system

import (
	"log"

	"github.com/milk9111/gripposer/ecs"
	"github.com/milk9111/gripposer/ecs/component"
	"github.com/milk9111/gripposer/grip"
	"github.com/milk9111/gripposer/physics"
)

// SpatialBackend is a spatial query world whose bodies can be managed.
type SpatialBackend interface {
	grip.SpatialQuery
	Add(id string, shape physics.Shape, t grip.ObjectTransform) error
	SetTransform(id string, t grip.ObjectTransform) bool
	Remove(id string) bool
}

// PhysicsSyncSystem mirrors graspable entities into a spatial backend.
// Bodies are keyed by the entity's Name.
type PhysicsSyncSystem struct {
	backend SpatialBackend
	bodies  map[string]ecs.Entity
}

func NewPhysicsSyncSystem(backend SpatialBackend) *PhysicsSyncSystem {
	return &PhysicsSyncSystem{backend: backend, bodies: map[string]ecs.Entity{}}
}

func (s *PhysicsSyncSystem) Update(w *ecs.World) {
	if s == nil || s.backend == nil || w == nil {
		return
	}

	synced := make(map[ecs.Entity]bool, len(s.bodies))
	ecs.ForEach3(w, component.GraspableComponent.Kind(), component.TransformComponent.Kind(), component.NameComponent.Kind(), func(e ecs.Entity, g *component.Graspable, t *component.Transform, name *component.Name) {
		id := name.Value
		if owner, ok := s.bodies[id]; ok {
			if owner == e {
				s.backend.SetTransform(id, t.Object())
				synced[e] = true
				return
			}
			log.Printf("PhysicsSync: body %q already owned by entity %s, skipping %s", id, owner, e)
			return
		}
		if err := s.backend.Add(id, g.Shape, t.Object()); err != nil {
			log.Printf("PhysicsSync: add %q: %v", id, err)
			return
		}
		s.bodies[id] = e
		synced[e] = true
	})

	// Owners that lost a component or died free their id.
	for id, e := range s.bodies {
		if !synced[e] {
			s.backend.Remove(id)
			delete(s.bodies, id)
		}
	}
}
