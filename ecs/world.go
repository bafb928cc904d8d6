package ecs

import "github.com/milk9111/gripposer/ecs/component"

// store is the type-erased view of a sparseSet the world needs for cleanup.
type store interface {
	removeEntity(e Entity) bool
}

func (s *sparseSet[T]) removeEntity(e Entity) bool {
	return s.remove(e)
}

// World owns entities, their components and the frame's event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]store
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]store)}
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity removes the entity and all of its components.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.destroy(e) {
		return false
	}
	for _, s := range w.stores {
		s.removeEntity(e)
	}
	return true
}

func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities lists live entities in id order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.list()
}

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) *sparseSet[T] {
	if w == nil || !kind.Valid() {
		return nil
	}
	if s, ok := w.stores[kind.ID()]; ok {
		typed, _ := s.(*sparseSet[T])
		return typed
	}
	if !create {
		return nil
	}
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]store)
	}
	s := &sparseSet[T]{}
	w.stores[kind.ID()] = s
	return s
}
