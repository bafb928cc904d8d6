package ecs

import "github.com/milk9111/gripposer/ecs/component"

// Add attaches or replaces a component on a live entity.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	if value == nil {
		return component.ErrNilComponent
	}
	s := storeFor(w, kind, true)
	if s == nil {
		return component.ErrInvalidComponentKind
	}
	s.set(e, value)
	return nil
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	return storeFor(w, kind, false).get(e)
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	return IsAlive(w, e) && storeFor(w, kind, false).has(e)
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	s := storeFor(w, kind, false)
	if s == nil {
		return false
	}
	return s.remove(e)
}

// ForEach visits every live entity holding kind.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s := storeFor(w, kind, false)
	if s == nil || fn == nil {
		return
	}
	for _, e := range s.entities() {
		if v, ok := s.get(e); ok && IsAlive(w, e) {
			fn(e, v)
		}
	}
}

// ForEach2 visits entities holding both kinds, iterating the smaller store.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa := storeFor(w, ka, false)
	sb := storeFor(w, kb, false)
	if sa == nil || sb == nil || fn == nil {
		return
	}
	ents := sa.entities()
	if sb.len() < sa.len() {
		ents = sb.entities()
	}
	for _, e := range ents {
		a, okA := sa.get(e)
		b, okB := sb.get(e)
		if okA && okB && IsAlive(w, e) {
			fn(e, a, b)
		}
	}
}

// ForEach3 visits entities holding all three kinds.
func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sc := storeFor(w, kc, false)
	if sc == nil || fn == nil {
		return
	}
	ForEach2(w, ka, kb, func(e Entity, a *A, b *B) {
		if c, ok := sc.get(e); ok {
			fn(e, a, b, c)
		}
	})
}

// First returns the first entity holding kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	s := storeFor(w, kind, false)
	for _, e := range s.entities() {
		if IsAlive(w, e) {
			return e, true
		}
	}
	return 0, false
}

// Count reports how many entities hold kind.
func Count[T any](w *World, kind component.ComponentKind[T]) int {
	return storeFor(w, kind, false).len()
}
