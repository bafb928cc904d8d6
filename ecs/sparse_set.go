package ecs

// sparseSet stores one component type keyed by entity id. Iteration follows
// the dense order, which is insertion order until a removal swaps the tail in.
type sparseSet[T any] struct {
	dense  []Entity
	values []*T
	sparse []int
}

func (s *sparseSet[T]) has(e Entity) bool {
	id := int(e.id())
	if s == nil || id <= 0 || id-1 >= len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && idx < len(s.dense) && s.dense[idx] == e
}

func (s *sparseSet[T]) get(e Entity) (*T, bool) {
	if !s.has(e) {
		return nil, false
	}
	return s.values[s.sparse[int(e.id())-1]], true
}

func (s *sparseSet[T]) set(e Entity, v *T) {
	id := int(e.id())
	if id <= 0 {
		return
	}
	for id-1 >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.has(e) {
		s.values[s.sparse[id-1]] = v
		return
	}
	s.dense = append(s.dense, e)
	s.values = append(s.values, v)
	s.sparse[id-1] = len(s.dense) - 1
}

func (s *sparseSet[T]) remove(e Entity) bool {
	if !s.has(e) {
		return false
	}
	id := int(e.id())
	idx := s.sparse[id-1]
	last := len(s.dense) - 1
	moved := s.dense[last]

	s.dense[idx] = moved
	s.values[idx] = s.values[last]
	s.sparse[int(moved.id())-1] = idx

	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[id-1] = -1
	return true
}

func (s *sparseSet[T]) len() int {
	if s == nil {
		return 0
	}
	return len(s.dense)
}

// entities returns a copy so callers may mutate the set while iterating.
func (s *sparseSet[T]) entities() []Entity {
	if s == nil {
		return nil
	}
	return append([]Entity(nil), s.dense...)
}
