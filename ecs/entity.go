package ecs

import "strconv"

// Entity packs a slot id and its generation. The zero Entity is never issued.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.id()), 10) + "v" + strconv.FormatUint(uint64(e.generation()), 10)
}

func (e Entity) Valid() bool {
	return e.id() > 0
}

// entityStore recycles slot ids, bumping the generation on reuse.
type entityStore struct {
	gens  []generation
	alive []bool
	free  []entityID
}

func (s *entityStore) create() Entity {
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gens = append(s.gens, 0)
		s.alive = append(s.alive, false)
		id = entityID(len(s.gens))
	}
	s.alive[id-1] = true
	return makeEntity(id, s.gens[id-1])
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.id()
	if id == 0 || int(id) > len(s.gens) {
		return false
	}
	return s.alive[id-1] && s.gens[id-1] == e.generation()
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	id := e.id()
	s.alive[id-1] = false
	s.gens[id-1]++
	s.free = append(s.free, id)
	return true
}

func (s *entityStore) list() []Entity {
	out := make([]Entity, 0, len(s.gens))
	for i, ok := range s.alive {
		if ok {
			out = append(out, makeEntity(entityID(i+1), s.gens[i]))
		}
	}
	return out
}
