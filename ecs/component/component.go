package component

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

type ComponentKind[T any] struct {
	id ComponentID
}

func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{id: ComponentID(nextComponentID.Add(1))}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

// ComponentHandle is a package-level component declaration. A non-empty key
// makes the component addressable from scene prefabs.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
	key  string
}

func NewComponent[T any](key string) ComponentHandle[T] {
	h := ComponentHandle[T]{kind: NewComponentKind[T](), key: key}
	if key != "" {
		registryMu.Lock()
		prefabKeys[key] = h.kind.id
		registryMu.Unlock()
	}
	return h
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}

// Key is the prefab name of the component, empty for runtime-only state.
func (h ComponentHandle[T]) Key() string {
	return h.key
}

type ComponentID uint32

var nextComponentID atomic.Uint32

var (
	registryMu sync.RWMutex
	prefabKeys = map[string]ComponentID{}
)

// Registered reports whether key names a prefab component.
func Registered(key string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := prefabKeys[key]
	return ok
}

// Keys lists the prefab component names in sorted order.
func Keys() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(prefabKeys))
	for k := range prefabKeys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
