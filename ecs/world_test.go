package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/gripposer/ecs/component"
)

func intPtr(i int) *int {
	return &i
}

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_destroy_middle", 3, 1},
		{"none_destroyed", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				e := CreateEntity(w)
				if !e.Valid() {
					t.Fatalf("created invalid entity %v", e)
				}
				ents = append(ents, e)
			}
			want := c.create
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should succeed for a live entity")
				}
				if DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should fail the second time")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should be dead after destruction")
				}
				want--
			}
			if got := len(Entities(w)); got != want {
				t.Fatalf("expected %d live entities, got %d", want, got)
			}
		})
	}
}

func TestRecycledEntityIsNotAliased(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()
	old := CreateEntity(w)
	if err := Add(w, old, k, intPtr(1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	DestroyEntity(w, old)

	fresh := CreateEntity(w)
	if fresh.id() != old.id() || fresh == old {
		t.Fatalf("expected slot reuse with a new generation, got %v after %v", fresh, old)
	}
	if Has(w, fresh, k) {
		t.Fatalf("recycled entity inherited a component")
	}
	if _, ok := Get(w, old, k); ok {
		t.Fatalf("stale handle should not resolve")
	}
	if err := Add(w, old, k, intPtr(2)); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
}

func TestComponents(t *testing.T) {
	w := NewWorld()
	ki := component.NewComponentKind[int]()
	ks := component.NewComponentKind[string]()
	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	steps := []struct {
		name string
		run  func(t *testing.T)
	}{
		{"add_and_get", func(t *testing.T) {
			if err := Add(w, e1, ki, intPtr(10)); err != nil {
				t.Fatal(err)
			}
			v, ok := Get(w, e1, ki)
			if !ok || *v != 10 {
				t.Fatalf("expected 10, got %v ok=%v", v, ok)
			}
		}},
		{"mutate_in_place", func(t *testing.T) {
			v, _ := Get(w, e1, ki)
			*v = 11
			if v2, _ := Get(w, e1, ki); *v2 != 11 {
				t.Fatalf("expected pointer semantics, got %d", *v2)
			}
		}},
		{"nil_rejected", func(t *testing.T) {
			if err := Add[string](w, e2, ks, nil); !errors.Is(err, component.ErrNilComponent) {
				t.Fatalf("expected ErrNilComponent, got %v", err)
			}
		}},
		{"invalid_kind", func(t *testing.T) {
			var zero component.ComponentKind[int]
			if err := Add(w, e2, zero, intPtr(1)); !errors.Is(err, component.ErrInvalidComponentKind) {
				t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
			}
		}},
		{"remove", func(t *testing.T) {
			if !Remove(w, e1, ki) || Remove(w, e1, ki) {
				t.Fatalf("remove should succeed exactly once")
			}
			if Has(w, e1, ki) {
				t.Fatalf("component should be gone")
			}
		}},
		{"destroy_clears_components", func(t *testing.T) {
			s := "b"
			_ = Add(w, e2, ks, &s)
			DestroyEntity(w, e2)
			if Count(w, ks) != 0 {
				t.Fatalf("destroyed entity left components behind")
			}
		}},
	}
	for _, s := range steps {
		t.Run(s.name, s.run)
	}
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[int]()
	kc := component.NewComponentKind[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)
	_ = Add(w, e1, ka, intPtr(1))
	_ = Add(w, e2, ka, intPtr(2))
	_ = Add(w, e2, kb, intPtr(3))
	_ = Add(w, e2, kc, intPtr(4))
	_ = Add(w, e3, kb, intPtr(5))

	cases := []struct {
		name string
		run  func() []Entity
		want []Entity
	}{
		{"single", func() (out []Entity) {
			ForEach(w, ka, func(e Entity, _ *int) { out = append(out, e) })
			return
		}, []Entity{e1, e2}},
		{"pair", func() (out []Entity) {
			ForEach2(w, ka, kb, func(e Entity, _ *int, _ *int) { out = append(out, e) })
			return
		}, []Entity{e2}},
		{"triple", func() (out []Entity) {
			ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { out = append(out, e) })
			return
		}, []Entity{e2}},
		{"missing_store", func() (out []Entity) {
			ForEach(w, component.NewComponentKind[int](), func(e Entity, _ *int) { out = append(out, e) })
			return
		}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.run()
			if len(got) != len(c.want) {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Fatalf("expected %v, got %v", c.want, got)
				}
			}
		})
	}

	if e, ok := First(w, kb); !ok || e != e2 {
		t.Fatalf("expected first kb holder e2, got %v", e)
	}

	// Destroying during iteration must not skip the remaining entities.
	var seen int
	ForEach(w, ka, func(e Entity, _ *int) {
		seen++
		DestroyEntity(w, e)
	})
	if seen != 2 || Count(w, ka) != 0 {
		t.Fatalf("expected to visit and destroy 2 entities, saw %d", seen)
	}
}

type countingSystem struct {
	calls *[]string
	name  string
}

func (s countingSystem) Update(w *World) {
	*s.calls = append(*s.calls, s.name)
	w.Events().Push(Event{Type: s.name})
}

func TestSchedulerAndEvents(t *testing.T) {
	var calls []string
	sched := NewScheduler(countingSystem{&calls, "a"}, nil, countingSystem{&calls, "b"})
	sched.Add(countingSystem{&calls, "c"})
	if len(sched.Systems()) != 3 {
		t.Fatalf("nil systems should be skipped")
	}

	w := NewWorld()
	sched.Update(w)
	if len(calls) != 3 || calls[0] != "a" || calls[2] != "c" {
		t.Fatalf("unexpected order %v", calls)
	}
	events := w.Events().Drain()
	if len(events) != 3 || events[1].Type != "b" {
		t.Fatalf("unexpected events %v", events)
	}
	if w.Events().Len() != 0 || w.Events().Drain() != nil {
		t.Fatalf("drain should empty the queue")
	}
}

func TestClock(t *testing.T) {
	c := NewClock(50)
	for i := 0; i < 5; i++ {
		c.Tick()
	}
	if c.Frame() != 5 || c.Delta() != 0.02 {
		t.Fatalf("unexpected clock frame=%d delta=%v", c.Frame(), c.Delta())
	}
	if d := c.Elapsed() - 0.1; d > 1e-12 || d < -1e-12 {
		t.Fatalf("expected 0.1s elapsed, got %v", c.Elapsed())
	}
	if NewClock(0).Delta() != 1.0/60 {
		t.Fatalf("non-positive tps should default to 60")
	}
}
