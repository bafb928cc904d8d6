package system

import (
	"log"

	"github.com/milk9111/gripposer/ecs"
	"github.com/milk9111/gripposer/ecs/component"
	"github.com/milk9111/gripposer/grip"
)

// GripEvent is the Data of grip events pushed onto the world queue.
type GripEvent struct {
	Hand  ecs.Entity
	Event grip.Event
}

// GripSystem ticks every hand rig once per frame and republishes what the
// rigs report as world events typed by grip.EventKind.
type GripSystem struct {
	clock *ecs.Clock
}

func NewGripSystem(clock *ecs.Clock) *GripSystem {
	return &GripSystem{clock: clock}
}

func (s *GripSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := s.clock.Delta()

	ecs.ForEach(w, component.HandComponent.Kind(), func(e ecs.Entity, hand *component.Hand) {
		if hand.Rig == nil {
			return
		}
		hand.Rig.Tick(dt)
		for _, ev := range hand.DrainEvents() {
			switch ev.Kind {
			case grip.EventCycleStarted:
				log.Printf("GripSystem: hand %s cycle %d started on %q", e, ev.Cycle, ev.Object)
			case grip.EventCycleCompleted:
				log.Printf("GripSystem: hand %s cycle %d completed on %q", e, ev.Cycle, ev.Object)
			}
			w.Events().Push(ecs.Event{Type: string(ev.Kind), Data: GripEvent{Hand: e, Event: ev}})
		}
	})
}
