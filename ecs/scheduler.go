package ecs

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// Scheduler runs systems in insertion order.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, sys := range systems {
		s.Add(sys)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if s == nil || system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(w *World) {
	if s == nil || w == nil {
		return
	}
	for _, system := range s.systems {
		system.Update(w)
	}
}

func (s *Scheduler) Systems() []System {
	if s == nil {
		return nil
	}
	return append([]System(nil), s.systems...)
}
