package component

import (
	"github.com/milk9111/gripposer/grip"
	"github.com/milk9111/gripposer/skeleton"
)

// Hand holds a grip rig and the skeletons it drives. Source is posed and
// sensed, Gripped is the read-only target, Destination receives each
// captured pose.
type Hand struct {
	Rig         *grip.Hand
	Source      *skeleton.Skeleton
	Gripped     *skeleton.Skeleton
	Destination *skeleton.Skeleton
	Root        *skeleton.Bone

	// Events buffers what the rig reported during the current tick.
	Events []grip.Event
}

var HandComponent = NewComponent[Hand]("hand")

// Record is the rig's observer.
func (h *Hand) Record(ev grip.Event) {
	if h == nil {
		return
	}
	h.Events = append(h.Events, ev)
}

// DrainEvents returns and clears the buffered events.
func (h *Hand) DrainEvents() []grip.Event {
	if h == nil || len(h.Events) == 0 {
		return nil
	}
	out := h.Events
	h.Events = nil
	return out
}
