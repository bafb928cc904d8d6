package grip

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewHandValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{"valid", func(c *Config) {}, nil},
		{"zero_radius", func(c *Config) { c.CaptureRadius = 0 }, ErrInvalidConfig},
		{"zero_duration", func(c *Config) { c.BlendDuration = 0 }, ErrInvalidConfig},
		{"nil_anchor", func(c *Config) { c.Anchor = nil }, ErrNilBone},
		{"no_fingers", func(c *Config) { c.Fingers = FingerBones{} }, ErrInvalidConfig},
		{"short_secondary", func(c *Config) { c.Fingers.Secondary = c.Fingers.Secondary[:1] }, ErrMismatchedGroups},
		{"short_fingertips", func(c *Config) { c.Fingers.Fingertips = c.Fingers.Fingertips[:1] }, ErrMismatchedGroups},
		{"short_targets", func(c *Config) { c.Targets.Tip = c.Targets.Tip[:1] }, ErrMismatchedGroups},
		{"short_destination", func(c *Config) { c.Destination = c.Destination[:5] }, ErrDestinationTooShort},
		{"nil_tip", func(c *Config) { c.Fingers.Tip[1] = nil }, ErrNilBone},
		{"nil_destination", func(c *Config) { c.Destination[0] = nil }, ErrNilBone},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := newTestRig(2, 0).config(0.1, 0.2, nil)
			c.mutate(&cfg)
			h, err := NewHand(cfg, nil)
			if c.want == nil {
				if err != nil || h == nil {
					t.Fatalf("expected valid hand, got %v", err)
				}
				return
			}
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

// runCycle ticks until the hand returns to idle or the limit is reached.
func runCycle(t *testing.T, h *Hand, dt float64, limit int) int {
	t.Helper()
	for i := 1; i <= limit; i++ {
		h.Tick(dt)
		if h.State() == Idle {
			return i
		}
	}
	t.Fatalf("grip cycle did not finish in %d ticks", limit)
	return limit
}

func TestGripCycleRestoresRestPose(t *testing.T) {
	for _, fingers := range []int{1, 3, 5} {
		rig := newTestRig(fingers, 0)
		// Give the rest pose something other than identity to restore.
		for i, b := range rig.secondary {
			b.rot = mgl64.QuatRotate(mgl64.DegToRad(float64(5*i)), mgl64.Vec3{0, 1, 0})
		}
		world := &testWorld{}
		obj := world.add("ball", mgl64.Vec3{0, 0.05, 0}, 0.01)

		h, err := NewHand(rig.config(0.1, 1, nil), world)
		if err != nil {
			t.Fatalf("NewHand: %v", err)
		}
		rest := h.Skeleton().Capture()

		h.Tick(0.25)
		if h.State() != Gripping {
			t.Fatalf("expected a grip cycle to start")
		}
		// Contact mid-cycle must not leak past the cycle.
		obj.center = mgl64.Vec3{0.11, 0, 0}
		runCycle(t, h, 0.25, 100)

		if h.Cycles() != 1 {
			t.Fatalf("expected 1 cycle, got %d", h.Cycles())
		}
		got := h.Skeleton().Capture()
		for i := range rest {
			if got[i] != rest[i] {
				t.Fatalf("fingers=%d joint %d: expected rest %v, got %v", fingers, i, rest[i], got[i])
			}
		}
		for _, seg := range []Segment{SegmentBase, SegmentSecondary, SegmentTip} {
			for i, j := range h.Skeleton().Group(seg).Joints {
				if j.Interacting {
					t.Fatalf("fingers=%d %s[%d] still flagged", fingers, seg, i)
				}
			}
		}
	}
}

func TestGripCycleMapsPoseToDestination(t *testing.T) {
	const fingers = 3
	rig := newTestRig(fingers, 2)
	sentinel := mgl64.QuatRotate(1, mgl64.Vec3{1, 0, 0})
	rig.destination[3*fingers].rot = sentinel

	world := &testWorld{}
	world.add("ball", mgl64.Vec3{0, 0.05, 0}, 0.01)
	log := &eventLog{}
	h, err := NewHand(rig.config(0.1, 1, log.record), world)
	if err != nil {
		t.Fatalf("NewHand: %v", err)
	}

	h.Tick(0.25)
	runCycle(t, h, 0.25, 100)

	pose := h.LastCapture()
	if len(pose) != 3*fingers {
		t.Fatalf("expected %d captured rotations, got %d", 3*fingers, len(pose))
	}
	for seg := 0; seg < 3; seg++ {
		for i := 0; i < fingers; i++ {
			idx := seg*fingers + i
			want := rig.targets[seg][i].rot
			if pose[idx] != want {
				t.Fatalf("pose[%d]: expected target %v, got %v", idx, want, pose[idx])
			}
			if rig.destination[idx].rot != pose[idx] {
				t.Fatalf("destination[%d]: expected %v, got %v", idx, pose[idx], rig.destination[idx].rot)
			}
		}
	}
	if rig.destination[3*fingers].rot != sentinel {
		t.Fatalf("extra destination bone should be untouched")
	}

	completed := log.events[len(log.events)-1]
	if completed.Kind != EventCycleCompleted || completed.Object != "ball" || len(completed.Pose) != 3*fingers {
		t.Fatalf("unexpected completion event %+v", completed)
	}
}

func TestGripPhasesRunInOrder(t *testing.T) {
	rig := newTestRig(2, 0)
	world := &testWorld{}
	world.add("ball", mgl64.Vec3{0, 0.05, 0}, 0.01)

	var tick int
	type mark struct {
		phase Segment
		tick  int
	}
	var done []mark
	obs := func(ev Event) {
		if ev.Kind == EventPhaseCompleted {
			done = append(done, mark{ev.Phase, tick})
		}
	}
	h, err := NewHand(rig.config(0.1, 1, obs), world)
	if err != nil {
		t.Fatalf("NewHand: %v", err)
	}

	tick = 1
	h.Tick(0.25)
	if h.State() != Gripping || h.Progress() != 0 {
		t.Fatalf("start tick should add no blend time, state=%s progress=%v", h.State(), h.Progress())
	}
	for tick = 2; tick <= 13; tick++ {
		phase, _ := h.Phase()
		h.Tick(0.25)
		if phase == SegmentBase {
			for i, b := range rig.secondary {
				if b.rot != mgl64.QuatIdent() {
					t.Fatalf("tick %d: secondary[%d] moved during base phase", tick, i)
				}
			}
		}
	}

	want := []mark{{SegmentBase, 5}, {SegmentSecondary, 9}, {SegmentTip, 13}}
	if len(done) != len(want) {
		t.Fatalf("expected %d phase completions, got %v", len(want), done)
	}
	for i := range want {
		if done[i] != want[i] {
			t.Fatalf("phase completion %d: expected %v, got %v", i, want[i], done[i])
		}
	}
	if h.State() != Idle {
		t.Fatalf("expected idle after tip phase")
	}
}

func TestInteractingJointIsFrozen(t *testing.T) {
	rig := newTestRig(2, 0)
	world := &testWorld{}
	world.add("ball", mgl64.Vec3{0, 0.05, 0}, 0.01)
	h, err := NewHand(rig.config(0.1, 1, nil), world)
	if err != nil {
		t.Fatalf("NewHand: %v", err)
	}

	h.Tick(0.25)
	h.Tick(0.25)
	frozen := rig.base[0].rot
	if frozen == mgl64.QuatIdent() {
		t.Fatalf("base[0] should have started blending")
	}

	// Contact sensed mid-phase freezes the joint from the next tick on.
	h.Skeleton().Base.Mark(0)
	for i := 0; i < 2; i++ {
		before := rig.base[1].rot
		h.Tick(0.25)
		if rig.base[0].rot != frozen {
			t.Fatalf("frozen joint moved: %v -> %v", frozen, rig.base[0].rot)
		}
		if rig.base[1].rot == before {
			t.Fatalf("free joint should keep blending")
		}
	}

	pose := h.Skeleton().Capture()
	if pose[0] != frozen {
		t.Fatalf("frozen joint should hold its rotation, got %v", pose[0])
	}
}

func TestSecondTriggerWhileGrippingIsIgnored(t *testing.T) {
	rig := newTestRig(2, 0)
	world := &testWorld{}
	obj := world.add("ball", mgl64.Vec3{0, 0.05, 0}, 0.01)
	log := &eventLog{}
	h, err := NewHand(rig.config(0.1, 1, log.record), world)
	if err != nil {
		t.Fatalf("NewHand: %v", err)
	}

	for i := 0; i < 13; i++ {
		obj.center = obj.center.Add(mgl64.Vec3{0.0001, 0, 0})
		h.Tick(0.25)
	}
	if got := log.count(EventCycleStarted); got != 1 {
		t.Fatalf("expected exactly one cycle start while gripping, got %d", got)
	}
	if h.Cycles() != 1 || h.State() != Idle {
		t.Fatalf("expected the single cycle to complete, cycles=%d state=%s", h.Cycles(), h.State())
	}

	// Still moving, so the next tick starts the next cycle.
	obj.center = obj.center.Add(mgl64.Vec3{0.0001, 0, 0})
	h.Tick(0.25)
	if got := log.count(EventCycleStarted); got != 2 || h.State() != Gripping {
		t.Fatalf("expected a second cycle after the first, starts=%d", got)
	}
}

func TestStationaryObjectDoesNotRetrigger(t *testing.T) {
	rig := newTestRig(2, 0)
	world := &testWorld{}
	// Large enough to stay in range after moving a full unit.
	obj := world.add("crate", mgl64.Vec3{0, 1.5, 0}, 2)
	log := &eventLog{}
	h, err := NewHand(rig.config(0.1, 0.2, log.record), world)
	if err != nil {
		t.Fatalf("NewHand: %v", err)
	}

	const dt = 1.0 / 60
	h.Tick(dt)
	runCycle(t, h, dt, 1000)
	if got := log.count(EventCycleStarted); got != 1 {
		t.Fatalf("expected the first sighting to grip once, got %d", got)
	}

	for i := 0; i < 10; i++ {
		h.Tick(dt)
		if h.State() != Idle {
			t.Fatalf("frame %d: stationary object started a grip", i)
		}
	}
	if got := log.count(EventCycleStarted); got != 1 {
		t.Fatalf("expected no new cycles, got %d starts", got)
	}

	obj.center = obj.center.Add(mgl64.Vec3{1, 0, 0})
	h.Tick(dt)
	if got := log.count(EventCycleStarted); got != 2 {
		t.Fatalf("expected one new cycle after motion, got %d starts total", got)
	}
	h.Tick(dt)
	if got := log.count(EventCycleStarted); got != 2 {
		t.Fatalf("expected no further cycles, got %d starts", got)
	}
}

func TestLeavingAndReturningToStationaryObject(t *testing.T) {
	rig := newTestRig(2, 0)
	world := &testWorld{}
	world.add("cup", mgl64.Vec3{0, -0.3, 0}, 0.25)
	log := &eventLog{}
	h, err := NewHand(rig.config(0.1, 0.2, log.record), world)
	if err != nil {
		t.Fatalf("NewHand: %v", err)
	}

	const dt = 1.0 / 60
	h.Tick(dt)
	runCycle(t, h, dt, 1000)

	rig.anchor.setPosition(mgl64.Vec3{5, 0, 0})
	h.Tick(dt)
	if _, ok := h.Current(); ok {
		t.Fatalf("hand away from the cup should hold no current object")
	}
	if snap, ok := h.Tracked(); !ok || snap.ID != "cup" {
		t.Fatalf("snapshot should survive leaving the radius, got %v ok=%v", snap, ok)
	}

	rig.anchor.setPosition(mgl64.Vec3{})
	for i := 0; i < 5; i++ {
		h.Tick(dt)
	}
	if got := log.count(EventCycleStarted); got != 1 {
		t.Fatalf("returning to an unmoved object should not grip again, got %d starts", got)
	}
	if body, ok := h.Current(); !ok || body.ID() != "cup" {
		t.Fatalf("expected cup back in range, got %v ok=%v", body, ok)
	}
}

func TestHandWithoutWorldStaysIdle(t *testing.T) {
	rig := newTestRig(2, 0)
	h, err := NewHand(rig.config(0.1, 0.2, nil), nil)
	if err != nil {
		t.Fatalf("NewHand: %v", err)
	}
	for i := 0; i < 10; i++ {
		h.Tick(0.1)
	}
	if h.State() != Idle || h.Cycles() != 0 || h.Ticks() != 10 {
		t.Fatalf("expected idle hand, state=%s cycles=%d", h.State(), h.Cycles())
	}

	world := &testWorld{}
	world.add("ball", mgl64.Vec3{0, 0.05, 0}, 0.01)
	h.SetQuery(world)
	h.Tick(0.1)
	if h.State() != Gripping {
		t.Fatalf("expected grip after attaching a world")
	}

	var nilHand *Hand
	nilHand.Tick(0.1)
	if nilHand.State() != Idle {
		t.Fatalf("nil hand should read as idle")
	}
}
