package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/gripposer/config"
	"github.com/milk9111/gripposer/ecs"
	"github.com/milk9111/gripposer/ecs/component"
	"github.com/milk9111/gripposer/ecs/system"
	"github.com/milk9111/gripposer/grip"
	"github.com/milk9111/gripposer/physics"
	"github.com/milk9111/gripposer/prefabs"
	"github.com/milk9111/gripposer/skeleton"
)

var ErrUnknownComponent = errors.New("scene: unknown component")

// Options tune how a scene is assembled. Zero values defer to the scene
// prefab.
type Options struct {
	TPS     int
	Physics string
	// Rig is used by hands that do not name their own rig.
	Rig    string
	Loader system.ScriptLoader
}

// Simulation is a scene ready to step: world, systems and spatial backend.
type Simulation struct {
	Name      string
	World     *ecs.World
	Clock     *ecs.Clock
	Scheduler *ecs.Scheduler
	Backend   system.SpatialBackend
	// Planar is set when the backend is the Chipmunk projection.
	Planar *physics.Planar
	Hands  []ecs.Entity
}

// Load builds a simulation from a scene prefab.
func Load(filename string, opts Options) (*Simulation, error) {
	spec, err := prefabs.LoadSceneSpec(filename)
	if err != nil {
		return nil, err
	}
	return Build(spec, opts)
}

func Build(spec prefabs.SceneSpec, opts Options) (*Simulation, error) {
	kind := spec.Physics
	if opts.Physics != "" {
		kind = opts.Physics
	}

	sim := &Simulation{
		Name:  spec.Name,
		World: ecs.NewWorld(),
		Clock: ecs.NewClock(opts.TPS),
	}
	switch kind {
	case "", config.PhysicsVolume:
		sim.Backend = physics.NewVolume()
	case config.PhysicsPlanar:
		sim.Planar = physics.NewPlanar()
		sim.Backend = sim.Planar
	default:
		return nil, fmt.Errorf("scene: unknown physics backend %q", kind)
	}

	for _, es := range spec.Entities {
		if err := sim.addEntity(es, opts); err != nil {
			return nil, fmt.Errorf("scene: entity %q: %w", es.Name, err)
		}
	}

	sim.Scheduler = ecs.NewScheduler(
		system.NewScriptMotionSystem(sim.Clock, opts.Loader),
		system.NewHandFollowSystem(),
		system.NewPhysicsSyncSystem(sim.Backend),
		system.NewGripSystem(sim.Clock),
	)
	return sim, nil
}

func (s *Simulation) addEntity(es prefabs.EntityBuildSpec, opts Options) error {
	keys := make([]string, 0, len(es.Components))
	for k := range es.Components {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !component.Registered(k) {
			return fmt.Errorf("%w: %q (known: %v)", ErrUnknownComponent, k, component.Keys())
		}
	}

	w := s.World
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: es.Name}); err != nil {
		return err
	}

	ts, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](es.Components["transform"])
	if err != nil {
		return fmt.Errorf("transform: %w", err)
	}
	transform := buildTransform(ts)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), transform); err != nil {
		return err
	}

	if raw, ok := es.Components["graspable"]; ok {
		gs, err := prefabs.DecodeComponentSpec[prefabs.GraspableComponentSpec](raw)
		if err != nil {
			return fmt.Errorf("graspable: %w", err)
		}
		shapeKind, err := physics.ParseShape(gs.Shape)
		if err != nil {
			return err
		}
		g := &component.Graspable{Shape: physics.Shape{Kind: shapeKind, Radius: gs.Radius, HalfExtents: mgl64.Vec3(gs.HalfExtents)}}
		if err := ecs.Add(w, e, component.GraspableComponent.Kind(), g); err != nil {
			return err
		}
	}

	if raw, ok := es.Components["script"]; ok {
		ss, err := prefabs.DecodeComponentSpec[prefabs.ScriptComponentSpec](raw)
		if err != nil {
			return fmt.Errorf("script: %w", err)
		}
		if err := ecs.Add(w, e, component.ScriptComponent.Kind(), component.NewScript(ss.Path, transform)); err != nil {
			return err
		}
	}

	if raw, ok := es.Components["hand"]; ok {
		hs, err := prefabs.DecodeComponentSpec[prefabs.HandComponentSpec](raw)
		if err != nil {
			return fmt.Errorf("hand: %w", err)
		}
		rigName := hs.Rig
		if rigName == "" {
			rigName = opts.Rig
		}
		if err := s.addHand(e, rigName, transform); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulation) addHand(e ecs.Entity, rigName string, transform *component.Transform) error {
	rig, err := prefabs.LoadRig(rigName)
	if err != nil {
		return err
	}
	hand := &component.Hand{
		Source:      rig.Source,
		Gripped:     rig.Gripped,
		Destination: rig.Destination,
		Root:        rig.Root(),
	}
	// Place the rig before the first tick; HandFollowSystem owns it after.
	hand.Root.SetLocalPosition(transform.Position)
	hand.Root.SetLocalRotation(transform.Rotation)

	cfg := rig.Config
	cfg.Observer = hand.Record
	hand.Rig, err = grip.NewHand(cfg, s.Backend)
	if err != nil {
		return err
	}
	if err := ecs.Add(s.World, e, component.HandComponent.Kind(), hand); err != nil {
		return err
	}
	if err := ecs.Add(s.World, e, component.HandTagComponent.Kind(), &component.HandTag{}); err != nil {
		return err
	}
	s.Hands = append(s.Hands, e)
	return nil
}

func buildTransform(ts prefabs.TransformComponentSpec) *component.Transform {
	t := component.NewTransform(mgl64.Vec3(ts.Position))
	t.Rotation = skeleton.EulerDegrees(ts.Rotation[0], ts.Rotation[1], ts.Rotation[2])
	if ts.Scale != nil {
		t.Scale = mgl64.Vec3(*ts.Scale)
	}
	return t
}

// Step advances one frame and returns the events it produced.
func (s *Simulation) Step() []ecs.Event {
	if s == nil {
		return nil
	}
	s.Clock.Tick()
	s.Scheduler.Update(s.World)
	return s.World.Events().Drain()
}

// Hand returns the hand component of the i-th hand entity.
func (s *Simulation) Hand(i int) (*component.Hand, bool) {
	if s == nil || i < 0 || i >= len(s.Hands) {
		return nil, false
	}
	return ecs.Get(s.World, s.Hands[i], component.HandComponent.Kind())
}
