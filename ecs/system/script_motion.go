package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/gripposer/ecs"
	"github.com/milk9111/gripposer/ecs/component"
	"github.com/milk9111/gripposer/prefabs"
	"github.com/milk9111/gripposer/skeleton"
)

// ScriptLoader resolves a script path to its source.
type ScriptLoader func(path string) ([]byte, error)

const motionDispatchScript = `
__result = update(__state, __time)
`

type motionRuntime struct {
	path     string
	compiled *tengo.Compiled
	state    *tengo.Map
	failed   bool
}

// ScriptMotionSystem moves entities along tengo motion scripts. A script
// defines update(state, t) returning a map of offsets from the entity's
// origin: x, y, z, rx, ry, rz (degrees) and scale.
type ScriptMotionSystem struct {
	clock    *ecs.Clock
	load     ScriptLoader
	runtimes map[ecs.Entity]*motionRuntime
}

func NewScriptMotionSystem(clock *ecs.Clock, load ScriptLoader) *ScriptMotionSystem {
	if load == nil {
		load = prefabs.LoadScript
	}
	return &ScriptMotionSystem{clock: clock, load: load, runtimes: map[ecs.Entity]*motionRuntime{}}
}

// Reset drops compiled scripts so the next update reloads them.
func (s *ScriptMotionSystem) Reset() {
	if s == nil {
		return
	}
	s.runtimes = map[ecs.Entity]*motionRuntime{}
}

func (s *ScriptMotionSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := s.clock.Delta()

	ecs.ForEach2(w, component.ScriptComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, script *component.Script, transform *component.Transform) {
		rt := s.runtime(e, script.Path)
		if rt.failed {
			return
		}

		script.Time += dt
		result, err := rt.run(script.Time)
		if err != nil {
			rt.failed = true
			fmt.Printf("script: entity=%s update error: %v\n", e, err)
			return
		}
		applyMotion(transform, &script.Origin, result)
	})
}

// runtime returns the entity's compiled script. Load and compile errors are
// reported once and leave the runtime failed.
func (s *ScriptMotionSystem) runtime(e ecs.Entity, path string) *motionRuntime {
	if rt, ok := s.runtimes[e]; ok && rt.path == path {
		return rt
	}
	rt, err := s.compile(path)
	if err != nil {
		fmt.Printf("script: entity=%s load %s error: %v\n", e, path, err)
		rt = &motionRuntime{path: path, failed: true}
	}
	s.runtimes[e] = rt
	return rt
}

func (s *ScriptMotionSystem) compile(path string) (*motionRuntime, error) {
	src, err := s.load(path)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript(append(append([]byte{}, src...), []byte("\n"+motionDispatchScript)...))
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__time", 0.0)
	_ = script.Add("__result", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	return &motionRuntime{
		path:     path,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

func (rt *motionRuntime) run(t float64) (map[string]any, error) {
	if err := rt.compiled.Set("__state", rt.state); err != nil {
		return nil, err
	}
	if err := rt.compiled.Set("__time", t); err != nil {
		return nil, err
	}
	if err := rt.compiled.Run(); err != nil {
		return nil, err
	}
	return rt.compiled.Get("__result").Map(), nil
}

func applyMotion(t, origin *component.Transform, result map[string]any) {
	if t == nil || origin == nil {
		return
	}
	offset := mgl64.Vec3{number(result, "x", 0), number(result, "y", 0), number(result, "z", 0)}
	t.Position = origin.Position.Add(offset)

	spin := skeleton.EulerDegrees(number(result, "rx", 0), number(result, "ry", 0), number(result, "rz", 0))
	t.Rotation = origin.Rotation.Mul(spin)
	t.Scale = origin.Scale.Mul(number(result, "scale", 1))
}

func number(m map[string]any, key string, fallback float64) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return fallback
	}
}
