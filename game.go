package main

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/gripposer/config"
	"github.com/milk9111/gripposer/ecs/render"
	"github.com/milk9111/gripposer/grip"
	"github.com/milk9111/gripposer/prefabs"
	"github.com/milk9111/gripposer/scene"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Game struct {
	cfg     config.Runtime
	sim     *scene.Simulation
	overlay *render.Overlay
	watcher *prefabs.Watcher
	paused  bool
	cycles  int
}

func NewGame(cfg config.Runtime) (*Game, error) {
	g := &Game{cfg: cfg, overlay: render.NewOverlay(baseWidth, baseHeight)}
	if err := g.load(); err != nil {
		return nil, err
	}
	if cfg.Watch {
		w, err := prefabs.WatchPrefabs()
		if err != nil {
			log.Printf("prefab watcher disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) load() error {
	sim, err := scene.Load(g.cfg.Scene, scene.Options{TPS: g.cfg.TPS, Physics: g.cfg.Physics, Rig: g.cfg.Rig})
	if err != nil {
		return err
	}
	g.sim = sim
	return nil
}

// reload swaps in a freshly built scene, keeping the old one on failure.
func (g *Game) reload(reason string) {
	if err := g.load(); err != nil {
		log.Printf("reload (%s) failed: %v", reason, err)
		return
	}
	log.Printf("reloaded scene %s (%s)", g.cfg.Scene, reason)
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	if changed := g.watcher.Poll(); len(changed) > 0 {
		g.reload(changed[len(changed)-1])
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reload("key")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.cfg.Debug = !g.cfg.Debug
	}
	if g.paused && !inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		return nil
	}

	for _, ev := range g.sim.Step() {
		if ev.Type == string(grip.EventCycleCompleted) {
			g.cycles++
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, fmt.Sprintf("scene: %s  frame: %d  FPS: %.2f  grips: %d  [P]ause [.]step [R]eload [F1]debug",
		g.sim.Name, g.sim.Clock.Frame(), ebiten.ActualFPS(), g.cycles))

	g.overlay.Debug = g.cfg.Debug
	g.overlay.Draw(screen, g.sim.World, g.sim.Backend)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
