package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/gripposer/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	flag.StringVar(&cfg.Scene, "scene", cfg.Scene, "scene prefab to load")
	flag.StringVar(&cfg.Rig, "rig", cfg.Rig, "rig prefab for hands that do not name one")
	flag.StringVar(&cfg.Physics, "physics", cfg.Physics, "spatial backend: volume or planar (default from scene)")
	flag.IntVar(&cfg.TPS, "tps", cfg.TPS, "simulation ticks per second")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "draw the physics space and grip state")
	flag.BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload prefabs when they change on disk")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	game, err := NewGame(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("gripposer")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
