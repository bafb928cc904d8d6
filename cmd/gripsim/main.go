package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/milk9111/gripposer/config"
	"github.com/milk9111/gripposer/ecs/system"
	"github.com/milk9111/gripposer/grip"
	"github.com/milk9111/gripposer/scene"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	flag.StringVar(&cfg.Scene, "scene", cfg.Scene, "scene prefab to run")
	flag.StringVar(&cfg.Rig, "rig", cfg.Rig, "rig prefab for hands that do not name one")
	flag.StringVar(&cfg.Physics, "physics", cfg.Physics, "spatial backend: volume or planar (default from scene)")
	flag.IntVar(&cfg.TPS, "tps", cfg.TPS, "simulation ticks per second")
	flag.IntVar(&cfg.Frames, "frames", cfg.Frames, "frames to simulate")
	quiet := flag.Bool("q", false, "only print the final pose")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	sim, err := scene.Load(cfg.Scene, scene.Options{TPS: cfg.TPS, Physics: cfg.Physics, Rig: cfg.Rig})
	if err != nil {
		log.Fatal(err)
	}
	if *quiet {
		log.SetOutput(nopWriter{})
	}

	completed := 0
	for frame := 1; frame <= cfg.Frames; frame++ {
		for _, ev := range sim.Step() {
			ge, ok := ev.Data.(system.GripEvent)
			if !ok || ge.Event.Kind != grip.EventCycleCompleted {
				continue
			}
			completed++
			if !*quiet {
				fmt.Printf("frame %d: hand %s gripped %q (cycle %d)\n", frame, ge.Hand, ge.Event.Object, ge.Event.Cycle)
			}
		}
	}

	fmt.Printf("%s: %d frames at %d tps, %d grip cycles\n", sim.Name, cfg.Frames, cfg.TPS, completed)
	for i := range sim.Hands {
		hand, ok := sim.Hand(i)
		if !ok || hand.Rig == nil {
			continue
		}
		fmt.Printf("\nhand %s destination pose (%s):\n", sim.Hands[i], hand.Rig.State())
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "bone\tw\tx\ty\tz")
		for _, b := range hand.Destination.Bones() {
			if b.Parent() == nil {
				continue
			}
			q := b.LocalRotation()
			fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n", b.Name(), q.W, q.V.X(), q.V.Y(), q.V.Z())
		}
		_ = tw.Flush()
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
