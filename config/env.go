package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

var ErrInvalid = errors.New("config: invalid")

const (
	PhysicsVolume = "volume"
	PhysicsPlanar = "planar"
)

// Runtime holds the options read from the environment. Command-line flags
// override them.
type Runtime struct {
	Rig     string `env:"GRIPPOSER_RIG" envDefault:"rig.yaml"`
	Scene   string `env:"GRIPPOSER_SCENE" envDefault:"scene.yaml"`
	TPS     int    `env:"GRIPPOSER_TPS" envDefault:"60"`
	Frames  int    `env:"GRIPPOSER_FRAMES" envDefault:"600"`
	Physics string `env:"GRIPPOSER_PHYSICS"`
	Debug   bool   `env:"GRIPPOSER_DEBUG" envDefault:"false"`
	Watch   bool   `env:"GRIPPOSER_WATCH" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the runtime options.
func Load() (Runtime, error) {
	var cfg Runtime
	if err := ParseEnv(&cfg); err != nil {
		return Runtime{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Runtime{}, err
	}
	return cfg, nil
}

// Validate checks option ranges. An empty Physics defers to the scene.
func (c Runtime) Validate() error {
	if c.TPS <= 0 {
		return fmt.Errorf("%w: tps %d", ErrInvalid, c.TPS)
	}
	if c.Frames < 0 {
		return fmt.Errorf("%w: frames %d", ErrInvalid, c.Frames)
	}
	switch c.Physics {
	case "", PhysicsVolume, PhysicsPlanar:
	default:
		return fmt.Errorf("%w: physics %q", ErrInvalid, c.Physics)
	}
	if c.Scene == "" {
		return fmt.Errorf("%w: empty scene", ErrInvalid)
	}
	return nil
}
