package config

import (
	"fmt"

	"github.com/san-kum/phasesim/internal/grid"
	"github.com/san-kum/phasesim/internal/seed"
)

// InitialField builds the step-0 field named by the Init option.
func (c *Config) InitialField() (*grid.Field, error) {
	switch c.Init {
	case "", "random":
		return seed.Random(c.N, c.Seed), nil
	case "sinusoidal":
		return seed.Sinusoidal(c.N, c.InitAmp), nil
	case "constant":
		return seed.Constant(c.N, c.InitAmp), nil
	case "checkerboard":
		return seed.Checkerboard(c.N), nil
	case "droplet":
		radius := c.InitRadius
		if radius == 0 {
			radius = float64(c.N) / 6
		}
		w := c.Delta
		if w <= 0 {
			w = 1
		}
		return seed.Droplet(c.N, radius, w), nil
	default:
		return nil, fmt.Errorf("config: unknown initial condition %q", c.Init)
	}
}
