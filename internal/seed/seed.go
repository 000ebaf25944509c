// Package seed supplies initial order-parameter fields. The integrator
// never generates its own initial condition; runs stay reproducible because
// every supplier is deterministic in its arguments.
package seed

import (
	"math"
	"math/rand"

	"github.com/san-kum/phasesim/internal/grid"
)

// Random fills the field with 0.5 - U(0,1) per site, a noisy state centered
// at zero that phase-separates under the double-well dynamics.
func Random(n int, seedVal int64) *grid.Field {
	rng := rand.New(rand.NewSource(seedVal))
	f := grid.NewField(n)
	for i := range f.Data {
		f.Data[i] = 0.5 - rng.Float64()
	}
	return f
}

// Constant fills every site with v.
func Constant(n int, v float64) *grid.Field {
	f := grid.NewField(n)
	for i := range f.Data {
		f.Data[i] = v
	}
	return f
}

// Sinusoidal produces a smooth single-mode field amp*sin(2*pi*i/n)*sin(2*pi*j/n),
// useful for stability checks where the initial spectrum must be benign.
func Sinusoidal(n int, amp float64) *grid.Field {
	f := grid.NewField(n)
	for i := 0; i < n; i++ {
		si := math.Sin(2 * math.Pi * float64(i) / float64(n))
		for j := 0; j < n; j++ {
			f.Set(i, j, amp*si*math.Sin(2*math.Pi*float64(j)/float64(n)))
		}
	}
	return f
}

// Droplet places a disc of phase 1 with a tanh profile of width w in a
// phase-0 background. The disc is centered on the grid.
func Droplet(n int, radius, w float64) *grid.Field {
	f := grid.NewField(n)
	c := float64(n) / 2
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dx := float64(i) - c
			dy := float64(j) - c
			r := math.Sqrt(dx*dx + dy*dy)
			f.Set(i, j, 0.5*(1-math.Tanh((r-radius)/w)))
		}
	}
	return f
}

// Checkerboard alternates 0 and 1 by site parity. Mostly a test fixture:
// the Laplacian of a checkerboard is +/-4/h^2 everywhere.
func Checkerboard(n int) *grid.Field {
	f := grid.NewField(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if (i+j)%2 == 1 {
				f.Set(i, j, 1)
			}
		}
	}
	return f
}
