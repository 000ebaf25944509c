package metrics

import "github.com/san-kum/phasesim/internal/grid"

// Amplitude records the largest absolute field value seen over a run, a
// blow-up monitor for the stability-constrained explicit scheme.
type Amplitude struct {
	max     float64
	samples int
}

func NewAmplitude() *Amplitude {
	return &Amplitude{}
}

func (a *Amplitude) Name() string { return "max_abs_phi" }

func (a *Amplitude) Observe(f *grid.Field, step int, t float64) {
	a.samples++
	if m := f.MaxAbs(); m > a.max {
		a.max = m
	}
}

func (a *Amplitude) Value() float64 { return a.max }

func (a *Amplitude) Reset() {
	a.max = 0
	a.samples = 0
}
