package chsim

import (
	"context"

	"github.com/san-kum/phasesim/internal/grid"
)

// Phase classification thresholds for the diagnostic series.
const (
	PhaseUpper = 0.7
	PhaseLower = 0.3
)

// Rows below this count are stepped on a single goroutine.
const minParallelRows = 32

// Metric observes the field after every step, in the manner of run-level
// diagnostics: accumulate in Observe, report in Value.
type Metric interface {
	Name() string
	Observe(f *grid.Field, step int, t float64)
	Value() float64
	Reset()
}

// Integrator advances a conserved scalar order parameter under Cahn-Hilliard
// dynamics with an explicit finite-difference scheme on a periodic grid.
// It owns the field exclusively for the lifetime of the run.
type Integrator struct {
	params Params
	field  *grid.Field
	step   int

	// diagnostic series, one entry per completed step. The volume fraction
	// is normalized by N^2; the interfacial measure is a raw site count.
	volumeFraction []float64
	interfaceSites []float64

	// scratch buffers reused across steps
	mu  *grid.Field
	lap *grid.Field

	metrics []Metric
}

// New constructs a Ready integrator owning init. The initial field must be
// fully populated and of size params.N x params.N; New clones it, so the
// caller's copy stays untouched.
func New(params Params, init *grid.Field) (*Integrator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if init == nil || init.N != params.N {
		return nil, ErrInvalidParams
	}
	return &Integrator{
		params:         params,
		field:          init.Clone(),
		volumeFraction: make([]float64, 0, params.Steps),
		interfaceSites: make([]float64, 0, params.Steps),
		mu:             grid.NewField(params.N),
		lap:            grid.NewField(params.N),
	}, nil
}

func (it *Integrator) AddMetric(m Metric) { it.metrics = append(it.metrics, m) }

func (it *Integrator) Params() Params     { return it.params }
func (it *Integrator) StepCount() int     { return it.step }
func (it *Integrator) Field() *grid.Field { return it.field }
func (it *Integrator) Done() bool         { return it.step >= it.params.Steps }
func (it *Integrator) Time() float64      { return float64(it.step) * it.params.Dt }

// Diagnostics returns the accumulated series. The slices are live; callers
// must not mutate them.
func (it *Integrator) Diagnostics() (volumeFraction, interfaceSites []float64) {
	return it.volumeFraction, it.interfaceSites
}

// Step advances the field by one time step of size Dt:
//
//	mu  = A*(4*phi^3 - 6*phi^2 + 2*phi) - 2*K*lap(phi)
//	phi = phi + Dt*M*lap(mu)
//
// then appends the two diagnostics for the updated field. The mean of phi
// is conserved exactly up to floating-point error because the periodic
// Laplacian sums to zero over the domain.
func (it *Integrator) Step() error {
	p := it.params
	n := p.N
	phi := it.field

	// First stencil pass: Laplacian of phi fused with the chemical
	// potential. Each output cell reads only phi, so rows are independent.
	parallelFor(n, minParallelRows, func(i0, i1 int) {
		grid.LaplacianRows(it.lap, phi, p.H, i0, i1)
		for i := i0; i < i1; i++ {
			row := i * n
			for j := 0; j < n; j++ {
				v := phi.Data[row+j]
				dfdphi := p.A * (4*v*v*v - 6*v*v + 2*v)
				it.mu.Data[row+j] = dfdphi - 2*p.K*it.lap.Data[row+j]
			}
		}
	})

	// Second pass reads the complete chemical potential; the barrier in
	// parallelFor guarantees mu is fully materialized.
	scale := p.Dt * p.M
	parallelFor(n, minParallelRows, func(i0, i1 int) {
		grid.LaplacianRows(it.lap, it.mu, p.H, i0, i1)
		for i := i0; i < i1; i++ {
			row := i * n
			for j := 0; j < n; j++ {
				phi.Data[row+j] += scale * it.lap.Data[row+j]
			}
		}
	})

	above, between := 0, 0
	for _, v := range phi.Data {
		switch {
		case v > PhaseUpper:
			above++
		case v > PhaseLower:
			between++
		}
	}
	it.volumeFraction = append(it.volumeFraction, float64(above)/float64(n*n))
	it.interfaceSites = append(it.interfaceSites, float64(between))

	it.step++

	if p.CheckFinite && !phi.IsFinite() {
		return &StepError{Step: it.step, Time: it.Time(), Wrapped: ErrDiverged}
	}
	return nil
}

// Snapshot copies the current state for external consumers. Callers wanting
// a pre-integration record emit this before the first Step.
func (it *Integrator) Snapshot() Snapshot {
	vf := make([]float64, len(it.volumeFraction))
	copy(vf, it.volumeFraction)
	is := make([]float64, len(it.interfaceSites))
	copy(is, it.interfaceSites)
	return Snapshot{
		Step:           it.step,
		Time:           it.Time(),
		Field:          it.field.Clone(),
		VolumeFraction: vf,
		InterfaceSites: is,
	}
}

// Run executes the remaining steps in strict sequence, emitting a snapshot
// to sink after every step whose 1-based index is a multiple of SaveEvery
// and unconditionally after the final step (emitted once when the two
// coincide). A nil sink discards snapshots. Metrics are reset at the start
// and observe the updated field after every step.
func (it *Integrator) Run(ctx context.Context, sink Sink) error {
	for _, m := range it.metrics {
		m.Reset()
	}

	for !it.Done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		stepErr := it.Step()

		for _, m := range it.metrics {
			m.Observe(it.field, it.step, it.Time())
		}

		if stepErr != nil {
			return stepErr
		}

		if it.step%it.params.SaveEvery == 0 || it.Done() {
			if sink != nil {
				if err := sink.Emit(it.Snapshot()); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// MetricValues reports the current value of every registered metric.
func (it *Integrator) MetricValues() map[string]float64 {
	out := make(map[string]float64, len(it.metrics))
	for _, m := range it.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
