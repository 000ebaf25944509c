package chsim

import "fmt"

// Params configures a simulation run. Immutable after construction of the
// Integrator.
type Params struct {
	N         int     // grid size (N x N)
	H         float64 // grid spacing
	A         float64 // double-well barrier height
	K         float64 // gradient energy coefficient
	M         float64 // mobility
	Dt        float64 // time step
	Steps     int     // total step count
	SaveEvery int     // snapshot cadence in steps

	// CheckFinite enables a post-step scan for NaN/Inf so runs fail fast
	// with ErrDiverged instead of persisting garbage snapshots.
	CheckFinite bool
}

func (p Params) Validate() error {
	if p.N < 1 {
		return fmt.Errorf("%w: grid size must be at least 1, got %d", ErrInvalidParams, p.N)
	}
	if p.H <= 0 {
		return fmt.Errorf("%w: spacing must be positive, got %g", ErrInvalidParams, p.H)
	}
	if p.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidParams, p.Dt)
	}
	if p.Steps < 0 {
		return fmt.Errorf("%w: step count must be non-negative, got %d", ErrInvalidParams, p.Steps)
	}
	if p.SaveEvery < 1 {
		return fmt.Errorf("%w: save interval must be at least 1, got %d", ErrInvalidParams, p.SaveEvery)
	}
	if p.M < 0 {
		return fmt.Errorf("%w: mobility must be non-negative, got %g", ErrInvalidParams, p.M)
	}
	return nil
}

// StabilityNumber returns M*Dt/h^4, the quantity that governs stability of
// the explicit scheme. The integrator does not enforce a threshold; callers
// can use this to warn before a run.
func (p Params) StabilityNumber() float64 {
	h2 := p.H * p.H
	return p.M * p.Dt / (h2 * h2)
}
