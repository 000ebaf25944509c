package chsim

import "github.com/san-kum/phasesim/internal/grid"

// Snapshot carries the state handed to external collaborators at configured
// intervals and at termination. The field and series are copies; sinks may
// keep them.
type Snapshot struct {
	Step           int
	Time           float64
	Field          *grid.Field
	VolumeFraction []float64
	InterfaceSites []float64
}

// Sink receives snapshots during a run. Persistence and visualization live
// behind this interface; the integrator has no file or image dependency.
type Sink interface {
	Emit(s Snapshot) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(s Snapshot) error

func (f SinkFunc) Emit(s Snapshot) error { return f(s) }
