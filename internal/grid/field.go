package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Field is a square N x N lattice of float64 values stored row-major.
// Indexing wraps periodically in both axes.
type Field struct {
	N    int
	Data []float64
}

func NewField(n int) *Field {
	return &Field{N: n, Data: make([]float64, n*n)}
}

func (f *Field) At(i, j int) float64 {
	return f.Data[i*f.N+j]
}

func (f *Field) Set(i, j int, v float64) {
	f.Data[i*f.N+j] = v
}

func (f *Field) Clone() *Field {
	c := NewField(f.N)
	copy(c.Data, f.Data)
	return c
}

func (f *Field) Sum() float64 {
	return floats.Sum(f.Data)
}

func (f *Field) Mean() float64 {
	if len(f.Data) == 0 {
		return 0
	}
	return floats.Sum(f.Data) / float64(len(f.Data))
}

func (f *Field) Max() float64 {
	return floats.Max(f.Data)
}

func (f *Field) Min() float64 {
	return floats.Min(f.Data)
}

func (f *Field) MaxAbs() float64 {
	m := 0.0
	for _, v := range f.Data {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// IsFinite reports whether every site holds a finite value.
func (f *Field) IsFinite() bool {
	for _, v := range f.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Shift returns a copy of the field translated by (di, dj) with periodic
// wraparound. Used by tests to check translation invariance of stencils.
func (f *Field) Shift(di, dj int) *Field {
	n := f.N
	out := NewField(n)
	for i := 0; i < n; i++ {
		si := ((i+di)%n + n) % n
		for j := 0; j < n; j++ {
			sj := ((j+dj)%n + n) % n
			out.Data[si*n+sj] = f.Data[i*n+j]
		}
	}
	return out
}
