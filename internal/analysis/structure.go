// Package analysis provides spectral characterization of phase-field
// states: the radially averaged structure factor and the characteristic
// domain length derived from it, the standard way to track coarsening.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/phasesim/internal/grid"
)

// StructureFactor computes the radially averaged structure factor
// S(k) = <|phihat(k)|^2> of the mean-subtracted field, binned by integer
// wavenumber magnitude. Bin 0 is always zero after mean subtraction; the
// returned slice has n/2 bins.
func StructureFactor(f *grid.Field) []float64 {
	n := f.N
	mean := f.Mean()

	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			rows[i][j] = f.At(i, j) - mean
		}
	}

	spectrum := fft.FFT2Real(rows)

	bins := n / 2
	if bins < 1 {
		bins = 1
	}
	power := make([]float64, bins)
	counts := make([]int, bins)

	for i := 0; i < n; i++ {
		ki := i
		if ki > n/2 {
			ki -= n
		}
		for j := 0; j < n; j++ {
			kj := j
			if kj > n/2 {
				kj -= n
			}
			k := int(math.Round(math.Sqrt(float64(ki*ki + kj*kj))))
			if k >= bins {
				continue
			}
			mag := cmplx.Abs(spectrum[i][j])
			power[k] += mag * mag
			counts[k]++
		}
	}

	for k := range power {
		if counts[k] > 0 {
			power[k] /= float64(counts[k])
		}
	}
	return power
}

// CharacteristicLength estimates the domain size as 2*pi/<k>, where <k> is
// the S(k)-weighted mean wavenumber in physical units (spacing h). Returns
// zero when the spectrum carries no power.
func CharacteristicLength(f *grid.Field, h float64) float64 {
	s := StructureFactor(f)
	n := f.N

	var num, den float64
	for k := 1; k < len(s); k++ {
		kPhys := 2 * math.Pi * float64(k) / (float64(n) * h)
		num += kPhys * s[k]
		den += s[k]
	}
	if den == 0 || num == 0 {
		return 0
	}
	return 2 * math.Pi / (num / den)
}
