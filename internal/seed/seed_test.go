package seed

import (
	"math"
	"testing"
)

func TestRandomDeterministicPerSeed(t *testing.T) {
	a := Random(16, 42)
	b := Random(16, 42)
	c := Random(16, 43)

	same := true
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("same seed produced different fields at %d", i)
		}
		if a.Data[i] != c.Data[i] {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical fields")
	}
}

func TestRandomRange(t *testing.T) {
	f := Random(32, 1)
	for i, v := range f.Data {
		if v <= -0.5 || v > 0.5 {
			t.Fatalf("site %d: %g outside (-0.5, 0.5]", i, v)
		}
	}

	if m := math.Abs(f.Mean()); m > 0.05 {
		t.Errorf("mean %g unexpectedly far from 0", m)
	}
}

func TestConstant(t *testing.T) {
	f := Constant(8, 0.25)
	for i, v := range f.Data {
		if v != 0.25 {
			t.Fatalf("site %d: expected 0.25, got %g", i, v)
		}
	}
}

func TestSinusoidalBounds(t *testing.T) {
	amp := 0.3
	f := Sinusoidal(16, amp)
	if f.MaxAbs() > amp+1e-12 {
		t.Errorf("amplitude %g exceeds %g", f.MaxAbs(), amp)
	}
	if f.MaxAbs() == 0 {
		t.Error("sinusoidal field is identically zero")
	}
}

func TestDropletProfile(t *testing.T) {
	n := 32
	f := Droplet(n, 8, 2)

	if center := f.At(n/2, n/2); center < 0.95 {
		t.Errorf("droplet center %g, expected near 1", center)
	}
	if corner := f.At(0, 0); corner > 0.05 {
		t.Errorf("far corner %g, expected near 0", corner)
	}
}

func TestCheckerboardParity(t *testing.T) {
	f := Checkerboard(4)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := 0.0
			if (i+j)%2 == 1 {
				want = 1.0
			}
			if f.At(i, j) != want {
				t.Errorf("cell (%d,%d): expected %g, got %g", i, j, want, f.At(i, j))
			}
		}
	}
}
