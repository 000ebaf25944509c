package grid

// Laplacian computes the 5-point finite-difference Laplacian of src under
// periodic boundary conditions and stores it in dst:
//
//	dst[i,j] = (src[i+1,j] + src[i-1,j] + src[i,j+1] + src[i,j-1] - 4*src[i,j]) / h^2
//
// with neighbor indices taken modulo N. A single fused pass with explicit
// wrap indices; no shifted temporaries. src is not modified. dst and src
// must not alias.
func Laplacian(dst, src *Field, h float64) {
	LaplacianRows(dst, src, h, 0, src.N)
}

// LaplacianRows computes the Laplacian for rows [i0, i1). Callers splitting
// the grid across workers must ensure src is fully materialized first.
func LaplacianRows(dst, src *Field, h float64, i0, i1 int) {
	n := src.N
	inv := 1.0 / (h * h)
	for i := i0; i < i1; i++ {
		up := i - 1
		if up < 0 {
			up = n - 1
		}
		down := i + 1
		if down == n {
			down = 0
		}
		row := i * n
		upRow := up * n
		downRow := down * n
		for j := 0; j < n; j++ {
			left := j - 1
			if left < 0 {
				left = n - 1
			}
			right := j + 1
			if right == n {
				right = 0
			}
			c := src.Data[row+j]
			dst.Data[row+j] = (src.Data[upRow+j] + src.Data[downRow+j] +
				src.Data[row+left] + src.Data[row+right] - 4*c) * inv
		}
	}
}
