package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/phasesim/internal/grid"
)

// FieldToSVG renders the field as an SVG heatmap, one rect per lattice
// cell, mapping [lo, hi] onto a blue-to-orange diverging ramp. scale is the
// rect edge in SVG units.
func FieldToSVG(f *grid.Field, scale, lo, hi float64) string {
	n := f.N
	size := float64(n) * scale
	if hi <= lo {
		hi = lo + 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, size, size, size, size))

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			t := (f.At(i, j) - lo) / (hi - lo)
			if t < 0 {
				t = 0
			}
			if t > 1 {
				t = 1
			}
			r := int(40 + 215*t)
			g := int(60 + 110*t)
			b := int(200 - 160*t)
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#%02x%02x%02x"/>
`, float64(j)*scale, float64(i)*scale, scale, scale, r, g, b))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
