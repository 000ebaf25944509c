package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/phasesim/internal/grid"
)

// shade ramp from phase 0 to phase 1
var ramp = []rune(" .:-=+*#%@")

var (
	frameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	legendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Heatmap renders the field as ASCII art, two characters per cell to keep
// terminal aspect roughly square. Grids wider than maxCells are block
// averaged down. Values are clamped to [lo, hi] before mapping onto the
// shade ramp.
func Heatmap(f *grid.Field, maxCells int, lo, hi float64) string {
	n := f.N
	cells := n
	block := 1
	if maxCells > 0 && n > maxCells {
		block = (n + maxCells - 1) / maxCells
		cells = (n + block - 1) / block
	}
	if hi <= lo {
		hi = lo + 1
	}

	var sb strings.Builder
	for ci := 0; ci < cells; ci++ {
		for cj := 0; cj < cells; cj++ {
			sum := 0.0
			count := 0
			for i := ci * block; i < (ci+1)*block && i < n; i++ {
				for j := cj * block; j < (cj+1)*block && j < n; j++ {
					sum += f.At(i, j)
					count++
				}
			}
			v := sum / float64(count)
			t := (v - lo) / (hi - lo)
			if t < 0 {
				t = 0
			}
			if t > 1 {
				t = 1
			}
			idx := int(t * float64(len(ramp)-1))
			sb.WriteRune(ramp[idx])
			sb.WriteRune(ramp[idx])
		}
		if ci < cells-1 {
			sb.WriteByte('\n')
		}
	}
	return frameStyle.Render(sb.String())
}

// Legend describes the shade ramp endpoints.
func Legend() string {
	return legendStyle.Render(string(ramp[0]) + " = low phase, " + string(ramp[len(ramp)-1]) + " = high phase")
}
