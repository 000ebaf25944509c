package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/phasesim/internal/chsim"
)

const (
	heatmapCells = 36
	graphWidth   = 64
	graphHeight  = 6
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

type TickMsg time.Time

// Model drives an integrator interactively, stepping a batch per frame and
// rendering the field with the running diagnostics.
type Model struct {
	it            *chsim.Integrator
	stepsPerFrame int
	frameRate     int
	paused        bool
	err           error
}

func NewModel(it *chsim.Integrator, stepsPerFrame, frameRate int) Model {
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}
	if frameRate < 1 {
		frameRate = 30
	}
	return Model{it: it, stepsPerFrame: stepsPerFrame, frameRate: frameRate}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "+", "=":
			m.stepsPerFrame *= 2
		case "-":
			if m.stepsPerFrame > 1 {
				m.stepsPerFrame /= 2
			}
		}
		return m, nil

	case TickMsg:
		if !m.paused && m.err == nil && !m.it.Done() {
			for i := 0; i < m.stepsPerFrame && !m.it.Done(); i++ {
				if err := m.it.Step(); err != nil {
					m.err = err
					break
				}
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("phasesim live"))
	sb.WriteByte('\n')

	vf, is := m.it.Diagnostics()
	sb.WriteString(statLine("step", fmt.Sprintf("%d / %d", m.it.StepCount(), m.it.Params().Steps)))
	sb.WriteString(statLine("time", fmt.Sprintf("%.4g", m.it.Time())))
	if len(vf) > 0 {
		sb.WriteString(statLine("volume fraction", fmt.Sprintf("%.4f", vf[len(vf)-1])))
		sb.WriteString(statLine("interface sites", fmt.Sprintf("%.0f", is[len(is)-1])))
	}
	sb.WriteString(statLine("steps/frame", fmt.Sprintf("%d", m.stepsPerFrame)))
	sb.WriteByte('\n')

	sb.WriteString(Heatmap(m.it.Field(), heatmapCells, 0, 1))
	sb.WriteByte('\n')

	if len(vf) > 1 {
		data := tail(vf, 240)
		sb.WriteString(graphStyle.Render(asciigraph.Plot(data,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("volume fraction"),
		)))
		sb.WriteByte('\n')
	}

	if m.err != nil {
		sb.WriteString(errStyle.Render(m.err.Error()))
		sb.WriteByte('\n')
	}

	sb.WriteString(helpStyle.Render("space pause · +/- speed · q quit"))
	sb.WriteByte('\n')
	return sb.String()
}

func statLine(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

func tail(data []float64, n int) []float64 {
	if len(data) <= n {
		return data
	}
	return data[len(data)-n:]
}
