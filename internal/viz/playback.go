package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const frameRate = 30

type TickMsg time.Time

// Playback replays a stored trajectory one output point per frame.
type Playback struct {
	title    string
	names    []string
	times    []float64
	states   [][]float64
	peak     float64
	playHead int
	speed    int
	running  bool
	showHelp bool
	theme    int
}

func NewPlayback(title string, names []string, times []float64, states [][]float64) Playback {
	peak := 0.0
	for _, row := range states {
		for _, v := range row {
			peak = max(peak, v)
		}
	}
	if peak == 0 {
		peak = 1
	}
	return Playback{
		title:   title,
		names:   names,
		times:   times,
		states:  states,
		peak:    peak,
		speed:   1,
		running: true,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Playback) Init() tea.Cmd { return tick() }

func (m Playback) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "[", "left", "h":
			m.running = false
			m.seek(-1)
		case "]", "right", "l":
			m.running = false
			m.seek(1)
		case "+", "=":
			m.speed = min(m.speed*2, 64)
		case "-":
			m.speed = max(m.speed/2, 1)
		case "r":
			m.playHead = 0
			m.running = true
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			CurrentTheme = Themes[m.theme]
		case "?":
			m.showHelp = !m.showHelp
		}
		return m, nil
	case TickMsg:
		if m.running {
			m.seek(m.speed)
			if m.Done() {
				m.running = false
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Playback) seek(n int) {
	m.playHead = max(0, min(m.playHead+n, len(m.times)-1))
}

// Done reports whether the playhead reached the last output point.
func (m Playback) Done() bool { return m.playHead >= len(m.times)-1 }

func (m Playback) PlayHead() int { return m.playHead }

func (m Playback) View() string {
	if len(m.times) == 0 {
		return "no data\n"
	}
	i := m.playHead

	var s strings.Builder
	s.WriteString(titleStyle().Render(strings.ToUpper(m.title)) + "\n")
	status := "PLAYING"
	if !m.running {
		status = "PAUSED"
	}
	if m.Done() {
		status = "END"
	}
	s.WriteString(fmt.Sprintf("%s  x%d\n\n", status, m.speed))

	s.WriteString(labelStyle().Render("time") + valueStyle().Render(fmt.Sprintf("%.4g / %.4g", m.times[i], m.times[len(m.times)-1])) + "\n")
	s.WriteString(labelStyle().Render("progress") + ProgressBar(float64(i)/float64(max(len(m.times)-1, 1)), 30) + "\n\n")

	for j, name := range m.names {
		v := m.states[i][j]
		s.WriteString(labelStyle().Render(name) + ProgressBar(v/m.peak, 30) + valueStyle().Render(fmt.Sprintf(" %.5g", v)) + "\n")
		s.WriteString(labelStyle().Render("") + KeyHint.Render(Sparkline(Column(m.states[:i+1], j), 30)) + "\n")
	}

	if i > 0 {
		series := make([][]float64, len(m.names))
		for j := range m.names {
			series[j] = Column(m.states[:i+1], j)
		}
		chart := asciigraph.PlotMany(series,
			asciigraph.Height(8),
			asciigraph.Width(50),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(m.peak),
			asciigraph.SeriesColors(CurrentTheme.seriesColors(len(m.names))...),
		)
		s.WriteString("\n" + chart + "\n")
	}

	s.WriteString(KeyHint.Render("\nSP:pause [ ]:step +/-:speed R:restart T:theme ?:help Q:quit"))
	view := Panel.Render(s.String())
	if m.showHelp {
		help := lipgloss.JoinVertical(lipgloss.Left,
			"space   pause/resume",
			"[ ]     step back/forward",
			"+ -     playback speed",
			"r       restart",
			"t       cycle themes",
			"q       quit",
		)
		return lipgloss.JoinHorizontal(lipgloss.Top, view, Panel.Render(help))
	}
	return view
}

// RunPlayback plays a trajectory in the alternate screen until the user
// quits.
func RunPlayback(title string, names []string, times []float64, states [][]float64) error {
	_, err := tea.NewProgram(NewPlayback(title, names, times, states), tea.WithAltScreen()).Run()
	return err
}
