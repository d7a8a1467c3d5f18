package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)
)

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Title)
}

func labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Label).Width(14)
}

func valueStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Value)
}

// Row is one label/value line of a summary panel.
type Row struct {
	Label string
	Value string
}

// Summary renders a titled panel of label/value rows.
func Summary(title string, rows []Row) string {
	var b strings.Builder
	b.WriteString(titleStyle().Render(title))
	for _, r := range rows {
		b.WriteString("\n" + labelStyle().Render(r.Label) + valueStyle().Render(r.Value))
	}
	return Panel.Render(b.String())
}

// ValueRows turns a name -> value map into rows sorted by name.
func ValueRows(values map[string]float64) []Row {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]Row, len(keys))
	for i, k := range keys {
		rows[i] = Row{Label: k, Value: fmt.Sprintf("%.6g", values[k])}
	}
	return rows
}

// Verdict renders pass or fail in the theme's colors.
func Verdict(ok bool, msg string) string {
	if ok {
		return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Good).Render("PASS " + msg)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Bad).Render("FAIL " + msg)
}

// ProgressBar renders a bar filled to fraction of width.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(filled, width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(CurrentTheme.Value).Render(bar)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values, sampled down to width, as block characters.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := max(len(values)/width, 1)
	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(sparkChars)-1))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteRune(sparkChars[idx])
	}
	return b.String()
}
