package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Theme colors the terminal output. Series colors are used for species
// curves, in species order, and wrap around.
type Theme struct {
	Name   string
	Title  lipgloss.Color
	Label  lipgloss.Color
	Value  lipgloss.Color
	Muted  lipgloss.Color
	Good   lipgloss.Color
	Bad    lipgloss.Color
	Series []asciigraph.AnsiColor
}

var (
	ThemeLab = Theme{
		Name:   "lab",
		Title:  lipgloss.Color("#00ffff"),
		Label:  lipgloss.Color("#888899"),
		Value:  lipgloss.Color("#00ccff"),
		Muted:  lipgloss.Color("#666688"),
		Good:   lipgloss.Color("#00ff88"),
		Bad:    lipgloss.Color("#ff4444"),
		Series: []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Magenta, asciigraph.Yellow, asciigraph.Green, asciigraph.Red, asciigraph.Blue},
	}

	ThemeRetro = Theme{
		Name:   "retro",
		Title:  lipgloss.Color("#00ff00"),
		Label:  lipgloss.Color("#00cc00"),
		Value:  lipgloss.Color("#88ff88"),
		Muted:  lipgloss.Color("#005500"),
		Good:   lipgloss.Color("#88ff88"),
		Bad:    lipgloss.Color("#ffff00"),
		Series: []asciigraph.AnsiColor{asciigraph.Green, asciigraph.Lime, asciigraph.Olive, asciigraph.YellowGreen},
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Title:  lipgloss.Color("#ffffff"),
		Label:  lipgloss.Color("#cccccc"),
		Value:  lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		Good:   lipgloss.Color("#00ff00"),
		Bad:    lipgloss.Color("#ff0000"),
		Series: []asciigraph.AnsiColor{asciigraph.Default},
	}

	CurrentTheme = ThemeLab

	Themes = []Theme{ThemeLab, ThemeRetro, ThemeMinimal}
)

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// seriesColors returns n colors from the theme's palette.
func (t Theme) seriesColors(n int) []asciigraph.AnsiColor {
	colors := make([]asciigraph.AnsiColor, n)
	for i := range colors {
		colors[i] = t.Series[i%len(t.Series)]
	}
	return colors
}
