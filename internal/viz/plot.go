package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

type PlotOptions struct {
	Height int
	Width  int
	// Combined draws all species in one chart instead of one per species.
	Combined bool
	Caption  string
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Height: 10, Width: 80}
}

// Column extracts column j of states.
func Column(states [][]float64, j int) []float64 {
	col := make([]float64, len(states))
	for i, row := range states {
		if j < len(row) {
			col[i] = row[j]
		}
	}
	return col
}

// PlotSpecies renders concentration curves against the output index.
// Output times need not be uniform; the caption names the time span.
func PlotSpecies(names []string, times []float64, states [][]float64, opts PlotOptions) []string {
	if len(states) == 0 || len(names) == 0 {
		return nil
	}
	span := ""
	if len(times) > 0 {
		span = fmt.Sprintf(" (t = %g .. %g)", times[0], times[len(times)-1])
	}

	base := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Precision(4),
	}

	if opts.Combined {
		series := make([][]float64, len(names))
		for j := range names {
			series[j] = Column(states, j)
		}
		caption := opts.Caption
		if caption == "" {
			caption = "concentrations"
		}
		chart := asciigraph.PlotMany(series, append(base,
			asciigraph.SeriesColors(CurrentTheme.seriesColors(len(names))...),
			asciigraph.SeriesLegends(names...),
			asciigraph.Caption(caption+span),
		)...)
		return []string{chart}
	}

	charts := make([]string, len(names))
	for j, name := range names {
		color := CurrentTheme.seriesColors(j + 1)[j]
		charts[j] = asciigraph.Plot(Column(states, j), append(base,
			asciigraph.SeriesColors(color),
			asciigraph.Caption("["+name+"]"+span),
		)...)
	}
	return charts
}
