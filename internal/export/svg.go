package export

import (
	"fmt"
	"math"
	"strings"
)

// seriesColors cycles over species.
var seriesColors = []string{"#00ccff", "#ff00ff", "#ffcc00", "#00ff88", "#ff4444", "#8888ff"}

// ConcentrationsSVG draws one polyline per species against time, with a
// legend in the top-right corner.
func ConcentrationsSVG(names []string, times []float64, states [][]float64, width, height int) string {
	if len(times) < 2 || len(names) == 0 {
		return ""
	}

	tMin, tMax := times[0], times[len(times)-1]
	cMin, cMax := 0.0, 0.0
	for _, row := range states {
		for _, v := range row {
			cMin = math.Min(cMin, v)
			cMax = math.Max(cMax, v)
		}
	}
	if cMax == cMin {
		cMax = cMin + 1
	}
	cMax += (cMax - cMin) * 0.05

	const margin = 40.0
	plotW := float64(width) - 2*margin
	plotH := float64(height) - 2*margin
	px := func(t float64) float64 { return margin + (t-tMin)/(tMax-tMin)*plotW }
	py := func(c float64) float64 { return margin + plotH - (c-cMin)/(cMax-cMin)*plotH }

	var sb strings.Builder
	writeHeader(&sb, width, height)

	fmt.Fprintf(&sb, `<g stroke="#444466" stroke-width="1">
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
</g>
`, margin, margin+plotH, margin+plotW, margin+plotH, margin, margin, margin, margin+plotH)
	fmt.Fprintf(&sb, `<g fill="#888899" font-family="monospace" font-size="11">
<text x="%.1f" y="%.1f">%.4g</text>
<text x="%.1f" y="%.1f" text-anchor="end">%.4g</text>
<text x="%.1f" y="%.1f">%.4g</text>
</g>
`, margin, float64(height)-margin/2, tMin, margin+plotW, float64(height)-margin/2, tMax, 4.0, margin-4, cMax)

	for j, name := range names {
		color := seriesColors[j%len(seriesColors)]
		fmt.Fprintf(&sb, `<polyline fill="none" stroke="%s" stroke-width="1.5" points="`, color)
		for i, t := range times {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", px(t), py(states[i][j]))
		}
		sb.WriteString("\"/>\n")
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="12" text-anchor="end">%s</text>
`, margin+plotW, margin+float64(14*(j+1)), color, escape(name))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// PhaseSVG draws the path (xs[i], ys[i]) with 10% padding on each side.
func PhaseSVG(xs, ys []float64, width, height int, strokeColor string) string {
	n := min(len(xs), len(ys))
	if n < 2 {
		return ""
	}

	minX, maxX := span(xs[:n])
	minY, maxY := span(ys[:n])
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	writeHeader(&sb, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)
	for i := 0; i < n; i++ {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}
	sb.WriteString("\"/>\n</svg>\n")
	return sb.String()
}

func writeHeader(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}

func span(v []float64) (float64, float64) {
	lo, hi := v[0], v[0]
	for _, x := range v[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
