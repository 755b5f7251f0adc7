package components

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/futurebank/fbsim/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode sparkline from values, scaled between their
// minimum and maximum.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 4) // UTF-8 block chars are up to 3 bytes
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(blocks[idx]) //nolint:gosec // bounds checked above
	}

	return style.Render(buf.String())
}

// HistogramBar is one bucket of a histogram chart.
type HistogramBar struct {
	Count     int
	Low, High float64
	Label     string
}

// HistogramChart draws bucket counts as vertical bars. Buckets that lie
// entirely below zero use the loss color and buckets straddling zero the
// caution color, so losing trials stand out. When there are more buckets
// than columns, neighbors are merged.
func HistogramChart(bars []HistogramBar, color lipgloss.Color, width, height int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	peak := 0
	for _, bar := range bars {
		peak = max(peak, bar.Count)
	}
	yLabelW := max(len(strconv.Itoa(peak))+1, 3)
	chartW := max(width-yLabelW-1, 1)
	bars = mergeBars(bars, chartW)
	n := len(bars)

	barW := min(max((chartW-(n-1))/n, 1), 6)
	gap := 0
	if barW > 1 && n > 1 {
		gap = 1
	}
	axisLen := n*barW + (n-1)*gap
	chartH := max(height-2, 2)

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		label := ""
		switch row {
		case chartH:
			label = strconv.Itoa(peak)
		case (chartH + 1) / 2:
			if chartH >= 4 {
				label = strconv.Itoa(peak / 2)
			}
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", yLabelW, label)))

		// Each row covers (row-1)/chartH..row/chartH of the peak count.
		for i, bar := range bars {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(" "))
			}
			cells := 0.0
			if peak > 0 {
				cells = float64(bar.Count) / float64(peak) * float64(chartH)
			}
			fill := cells - float64(row-1)
			style := lipgloss.NewStyle().Foreground(barColor(bar, color)).Background(t.Surface)
			switch {
			case fill >= 1:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case fill > 0:
				idx := min(max(int(fill*8), 1), 8)
				b.WriteString(style.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└", yLabelW, "0")))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))

	line := []rune(strings.Repeat(" ", axisLen))
	end := -1
	place := func(i int) {
		lbl := []rune(bars[i].Label)
		pos := min(i*(barW+gap), max(axisLen-len(lbl), 0))
		if pos <= end || pos+len(lbl) > axisLen {
			return
		}
		copy(line[pos:], lbl)
		end = pos + len(lbl)
	}
	place(0)
	for i, bar := range bars {
		if i > 0 && bar.Low <= 0 && bar.High > 0 {
			place(i)
		}
	}
	place(n - 1)
	if strings.TrimSpace(string(line)) != "" {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(strings.TrimRight(string(line), " ")))
	}
	return b.String()
}

func barColor(bar HistogramBar, color lipgloss.Color) lipgloss.Color {
	t := theme.Active
	switch {
	case bar.High <= 0:
		return t.Loss
	case bar.Low < 0:
		return t.Caution
	default:
		return color
	}
}

// mergeBars combines neighbors until at most limit bars remain.
func mergeBars(bars []HistogramBar, limit int) []HistogramBar {
	if len(bars) <= limit {
		return bars
	}
	group := (len(bars) + limit - 1) / limit
	out := make([]HistogramBar, 0, limit)
	for i := 0; i < len(bars); i += group {
		j := min(i+group, len(bars))
		merged := HistogramBar{Low: bars[i].Low, High: bars[j-1].High, Label: bars[i].Label}
		for _, bar := range bars[i:j] {
			merged.Count += bar.Count
		}
		out = append(out, merged)
	}
	return out
}

func formatChartLabel(v float64) string {
	for _, u := range []struct {
		div    float64
		suffix string
	}{{1e9, "B"}, {1e6, "M"}, {1e3, "k"}} {
		if v < u.div {
			continue
		}
		q := v / u.div
		if q == math.Trunc(q) {
			return fmt.Sprintf("%.0f%s", q, u.suffix)
		}
		return fmt.Sprintf("%.1f%s", q, u.suffix)
	}
	if v >= 1 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// BandChart plots a percentile fan: the p10-p90 range as shaded cells and
// the median as a solid marker. The y-axis spans the data, including
// negative values; a zero line is drawn when it falls inside the range.
func BandChart(p10, p50, p90 []float64, width, height int, color lipgloss.Color) string {
	n := len(p50)
	if n == 0 || len(p10) != n || len(p90) != n {
		return ""
	}
	if height < 3 {
		height = 3
	}
	t := theme.Active

	lo, hi := p10[0], p90[0]
	for i := range n {
		lo = min(lo, p10[i], p50[i])
		hi = max(hi, p90[i], p50[i])
	}
	if hi == lo {
		hi = lo + 1
	}

	yLabelW := max(len(formatChartLabel(math.Abs(hi))), len(formatChartLabel(math.Abs(lo)))) + 2
	chartW := width - yLabelW - 1
	if chartW < 5 {
		chartW = 5
	}

	// Sample columns evenly across the months.
	cols := min(chartW, n)
	idx := make([]int, cols)
	for c := range idx {
		if cols == 1 {
			idx[c] = n - 1
			continue
		}
		idx[c] = c * (n - 1) / (cols - 1)
	}

	rowOf := func(v float64) int {
		r := int(math.Round((v - lo) / (hi - lo) * float64(height-1)))
		return min(max(r, 0), height-1)
	}
	zeroRow := -1
	if lo < 0 && hi > 0 {
		zeroRow = rowOf(0)
	}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	bandStyle := lipgloss.NewStyle().Foreground(t.Band).Background(t.Surface)
	medianStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	zeroStyle := lipgloss.NewStyle().Foreground(t.Loss).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := height - 1; row >= 0; row-- {
		label := ""
		switch row {
		case height - 1:
			label = signedChartLabel(hi)
		case 0:
			label = signedChartLabel(lo)
		case zeroRow:
			label = "0"
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axisStyle.Render("│"))

		for _, i := range idx {
			switch {
			case rowOf(p50[i]) == row:
				b.WriteString(medianStyle.Render("●"))
			case row >= rowOf(p10[i]) && row <= rowOf(p90[i]):
				b.WriteString(bandStyle.Render("░"))
			case row == zeroRow:
				b.WriteString(zeroStyle.Render("┈"))
			default:
				b.WriteString(blank.Render(" "))
			}
		}
		if row > 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func signedChartLabel(v float64) string {
	if v < 0 {
		return "-" + formatChartLabel(-v)
	}
	return formatChartLabel(v)
}
