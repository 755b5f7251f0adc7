package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/futurebank/fbsim/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	widths := LayoutRow(100, 3)
	if len(widths) != 3 || widths[0] != 34 || widths[1] != 33 || widths[2] != 33 {
		t.Fatalf("LayoutRow(100, 3) = %v, want [34 33 33]", widths)
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow with n=0 should be nil")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}

	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Fatalf("padding line %d has no ANSI styling: %q", i, lines[i])
		}
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 44 {
			t.Fatalf("line %d width = %d, want 44", i, w)
		}
	}
}

func TestMetricCardRow(t *testing.T) {
	theme.SetActive("flexoki-dark")
	row := MetricCardRow([]Metric{
		{Label: "Median", Value: "$1,000", Delta: "-$200", DeltaColor: theme.Active.Loss},
		{Label: "Loss", Value: "4.0%"},
	}, 60)

	for _, want := range []string{"Median", "$1,000", "-$200", "Loss", "4.0%"} {
		if !strings.Contains(row, want) {
			t.Fatalf("card row missing %q", want)
		}
	}
	if w := lipgloss.Width(strings.Split(row, "\n")[0]); w != 60 {
		t.Fatalf("row width = %d, want 60", w)
	}
}

func TestSparklineHandlesNegatives(t *testing.T) {
	out := Sparkline([]float64{-50, 0, 50}, theme.Active.Accent)
	if !strings.Contains(out, "▁") || !strings.Contains(out, "█") {
		t.Fatalf("Sparkline = %q, want lowest and highest blocks", out)
	}
}

func TestBandChart(t *testing.T) {
	p10 := []float64{-100, -50, 0, 50}
	p50 := []float64{0, 50, 100, 150}
	p90 := []float64{100, 150, 200, 250}

	out := BandChart(p10, p50, p90, 40, 8, theme.Active.Accent)
	lines := strings.Split(out, "\n")
	if len(lines) != 8 {
		t.Fatalf("chart height = %d, want 8", len(lines))
	}
	if strings.Count(out, "●") != 4 {
		t.Fatalf("median markers = %d, want 4", strings.Count(out, "●"))
	}
	if !strings.Contains(out, "░") {
		t.Fatal("chart has no band cells")
	}
	if !strings.Contains(lines[len(lines)-1], "-100") {
		t.Fatalf("bottom label missing: %q", lines[len(lines)-1])
	}

	if BandChart(nil, nil, nil, 40, 8, theme.Active.Accent) != "" {
		t.Fatal("empty input should render nothing")
	}
	if BandChart(p10[:2], p50, p90, 40, 8, theme.Active.Accent) != "" {
		t.Fatal("mismatched lengths should render nothing")
	}
}

func TestHistogramChart(t *testing.T) {
	bars := []HistogramBar{
		{Count: 1, Low: -20, High: -10, Label: "-20"},
		{Count: 4, Low: -10, High: 10, Label: "-10"},
		{Count: 2, Low: 10, High: 30, Label: "10"},
	}
	out := HistogramChart(bars, theme.Active.Baseline, 40, 6)
	if !strings.Contains(out, "█") || !strings.Contains(out, "└") {
		t.Fatalf("HistogramChart output missing bars or axis:\n%s", out)
	}
	if !strings.Contains(out, "4") {
		t.Fatalf("HistogramChart missing peak label:\n%s", out)
	}
	if HistogramChart(nil, theme.Active.Baseline, 40, 6) != "" {
		t.Fatal("empty input should render nothing")
	}
}

func TestBarColorBySign(t *testing.T) {
	th := theme.Active
	if got := barColor(HistogramBar{Low: -5, High: -1}, th.Baseline); got != th.Loss {
		t.Fatalf("negative bucket color = %v, want loss", got)
	}
	if got := barColor(HistogramBar{Low: -5, High: 5}, th.Baseline); got != th.Caution {
		t.Fatalf("straddling bucket color = %v, want caution", got)
	}
	if got := barColor(HistogramBar{Low: 0, High: 5}, th.Baseline); got != th.Baseline {
		t.Fatalf("positive bucket color = %v, want scenario color", got)
	}
}

func TestMergeBars(t *testing.T) {
	bars := make([]HistogramBar, 25)
	for i := range bars {
		bars[i] = HistogramBar{Count: 1, Low: float64(i), High: float64(i + 1)}
	}
	merged := mergeBars(bars, 10)
	if len(merged) > 10 {
		t.Fatalf("len = %d, want at most 10", len(merged))
	}
	total := 0
	for _, b := range merged {
		total += b.Count
	}
	if total != 25 || merged[0].Low != 0 || merged[len(merged)-1].High != 25 {
		t.Fatalf("merged = %+v", merged)
	}
	if got := mergeBars(bars[:3], 10); len(got) != 3 {
		t.Fatalf("short input merged to %d bars", len(got))
	}
}

func TestTabIdxByKey(t *testing.T) {
	tests := map[rune]int{'o': 0, 'b': 1, 'd': 2, 'a': 3, 'z': -1}
	for key, want := range tests {
		if got := TabIdxByKey(key); got != want {
			t.Fatalf("TabIdxByKey(%q) = %d, want %d", key, got, want)
		}
	}
}

func TestColorForRisk(t *testing.T) {
	th := theme.Active
	if ColorForRisk(0) != th.Gain || ColorForRisk(0.5) != th.Loss {
		t.Fatal("ColorForRisk extremes wrong")
	}
}
