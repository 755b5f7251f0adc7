package tui

import (
	"strings"

	"github.com/futurebank/fbsim/internal/cli"
	"github.com/futurebank/fbsim/internal/pipeline"
	"github.com/futurebank/fbsim/internal/tui/components"
	"github.com/futurebank/fbsim/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderDistributionTab(cw, h int) string {
	t := theme.Active
	res := a.result

	scenarios := []pipeline.ScenarioResult{res.Baseline}
	colors := []lipgloss.Color{t.Baseline}
	if res.Car != nil {
		scenarios = append(scenarios, *res.Car)
		colors = append(colors, t.Car)
	}

	chartH := (h - 3*len(scenarios)) / len(scenarios)
	if chartH < 4 {
		chartH = 4
	}

	inner := components.CardInnerWidth(cw)
	var b strings.Builder
	for i, sr := range scenarios {
		bins := pipeline.Histogram(sr.Summary.FinalValues, a.opts.Bins)
		bars := make([]components.HistogramBar, len(bins))
		for j, bin := range bins {
			bars[j] = components.HistogramBar{
				Count: bin.Count,
				Low:   bin.Low,
				High:  bin.High,
				Label: cli.FormatCompactMoney(bin.Low, a.opts.Currency),
			}
		}
		title := scenarioTitle(sr.Label) + " final net worth · median " +
			cli.FormatCompactMoney(sr.Summary.FinalMedian, a.opts.Currency)
		chart := components.HistogramChart(bars, colors[i], inner, chartH)
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(components.ContentCard(title, chart, cw))
	}
	return b.String()
}
