package tui

import (
	"strings"

	"github.com/futurebank/fbsim/internal/cli"
	"github.com/futurebank/fbsim/internal/tui/components"
	"github.com/futurebank/fbsim/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	res := a.result
	cur := a.opts.Currency
	base := res.Baseline.Summary

	metrics := []components.Metric{
		{
			Label: "Baseline median",
			Value: cli.FormatMoney(base.FinalMedian, cur),
			Delta: "mean " + cli.FormatCompactMoney(base.FinalMean, cur),
		},
	}
	if res.Car != nil && res.Comparison != nil {
		deltaColor := t.Gain
		if res.Comparison.MedianDelta < 0 {
			deltaColor = t.Loss
		}
		metrics = append(metrics, components.Metric{
			Label:      "With car median",
			Value:      cli.FormatMoney(res.Car.Summary.FinalMedian, cur),
			Delta:      cli.FormatSignedMoney(res.Comparison.MedianDelta, cur) + " vs baseline",
			DeltaColor: deltaColor,
		})
	}
	metrics = append(metrics, components.Metric{
		Label:      "Chance of ending negative",
		Value:      cli.FormatPercent(base.ProbLoss),
		Delta:      "baseline",
		DeltaColor: components.ColorForRisk(base.ProbLoss),
	})
	if res.Car != nil && res.Comparison != nil {
		metrics = append(metrics, components.Metric{
			Label:      "Chance of ending negative",
			Value:      cli.FormatPercent(res.Car.Summary.ProbLoss),
			Delta:      cli.FormatPointsDelta(res.Comparison.ProbLossDelta) + " with car",
			DeltaColor: components.ColorForRisk(res.Car.Summary.ProbLoss),
		})
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	inner := components.CardInnerWidth(cw)
	labelW := 10
	barW := inner - labelW - 10
	if barW < 10 {
		barW = 10
	}

	var risk strings.Builder
	risk.WriteString(components.RiskBar("Baseline", base.ProbLoss, labelW, barW))
	if res.Car != nil {
		risk.WriteString("\n")
		risk.WriteString(components.RiskBar("With car", res.Car.Summary.ProbLoss, labelW, barW))
	}
	b.WriteString(components.ContentCard("Probability of loss", risk.String(), cw))
	b.WriteString("\n")

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	var spark strings.Builder
	spark.WriteString(mutedStyle.Render("Baseline  "))
	spark.WriteString(components.Sparkline(downsample(base.P50, inner-10), t.Baseline))
	if res.Car != nil {
		spark.WriteString("\n")
		spark.WriteString(mutedStyle.Render("With car  "))
		spark.WriteString(components.Sparkline(downsample(res.Car.Summary.P50, inner-10), t.Car))
	}
	b.WriteString(components.ContentCard("Median net worth over time", spark.String(), cw))

	return b.String()
}

// downsample picks at most n evenly spaced points, always keeping the last.
func downsample(values []float64, n int) []float64 {
	if n < 1 || len(values) <= n {
		return values
	}
	out := make([]float64, n)
	for i := range out {
		if n == 1 {
			out[i] = values[len(values)-1]
			continue
		}
		out[i] = values[i*(len(values)-1)/(n-1)]
	}
	return out
}
