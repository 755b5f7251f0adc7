package tui

import (
	"fmt"
	"strings"

	"github.com/futurebank/fbsim/internal/cli"
	"github.com/futurebank/fbsim/internal/model"
	"github.com/futurebank/fbsim/internal/pipeline"
	"github.com/futurebank/fbsim/internal/tui/components"
	"github.com/futurebank/fbsim/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderBandsTab(cw, h int) string {
	t := theme.Active
	res := a.result

	scenarios := []pipeline.ScenarioResult{res.Baseline}
	colors := []lipgloss.Color{t.Baseline}
	if res.Car != nil {
		scenarios = append(scenarios, *res.Car)
		colors = append(colors, t.Car)
	}

	// Chart on top, yearly table underneath.
	chartH := (h - 4) / 2
	if chartH < 4 {
		chartH = 4
	}

	widths := components.LayoutRow(cw, len(scenarios))
	charts := make([]string, len(scenarios))
	tables := make([]string, len(scenarios))
	for i, sr := range scenarios {
		inner := components.CardInnerWidth(widths[i])
		s := sr.Summary
		chart := components.BandChart(s.P10, s.P50, s.P90, inner, chartH, colors[i])
		charts[i] = components.ContentCard(scenarioTitle(sr.Label)+"  p10-p90 band, ● median", chart, widths[i])
		tables[i] = components.ContentCard("", a.bandRows(pipeline.YearlyBands(s), inner), widths[i])
	}

	var b strings.Builder
	b.WriteString(components.CardRow(charts))
	b.WriteString("\n")
	b.WriteString(components.CardRow(tables))
	return b.String()
}

func (a App) bandRows(rows []model.BandRow, width int) string {
	t := theme.Active
	cur := a.opts.Currency

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	colW := (width - 6) / 3
	if colW < 8 {
		colW = 8
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-6s%*s%*s%*s", "Year", colW, "p10", colW, "p50", colW, "p90")))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%-6d", r.Year)))
		b.WriteString(rowStyle.Render(fmt.Sprintf("%*s%*s%*s",
			colW, cli.FormatCompactMoney(r.P10, cur),
			colW, cli.FormatCompactMoney(r.P50, cur),
			colW, cli.FormatCompactMoney(r.P90, cur))))
	}
	return b.String()
}

func scenarioTitle(label string) string {
	if label == "car" {
		return "With car"
	}
	return "Baseline"
}
