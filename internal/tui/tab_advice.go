package tui

import (
	"github.com/futurebank/fbsim/internal/advice"
	"github.com/futurebank/fbsim/internal/tui/components"
	"github.com/futurebank/fbsim/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderAdviceTab(cw int) string {
	t := theme.Active
	inner := components.CardInnerWidth(cw)

	if a.adviceLoading || a.adviceText == "" {
		spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
		mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		body := spinnerStyle.Render(a.spinner.View()) + mutedStyle.Render(" Asking the advisor...")
		return components.ContentCard("Advice", body, cw)
	}

	body := advice.Render(a.adviceText, t.GlamourStyle, inner)

	noteStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Italic(true)
	body += "\n" + noteStyle.Render("Educational only. This is a toy simulator, not professional financial advice.")

	return components.ContentCard("Advice", body, cw)
}
