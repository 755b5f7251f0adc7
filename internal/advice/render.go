package advice

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Render formats markdown advice for the terminal. style is a glamour
// standard style name ("dark", "light", "notty"). On failure the raw text
// is returned.
func Render(text, style string, width int) string {
	if style == "" {
		style = "dark"
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
