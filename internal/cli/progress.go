package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// RenderProgressBar renders a fixed-width bar followed by the done/total
// counts. Counts past total render as a full bar.
func RenderProgressBar(current, total int, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}

	filled := min(max(current*width/total, 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s/%s",
		mutedStyle.Render(bar),
		FormatNumber(int64(current)),
		FormatNumber(int64(total)),
	)
}

// ProgressLine redraws one progress line in place on W. Update may be
// called from many goroutines; a count at or below the last one drawn is
// dropped, so the line never moves backwards after reaching total.
type ProgressLine struct {
	W     io.Writer
	Label string
	Width int // bar width, default 24

	mu     sync.Mutex
	drawn  int
	length int
}

// Update draws the line roughly once per percent and always at total.
func (p *ProgressLine) Update(current, total int) {
	if total <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if current <= p.drawn {
		return
	}
	step := max(total/100, 1)
	if current != total && current-p.drawn < step {
		return
	}
	p.drawn = current

	width := p.Width
	if width <= 0 {
		width = 24
	}
	line := fmt.Sprintf("  %s %s", p.Label, RenderProgressBar(current, total, width))
	p.length = max(p.length, lipgloss.Width(line))
	fmt.Fprintf(p.W, "\r%s", line)
}

// Clear blanks the line and returns the cursor to its start.
func (p *ProgressLine) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.length == 0 {
		return
	}
	fmt.Fprintf(p.W, "\r%s\r", strings.Repeat(" ", p.length))
	p.length = 0
}
