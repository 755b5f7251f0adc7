// Package tui provides the interactive Bubble Tea dashboard for fbsim.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futurebank/fbsim/internal/advice"
	"github.com/futurebank/fbsim/internal/cli"
	"github.com/futurebank/fbsim/internal/pipeline"
	"github.com/futurebank/fbsim/internal/tui/components"
	"github.com/futurebank/fbsim/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ProgressMsg reports trial progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// SimDoneMsg is sent when the comparison run finishes.
type SimDoneMsg struct {
	Result *pipeline.Result
	Err    error
}

// AdviceMsg carries the advisor's answer.
type AdviceMsg struct {
	Text string
}

// Options configure the dashboard.
type Options struct {
	Runner   *pipeline.Runner
	Request  pipeline.Request
	Currency string
	Advisor  *advice.Advisor
	Bins     int
}

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Run state
	result  *pipeline.Result
	runErr  error
	loaded  bool
	running bool

	// Advice state
	adviceText    string
	adviceLoading bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Loading: channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
)

// Tab indexes, matching components.Tabs.
const (
	tabOverview = iota
	tabBands
	tabDistribution
	tabAdvice
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	if opts.Bins < 1 {
		opts.Bins = 20
	}
	if opts.Advisor == nil {
		opts.Advisor = advice.New(nil, nil)
	}
	if opts.Runner == nil {
		opts.Runner = &pipeline.Runner{}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		opts:    opts,
		spinner: sp,
		loadSub: make(chan tea.Msg, 1),
		running: true,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		runSimCmd(a.opts.Runner, a.opts.Request, a.loadSub),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp {
			return a, nil
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				return a.selectTab(tab)
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" || key == "q" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "tab", "right", "l":
			return a.selectTab((a.activeTab + 1) % len(components.Tabs))
		case "shift+tab", "left", "h":
			return a.selectTab((a.activeTab + len(components.Tabs) - 1) % len(components.Tabs))
		case "r":
			if a.running {
				return a, nil
			}
			a.running = true
			a.loaded = false
			a.progress, a.progressMax = 0, 0
			a.adviceText = ""
			a.loadSub = make(chan tea.Msg, 1)
			return a, tea.Batch(runSimCmd(a.opts.Runner, a.opts.Request, a.loadSub), a.spinner.Tick)
		}

		if len(key) == 1 {
			if tab := components.TabIdxByKey(rune(key[0])); tab >= 0 {
				return a.selectTab(tab)
			}
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case SimDoneMsg:
		a.loaded = true
		a.running = false
		a.result = msg.Result
		a.runErr = msg.Err
		if a.activeTab == tabAdvice {
			return a.selectTab(tabAdvice)
		}
		return a, nil

	case AdviceMsg:
		a.adviceLoading = false
		a.adviceText = msg.Text
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.adviceLoading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

// selectTab switches tabs and fetches advice the first time its tab opens.
func (a App) selectTab(tab int) (tea.Model, tea.Cmd) {
	a.activeTab = tab
	if tab != tabAdvice || a.adviceText != "" || a.adviceLoading || a.result == nil {
		return a, nil
	}
	a.adviceLoading = true
	in := advice.FromResult(a.result, a.opts.Currency)
	return a, tea.Batch(adviceCmd(a.opts.Advisor, in), a.spinner.Tick)
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  fbsim needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	w := a.width
	h := a.height

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	spinnerStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	countStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ fbsim"))
	b.WriteString(subtitleStyle.Render(" · Net Worth Simulator"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := 40
		if barW > w-30 {
			barW = w - 30
		}
		if barW < 20 {
			barW = 20
		}
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Simulating trials\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Preparing scenarios..."))
	}

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	bindings := [][2]string{
		{"o b d a", "jump to Overview / Bands / Distribution / Advice"},
		{"tab, ←/→", "cycle tabs"},
		{"r", "rerun the simulation"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(keyStyle.Render("Keys"))
	b.WriteString("\n\n")
	for _, kb := range bindings {
		b.WriteString(keyStyle.Render(fmt.Sprintf("%-10s", kb[0])))
		b.WriteString(descStyle.Render(kb[1]))
		b.WriteString("\n")
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	runInfo := ""
	if a.result != nil {
		runInfo = fmt.Sprintf("%s trials · %s",
			cli.FormatNumber(int64(a.result.Sims)), cli.FormatElapsed(a.result.Elapsed))
		if a.result.Baseline.CacheHit {
			runInfo += " · cached"
		}
	}
	statusBar := components.RenderStatusBar(w, runInfo)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch {
	case a.runErr != nil:
		content = a.renderError(cw)
	case a.activeTab == tabOverview:
		content = a.renderOverviewTab(cw)
	case a.activeTab == tabBands:
		content = a.renderBandsTab(cw, contentH)
	case a.activeTab == tabDistribution:
		content = a.renderDistributionTab(cw, contentH)
	case a.activeTab == tabAdvice:
		content = a.renderAdviceTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderError(cw int) string {
	t := theme.Active
	errStyle := lipgloss.NewStyle().Foreground(t.Loss).Background(t.Surface)
	return components.ContentCard("Simulation failed", errStyle.Render(a.runErr.Error()), cw)
}

// ─── Helpers ────────────────────────────────────────────────────

// runSimCmd starts the comparison run in a background goroutine.
// It streams ProgressMsg updates and a final SimDoneMsg through sub.
func runSimCmd(runner *pipeline.Runner, req pipeline.Request, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			// Non-blocking send so workers aren't stalled; the next update catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			res, err := runner.Run(context.Background(), req, progressFn)
			sub <- SimDoneMsg{Result: res, Err: err}
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the run goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

func adviceCmd(advisor *advice.Advisor, in advice.Input) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		return AdviceMsg{Text: advisor.Advise(ctx, in)}
	}
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
