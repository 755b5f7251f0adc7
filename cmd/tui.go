package cmd

import (
	"fmt"
	"io"

	"github.com/futurebank/fbsim/internal/tui"
	"github.com/futurebank/fbsim/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().IntVar(&flagBins, "bins", 12, "Histogram bins for final net worth")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	// Log lines would corrupt the alt screen.
	flagQuiet = true
	log.SetOutput(io.Discard)

	runner := newRunner(cfg)
	defer closeRunner(runner)

	app := tui.NewApp(tui.Options{
		Runner:   runner,
		Request:  newRequest(cfg),
		Currency: cfg.General.Currency,
		Advisor:  newAdvisor(cmd.Context(), cfg),
		Bins:     flagBins,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
