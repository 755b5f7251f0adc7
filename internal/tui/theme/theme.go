// Package theme defines color themes for the fbsim TUI dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps the dashboard's color roles to concrete colors.
type Theme struct {
	Name string
	// GlamourStyle is the glamour standard style used for advisor markdown.
	GlamourStyle string

	Background   lipgloss.Color // Main app background
	Surface      lipgloss.Color // Card/panel backgrounds
	SurfaceHover lipgloss.Color // Active tab
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // Focused panels (help, errors)
	TextDim      lipgloss.Color // Hints, disabled
	TextMuted    lipgloss.Color // Labels, metadata
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color

	// Scenario series
	Baseline lipgloss.Color
	Car      lipgloss.Color
	Band     lipgloss.Color // p10-p90 fill behind the median

	// Outcome colors, from good to bad
	Gain    lipgloss.Color
	Watch   lipgloss.Color
	Caution lipgloss.Color
	Loss    lipgloss.Color

	Progress lipgloss.Color // Early part of the run progress bar
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme - warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	GlamourStyle: "dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Baseline:     lipgloss.Color("#4385BE"),
	Car:          lipgloss.Color("#DA702C"),
	Band:         lipgloss.Color("#343331"),
	Gain:         lipgloss.Color("#879A39"),
	Watch:        lipgloss.Color("#D0A215"),
	Caution:      lipgloss.Color("#DA702C"),
	Loss:         lipgloss.Color("#D14D41"),
	Progress:     lipgloss.Color("#24837B"),
}

// FlexokiLight is the paper-colored counterpart of FlexokiDark.
var FlexokiLight = Theme{
	Name:         "flexoki-light",
	GlamourStyle: "light",
	Background:   lipgloss.Color("#FFFCF0"),
	Surface:      lipgloss.Color("#F2F0E5"),
	SurfaceHover: lipgloss.Color("#E6E4D9"),
	Border:       lipgloss.Color("#CECDC3"),
	BorderAccent: lipgloss.Color("#24837B"),
	TextDim:      lipgloss.Color("#B7B5AC"),
	TextMuted:    lipgloss.Color("#6F6E69"),
	TextPrimary:  lipgloss.Color("#100F0F"),
	Accent:       lipgloss.Color("#24837B"),
	AccentBright: lipgloss.Color("#1C6C66"),
	Baseline:     lipgloss.Color("#205EA6"),
	Car:          lipgloss.Color("#BC5215"),
	Band:         lipgloss.Color("#DAD8CE"),
	Gain:         lipgloss.Color("#66800B"),
	Watch:        lipgloss.Color("#AD8301"),
	Caution:      lipgloss.Color("#BC5215"),
	Loss:         lipgloss.Color("#AF3029"),
	Progress:     lipgloss.Color("#3AA99F"),
}

// CatppuccinMocha is a warm pastel theme with soft, soothing colors.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	GlamourStyle: "dark",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	SurfaceHover: lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Baseline:     lipgloss.Color("#74C7EC"),
	Car:          lipgloss.Color("#FAB387"),
	Band:         lipgloss.Color("#45475A"),
	Gain:         lipgloss.Color("#A6E3A1"),
	Watch:        lipgloss.Color("#F9E2AF"),
	Caution:      lipgloss.Color("#FAB387"),
	Loss:         lipgloss.Color("#F38BA8"),
	Progress:     lipgloss.Color("#94E2D5"),
}

// TokyoNight is a cool blue/purple theme inspired by Tokyo city lights.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	GlamourStyle: "dark",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	SurfaceHover: lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Baseline:     lipgloss.Color("#7DCFFF"),
	Car:          lipgloss.Color("#BB9AF7"),
	Band:         lipgloss.Color("#343A52"),
	Gain:         lipgloss.Color("#9ECE6A"),
	Watch:        lipgloss.Color("#E0AF68"),
	Caution:      lipgloss.Color("#FF9E64"),
	Loss:         lipgloss.Color("#F7768E"),
	Progress:     lipgloss.Color("#7DCFFF"),
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:         "terminal",
	GlamourStyle: "notty",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Baseline:     lipgloss.Color("4"),
	Car:          lipgloss.Color("5"),
	Band:         lipgloss.Color("8"),
	Gain:         lipgloss.Color("2"),
	Watch:        lipgloss.Color("3"),
	Caution:      lipgloss.Color("11"),
	Loss:         lipgloss.Color("1"),
	Progress:     lipgloss.Color("6"),
}

// All available themes.
var All = []Theme{FlexokiDark, FlexokiLight, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}
