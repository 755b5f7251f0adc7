package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/futurebank/fbsim/internal/config"
	"github.com/futurebank/fbsim/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the raw answers of the setup form. Numbers stay as
// strings until Apply so the inputs can be edited freely.
type SetupValues struct {
	Currency        string
	Years           string
	InitialSavings  string
	MonthlyIncome   string
	MonthlyExpenses string
	ExpectedReturn  string // percent
	Volatility      string // percent

	WithCar      bool
	CarPrice     string
	PurchaseYear string

	APIKey string
	Theme  string
}

// NewSetupValues seeds the form from an existing configuration.
func NewSetupValues(cfg config.Config) SetupValues {
	return SetupValues{
		Currency:        cfg.General.Currency,
		Years:           strconv.Itoa(cfg.Scenario.Years),
		InitialSavings:  formatFloat(cfg.Scenario.InitialSavings),
		MonthlyIncome:   formatFloat(cfg.Scenario.MonthlyIncome),
		MonthlyExpenses: formatFloat(cfg.Scenario.MonthlyExpenses),
		ExpectedReturn:  formatFloat(cfg.Scenario.ExpectedReturn * 100),
		Volatility:      formatFloat(cfg.Scenario.ReturnVolatility * 100),
		WithCar:         cfg.Car.Enabled,
		CarPrice:        formatFloat(cfg.Car.Price),
		PurchaseYear:    strconv.Itoa(cfg.Car.PurchaseYear),
		Theme:           cfg.Appearance.Theme,
	}
}

// NewSetupForm builds the huh form that edits vals in place.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, th := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(th.Name, th.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to fbsim").
				Description("A few questions about your finances. Values are monthly unless noted."),
			huh.NewSelect[string]().
				Title("Currency").
				Options(
					huh.NewOption("Indian rupee (INR)", "INR"),
					huh.NewOption("US dollar (USD)", "USD"),
					huh.NewOption("Euro (EUR)", "EUR"),
					huh.NewOption("Pound sterling (GBP)", "GBP"),
				).
				Value(&vals.Currency),
			huh.NewInput().Title("Years to simulate").Value(&vals.Years).Validate(validatePositiveInt),
			huh.NewInput().Title("Current savings").Value(&vals.InitialSavings).Validate(validateAmount),
			huh.NewInput().Title("Monthly income").Value(&vals.MonthlyIncome).Validate(validateAmount),
			huh.NewInput().Title("Monthly expenses").Value(&vals.MonthlyExpenses).Validate(validateAmount),
		),
		huh.NewGroup(
			huh.NewInput().Title("Expected annual return (%)").Value(&vals.ExpectedReturn).Validate(validateNumber),
			huh.NewInput().Title("Annual return volatility (%)").Value(&vals.Volatility).Validate(validateAmount),
			huh.NewConfirm().Title("Plan a car purchase?").Value(&vals.WithCar),
			huh.NewInput().Title("Car price").Value(&vals.CarPrice).Validate(validateAmount),
			huh.NewInput().Title("Purchase year (0 = now)").Value(&vals.PurchaseYear).Validate(validateNonNegativeInt),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Gemini API key").
				Description("Optional. Enables the AI advisor. Leave blank to skip.").
				EchoMode(huh.EchoModePassword).
				Value(&vals.APIKey),
			huh.NewSelect[string]().Title("Color theme").Options(themeOpts...).Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeCharm())
}

// Apply writes the answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) error {
	var err error
	if v.Currency != "" {
		cfg.General.Currency = v.Currency
	}
	if cfg.Scenario.Years, err = strconv.Atoi(strings.TrimSpace(v.Years)); err != nil {
		return fmt.Errorf("years: %w", err)
	}
	fields := []struct {
		name  string
		raw   string
		dst   *float64
		div   float64
	}{
		{"initial savings", v.InitialSavings, &cfg.Scenario.InitialSavings, 1},
		{"monthly income", v.MonthlyIncome, &cfg.Scenario.MonthlyIncome, 1},
		{"monthly expenses", v.MonthlyExpenses, &cfg.Scenario.MonthlyExpenses, 1},
		{"expected return", v.ExpectedReturn, &cfg.Scenario.ExpectedReturn, 100},
		{"volatility", v.Volatility, &cfg.Scenario.ReturnVolatility, 100},
		{"car price", v.CarPrice, &cfg.Car.Price, 1},
	}
	for _, f := range fields {
		x, err := parseNumber(f.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = x / f.div
	}
	if cfg.Car.PurchaseYear, err = strconv.Atoi(strings.TrimSpace(v.PurchaseYear)); err != nil {
		return fmt.Errorf("purchase year: %w", err)
	}
	cfg.Car.Enabled = v.WithCar

	if key := strings.TrimSpace(v.APIKey); key != "" {
		cfg.Advisor.APIKey = key
		cfg.Advisor.Enabled = true
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
	return nil
}

// parseNumber accepts plain numbers with optional thousands separators.
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	s = strings.ReplaceAll(s, "_", "")
	return strconv.ParseFloat(s, 64)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func validateNumber(s string) error {
	if _, err := parseNumber(s); err != nil {
		return fmt.Errorf("enter a number")
	}
	return nil
}

func validateAmount(s string) error {
	x, err := parseNumber(s)
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	if x < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("enter a whole number of at least 1")
	}
	return nil
}

func validateNonNegativeInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("enter a whole number of at least 0")
	}
	return nil
}
