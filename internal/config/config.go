// Package config loads and saves the fbsim TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/futurebank/fbsim/internal/model"
)

// Config holds all fbsim configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Scenario   ScenarioConfig   `toml:"scenario"`
	Car        CarConfig        `toml:"car"`
	Advisor    AdvisorConfig    `toml:"advisor"`
	Cache      CacheConfig      `toml:"cache"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds simulation run preferences.
type GeneralConfig struct {
	Sims     int     `toml:"sims"`
	Workers  int     `toml:"workers,omitempty"`
	Seed     *uint64 `toml:"seed,omitempty"`
	Currency string  `toml:"currency"`
	LogLevel string  `toml:"log_level,omitempty"`
}

// ScenarioConfig holds the baseline financial inputs. Rates are decimals.
type ScenarioConfig struct {
	Years            int     `toml:"years"`
	InitialSavings   float64 `toml:"initial_savings"`
	MonthlyIncome    float64 `toml:"monthly_income"`
	MonthlyExpenses  float64 `toml:"monthly_expenses"`
	IncomeGrowthRate float64 `toml:"income_growth_rate"`
	InflationRate    float64 `toml:"inflation_rate"`
	ExpectedReturn   float64 `toml:"expected_return"`
	ReturnVolatility float64 `toml:"return_volatility"`
}

// CarConfig holds the optional financed car purchase.
type CarConfig struct {
	Enabled          bool    `toml:"enabled"`
	PurchaseYear     int     `toml:"purchase_year"`
	Price            float64 `toml:"price"`
	DownPaymentPct   float64 `toml:"down_payment_pct"`
	LoanInterestRate float64 `toml:"loan_interest_rate"`
	LoanTermYears    int     `toml:"loan_term_years"`
	AnnualExtraCost  float64 `toml:"annual_extra_cost"`
	FinalPayment     string  `toml:"final_payment,omitempty"`
}

// AdvisorConfig holds the text advice generator settings.
type AdvisorConfig struct {
	Enabled bool   `toml:"enabled"`
	Model   string `toml:"model"`
	APIKey  string `toml:"api_key,omitempty"`
}

// CacheConfig selects where seeded run summaries are cached.
type CacheConfig struct {
	Backend   string `toml:"backend"` // sqlite, redis or none
	RedisAddr string `toml:"redis_addr,omitempty"`
	TTLHours  int    `toml:"ttl_hours,omitempty"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Sims:     1000,
			Currency: "INR",
		},
		Scenario: ScenarioConfig{
			Years:            15,
			InitialSavings:   200_000,
			MonthlyIncome:    60_000,
			MonthlyExpenses:  40_000,
			IncomeGrowthRate: 0.05,
			InflationRate:    0.05,
			ExpectedReturn:   0.10,
			ReturnVolatility: 0.15,
		},
		Car: CarConfig{
			Enabled:          true,
			PurchaseYear:     1,
			Price:            800_000,
			DownPaymentPct:   0.20,
			LoanInterestRate: 0.09,
			LoanTermYears:    5,
			AnnualExtraCost:  80_000,
			FinalPayment:     string(model.FinalPaymentFull),
		},
		Advisor: AdvisorConfig{
			Enabled: true,
			Model:   "gemini-2.5-flash",
		},
		Cache: CacheConfig{
			Backend:   "sqlite",
			RedisAddr: "localhost:6379",
			TTLHours:  24 * 7,
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8787",
			EventsBuffer: 200,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fbsim")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "fbsim")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config file at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is user configuration
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// GetAdvisorAPIKey returns the Gemini API key from env vars or config, in that order.
func GetAdvisorAPIKey(cfg Config) string {
	for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}
	return cfg.Advisor.APIKey
}

// Simulation maps the configured scenario to the simulator input.
// The car overlay follows Car.Enabled.
func (c Config) Simulation() model.SimulationConfig {
	s, car := c.Scenario, c.Car
	return model.SimulationConfig{
		Years:                s.Years,
		InitialSavings:       s.InitialSavings,
		MonthlyIncome:        s.MonthlyIncome,
		MonthlyExpenses:      s.MonthlyExpenses,
		IncomeGrowthRate:     s.IncomeGrowthRate,
		InflationRate:        s.InflationRate,
		ExpectedAnnualReturn: s.ExpectedReturn,
		ReturnVolatility:     s.ReturnVolatility,

		WithCar:             car.Enabled,
		CarPurchaseYear:     car.PurchaseYear,
		CarPrice:            car.Price,
		CarDownPaymentPct:   car.DownPaymentPct,
		CarLoanInterestRate: car.LoanInterestRate,
		CarLoanTermYears:    car.LoanTermYears,
		AnnualCarExtraCost:  car.AnnualExtraCost,
		FinalPayment:        model.FinalPaymentPolicy(car.FinalPayment),
	}
}

// Validate rejects settings the simulator cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Scenario.Years <= 0 {
		errs = append(errs, fmt.Errorf("scenario.years must be positive, got %d", c.Scenario.Years))
	}
	if c.General.Sims <= 0 {
		errs = append(errs, fmt.Errorf("general.sims must be positive, got %d", c.General.Sims))
	}
	switch model.FinalPaymentPolicy(c.Car.FinalPayment) {
	case "", model.FinalPaymentFull, model.FinalPaymentClamp:
	default:
		errs = append(errs, fmt.Errorf("car.final_payment must be %q or %q, got %q",
			model.FinalPaymentFull, model.FinalPaymentClamp, c.Car.FinalPayment))
	}
	switch c.Cache.Backend {
	case "", "sqlite", "redis", "none":
	default:
		errs = append(errs, fmt.Errorf("cache.backend must be sqlite, redis or none, got %q", c.Cache.Backend))
	}
	return errors.Join(errs...)
}
