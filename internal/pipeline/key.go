package pipeline

import (
	"fmt"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/futurebank/fbsim/internal/model"
)

// keyVersion changes whenever the simulation recurrence changes, so stale
// cached summaries are never served.
const keyVersion = 2

type cacheKeyInput struct {
	Version  int
	Scenario model.SimulationConfig
	Sims     int
	Seed     uint64
}

// CacheKey identifies a seeded run.
func CacheKey(cfg model.SimulationConfig, sims int, seed uint64) (string, error) {
	h, err := hashstructure.Hash(cacheKeyInput{
		Version:  keyVersion,
		Scenario: keyScenario(cfg),
		Sims:     sims,
		Seed:     seed,
	}, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("hashing run: %w", err)
	}
	return fmt.Sprintf("%016x", h), nil
}

// keyScenario clears fields that cannot change the paths, so equivalent
// scenarios share a key. An empty final payment policy behaves as full and
// car fields are inert without the car overlay.
func keyScenario(cfg model.SimulationConfig) model.SimulationConfig {
	if !cfg.WithCar {
		cfg.CarPurchaseYear = 0
		cfg.CarPrice = 0
		cfg.CarDownPaymentPct = 0
		cfg.CarLoanInterestRate = 0
		cfg.CarLoanTermYears = 0
		cfg.AnnualCarExtraCost = 0
		cfg.FinalPayment = ""
		return cfg
	}
	if cfg.FinalPayment != model.FinalPaymentClamp {
		cfg.FinalPayment = model.FinalPaymentFull
	}
	return cfg
}
