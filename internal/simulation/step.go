package simulation

import (
	"math"
	"math/rand/v2"

	"github.com/futurebank/fbsim/internal/loan"
	"github.com/futurebank/fbsim/internal/model"
)

// Params are the monthly parameters derived once from a SimulationConfig.
// They are read-only and shared by every trial.
type Params struct {
	IncomeGrowth float64
	Inflation    float64
	ReturnMu     float64
	ReturnSigma  float64

	WithCar         bool
	PurchaseMonth   int
	DownPayment     float64
	LoanPrincipal   float64
	LoanRate        float64
	LoanTermMonths  int
	AnnualExtraCost float64
	ClampFinal      bool
}

// NewParams converts annual rates to monthly ones: means are divided by 12,
// the return volatility by sqrt(12).
func NewParams(cfg model.SimulationConfig) Params {
	return Params{
		IncomeGrowth: loan.MonthlyRate(cfg.IncomeGrowthRate),
		Inflation:    loan.MonthlyRate(cfg.InflationRate),
		ReturnMu:     loan.MonthlyRate(cfg.ExpectedAnnualReturn),
		ReturnSigma:  cfg.ReturnVolatility / math.Sqrt(12),

		WithCar:         cfg.WithCar,
		PurchaseMonth:   cfg.PurchaseMonth(),
		DownPayment:     cfg.DownPayment(),
		LoanPrincipal:   cfg.LoanPrincipal(),
		LoanRate:        loan.MonthlyRate(cfg.CarLoanInterestRate),
		LoanTermMonths:  cfg.CarLoanTermYears * 12,
		AnnualExtraCost: cfg.AnnualCarExtraCost,
		ClampFinal:      cfg.FinalPayment == model.FinalPaymentClamp,
	}
}

// State is the per-trial quantity set that evolves month by month.
type State struct {
	NetWorth    float64
	LoanBalance float64
	LoanPayment float64
	Income      float64
	Expenses    float64
}

// InitialState returns the state before month 0.
func InitialState(cfg model.SimulationConfig) State {
	return State{
		NetWorth: cfg.InitialSavings,
		Income:   cfg.MonthlyIncome,
		Expenses: cfg.MonthlyExpenses,
	}
}

// Shock draws one monthly investment return.
func (p Params) Shock(rng *rand.Rand) float64 {
	return p.ReturnMu + p.ReturnSigma*rng.NormFloat64()
}

// Step advances s through month m given that month's return shock.
// Cash flows are applied first, then the multiplicative market move.
func (p Params) Step(s State, m int, shock float64) State {
	if m > 0 {
		s.Income *= 1 + p.IncomeGrowth
		s.Expenses *= 1 + p.Inflation
	}
	s.NetWorth += s.Income - s.Expenses

	if p.WithCar {
		s = p.carStep(s, m)
	}

	s.NetWorth *= 1 + shock
	return s
}

func (p Params) carStep(s State, m int) State {
	if m == p.PurchaseMonth {
		s.NetWorth -= p.DownPayment
		s.LoanBalance = p.LoanPrincipal
		if p.LoanTermMonths > 0 && s.LoanBalance > 0 {
			s.LoanPayment = loan.LevelPayment(s.LoanBalance, p.LoanRate, p.LoanTermMonths)
		}
	}
	if m < p.PurchaseMonth {
		return s
	}

	if s.LoanBalance > 0 && s.LoanPayment > 0 {
		interest := s.LoanBalance * p.LoanRate
		payment := s.LoanPayment
		if p.ClampFinal {
			payment = min(payment, s.LoanBalance+interest)
		}
		s.LoanBalance = max(s.LoanBalance-(payment-interest), 0)
		s.NetWorth -= payment
	}

	if (m-p.PurchaseMonth)%12 == 0 {
		s.NetWorth -= p.AnnualExtraCost
	}
	return s
}

// Path runs one full trial and returns its monthly net worth.
func (p Params) Path(start State, months int, rng *rand.Rand) []float64 {
	row := make([]float64, months)
	s := start
	for m := range months {
		s = p.Step(s, m, p.Shock(rng))
		row[m] = s.NetWorth
	}
	return row
}
