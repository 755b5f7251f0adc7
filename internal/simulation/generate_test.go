package simulation

import (
	"errors"
	"math"
	"testing"

	"github.com/futurebank/fbsim/internal/model"
)

// flatConfig has income offsetting expenses and no market movement.
func flatConfig() model.SimulationConfig {
	return model.SimulationConfig{
		Years:           1,
		InitialSavings:  100_000,
		MonthlyIncome:   10_000,
		MonthlyExpenses: 10_000,
	}
}

func marketConfig() model.SimulationConfig {
	return model.SimulationConfig{
		Years:                5,
		InitialSavings:       200_000,
		MonthlyIncome:        60_000,
		MonthlyExpenses:      40_000,
		IncomeGrowthRate:     0.05,
		InflationRate:        0.05,
		ExpectedAnnualReturn: 0.10,
		ReturnVolatility:     0.15,
	}
}

func mustGenerate(t *testing.T, cfg model.SimulationConfig, n int, opts ...Option) Matrix {
	t.Helper()
	paths, err := Generate(cfg, n, opts...)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return paths
}

func TestGenerate_Shape(t *testing.T) {
	cfg := marketConfig()
	paths := mustGenerate(t, cfg, 37)
	if len(paths) != 37 {
		t.Fatalf("rows = %d, want 37", len(paths))
	}
	for i, row := range paths {
		if len(row) != cfg.Years*12 {
			t.Fatalf("row %d has %d columns, want %d", i, len(row), cfg.Years*12)
		}
	}
}

func TestGenerate_InvalidConfiguration(t *testing.T) {
	cfg := flatConfig()

	cfg.Years = 0
	if _, err := Generate(cfg, 10); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("years=0 err = %v, want ErrInvalidConfiguration", err)
	}

	cfg.Years = -3
	if _, err := Generate(cfg, 10); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("years=-3 err = %v, want ErrInvalidConfiguration", err)
	}

	cfg.Years = 1
	if _, err := Generate(cfg, 0); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("nSims=0 err = %v, want ErrInvalidConfiguration", err)
	}
}

func TestGenerate_FlatScenarioIsConstant(t *testing.T) {
	paths := mustGenerate(t, flatConfig(), 1, WithSeed(1))
	if len(paths) != 1 || len(paths[0]) != 12 {
		t.Fatalf("shape = %dx%d, want 1x12", len(paths), len(paths[0]))
	}
	for m, v := range paths[0] {
		if v != 100_000 {
			t.Fatalf("month %d net worth = %v, want 100000", m, v)
		}
	}
}

func TestGenerate_FullDownPaymentDropsNetWorth(t *testing.T) {
	base := flatConfig()
	car := base
	car.WithCar = true
	car.CarPurchaseYear = 0
	car.CarPrice = 500_000
	car.CarDownPaymentPct = 1.0

	basePaths := mustGenerate(t, base, 1, WithSeed(7))
	carPaths := mustGenerate(t, car, 1, WithSeed(7))

	for m := range basePaths[0] {
		if diff := carPaths[0][m] - basePaths[0][m]; diff != -500_000 {
			t.Fatalf("month %d car - base = %v, want -500000", m, diff)
		}
	}

	p := NewParams(car)
	s := InitialState(car)
	for m := 0; m < car.Months(); m++ {
		s = p.Step(s, m, 0)
		if s.LoanBalance != 0 {
			t.Fatalf("month %d loan balance = %v, want 0", m, s.LoanBalance)
		}
	}
}

func TestGenerate_ZeroVolatilityRowsIdentical(t *testing.T) {
	cfg := marketConfig()
	cfg.ReturnVolatility = 0
	paths := mustGenerate(t, cfg, 25, WithSeed(42))

	p := NewParams(cfg)
	s := InitialState(cfg)
	want := make([]float64, cfg.Months())
	for m := range want {
		s = p.Step(s, m, p.ReturnMu)
		want[m] = s.NetWorth
	}

	for i, row := range paths {
		for m, v := range row {
			if v != want[m] {
				t.Fatalf("row %d month %d = %v, want %v", i, m, v, want[m])
			}
		}
	}
}

func TestGenerate_CarFieldsInertWithoutCar(t *testing.T) {
	a := marketConfig()
	b := a
	b.CarPurchaseYear = 2
	b.CarPrice = 900_000
	b.CarDownPaymentPct = 0.3
	b.CarLoanInterestRate = 0.11
	b.CarLoanTermYears = 4
	b.AnnualCarExtraCost = 50_000
	b.FinalPayment = model.FinalPaymentClamp

	pa := mustGenerate(t, a, 50, WithSeed(99))
	pb := mustGenerate(t, b, 50, WithSeed(99))
	for i := range pa {
		for m := range pa[i] {
			if pa[i][m] != pb[i][m] {
				t.Fatalf("trial %d month %d differs: %v vs %v", i, m, pa[i][m], pb[i][m])
			}
		}
	}
}

func TestGenerate_SeedReproducibleAcrossWorkers(t *testing.T) {
	cfg := marketConfig()
	one := mustGenerate(t, cfg, 64, WithSeed(2024), WithWorkers(1))
	many := mustGenerate(t, cfg, 64, WithSeed(2024), WithWorkers(8))
	for i := range one {
		for m := range one[i] {
			if one[i][m] != many[i][m] {
				t.Fatalf("trial %d month %d: 1 worker %v, 8 workers %v", i, m, one[i][m], many[i][m])
			}
		}
	}
}

func TestGenerate_TrialsAreIndependent(t *testing.T) {
	paths := mustGenerate(t, marketConfig(), 2, WithSeed(5))
	if paths[0][0] == paths[1][0] {
		t.Fatal("two trials drew the same first-month value")
	}
	paths[0][0] = math.Inf(1)
	if math.IsInf(paths[1][0], 1) {
		t.Fatal("rows alias the same backing array")
	}
}

func TestGenerate_Progress(t *testing.T) {
	var last, calls int
	_ = mustGenerate(t, flatConfig(), 10, WithWorkers(1), WithProgress(func(current, total int) {
		calls++
		last = current
		if total != 10 {
			t.Errorf("total = %d, want 10", total)
		}
	}))
	if calls != 10 || last != 10 {
		t.Fatalf("progress calls = %d last = %d, want 10 and 10", calls, last)
	}
}

func TestStep_ExtraCostYearly(t *testing.T) {
	cfg := model.SimulationConfig{
		Years:              3,
		WithCar:            true,
		CarPurchaseYear:    1,
		AnnualCarExtraCost: 1200,
	}
	paths := mustGenerate(t, cfg, 1, WithSeed(3))
	want := map[int]float64{0: 0, 11: 0, 12: -1200, 23: -1200, 24: -2400, 35: -2400}
	for m, v := range want {
		if got := paths[0][m]; got != v {
			t.Errorf("month %d = %v, want %v", m, got, v)
		}
	}
}

func TestStep_AmortizationRetiresLoan(t *testing.T) {
	cfg := model.SimulationConfig{
		Years:               2,
		WithCar:             true,
		CarPrice:            120_000,
		CarLoanInterestRate: 0.12,
		CarLoanTermYears:    1,
	}
	p := NewParams(cfg)
	s := InitialState(cfg)
	for m := 0; m < 12; m++ {
		s = p.Step(s, m, 0)
	}
	if s.LoanBalance > 1e-6 {
		t.Fatalf("balance after 12 payments = %g, want ~0", s.LoanBalance)
	}
	if math.Abs(s.NetWorth+12*s.LoanPayment) > 1e-6 {
		t.Fatalf("net worth = %v, want %v", s.NetWorth, -12*s.LoanPayment)
	}
}

func TestStep_NegativeLoanRateStraightLine(t *testing.T) {
	cfg := model.SimulationConfig{
		Years:               1,
		WithCar:             true,
		CarPrice:            120_000,
		CarLoanInterestRate: -0.12,
		CarLoanTermYears:    1,
	}
	p := NewParams(cfg)
	s := p.Step(InitialState(cfg), 0, 0)
	if s.LoanPayment != 10_000 {
		t.Fatalf("LoanPayment = %v, want 10000", s.LoanPayment)
	}
}

func TestStep_FinalPaymentOvershoot(t *testing.T) {
	cfg := model.SimulationConfig{Years: 1, WithCar: true, CarPurchaseYear: -1}
	start := State{NetWorth: 1000, LoanBalance: 100, LoanPayment: 300}

	full := NewParams(cfg)
	got := full.Step(start, 1, 0)
	if got.NetWorth != 700 || got.LoanBalance != 0 {
		t.Errorf("full policy: net worth %v balance %v, want 700 and 0", got.NetWorth, got.LoanBalance)
	}

	cfg.FinalPayment = model.FinalPaymentClamp
	clamp := NewParams(cfg)
	got = clamp.Step(start, 1, 0)
	if got.NetWorth != 900 || got.LoanBalance != 0 {
		t.Errorf("clamp policy: net worth %v balance %v, want 900 and 0", got.NetWorth, got.LoanBalance)
	}
}

func TestStep_GrowthStartsSecondMonth(t *testing.T) {
	cfg := model.SimulationConfig{
		Years:            1,
		MonthlyIncome:    1000,
		IncomeGrowthRate: 0.12,
	}
	p := NewParams(cfg)
	s := p.Step(InitialState(cfg), 0, 0)
	if s.Income != 1000 || s.NetWorth != 1000 {
		t.Fatalf("month 0 income %v net worth %v, want 1000 and 1000", s.Income, s.NetWorth)
	}
	s = p.Step(s, 1, 0)
	if math.Abs(s.Income-1010) > 1e-9 {
		t.Fatalf("month 1 income = %v, want 1010", s.Income)
	}
}

func TestStep_ShockIsMultiplicative(t *testing.T) {
	cfg := model.SimulationConfig{Years: 1, InitialSavings: 1000, MonthlyIncome: 100}
	p := NewParams(cfg)
	s := p.Step(InitialState(cfg), 0, 0.1)
	if math.Abs(s.NetWorth-1210) > 1e-9 {
		t.Fatalf("net worth = %v, want 1210", s.NetWorth)
	}
}
