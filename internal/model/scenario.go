// Package model defines domain types shared by the fbsim simulator, its
// summaries and the surfaces that present them.
package model

// FinalPaymentPolicy controls how the last car loan installment is charged.
type FinalPaymentPolicy string

const (
	// FinalPaymentFull charges the full level payment every month, even when
	// the remaining balance plus interest is smaller. This overshoots once.
	FinalPaymentFull FinalPaymentPolicy = "full"
	// FinalPaymentClamp limits the last payment to balance plus interest.
	FinalPaymentClamp FinalPaymentPolicy = "clamp"
)

// SimulationConfig is the immutable input of one Monte Carlo projection.
// All rates are annual decimals (0.08 = 8%).
type SimulationConfig struct {
	Years          int     `json:"years"`
	InitialSavings float64 `json:"initial_savings"`

	MonthlyIncome    float64 `json:"monthly_income"`
	MonthlyExpenses  float64 `json:"monthly_expenses"`
	IncomeGrowthRate float64 `json:"income_growth_rate"`
	InflationRate    float64 `json:"inflation_rate"`

	ExpectedAnnualReturn float64 `json:"expected_annual_return"`
	ReturnVolatility     float64 `json:"return_volatility"` // annual standard deviation

	// Car overlay, inert unless WithCar is set.
	WithCar             bool               `json:"with_car"`
	CarPurchaseYear     int                `json:"car_purchase_year"`
	CarPrice            float64            `json:"car_price"`
	CarDownPaymentPct   float64            `json:"car_down_payment_pct"` // 0-1
	CarLoanInterestRate float64            `json:"car_loan_interest_rate"`
	CarLoanTermYears    int                `json:"car_loan_term_years"`
	AnnualCarExtraCost  float64            `json:"annual_car_extra_cost"`
	FinalPayment        FinalPaymentPolicy `json:"final_payment,omitempty"`
}

// Months returns the horizon in monthly steps.
func (c SimulationConfig) Months() int {
	return c.Years * 12
}

// PurchaseMonth returns the step at which the car is bought.
func (c SimulationConfig) PurchaseMonth() int {
	return c.CarPurchaseYear * 12
}

// Baseline returns a copy of the config with the car overlay disabled.
func (c SimulationConfig) Baseline() SimulationConfig {
	c.WithCar = false
	return c
}

// DownPayment returns the cash paid at purchase.
func (c SimulationConfig) DownPayment() float64 {
	return c.CarPrice * c.CarDownPaymentPct
}

// LoanPrincipal returns the financed amount, never negative.
func (c SimulationConfig) LoanPrincipal() float64 {
	return max(c.CarPrice-c.DownPayment(), 0)
}
