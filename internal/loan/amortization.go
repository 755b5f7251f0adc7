// Package loan implements level-payment (EMI) amortization for the car
// purchase overlay.
package loan

import (
	"math"

	"github.com/shopspring/decimal"
)

// MonthlyRate converts an annual rate to a monthly one by simple division.
// Rates are not compounded.
func MonthlyRate(annual float64) float64 {
	return annual / 12
}

// LevelPayment returns the fixed monthly installment that retires principal
// over n months at monthly rate r. A zero or negative rate falls back to
// straight-line repayment. It returns 0 when there is nothing to repay.
func LevelPayment(principal, r float64, n int) float64 {
	if n <= 0 || principal <= 0 {
		return 0
	}
	if r <= 0 {
		return principal / float64(n)
	}
	growth := math.Pow(1+r, float64(n))
	return principal * r * growth / (growth - 1)
}

// Installment is one row of an amortization schedule, rounded to cents.
type Installment struct {
	Month     int
	Payment   decimal.Decimal
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Balance   decimal.Decimal
}

// Schedule builds the month-by-month repayment table for a loan.
// The last installment absorbs rounding so the balance ends at exactly zero.
func Schedule(principal, annualRate float64, termYears int) []Installment {
	n := termYears * 12
	if n <= 0 || principal <= 0 {
		return nil
	}

	r := MonthlyRate(annualRate)
	rate := decimal.NewFromFloat(r)
	payment := decimal.NewFromFloat(LevelPayment(principal, r, n)).Round(2)
	balance := decimal.NewFromFloat(principal).Round(2)

	rows := make([]Installment, 0, n)
	for m := 1; m <= n; m++ {
		interest := balance.Mul(rate).Round(2)
		pay := payment
		if m == n || pay.Sub(interest).GreaterThan(balance) {
			pay = balance.Add(interest)
		}
		princ := pay.Sub(interest)
		balance = balance.Sub(princ)

		rows = append(rows, Installment{
			Month:     m,
			Payment:   pay,
			Interest:  interest,
			Principal: princ,
			Balance:   balance,
		})
		if balance.IsZero() {
			break
		}
	}
	return rows
}

// Totals returns the sum of payments and the sum of interest in a schedule.
func Totals(rows []Installment) (paid, interest decimal.Decimal) {
	for _, row := range rows {
		paid = paid.Add(row.Payment)
		interest = interest.Add(row.Interest)
	}
	return paid, interest
}

// Yearly folds a schedule into one row per loan year. Month holds the last
// installment of the year and Balance the balance after it.
func Yearly(rows []Installment) []Installment {
	var out []Installment
	for i, row := range rows {
		if i%12 == 0 {
			out = append(out, Installment{})
		}
		y := &out[len(out)-1]
		y.Month = row.Month
		y.Payment = y.Payment.Add(row.Payment)
		y.Interest = y.Interest.Add(row.Interest)
		y.Principal = y.Principal.Add(row.Principal)
		y.Balance = row.Balance
	}
	return out
}
