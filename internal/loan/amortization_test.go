package loan

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLevelPayment_KnownEMI(t *testing.T) {
	got := LevelPayment(100_000, MonthlyRate(0.12), 12)
	if math.Abs(got-8884.88) > 0.01 {
		t.Fatalf("LevelPayment = %.4f, want 8884.88", got)
	}
}

func TestLevelPayment_ZeroRateIsStraightLine(t *testing.T) {
	got := LevelPayment(12_000, 0, 24)
	if got != 500 {
		t.Fatalf("LevelPayment = %.4f, want 500", got)
	}
}

func TestLevelPayment_NegativeRateIsStraightLine(t *testing.T) {
	got := LevelPayment(120_000, MonthlyRate(-0.12), 12)
	if got != 10_000 {
		t.Fatalf("LevelPayment = %.4f, want 10000", got)
	}
}

func TestLevelPayment_NothingToRepay(t *testing.T) {
	if got := LevelPayment(0, 0.01, 12); got != 0 {
		t.Errorf("zero principal payment = %v, want 0", got)
	}
	if got := LevelPayment(1000, 0.01, 0); got != 0 {
		t.Errorf("zero term payment = %v, want 0", got)
	}
}

func TestLevelPayment_RetiresBalance(t *testing.T) {
	principal := 640_000.0
	r := MonthlyRate(0.09)
	n := 60
	pay := LevelPayment(principal, r, n)

	balance := principal
	for i := 0; i < n; i++ {
		balance -= pay - balance*r
	}
	if math.Abs(balance) > 1e-6 {
		t.Fatalf("residual balance after %d payments = %g, want ~0", n, balance)
	}
}

func TestSchedule_EndsAtZero(t *testing.T) {
	rows := Schedule(640_000, 0.09, 5)
	if len(rows) != 60 {
		t.Fatalf("len(rows) = %d, want 60", len(rows))
	}
	last := rows[len(rows)-1]
	if !last.Balance.IsZero() {
		t.Fatalf("final balance = %s, want 0", last.Balance)
	}

	var principal decimal.Decimal
	for _, row := range rows {
		principal = principal.Add(row.Principal)
	}
	if !principal.Equal(decimal.NewFromInt(640_000)) {
		t.Fatalf("principal repaid = %s, want 640000", principal)
	}
}

func TestSchedule_Totals(t *testing.T) {
	rows := Schedule(12_000, 0, 1)
	paid, interest := Totals(rows)
	if !paid.Equal(decimal.NewFromInt(12_000)) {
		t.Errorf("paid = %s, want 12000", paid)
	}
	if !interest.IsZero() {
		t.Errorf("interest = %s, want 0", interest)
	}
}

func TestSchedule_Empty(t *testing.T) {
	if rows := Schedule(0, 0.1, 5); rows != nil {
		t.Errorf("Schedule(0) = %v, want nil", rows)
	}
	if rows := Schedule(1000, 0.1, 0); rows != nil {
		t.Errorf("Schedule(term 0) = %v, want nil", rows)
	}
}

func TestYearly(t *testing.T) {
	rows := Schedule(24_000, 0, 2)
	years := Yearly(rows)
	if len(years) != 2 {
		t.Fatalf("len = %d, want 2", len(years))
	}
	want := decimal.NewFromInt(12_000)
	if !years[0].Payment.Equal(want) || !years[0].Principal.Equal(want) {
		t.Fatalf("year 1 = paid %s principal %s, want 12000", years[0].Payment, years[0].Principal)
	}
	if years[0].Month != 12 || !years[0].Balance.Equal(want) {
		t.Fatalf("year 1 = month %d balance %s, want 12/12000", years[0].Month, years[0].Balance)
	}
	if years[1].Month != 24 || !years[1].Balance.IsZero() {
		t.Fatalf("year 2 = month %d balance %s, want 24/0", years[1].Month, years[1].Balance)
	}
}
