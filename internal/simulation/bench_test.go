package simulation

import "testing"

func BenchmarkGenerate(b *testing.B) {
	cfg := marketConfig()
	cfg.Years = 15
	cfg.WithCar = true
	cfg.CarPurchaseYear = 1
	cfg.CarPrice = 800_000
	cfg.CarDownPaymentPct = 0.2
	cfg.CarLoanInterestRate = 0.09
	cfg.CarLoanTermYears = 5
	cfg.AnnualCarExtraCost = 80_000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Generate(cfg, 1000, WithSeed(uint64(i))); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSummarize(b *testing.B) {
	cfg := marketConfig()
	cfg.Years = 15
	paths, err := Generate(cfg, 1000, WithSeed(1))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Summarize(paths); err != nil {
			b.Fatal(err)
		}
	}
}
