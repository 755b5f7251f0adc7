package advice

import (
	"testing"

	"github.com/futurebank/fbsim/internal/model"
	"github.com/futurebank/fbsim/internal/pipeline"
)

func TestFromResult(t *testing.T) {
	res := &pipeline.Result{
		Sims: 500,
		Baseline: pipeline.ScenarioResult{
			Config:  model.SimulationConfig{Years: 10},
			Summary: model.Summary{FinalMedian: 900, ProbLoss: 0.1},
		},
	}

	in := FromResult(res, "EUR")
	if in.WithCar {
		t.Fatal("WithCar = true without a car scenario")
	}
	if in.Years != 10 || in.Sims != 500 || in.Currency != "EUR" {
		t.Fatalf("header = %d/%d/%s, want 10/500/EUR", in.Years, in.Sims, in.Currency)
	}

	res.Car = &pipeline.ScenarioResult{
		Config:  model.SimulationConfig{Years: 10, WithCar: true, CarPurchaseYear: 3},
		Summary: model.Summary{FinalMedian: 600, ProbLoss: 0.3},
	}
	res.Comparison = &model.Comparison{MedianDelta: -300}

	in = FromResult(res, "EUR")
	if !in.WithCar || in.CarPurchaseYear != 3 {
		t.Fatalf("car = %v/%d, want true/3", in.WithCar, in.CarPurchaseYear)
	}
	if in.CarMedian != 600 || in.MedianDelta != -300 || in.CarProbLoss != 0.3 {
		t.Fatalf("car numbers = %v/%v/%v, want 600/-300/0.3", in.CarMedian, in.MedianDelta, in.CarProbLoss)
	}
}
