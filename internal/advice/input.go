package advice

import "github.com/futurebank/fbsim/internal/pipeline"

// FromResult extracts the scalar headline numbers the advisor sees.
func FromResult(res *pipeline.Result, currency string) Input {
	in := Input{
		Years:            res.Baseline.Config.Years,
		Sims:             res.Sims,
		Currency:         currency,
		BaselineMedian:   res.Baseline.Summary.FinalMedian,
		BaselineProbLoss: res.Baseline.Summary.ProbLoss,
	}
	if res.Car != nil && res.Comparison != nil {
		in.WithCar = true
		in.CarPurchaseYear = res.Car.Config.CarPurchaseYear
		in.CarMedian = res.Car.Summary.FinalMedian
		in.CarProbLoss = res.Car.Summary.ProbLoss
		in.MedianDelta = res.Comparison.MedianDelta
	}
	return in
}
