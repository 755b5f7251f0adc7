package model

// Summary reduces a path matrix to percentile bands and final-value
// statistics. It holds no reference to the matrix it was computed from.
type Summary struct {
	P10 []float64 `json:"p10"`
	P50 []float64 `json:"p50"`
	P90 []float64 `json:"p90"`

	FinalValues []float64 `json:"final_values"`
	FinalMedian float64   `json:"final_median"`
	FinalMean   float64   `json:"final_mean"`
	ProbLoss    float64   `json:"prob_loss"`
}

// Months returns the number of monthly columns the summary covers.
func (s Summary) Months() int {
	return len(s.P50)
}

// Sims returns the number of trials behind the summary.
func (s Summary) Sims() int {
	return len(s.FinalValues)
}

// BandRow is one down-sampled row of the percentile bands.
type BandRow struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	P10   float64 `json:"p10"`
	P50   float64 `json:"p50"`
	P90   float64 `json:"p90"`
}

// Comparison holds car-minus-baseline deltas.
type Comparison struct {
	MedianDelta   float64 `json:"median_delta"`
	MeanDelta     float64 `json:"mean_delta"`
	ProbLossDelta float64 `json:"prob_loss_delta"`
}

// HistogramBin counts final values in [Low, High).
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}
