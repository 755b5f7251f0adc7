package simulation

import (
	"fmt"
	"math"
	"sort"

	"github.com/futurebank/fbsim/internal/model"
)

// Summarize computes per-month 10th/50th/90th percentiles across trials and
// statistics over the final month.
func Summarize(paths Matrix) (model.Summary, error) {
	if len(paths) == 0 {
		return model.Summary{}, fmt.Errorf("%w: no trials", ErrShape)
	}
	months := len(paths[0])
	if months == 0 {
		return model.Summary{}, fmt.Errorf("%w: trials have no months", ErrShape)
	}
	for i, row := range paths {
		if len(row) != months {
			return model.Summary{}, fmt.Errorf("%w: row %d has %d months, want %d", ErrShape, i, len(row), months)
		}
	}

	n := len(paths)
	s := model.Summary{
		P10:         make([]float64, months),
		P50:         make([]float64, months),
		P90:         make([]float64, months),
		FinalValues: make([]float64, n),
	}

	col := make([]float64, n)
	for m := 0; m < months; m++ {
		for i, row := range paths {
			col[i] = row[m]
		}
		sort.Float64s(col)
		s.P10[m] = percentileSorted(col, 10)
		s.P50[m] = percentileSorted(col, 50)
		s.P90[m] = percentileSorted(col, 90)
	}

	var sum float64
	losses := 0
	for i, row := range paths {
		v := row[months-1]
		s.FinalValues[i] = v
		sum += v
		if v < 0 {
			losses++
		}
	}
	s.FinalMean = sum / float64(n)
	s.FinalMedian = Percentile(s.FinalValues, 50)
	s.ProbLoss = float64(losses) / float64(n)

	return s, nil
}

// Percentile returns the p-th percentile of values, interpolating linearly
// between the closest ranks. values is not modified. It returns NaN for an
// empty slice.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return percentileSorted(sorted, p)
}

func percentileSorted(sorted []float64, p float64) float64 {
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
