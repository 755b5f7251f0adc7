package pipeline

import (
	"math"

	"github.com/futurebank/fbsim/internal/model"
)

// YearlyBands down-samples monthly percentile bands to the last month of
// each simulated year.
func YearlyBands(s model.Summary) []model.BandRow {
	months := s.Months()
	rows := make([]model.BandRow, 0, months/12+1)
	for m := 11; m < months; m += 12 {
		rows = append(rows, bandRow(s, m))
	}
	if months%12 != 0 {
		rows = append(rows, bandRow(s, months-1))
	}
	return rows
}

// MonthlyBands returns one band row per simulated month.
func MonthlyBands(s model.Summary) []model.BandRow {
	rows := make([]model.BandRow, s.Months())
	for m := range rows {
		rows[m] = bandRow(s, m)
	}
	return rows
}

func bandRow(s model.Summary, m int) model.BandRow {
	return model.BandRow{
		Year:  (m + 1 + 11) / 12,
		Month: m,
		P10:   s.P10[m],
		P50:   s.P50[m],
		P90:   s.P90[m],
	}
}

// Histogram buckets values into equal-width bins spanning [min, max].
// The last bin includes max. NaN and infinite values are not counted.
func Histogram(values []float64, bins int) []model.HistogramBin {
	if bins < 1 {
		bins = 1
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	finite := 0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		finite++
	}
	if finite == 0 {
		return nil
	}
	if lo == hi {
		return []model.HistogramBin{{Low: lo, High: hi, Count: finite}}
	}

	// Divide first so a range wider than MaxFloat64 stays finite.
	width := hi/float64(bins) - lo/float64(bins)
	edge := func(i int) float64 {
		f := float64(i) / float64(bins)
		return lo*(1-f) + hi*f
	}
	out := make([]model.HistogramBin, bins)
	for i := range out {
		out[i].Low = edge(i)
		out[i].High = edge(i + 1)
	}
	out[bins-1].High = hi

	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		pos := (v - lo) / width
		idx := bins - 1
		if pos >= 0 && pos < float64(bins) {
			idx = int(pos)
		} else if !(pos >= 0) {
			idx = 0
		}
		out[idx].Count++
	}
	return out
}
