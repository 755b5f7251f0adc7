package model

import "time"

// RunInfo describes one cached scenario run.
type RunInfo struct {
	Key         string    `json:"key"`
	Label       string    `json:"label"` // "baseline" or "car"
	CreatedAt   time.Time `json:"created_at"`
	Sims        int       `json:"sims"`
	Years       int       `json:"years"`
	Seed        uint64    `json:"seed"`
	WithCar     bool      `json:"with_car"`
	FinalMedian float64   `json:"final_median"`
	FinalMean   float64   `json:"final_mean"`
	ProbLoss    float64   `json:"prob_loss"`
}
