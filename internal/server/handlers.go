package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/futurebank/fbsim/internal/model"
	"github.com/futurebank/fbsim/internal/pipeline"
	"github.com/futurebank/fbsim/internal/simulation"
)

// SimulateRequest is the body of POST /v1/simulate. Omitted fields keep the
// server's configured defaults.
type SimulateRequest struct {
	Scenario model.SimulationConfig `json:"scenario"`
	Sims     int                    `json:"sims"`
	Seed     *uint64                `json:"seed,omitempty"`
	Bins     int                    `json:"bins,omitempty"`
}

// ScenarioPayload is one scenario in a simulate response.
type ScenarioPayload struct {
	Label       string               `json:"label"`
	Key         string               `json:"key,omitempty"`
	CacheHit    bool                 `json:"cache_hit"`
	FinalMedian float64              `json:"final_median"`
	FinalMean   float64              `json:"final_mean"`
	ProbLoss    float64              `json:"prob_loss"`
	Bands       []model.BandRow      `json:"bands"`
	Histogram   []model.HistogramBin `json:"histogram"`
}

// SimulateResponse is the body returned by POST /v1/simulate.
type SimulateResponse struct {
	Sims       int               `json:"sims"`
	Currency   string            `json:"currency"`
	ElapsedMS  int64             `json:"elapsed_ms"`
	Baseline   ScenarioPayload   `json:"baseline"`
	Car        *ScenarioPayload  `json:"car,omitempty"`
	Comparison *model.Comparison `json:"comparison,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleSimulate(w http.ResponseWriter, r *http.Request) {
	req := SimulateRequest{
		Scenario: s.defaults,
		Sims:     s.cfg.Sims,
		Bins:     20,
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("decoding request: %v", err)})
		return
	}
	if err := s.checkLimits(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	res, err := s.runner.Run(r.Context(), pipeline.Request{
		Scenario: req.Scenario,
		Sims:     req.Sims,
		Seed:     req.Seed,
		Workers:  s.cfg.Workers,
	}, nil)
	s.recordRun(err)

	summary := RunSummary{
		Sims:    req.Sims,
		Years:   req.Scenario.Years,
		Seed:    req.Seed,
		WithCar: req.Scenario.WithCar,
	}
	if err != nil {
		s.emit("run_error", summary, err.Error())
		status := http.StatusInternalServerError
		if errors.Is(err, simulation.ErrInvalidConfiguration) {
			status = http.StatusBadRequest
		}
		s.log.WithError(err).Warn("simulation failed")
		writeJSON(w, status, errorBody{Error: err.Error()})
		return
	}

	resp := SimulateResponse{
		Sims:       res.Sims,
		Currency:   s.cfg.Currency,
		ElapsedMS:  res.Elapsed.Milliseconds(),
		Baseline:   scenarioPayload(res.Baseline, req.Bins),
		Comparison: res.Comparison,
	}
	if res.Car != nil {
		car := scenarioPayload(*res.Car, req.Bins)
		resp.Car = &car
	}

	summary.CacheHit = res.Baseline.CacheHit
	summary.ElapsedMS = resp.ElapsedMS
	summary.BaselineMedian = res.Baseline.Summary.FinalMedian
	summary.BaselineProbLoss = res.Baseline.Summary.ProbLoss
	summary.Comparison = res.Comparison
	s.emit("run", summary, "")

	writeJSON(w, http.StatusOK, resp)
}

// checkLimits bounds the allocation a single request can cause: the path
// matrix grows with sims*years and the histogram with bins.
func (s *Service) checkLimits(req SimulateRequest) error {
	switch {
	case req.Sims > s.cfg.MaxSims:
		return fmt.Errorf("sims must be at most %d", s.cfg.MaxSims)
	case req.Scenario.Years > s.cfg.MaxYears:
		return fmt.Errorf("years must be at most %d", s.cfg.MaxYears)
	case req.Bins > s.cfg.MaxBins:
		return fmt.Errorf("bins must be at most %d", s.cfg.MaxBins)
	case req.Bins < 1:
		return fmt.Errorf("bins must be positive, got %d", req.Bins)
	}
	return nil
}

func scenarioPayload(sr pipeline.ScenarioResult, bins int) ScenarioPayload {
	return ScenarioPayload{
		Label:       sr.Label,
		Key:         sr.Key,
		CacheHit:    sr.CacheHit,
		FinalMedian: sr.Summary.FinalMedian,
		FinalMean:   sr.Summary.FinalMean,
		ProbLoss:    sr.Summary.ProbLoss,
		Bands:       pipeline.YearlyBands(sr.Summary),
		Histogram:   pipeline.Histogram(sr.Summary.FinalValues, bins),
	}
}

// writeJSON encodes before writing the header so an unencodable value
// (NaN or Inf in a summary) becomes a 500 with a readable body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(errorBody{Error: fmt.Sprintf("encoding response: %v", err)})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
