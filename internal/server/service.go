// Package server exposes the simulator over HTTP and streams run events.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/futurebank/fbsim/internal/model"
	"github.com/futurebank/fbsim/internal/pipeline"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
	Sims         int // default trial count when a request omits sims
	MaxSims      int
	MaxYears     int
	MaxBins      int
	Workers      int
	Currency     string
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastRunAt       time.Time `json:"last_run_at,omitempty"`
	RunCount        int64     `json:"run_count"`
	ErrorCount      int64     `json:"error_count"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the HTTP API.
type Service struct {
	cfg      Config
	runner   *pipeline.Runner
	defaults model.SimulationConfig
	log      logrus.FieldLogger

	mu          sync.RWMutex
	startedAt   time.Time
	lastRunAt   time.Time
	runCount    int64
	errorCount  int64
	lastError   string
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service that fills omitted request fields from defaults.
func New(cfg Config, runner *pipeline.Runner, defaults model.SimulationConfig, log logrus.FieldLogger) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Sims < 1 {
		cfg.Sims = 1000
	}
	if cfg.MaxSims < 1 {
		cfg.MaxSims = 100_000
	}
	if cfg.MaxYears < 1 {
		cfg.MaxYears = 40
	}
	if cfg.MaxBins < 1 {
		cfg.MaxBins = 200
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if runner == nil {
		runner = &pipeline.Runner{Log: log}
	}

	return &Service{
		cfg:       cfg,
		runner:    runner,
		defaults:  defaults,
		log:       log,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Router returns the HTTP routes.
func (s *Service) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/v1/simulate", s.handleSimulate).Methods(http.MethodPost)
	r.HandleFunc("/v1/runs", s.handleRuns).Methods(http.MethodGet)
	r.HandleFunc("/v1/stream", s.handleStream).Methods(http.MethodGet)
	return r
}

// Run serves HTTP until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.WithField("addr", s.cfg.Addr).Info("fbsim server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"elapsed": time.Since(start).String(),
		}).Debug("request")
	})
}

func (s *Service) recordRun(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRunAt = time.Now()
	if err != nil {
		s.errorCount++
		s.lastError = err.Error()
		return
	}
	s.runCount++
	s.lastError = ""
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastRunAt:       s.lastRunAt,
		RunCount:        s.runCount,
		ErrorCount:      s.errorCount,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}
