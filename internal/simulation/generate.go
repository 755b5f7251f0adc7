// Package simulation implements the Monte Carlo net-worth path generator and
// the summarizer that reduces its output to percentile bands.
package simulation

import (
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/futurebank/fbsim/internal/model"
)

// Matrix holds one row per trial and one column per month.
// Every row is an independent allocation.
type Matrix [][]float64

// ProgressFunc is called as trials complete.
// current is the number of trials finished so far, total is the trial count.
type ProgressFunc func(current, total int)

type options struct {
	seed     uint64
	seeded   bool
	workers  int
	progress ProgressFunc
}

// Option configures Generate.
type Option func(*options)

// WithSeed makes the run reproducible. Trial i draws from its own PCG stream
// keyed by (seed, i), so results do not depend on the worker count.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithWorkers bounds the number of goroutines computing trials.
// Values below 1 use GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithProgress registers a progress callback. It may be called concurrently.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) { o.progress = fn }
}

// TrialRand returns the random stream used by trial i of a seeded run.
func TrialRand(seed uint64, trial int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(trial)))
}

// Generate simulates nSims independent net-worth trajectories for cfg and
// returns them as an (nSims, cfg.Months()) matrix.
func Generate(cfg model.SimulationConfig, nSims int, opts ...Option) (Matrix, error) {
	if cfg.Years <= 0 {
		return nil, fmt.Errorf("%w: years must be positive, got %d", ErrInvalidConfiguration, cfg.Years)
	}
	if nSims <= 0 {
		return nil, fmt.Errorf("%w: simulation count must be positive, got %d", ErrInvalidConfiguration, nSims)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if !o.seeded {
		o.seed = rand.Uint64()
	}

	params := NewParams(cfg)
	start := InitialState(cfg)
	months := cfg.Months()

	numWorkers := o.workers
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers > nSims {
		numWorkers = nSims
	}

	work := make(chan int, nSims)
	paths := make(Matrix, nSims)
	var wg sync.WaitGroup
	var done atomic.Int64

	for i := range nSims {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				paths[idx] = params.Path(start, months, TrialRand(o.seed, idx))
				n := done.Add(1)
				if o.progress != nil {
					o.progress(int(n), nSims)
				}
			}
		}()
	}

	wg.Wait()
	return paths, nil
}
