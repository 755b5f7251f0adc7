package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/futurebank/fbsim/internal/model"
	"github.com/futurebank/fbsim/internal/simulation"
)

type memCache struct {
	mu        sync.Mutex
	summaries map[string]model.Summary
	runs      map[string]model.RunInfo
	loads     int
	saves     int
	failLoads bool
}

func newMemCache() *memCache {
	return &memCache{
		summaries: make(map[string]model.Summary),
		runs:      make(map[string]model.RunInfo),
	}
}

func (c *memCache) LoadSummary(key string) (model.Summary, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loads++
	if c.failLoads {
		return model.Summary{}, false, errors.New("boom")
	}
	s, ok := c.summaries[key]
	return s, ok, nil
}

func (c *memCache) SaveSummary(info model.RunInfo, s model.Summary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saves++
	c.summaries[info.Key] = s
	c.runs[info.Key] = info
	return nil
}

func (c *memCache) ListRuns(int) ([]model.RunInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.RunInfo, 0, len(c.runs))
	for _, r := range c.runs {
		out = append(out, r)
	}
	return out, nil
}

func (c *memCache) DeleteRun(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.summaries, key)
	delete(c.runs, key)
	return nil
}

func (c *memCache) Close() error { return nil }

// flatCarScenario has zero drift and volatility, a 120k car bought in the
// first month with half down and an interest-free one-year loan.
func flatCarScenario() model.SimulationConfig {
	return model.SimulationConfig{
		Years:             1,
		InitialSavings:    100_000,
		MonthlyIncome:     10_000,
		MonthlyExpenses:   10_000,
		WithCar:           true,
		CarPurchaseYear:   0,
		CarPrice:          120_000,
		CarDownPaymentPct: 0.5,
		CarLoanTermYears:  1,
	}
}

func seedPtr(v uint64) *uint64 { return &v }

func TestRun_BaselineAndCar(t *testing.T) {
	r := &Runner{}
	res, err := r.Run(context.Background(), Request{
		Scenario: flatCarScenario(),
		Sims:     20,
		Seed:     seedPtr(7),
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Baseline.Config.WithCar {
		t.Fatal("baseline scenario has WithCar set")
	}
	if got := res.Baseline.Summary.FinalMedian; got != 100_000 {
		t.Fatalf("baseline median = %v, want 100000", got)
	}
	if res.Car == nil || res.Comparison == nil {
		t.Fatal("car scenario missing")
	}
	if got := res.Car.Summary.FinalMedian; got != -20_000 {
		t.Fatalf("car median = %v, want -20000", got)
	}
	if got := res.Comparison.MedianDelta; got != -120_000 {
		t.Fatalf("MedianDelta = %v, want -120000", got)
	}
	if got := res.Comparison.ProbLossDelta; got != 1 {
		t.Fatalf("ProbLossDelta = %v, want 1", got)
	}
	if res.Baseline.Paths == nil || res.Car.Paths == nil {
		t.Fatal("fresh runs should carry their paths")
	}
}

func TestRun_WithoutCar(t *testing.T) {
	cfg := flatCarScenario()
	cfg.WithCar = false

	r := &Runner{}
	res, err := r.Run(context.Background(), Request{Scenario: cfg, Sims: 5}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Car != nil || res.Comparison != nil {
		t.Fatal("car results present for a baseline-only scenario")
	}
}

func TestRun_InvalidConfiguration(t *testing.T) {
	cfg := flatCarScenario()
	cfg.Years = 0

	r := &Runner{}
	_, err := r.Run(context.Background(), Request{Scenario: cfg, Sims: 5}, nil)
	if !errors.Is(err, simulation.ErrInvalidConfiguration) {
		t.Fatalf("err = %v, want ErrInvalidConfiguration", err)
	}
}

func TestRun_CachesSeededRuns(t *testing.T) {
	cache := newMemCache()
	r := &Runner{Cache: cache}
	req := Request{Scenario: flatCarScenario(), Sims: 10, Seed: seedPtr(42)}

	first, err := r.Run(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if first.Baseline.CacheHit || first.Car.CacheHit {
		t.Fatal("first run reported a cache hit")
	}
	if cache.saves != 2 {
		t.Fatalf("saves = %d, want 2", cache.saves)
	}

	second, err := r.Run(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !second.Baseline.CacheHit || !second.Car.CacheHit {
		t.Fatal("second run missed the cache")
	}
	if second.Baseline.Paths != nil {
		t.Fatal("cached result should not carry paths")
	}
	if second.Comparison.MedianDelta != first.Comparison.MedianDelta {
		t.Fatalf("MedianDelta = %v, want %v", second.Comparison.MedianDelta, first.Comparison.MedianDelta)
	}
	if first.Baseline.Key == first.Car.Key {
		t.Fatal("baseline and car share a cache key")
	}
}

func TestRun_UnseededSkipsCache(t *testing.T) {
	cache := newMemCache()
	r := &Runner{Cache: cache}
	if _, err := r.Run(context.Background(), Request{Scenario: flatCarScenario(), Sims: 5}, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if cache.loads != 0 || cache.saves != 0 {
		t.Fatalf("cache touched: loads=%d saves=%d", cache.loads, cache.saves)
	}
}

func TestRun_CacheReadFailureFallsBack(t *testing.T) {
	cache := newMemCache()
	cache.failLoads = true
	r := &Runner{Cache: cache}

	res, err := r.Run(context.Background(), Request{Scenario: flatCarScenario(), Sims: 5, Seed: seedPtr(1)}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Baseline.CacheHit {
		t.Fatal("failed read reported as hit")
	}
	if res.Baseline.Summary.Sims() != 5 {
		t.Fatalf("Sims() = %d, want 5", res.Baseline.Summary.Sims())
	}
}

func TestRun_ProgressSpansScenarios(t *testing.T) {
	var mu sync.Mutex
	maxSeen, lastTotal := 0, 0
	progress := func(current, total int) {
		mu.Lock()
		defer mu.Unlock()
		maxSeen = max(maxSeen, current)
		lastTotal = total
	}

	r := &Runner{}
	if _, err := r.Run(context.Background(), Request{Scenario: flatCarScenario(), Sims: 8, Seed: seedPtr(3)}, progress); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if lastTotal != 16 || maxSeen != 16 {
		t.Fatalf("progress = %d/%d, want 16/16", maxSeen, lastTotal)
	}
}

func TestCacheKey(t *testing.T) {
	cfg := flatCarScenario()

	a, err := CacheKey(cfg, 100, 1)
	if err != nil {
		t.Fatalf("CacheKey: %v", err)
	}
	b, _ := CacheKey(cfg, 100, 1)
	if a != b {
		t.Fatalf("keys differ for identical input: %s vs %s", a, b)
	}
	if len(a) != 16 {
		t.Fatalf("key %q has length %d, want 16", a, len(a))
	}

	for name, key := range map[string]func() (string, error){
		"seed": func() (string, error) { return CacheKey(cfg, 100, 2) },
		"sims": func() (string, error) { return CacheKey(cfg, 101, 1) },
		"price": func() (string, error) {
			c := cfg
			c.CarPrice++
			return CacheKey(c, 100, 1)
		},
	} {
		k, err := key()
		if err != nil {
			t.Fatalf("%s: CacheKey: %v", name, err)
		}
		if k == a {
			t.Fatalf("changing %s did not change the key", name)
		}
	}
}

func TestCacheKey_IgnoresInertFields(t *testing.T) {
	cfg := flatCarScenario()
	full := cfg
	full.FinalPayment = model.FinalPaymentFull

	a, _ := CacheKey(cfg, 100, 1)
	b, _ := CacheKey(full, 100, 1)
	if a != b {
		t.Fatalf("empty and full final payment keys differ: %s vs %s", a, b)
	}

	clamp := cfg
	clamp.FinalPayment = model.FinalPaymentClamp
	if c, _ := CacheKey(clamp, 100, 1); c == a {
		t.Fatal("clamp policy shares the full policy key")
	}

	base := cfg.Baseline()
	other := base
	other.CarPrice = 999_999
	other.CarLoanTermYears = 7
	other.FinalPayment = model.FinalPaymentClamp
	x, _ := CacheKey(base, 100, 1)
	y, _ := CacheKey(other, 100, 1)
	if x != y {
		t.Fatalf("baseline keys differ on car fields: %s vs %s", x, y)
	}
}

func TestRun_BaselineCacheSharedAcrossCarPrices(t *testing.T) {
	cache := newMemCache()
	r := &Runner{Cache: cache}
	req := Request{Scenario: flatCarScenario(), Sims: 8, Seed: seedPtr(3)}
	if _, err := r.Run(context.Background(), req, nil); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	req.Scenario.CarPrice = 240_000
	res, err := r.Run(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !res.Baseline.CacheHit {
		t.Fatal("baseline missed the cache after only the car price changed")
	}
	if res.Car.CacheHit {
		t.Fatal("car scenario hit the cache with a different price")
	}
}

func TestCompare(t *testing.T) {
	base := model.Summary{FinalMedian: 100, FinalMean: 120, ProbLoss: 0.25}
	car := model.Summary{FinalMedian: 60, FinalMean: 70, ProbLoss: 0.5}
	got := Compare(base, car)
	if got.MedianDelta != -40 || got.MeanDelta != -50 || got.ProbLossDelta != 0.25 {
		t.Fatalf("Compare = %+v", got)
	}
}
