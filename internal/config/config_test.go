package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/futurebank/fbsim/internal/model"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.Sims != 1000 {
		t.Fatalf("Sims = %d, want 1000", cfg.General.Sims)
	}
	if Exists() {
		t.Fatal("Exists() = true before Save")
	}
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	seed := uint64(42)
	cfg := DefaultConfig()
	cfg.General.Seed = &seed
	cfg.Scenario.Years = 20
	cfg.Car.Enabled = false
	cfg.Car.FinalPayment = string(model.FinalPaymentClamp)

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Scenario.Years != 20 {
		t.Errorf("Years = %d, want 20", got.Scenario.Years)
	}
	if got.General.Seed == nil || *got.General.Seed != 42 {
		t.Errorf("Seed = %v, want 42", got.General.Seed)
	}
	if got.Car.Enabled {
		t.Error("Car.Enabled = true, want false")
	}
	if got.Car.FinalPayment != "clamp" {
		t.Errorf("FinalPayment = %q, want clamp", got.Car.FinalPayment)
	}
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.toml")
	body := "[scenario]\nyears = 3\n\n[car]\nenabled = false\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Scenario.Years != 3 {
		t.Errorf("Years = %d, want 3", cfg.Scenario.Years)
	}
	if cfg.Scenario.MonthlyIncome != 60_000 {
		t.Errorf("MonthlyIncome = %v, want default 60000", cfg.Scenario.MonthlyIncome)
	}
	if cfg.Car.Enabled {
		t.Error("Car.Enabled = true, want false")
	}
}

func TestLoadFrom_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[scenario\nyears = "), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFrom(path)
	if err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("err = %v, want parsing config error", err)
	}
}

func TestSimulation_MapsFields(t *testing.T) {
	cfg := DefaultConfig()
	sim := cfg.Simulation()

	if sim.Years != 15 || sim.Months() != 180 {
		t.Errorf("Years/Months = %d/%d, want 15/180", sim.Years, sim.Months())
	}
	if sim.ExpectedAnnualReturn != 0.10 || sim.ReturnVolatility != 0.15 {
		t.Errorf("return params = %v/%v, want 0.10/0.15", sim.ExpectedAnnualReturn, sim.ReturnVolatility)
	}
	if !sim.WithCar || sim.CarPrice != 800_000 || sim.CarLoanTermYears != 5 {
		t.Errorf("car = %+v", sim)
	}
	if sim.FinalPayment != model.FinalPaymentFull {
		t.Errorf("FinalPayment = %q, want full", sim.FinalPayment)
	}
	if base := sim.Baseline(); base.WithCar {
		t.Error("Baseline().WithCar = true")
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Scenario.Years = 0
	cfg.General.Sims = -1
	cfg.Car.FinalPayment = "partial"
	cfg.Cache.Backend = "memcached"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	for _, want := range []string{"scenario.years", "general.sims", "car.final_payment", "cache.backend"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestGetAdvisorAPIKey_EnvWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Advisor.APIKey = "from-file"

	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	if got := GetAdvisorAPIKey(cfg); got != "from-file" {
		t.Fatalf("key = %q, want from-file", got)
	}

	t.Setenv("GEMINI_API_KEY", "from-env")
	if got := GetAdvisorAPIKey(cfg); got != "from-env" {
		t.Fatalf("key = %q, want from-env", got)
	}
}
