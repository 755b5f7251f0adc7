package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/futurebank/fbsim/internal/advice"
	"github.com/futurebank/fbsim/internal/cli"
	"github.com/futurebank/fbsim/internal/config"
	"github.com/futurebank/fbsim/internal/pipeline"
	"github.com/futurebank/fbsim/internal/telemetry"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags.
var version = "dev"

var (
	flagConfig   string
	flagSims     int
	flagSeed     uint64
	flagWorkers  int
	flagYears    int
	flagNoCar    bool
	flagCurrency string
	flagNoCache  bool
	flagQuiet    bool
	flagLogLevel string
)

var log = logrus.New()

var shutdownTracing = func(context.Context) error { return nil }

var rootCmd = &cobra.Command{
	Use:   "fbsim",
	Short: "Monte Carlo net worth simulator",
	Long: "Project your net worth with and without a financed car purchase.\n" +
		"Runs thousands of randomized market paths and reports percentile bands.",
	Version:       version,
	SilenceUsage:  true,
	RunE:          runSimulate,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(flagLogLevel); err != nil {
			return err
		}
		shutdown, err := telemetry.Setup(cmd.Context(), "fbsim", version)
		if err != nil {
			log.WithError(err).Warn("tracing disabled")
		}
		shutdownTracing = shutdown
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		return shutdownTracing(cmd.Context())
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().IntVarP(&flagSims, "sims", "n", 0, "Number of Monte Carlo trials")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "Random seed for reproducible (and cacheable) runs")
	rootCmd.PersistentFlags().IntVarP(&flagWorkers, "workers", "w", 0, "Parallel workers (default GOMAXPROCS)")
	rootCmd.PersistentFlags().IntVarP(&flagYears, "years", "y", 0, "Projection horizon in years")
	rootCmd.PersistentFlags().BoolVar(&flagNoCar, "no-car", false, "Simulate the baseline only")
	rootCmd.PersistentFlags().StringVar(&flagCurrency, "currency", "", "ISO 4217 display currency")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the run cache")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	addSimulateFlags(rootCmd)
}

func setupLogging(level string) error {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if level == "" {
		level = os.Getenv("FBSIM_LOG_LEVEL")
	}
	if level == "" {
		log.SetLevel(logrus.WarnLevel)
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetLevel(lvl)
	return nil
}

// loadConfig layers the config file, FBSIM_* env vars and command-line
// flags, in that order of precedence from lowest to highest.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if flagConfig != "" {
		cfg, err = config.LoadFrom(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("sims") {
		cfg.General.Sims = flagSims
	}
	if flags.Changed("seed") {
		seed := flagSeed
		cfg.General.Seed = &seed
	}
	if flags.Changed("workers") {
		cfg.General.Workers = flagWorkers
	}
	if flags.Changed("years") {
		cfg.Scenario.Years = flagYears
	}
	if flagNoCar {
		cfg.Car.Enabled = false
	}
	if flagCurrency != "" {
		cfg.General.Currency = flagCurrency
	}
	if flagNoCache {
		cfg.Cache.Backend = "none"
	}

	if cfg.General.LogLevel != "" && !flags.Changed("log-level") {
		if err := setupLogging(cfg.General.LogLevel); err != nil {
			return cfg, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newRunner opens the configured cache. A cache that cannot be opened
// is logged and skipped so the run still completes.
func newRunner(cfg config.Config) *pipeline.Runner {
	runner := &pipeline.Runner{Log: log}
	cache, err := pipeline.OpenCache(cfg.Cache)
	if err != nil {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Cache unavailable, running uncached\n")
		}
		log.WithError(err).Debug("opening cache")
		return runner
	}
	if cache != nil {
		runner.Cache = cache
	}
	return runner
}

func closeRunner(r *pipeline.Runner) {
	if r.Cache != nil {
		_ = r.Cache.Close()
	}
}

func newRequest(cfg config.Config) pipeline.Request {
	workers := cfg.General.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return pipeline.Request{
		Scenario: cfg.Simulation(),
		Sims:     cfg.General.Sims,
		Seed:     cfg.General.Seed,
		Workers:  workers,
	}
}

// newAdvisor connects to Gemini when a key is configured. Without one
// the advisor answers with a fixed explanation.
func newAdvisor(ctx context.Context, cfg config.Config) *advice.Advisor {
	key := config.GetAdvisorAPIKey(cfg)
	if !cfg.Advisor.Enabled || key == "" {
		return advice.New(nil, log)
	}
	gen, err := advice.NewGemini(ctx, key, cfg.Advisor.Model)
	if err != nil {
		log.WithError(err).Warn("advisor unavailable")
		return advice.New(nil, log)
	}
	return advice.New(gen, log)
}

// runWithProgress runs req and draws a progress line on stderr unless
// --quiet is set. The line is cleared before returning.
func runWithProgress(ctx context.Context, runner *pipeline.Runner, req pipeline.Request) (*pipeline.Result, error) {
	if flagQuiet {
		return runner.Run(ctx, req, nil)
	}
	line := &cli.ProgressLine{W: os.Stderr, Label: "Simulating"}
	res, err := runner.Run(ctx, req, line.Update)
	line.Clear()
	return res, err
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
