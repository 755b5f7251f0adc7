package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/futurebank/fbsim/internal/cli"
	"github.com/futurebank/fbsim/internal/config"
	"github.com/futurebank/fbsim/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List cached seeded runs",
	RunE:  runHistory,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete KEY...",
	Short: "Remove cached runs by key",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "l", 20, "Maximum runs to list")
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistoryCache(cmd *cobra.Command) (pipeline.Cache, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}
	cache, err := pipeline.OpenCache(cfg.Cache)
	if err != nil {
		return nil, cfg, err
	}
	if cache == nil {
		return nil, cfg, errors.New("caching is disabled (cache.backend = none)")
	}
	return cache, cfg, nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cache, cfg, err := openHistoryCache(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	runs, err := cache.ListRuns(flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	fmt.Println()
	if len(runs) == 0 {
		fmt.Println("  No cached runs. Pass --seed to make a run reproducible and cacheable.")
		return nil
	}

	now := time.Now()
	table := cli.Table{
		Headers: []string{"Key", "Scenario", "Age", "Trials", "Years", "Seed", "Median", "P(loss)"},
	}
	for _, r := range runs {
		table.Rows = append(table.Rows, []string{
			r.Key,
			scenarioLabel(r.Label),
			cli.FormatAge(r.CreatedAt, now),
			cli.FormatNumber(int64(r.Sims)),
			fmt.Sprintf("%d", r.Years),
			fmt.Sprintf("%d", r.Seed),
			cli.FormatCompactMoney(r.FinalMedian, cfg.General.Currency),
			cli.FormatPercent(r.ProbLoss),
		})
	}
	fmt.Print(cli.RenderTable(table))
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	cache, _, err := openHistoryCache(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	for _, key := range args {
		if err := cache.DeleteRun(key); err != nil {
			return fmt.Errorf("deleting %s: %w", key, err)
		}
		fmt.Printf("  Deleted %s\n", key)
	}
	return nil
}
