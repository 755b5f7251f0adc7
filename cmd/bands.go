package cmd

import (
	"fmt"

	"github.com/futurebank/fbsim/internal/cli"
	"github.com/futurebank/fbsim/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagMonthly bool

var bandsCmd = &cobra.Command{
	Use:   "bands",
	Short: "Print p10/p50/p90 net worth bands over time",
	RunE:  runBands,
}

func init() {
	bandsCmd.Flags().BoolVar(&flagMonthly, "monthly", false, "Print every month instead of one row per year")
	rootCmd.AddCommand(bandsCmd)
}

func runBands(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	runner := newRunner(cfg)
	defer closeRunner(runner)

	res, err := runWithProgress(cmd.Context(), runner, newRequest(cfg))
	if err != nil {
		return err
	}

	cur := cfg.General.Currency
	fmt.Println()
	fmt.Println(cli.RenderTitle("NET WORTH BANDS"))
	fmt.Println()

	scenarios := []pipeline.ScenarioResult{res.Baseline}
	if res.Car != nil {
		scenarios = append(scenarios, *res.Car)
	}
	for _, sr := range scenarios {
		rows := pipeline.MonthlyBands(sr.Summary)
		if !flagMonthly {
			rows = pipeline.YearlyBands(sr.Summary)
		}

		table := cli.Table{
			Title:   scenarioLabel(sr.Label),
			Headers: []string{"Year", "Month", "P10", "P50", "P90"},
		}
		for _, b := range rows {
			table.Rows = append(table.Rows, []string{
				fmt.Sprintf("%d", b.Year),
				fmt.Sprintf("%d", b.Month+1),
				cli.FormatMoney(b.P10, cur),
				cli.FormatMoney(b.P50, cur),
				cli.FormatMoney(b.P90, cur),
			})
		}
		fmt.Print(cli.RenderTable(table))
		fmt.Println()
	}
	return nil
}
