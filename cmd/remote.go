package cmd

import (
	"fmt"
	"time"

	"github.com/futurebank/fbsim/internal/cli"
	"github.com/futurebank/fbsim/internal/client"
	"github.com/futurebank/fbsim/internal/server"

	"github.com/spf13/cobra"
)

var remoteSimulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the configured scenario on a running server",
	RunE:  runRemoteSimulate,
}

var remoteRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent runs recorded by a running server",
	RunE:  runRemoteRuns,
}

func init() {
	remoteSimulateCmd.Flags().IntVar(&flagBins, "bins", 10, "Histogram bins for final net worth")
	serveCmd.AddCommand(remoteSimulateCmd)
	serveCmd.AddCommand(remoteRunsCmd)
}

func runRemoteSimulate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	c := client.New(serveAddr(cmd))
	resp, err := c.Simulate(cmd.Context(), server.SimulateRequest{
		Scenario: cfg.Simulation(),
		Sims:     cfg.General.Sims,
		Seed:     cfg.General.Seed,
		Bins:     flagBins,
	})
	if err != nil {
		return err
	}

	cur := resp.Currency
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("REMOTE RUN  %s trials in %s",
		cli.FormatNumber(int64(resp.Sims)), cli.FormatElapsed(time.Duration(resp.ElapsedMS)*time.Millisecond))))
	fmt.Println()

	payloads := []server.ScenarioPayload{resp.Baseline}
	if resp.Car != nil {
		payloads = append(payloads, *resp.Car)
	}
	for _, p := range payloads {
		table := cli.Table{
			Title:   fmt.Sprintf("%s  median %s  P(loss) %s", scenarioLabel(p.Label), cli.FormatMoney(p.FinalMedian, cur), cli.FormatPercent(p.ProbLoss)),
			Headers: []string{"Year", "P10", "P50", "P90"},
		}
		for _, b := range p.Bands {
			table.Rows = append(table.Rows, []string{
				fmt.Sprintf("%d", b.Year),
				cli.FormatCompactMoney(b.P10, cur),
				cli.FormatCompactMoney(b.P50, cur),
				cli.FormatCompactMoney(b.P90, cur),
			})
		}
		fmt.Print(cli.RenderTable(table))
		fmt.Println()
	}

	if cmp := resp.Comparison; cmp != nil {
		fmt.Printf("  Median delta:   %s\n", cli.RenderDelta(cli.FormatSignedMoney(cmp.MedianDelta, cur), cmp.MedianDelta >= 0))
		fmt.Printf("  P(loss) delta:  %s\n", cli.RenderDelta(cli.FormatPointsDelta(cmp.ProbLossDelta*100), cmp.ProbLossDelta <= 0))
		fmt.Println()
	}
	return nil
}

func runRemoteRuns(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	events, err := client.New(serveAddr(cmd)).Runs(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println()
	if len(events) == 0 {
		fmt.Println("  No runs recorded yet.")
		return nil
	}

	now := time.Now()
	table := cli.Table{Headers: []string{"ID", "Age", "Trials", "Years", "Car", "Median", "Result"}}
	for _, ev := range events {
		result := "ok"
		if ev.Type == "run_error" {
			result = ev.Error
		}
		car := "no"
		if ev.Run.WithCar {
			car = "yes"
		}
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", ev.ID),
			cli.FormatAge(ev.Timestamp, now),
			cli.FormatNumber(int64(ev.Run.Sims)),
			fmt.Sprintf("%d", ev.Run.Years),
			car,
			cli.FormatCompactMoney(ev.Run.BaselineMedian, cfg.General.Currency),
			result,
		})
	}
	fmt.Print(cli.RenderTable(table))
	return nil
}
