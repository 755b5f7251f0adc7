package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/futurebank/fbsim/internal/advice"
	"github.com/futurebank/fbsim/internal/cli"
	"github.com/futurebank/fbsim/internal/model"
	"github.com/futurebank/fbsim/internal/pipeline"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	flagAdvice bool
	flagBins   int
	flagJSON   bool
)

var simulateCmd = &cobra.Command{
	Use:     "simulate",
	Aliases: []string{"sim", "run"},
	Short:   "Run the baseline and car projections and print a summary",
	RunE:    runSimulate,
}

func init() {
	addSimulateFlags(simulateCmd)
	rootCmd.AddCommand(simulateCmd)
}

func addSimulateFlags(c *cobra.Command) {
	c.Flags().BoolVar(&flagAdvice, "advice", false, "Ask the AI advisor to comment on the results")
	c.Flags().IntVar(&flagBins, "bins", 10, "Histogram bins for final net worth")
	c.Flags().BoolVar(&flagJSON, "json", false, "Print the summaries as JSON")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
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

	if flagJSON {
		return printResultJSON(res)
	}

	cur := cfg.General.Currency
	printSummary(res, cur)
	printYearlyBands(res.Baseline, cur)
	if res.Car != nil {
		printYearlyBands(*res.Car, cur)
	}
	printDistribution(res, cur, flagBins)

	if flagAdvice {
		advisor := newAdvisor(cmd.Context(), cfg)
		text := advisor.Advise(cmd.Context(), advice.FromResult(res, cur))
		fmt.Println()
		fmt.Println(cli.RenderTitle("ADVISOR"))
		fmt.Println(advice.Render(text, glamourStyle(), 80))
		fmt.Println()
	}
	return nil
}

func printSummary(res *pipeline.Result, cur string) {
	scenario := res.Baseline.Config
	title := fmt.Sprintf("NET WORTH  %dy  %s trials", scenario.Years, cli.FormatNumber(int64(res.Sims)))

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	base := res.Baseline.Summary
	headers := []string{"Metric", "Baseline"}
	rows := [][]string{
		{"Median final", cli.FormatMoney(base.FinalMedian, cur)},
		{"Mean final", cli.FormatMoney(base.FinalMean, cur)},
		{"P10 final", cli.FormatMoney(last(base.P10), cur)},
		{"P90 final", cli.FormatMoney(last(base.P90), cur)},
		{"Chance of loss", cli.FormatPercent(base.ProbLoss)},
	}

	if res.Car != nil && res.Comparison != nil {
		car := res.Car.Summary
		cmp := *res.Comparison
		headers = append(headers, "With car", "Delta")
		extra := [][]string{
			{cli.FormatMoney(car.FinalMedian, cur), cli.RenderDelta(cli.FormatSignedMoney(cmp.MedianDelta, cur), cmp.MedianDelta >= 0)},
			{cli.FormatMoney(car.FinalMean, cur), cli.RenderDelta(cli.FormatSignedMoney(cmp.MeanDelta, cur), cmp.MeanDelta >= 0)},
			{cli.FormatMoney(last(car.P10), cur), ""},
			{cli.FormatMoney(last(car.P90), cur), ""},
			{cli.FormatPercent(car.ProbLoss), cli.RenderDelta(cli.FormatPointsDelta(cmp.ProbLossDelta*100), cmp.ProbLossDelta <= 0)},
		}
		for i := range rows {
			rows[i] = append(rows[i], extra[i]...)
		}
	}

	fmt.Print(cli.RenderTable(cli.Table{Headers: headers, Rows: rows}))

	cached := res.Baseline.CacheHit && (res.Car == nil || res.Car.CacheHit)
	if cached {
		fmt.Printf("  Served from cache in %s\n", cli.FormatElapsed(res.Elapsed))
	} else {
		fmt.Printf("  Simulated in %s\n", cli.FormatElapsed(res.Elapsed))
	}
	if res.Car != nil {
		fmt.Printf("  Car bought in year %d for %s\n",
			res.Car.Config.CarPurchaseYear, cli.FormatMoney(res.Car.Config.CarPrice, cur))
	}
}

func printYearlyBands(sr pipeline.ScenarioResult, cur string) {
	var rows [][]string
	for _, b := range pipeline.YearlyBands(sr.Summary) {
		rows = append(rows, []string{
			fmt.Sprintf("%d", b.Year),
			cli.FormatCompactMoney(b.P10, cur),
			cli.FormatCompactMoney(b.P50, cur),
			cli.FormatCompactMoney(b.P90, cur),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   scenarioLabel(sr.Label) + " by year",
		Headers: []string{"Year", "P10", "P50", "P90"},
		Rows:    rows,
	}))
	fmt.Printf("  Median path  %s\n", cli.RenderSparkline(sr.Summary.P50))
}

func printDistribution(res *pipeline.Result, cur string, bins int) {
	sr := res.Baseline
	if res.Car != nil {
		sr = *res.Car
	}
	hist := pipeline.Histogram(sr.Summary.FinalValues, bins)
	if len(hist) == 0 {
		return
	}

	maxCount := 0
	labels := make([]string, len(hist))
	labelW := 0
	for i, h := range hist {
		maxCount = max(maxCount, h.Count)
		labels[i] = cli.FormatCompactMoney(h.Low, cur)
		labelW = max(labelW, len(labels[i]))
	}

	fmt.Println()
	fmt.Printf("  %s final net worth\n", scenarioLabel(sr.Label))
	for i, h := range hist {
		label := fmt.Sprintf("%*s", labelW, labels[i])
		fmt.Printf("%s %d\n", cli.RenderHorizontalBar(label, float64(h.Count), float64(maxCount), 40), h.Count)
	}
	fmt.Println()
}

type scenarioJSON struct {
	Label    string                 `json:"label"`
	Key      string                 `json:"key,omitempty"`
	CacheHit bool                   `json:"cache_hit"`
	Config   model.SimulationConfig `json:"config"`
	Summary  model.Summary          `json:"summary"`
	Yearly   []model.BandRow        `json:"yearly"`
}

func printResultJSON(res *pipeline.Result) error {
	out := struct {
		Sims       int               `json:"sims"`
		Baseline   scenarioJSON      `json:"baseline"`
		Car        *scenarioJSON     `json:"car,omitempty"`
		Comparison *model.Comparison `json:"comparison,omitempty"`
		ElapsedMS  int64             `json:"elapsed_ms"`
	}{
		Sims:       res.Sims,
		Baseline:   toScenarioJSON(res.Baseline),
		Comparison: res.Comparison,
		ElapsedMS:  res.Elapsed.Milliseconds(),
	}
	if res.Car != nil {
		car := toScenarioJSON(*res.Car)
		out.Car = &car
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toScenarioJSON(sr pipeline.ScenarioResult) scenarioJSON {
	return scenarioJSON{
		Label:    sr.Label,
		Key:      sr.Key,
		CacheHit: sr.CacheHit,
		Config:   sr.Config,
		Summary:  sr.Summary,
		Yearly:   pipeline.YearlyBands(sr.Summary),
	}
}

// glamourStyle picks plain output when stdout cannot show colors.
func glamourStyle() string {
	if termenv.NewOutput(os.Stdout).Profile == termenv.Ascii {
		return "notty"
	}
	return "dark"
}

func scenarioLabel(label string) string {
	if label == "car" {
		return "With car"
	}
	return "Baseline"
}

func last(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return xs[len(xs)-1]
}
