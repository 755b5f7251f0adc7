// Package cmd implements the fbsim CLI commands.
package cmd

import (
	"fmt"

	"github.com/futurebank/fbsim/internal/cli"
	"github.com/futurebank/fbsim/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cur := cfg.General.Currency

	path := config.Path()
	if flagConfig != "" {
		path = flagConfig
	}
	fmt.Printf("  Config file: %s\n", path)
	if flagConfig != "" || config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Trials:    %s\n", cli.FormatNumber(int64(cfg.General.Sims)))
	if cfg.General.Workers > 0 {
		fmt.Printf("    Workers:   %d\n", cfg.General.Workers)
	} else {
		fmt.Println("    Workers:   auto")
	}
	if cfg.General.Seed != nil {
		fmt.Printf("    Seed:      %d\n", *cfg.General.Seed)
	} else {
		fmt.Println("    Seed:      random (runs are not cached)")
	}
	fmt.Printf("    Currency:  %s\n", cur)
	fmt.Println()

	sc := cfg.Scenario
	fmt.Println("  [Scenario]")
	fmt.Printf("    Years:             %d\n", sc.Years)
	fmt.Printf("    Initial savings:   %s\n", cli.FormatMoney(sc.InitialSavings, cur))
	fmt.Printf("    Monthly income:    %s\n", cli.FormatMoney(sc.MonthlyIncome, cur))
	fmt.Printf("    Monthly expenses:  %s\n", cli.FormatMoney(sc.MonthlyExpenses, cur))
	fmt.Printf("    Income growth:     %s\n", cli.FormatPercent(sc.IncomeGrowthRate))
	fmt.Printf("    Inflation:         %s\n", cli.FormatPercent(sc.InflationRate))
	fmt.Printf("    Expected return:   %s\n", cli.FormatPercent(sc.ExpectedReturn))
	fmt.Printf("    Volatility:        %s\n", cli.FormatPercent(sc.ReturnVolatility))
	fmt.Println()

	car := cfg.Car
	fmt.Println("  [Car]")
	if car.Enabled {
		fmt.Printf("    Purchase year:  %d\n", car.PurchaseYear)
		fmt.Printf("    Price:          %s\n", cli.FormatMoney(car.Price, cur))
		fmt.Printf("    Down payment:   %s\n", cli.FormatPercent(car.DownPaymentPct))
		fmt.Printf("    Loan:           %s over %dy\n", cli.FormatPercent(car.LoanInterestRate), car.LoanTermYears)
		fmt.Printf("    Running costs:  %s/yr\n", cli.FormatMoney(car.AnnualExtraCost, cur))
		if car.FinalPayment != "" {
			fmt.Printf("    Final payment:  %s\n", car.FinalPayment)
		}
	} else {
		fmt.Println("    Disabled (baseline only)")
	}
	fmt.Println()

	fmt.Println("  [Advisor]")
	apiKey := config.GetAdvisorAPIKey(cfg)
	switch {
	case !cfg.Advisor.Enabled:
		fmt.Println("    Disabled")
	case apiKey != "":
		fmt.Printf("    Model:   %s\n", cfg.Advisor.Model)
		fmt.Printf("    API key: %s\n", maskAPIKey(apiKey))
	default:
		fmt.Println("    API key: not configured")
	}
	fmt.Println()

	fmt.Println("  [Cache]")
	fmt.Printf("    Backend: %s\n", cfg.Cache.Backend)
	if cfg.Cache.Backend == "redis" {
		fmt.Printf("    Redis:   %s (ttl %dh)\n", cfg.Cache.RedisAddr, cfg.Cache.TTLHours)
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `fbsim setup` to reconfigure.")
	return nil
}
