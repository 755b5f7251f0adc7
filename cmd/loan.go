package cmd

import (
	"fmt"

	"github.com/futurebank/fbsim/internal/cli"
	"github.com/futurebank/fbsim/internal/loan"

	"github.com/spf13/cobra"
)

var flagLoanMonthly bool

var loanCmd = &cobra.Command{
	Use:   "loan",
	Short: "Show the amortization schedule of the configured car loan",
	RunE:  runLoan,
}

func init() {
	loanCmd.Flags().BoolVar(&flagLoanMonthly, "monthly", false, "Print every installment instead of yearly totals")
	rootCmd.AddCommand(loanCmd)
}

func runLoan(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sc := cfg.Simulation()
	cur := cfg.General.Currency
	principal := sc.LoanPrincipal()
	rows := loan.Schedule(principal, sc.CarLoanInterestRate, sc.CarLoanTermYears)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CAR LOAN  %s over %dy", cli.FormatMoney(principal, cur), sc.CarLoanTermYears)))
	fmt.Println()

	if len(rows) == 0 {
		fmt.Println("  Nothing is financed: the down payment covers the full price.")
		return nil
	}

	paid, interest := loan.Totals(rows)
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Car price", cli.FormatMoney(sc.CarPrice, cur)},
			{"Down payment", cli.FormatMoney(sc.DownPayment(), cur)},
			{"Financed", cli.FormatMoney(principal, cur)},
			{"Rate", cli.FormatPercent(sc.CarLoanInterestRate)},
			{"---"},
			{"Monthly payment", cli.FormatMoney(rows[0].Payment.InexactFloat64(), cur)},
			{"Total paid", cli.FormatMoney(paid.InexactFloat64(), cur)},
			{"Total interest", cli.FormatMoney(interest.InexactFloat64(), cur)},
		},
	}))
	fmt.Println()

	table := cli.Table{Headers: []string{"Month", "Payment", "Interest", "Principal", "Balance"}}
	if flagLoanMonthly {
		for _, r := range rows {
			table.Rows = append(table.Rows, []string{
				fmt.Sprintf("%d", r.Month),
				r.Payment.StringFixed(2),
				r.Interest.StringFixed(2),
				r.Principal.StringFixed(2),
				r.Balance.StringFixed(2),
			})
		}
	} else {
		table.Headers[0] = "Year"
		for _, y := range loan.Yearly(rows) {
			table.Rows = append(table.Rows, []string{
				fmt.Sprintf("%d", (y.Month+11)/12),
				cli.FormatMoney(y.Payment.InexactFloat64(), cur),
				cli.FormatMoney(y.Interest.InexactFloat64(), cur),
				cli.FormatMoney(y.Principal.InexactFloat64(), cur),
				cli.FormatMoney(y.Balance.InexactFloat64(), cur),
			})
		}
	}
	fmt.Print(cli.RenderTable(table))
	return nil
}
