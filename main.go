package main

import (
	"fmt"
	"os"
	"time"

	"github.com/meenmo/almlib/engine"
	"github.com/meenmo/almlib/marketdata"
)

// Demo scenario: a small flat-ish forward curve over a 5-year horizon.
func main() {
	store := &marketdata.Store{
		Forward: marketdata.NewCurveTable([]string{"5Y", "5Y_Vol"}),
	}
	rates := []float64{0.020, 0.021, 0.022, 0.023, 0.024}
	for i, r := range rates {
		date := time.Date(2015+i, time.January, 1, 0, 0, 0, 0, time.UTC)
		store.Forward.SetRow(date, map[string]float64{"5Y": r, "5Y_Vol": 0.01})
	}

	cfg := engine.DefaultConfig
	cfg.ContractsMaturity = 5

	eng, err := engine.New(cfg, store)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	discount, err := eng.DiscountRateReport("5Y")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	discount.Render(os.Stdout)
	fmt.Println()

	neutral, err := eng.NeutralRiskReport("5Y")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	neutral.Render(os.Stdout)
	fmt.Println()

	cashflow, summary, err := eng.CashFlowReport()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cashflow.Render(os.Stdout)
	fmt.Printf("\nTotal net CF: %.2f  break-even index: %d\n",
		summary.TotalNetCF, summary.BreakEvenYear)
}
