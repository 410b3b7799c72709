package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/meenmo/almlib/cmd/almcalc/internal/reportcmd"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "discount":
		return reportcmd.Run(reportcmd.Discount, args[1:], stdout, stderr)
	case "neutral":
		return reportcmd.Run(reportcmd.Neutral, args[1:], stdout, stderr)
	case "balance":
		return reportcmd.Run(reportcmd.Balance, args[1:], stdout, stderr)
	case "cashflow":
		return reportcmd.Run(reportcmd.CashFlow, args[1:], stdout, stderr)
	case "valuation":
		return reportcmd.RunValuation(args[1:], stdout, stderr)
	case "run":
		return reportcmd.RunAll(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: almcalc <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  discount   Discount Rate Report (bootstrapped spot/deflator curve)")
	fmt.Fprintln(w, "  neutral    Neutral Risk Report (bond cash-flow calibration)")
	fmt.Fprintln(w, "  balance    Asset-Liability Report with duration metrics")
	fmt.Fprintln(w, "  cashflow   Cash Flow Report with coverage ratios")
	fmt.Fprintln(w, "  valuation  BEL, VIF and options & guarantees summary")
	fmt.Fprintln(w, "  run        All reports for a scenario")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run `almcalc <command> -h` for command-specific help.")
}
