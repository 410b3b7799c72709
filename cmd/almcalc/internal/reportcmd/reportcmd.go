// Package reportcmd implements the almcalc subcommands: it wires a
// scenario file into an engine and renders the requested reports.
package reportcmd

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"

	"github.com/meenmo/almlib/config"
	"github.com/meenmo/almlib/engine"
	"github.com/meenmo/almlib/recorder"
	"github.com/meenmo/almlib/report"
)

// Kind selects the report a subcommand renders.
type Kind int

const (
	Discount Kind = iota
	Neutral
	Balance
	CashFlow
)

func (k Kind) String() string {
	switch k {
	case Discount:
		return "discount"
	case Neutral:
		return "neutral"
	case Balance:
		return "balance"
	default:
		return "cashflow"
	}
}

type options struct {
	scenario string
	maturity string
	csv      bool
	record   bool
}

func parseFlags(name string, args []string, stderr io.Writer) (*options, int) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := &options{}
	fs.StringVar(&opts.scenario, "config", "scenario.yaml", "Scenario YAML path")
	fs.StringVar(&opts.maturity, "maturity", "", "Benchmark tenor override (e.g. 10Y)")
	fs.BoolVar(&opts.csv, "csv", false, "Emit CSV instead of an aligned table")
	fs.BoolVar(&opts.record, "record", false, "Record the report to the scenario database")
	if err := fs.Parse(args); err != nil {
		return nil, 2
	}
	return opts, 0
}

// setup loads the scenario, its market data and a configured engine.
func setup(opts *options) (*config.Scenario, *engine.Engine, error) {
	scn, err := config.Load(opts.scenario)
	if err != nil {
		return nil, nil, err
	}
	store, err := scn.LoadStore()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := engine.DefaultConfig.Apply(scn.Parameters)
	if err != nil {
		return nil, nil, err
	}

	var engOpts []engine.Option
	if scn.Seed != 0 {
		engOpts = append(engOpts, engine.WithNormalSource(rand.New(rand.NewSource(scn.Seed))))
	}
	eng, err := engine.New(cfg, store, engOpts...)
	if err != nil {
		return nil, nil, err
	}

	if opts.maturity == "" {
		opts.maturity = scn.Maturity
	}
	return scn, eng, nil
}

func openRecorder(scn *config.Scenario, opts *options) (recorder.Recorder, error) {
	if !opts.record || scn.DBPath == "" {
		return recorder.Noop{}, nil
	}
	return recorder.NewSQLiteRecorder(scn.DBPath)
}

// Run renders one report for a scenario. Exit codes: 0 ok, 1 computation
// failure, 2 usage.
func Run(kind Kind, args []string, stdout, stderr io.Writer) int {
	opts, code := parseFlags(kind.String(), args, stderr)
	if opts == nil {
		return code
	}
	scn, eng, err := setup(opts)
	if err != nil {
		fmt.Fprintf(stderr, "almcalc %s: %v\n", kind, err)
		return 1
	}

	table, err := buildReport(kind, eng, opts.maturity)
	if err != nil {
		fmt.Fprintf(stderr, "almcalc %s: %v\n", kind, err)
		return 1
	}

	rec, err := openRecorder(scn, opts)
	if err != nil {
		fmt.Fprintf(stderr, "almcalc: recorder: %v\n", err)
		return 1
	}
	defer rec.Close()

	runID, err := rec.BeginRun(scn.Name)
	if err != nil {
		fmt.Fprintf(stderr, "almcalc: recorder: %v\n", err)
		return 1
	}
	if code := emit(table, rec, runID, opts, stdout, stderr); code != 0 {
		return code
	}
	warnDiagnostics(eng)
	return 0
}

func buildReport(kind Kind, eng *engine.Engine, maturity string) (*report.Table, error) {
	switch kind {
	case Discount:
		return eng.DiscountRateReport(maturity)
	case Neutral:
		return eng.NeutralRiskReport(maturity)
	case Balance:
		table, _, err := eng.AssetLiabilityReport()
		return table, err
	default:
		table, _, err := eng.CashFlowReport()
		return table, err
	}
}

// emit records one table under an already opened run and renders it.
func emit(table *report.Table, rec recorder.Recorder, runID int64, opts *options, stdout, stderr io.Writer) int {
	if err := rec.RecordTable(runID, table); err != nil {
		fmt.Fprintf(stderr, "almcalc: recorder: %v\n", err)
		return 1
	}

	var err error
	if opts.csv {
		err = table.WriteCSV(stdout)
	} else {
		err = table.Render(stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "almcalc: render: %v\n", err)
		return 1
	}
	return 0
}

func warnDiagnostics(eng *engine.Engine) {
	for _, d := range eng.Diagnostics() {
		log.Printf("[WARN] %s", d)
	}
}
