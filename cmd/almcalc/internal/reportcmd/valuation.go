package reportcmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/meenmo/almlib/engine"
)

// RunValuation prints the scalar valuation blocks: BEL, VIF, options &
// guarantees, and the balance-sheet summary metrics.
func RunValuation(args []string, stdout, stderr io.Writer) int {
	opts, code := parseFlags("valuation", args, stderr)
	if opts == nil {
		return code
	}
	_, eng, err := setup(opts)
	if err != nil {
		fmt.Fprintf(stderr, "almcalc valuation: %v\n", err)
		return 1
	}
	if _, err := eng.DiscountCurve(opts.maturity); err != nil {
		fmt.Fprintf(stderr, "almcalc valuation: %v\n", err)
		return 1
	}

	if code := printValuation(eng, stdout, stderr); code != 0 {
		return code
	}
	warnDiagnostics(eng)
	return 0
}

func printValuation(eng *engine.Engine, stdout, stderr io.Writer) int {
	v, err := eng.Valuation()
	if err != nil {
		fmt.Fprintf(stderr, "almcalc valuation: %v\n", err)
		return 1
	}
	g, err := eng.Guarantees()
	if err != nil {
		fmt.Fprintf(stderr, "almcalc valuation: %v\n", err)
		return 1
	}
	vif, err := eng.VIF()
	if err != nil {
		fmt.Fprintf(stderr, "almcalc valuation: %v\n", err)
		return 1
	}
	_, al, err := eng.AssetLiabilityReport()
	if err != nil {
		fmt.Fprintf(stderr, "almcalc valuation: %v\n", err)
		return 1
	}

	money := func(x float64) string { return humanize.CommafWithDigits(x, 2) }

	fmt.Fprintln(stdout, "Best Estimate Liability")
	fmt.Fprintf(stdout, "  PV benefits:          %s\n", money(v.PVBenefits))
	fmt.Fprintf(stdout, "  PV surrenders:        %s\n", money(v.PVSurrenders))
	fmt.Fprintf(stdout, "  PV expenses:          %s\n", money(v.PVExpenses))
	fmt.Fprintf(stdout, "  PV premiums:          %s\n", money(v.PVPremiums))
	fmt.Fprintf(stdout, "  BEL gross:            %s\n", money(v.BELGross))
	fmt.Fprintf(stdout, "  BEL net:              %s\n", money(v.BELNet))
	fmt.Fprintf(stdout, "  Risk margin:          %s\n", money(v.RiskMargin))
	fmt.Fprintf(stdout, "  Technical provisions: %s\n", money(v.TechnicalProvisions))
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Options & Guarantees")
	fmt.Fprintf(stdout, "  PV GMDB: %s\n", money(g.PVGMDB))
	fmt.Fprintf(stdout, "  PV GMWB: %s\n", money(g.PVGMWB))
	fmt.Fprintf(stdout, "  PV GMAB: %s\n", money(g.PVGMAB))
	fmt.Fprintf(stdout, "  Total:   %s\n", money(g.Total))
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Value in Force")
	fmt.Fprintf(stdout, "  PV future profits:   %s\n", money(vif.PVFutureProfits))
	fmt.Fprintf(stdout, "  New business strain: %s\n", money(vif.NewBusinessStrain))
	fmt.Fprintf(stdout, "  Acquisition costs:   %s\n", money(vif.AcquisitionCosts))
	fmt.Fprintf(stdout, "  VIF net:             %s\n", money(vif.VIFNet))
	fmt.Fprintf(stdout, "  VIF margin:          %.4f\n", vif.VIFMargin)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Asset-Liability Summary")
	fmt.Fprintf(stdout, "  Asset duration:     %.2f\n", al.AssetDuration)
	fmt.Fprintf(stdout, "  Liability duration: %.2f\n", al.LiabilityDuration)
	fmt.Fprintf(stdout, "  Duration gap:       %.2f\n", al.DurationGap)
	fmt.Fprintf(stdout, "  Coverage ratio BV:  %.4f\n", al.CoverageRatioBV)
	fmt.Fprintf(stdout, "  Coverage ratio MV:  %.4f\n", al.CoverageRatioMV)
	return 0
}

// RunAll renders every report for a scenario in sequence, recording all
// of them under a single run id.
func RunAll(args []string, stdout, stderr io.Writer) int {
	opts, code := parseFlags("run", args, stderr)
	if opts == nil {
		return code
	}
	scn, eng, err := setup(opts)
	if err != nil {
		fmt.Fprintf(stderr, "almcalc run: %v\n", err)
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

	for _, kind := range []Kind{Discount, Neutral, Balance, CashFlow} {
		table, err := buildReport(kind, eng, opts.maturity)
		if err != nil {
			fmt.Fprintf(stderr, "almcalc run: %s: %v\n", kind, err)
			return 1
		}
		if code := emit(table, rec, runID, opts, stdout, stderr); code != 0 {
			return code
		}
		fmt.Fprintln(stdout)
	}

	if code := printValuation(eng, stdout, stderr); code != 0 {
		return code
	}
	warnDiagnostics(eng)
	return 0
}
