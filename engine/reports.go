package engine

import (
	"fmt"
	"math"

	"github.com/meenmo/almlib/bond"
	"github.com/meenmo/almlib/report"
)

// Report column sets. Report operations are total: on failure they return
// an empty-shaped table with these columns plus the error as diagnostic,
// never a nil table.
var (
	discountColumns = []string{
		"Forward Rate", "Spot Rate", "Deflator", "Discount Rate",
		"Volatility", "Risk Adjusted Rate", "Risk Premium",
	}
	neutralColumns = []string{
		"Bond CF", "PV of CF", "Neutral Factor", "Neutral CF", "Cumulative PV",
	}
	assetLiabilityColumns = []string{
		"Assets BV", "Assets MV", "Liabilities BV", "Liabilities MV",
		"Surplus BV", "Surplus MV", "Asset Yield", "Liability Cost", "Spread",
	}
	cashFlowColumns = []string{
		"Premium Income", "Investment Income", "Total Inflows",
		"Benefit Payments", "Surrender Benefits", "Expenses", "Total Outflows",
		"Net Operating CF", "Net Investment CF", "Net Total CF",
		"Cumulative CF", "CF Coverage Ratio",
	}
)

// DiscountRateReport returns the bootstrapped discount curve as a table.
// An empty maturity selects the configured default.
func (e *Engine) DiscountRateReport(maturity string) (*report.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, err := e.ensureCurve(maturity)
	if err != nil {
		return report.Empty("Discount Rate Report", discountColumns), err
	}

	t := report.New("Discount Rate Report", d.Years, discountColumns)
	t.Set("Forward Rate", d.Forward)
	t.Set("Spot Rate", d.Spot)
	t.Set("Deflator", d.Deflator)
	t.Set("Discount Rate", d.DiscountRate)
	t.Set("Volatility", d.Volatility)
	t.Set("Risk Adjusted Rate", d.RiskAdjusted)
	t.Set("Risk Premium", d.RiskPremium())
	return t, nil
}

// NeutralRiskReport returns the neutral-risk calibration as a table,
// computing the discount curve first if needed.
func (e *Engine) NeutralRiskReport(maturity string) (*report.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := e.ensureNeutral(maturity)
	if err != nil {
		return report.Empty("Neutral Risk Report", neutralColumns), err
	}
	d := e.res.curve
	cfs := bond.Cashflows(e.cfg.Nominal, e.cfg.CouponRate, d.Len())

	t := report.New("Neutral Risk Report", d.Years, neutralColumns)
	t.Set("Bond CF", cfs)
	t.Set("PV of CF", res.DiscountedCF)
	t.Set("Neutral Factor", res.Factor)
	t.Set("Neutral CF", res.NeutralCF)
	t.Set("Cumulative PV", res.CumulativePV)
	return t, nil
}

// ALSummary carries the balance-sheet scalar metrics.
type ALSummary struct {
	AssetDuration     float64
	LiabilityDuration float64
	DurationGap       float64
	CoverageRatioBV   float64
	CoverageRatioMV   float64
}

// AssetLiabilityReport matches projected assets against liabilities on
// both bases and returns the matching table plus duration/coverage
// metrics.
func (e *Engine) AssetLiabilityReport() (*report.Table, *ALSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, summary, err := e.buildAssetLiability()
	if err != nil {
		return report.Empty("Asset-Liability Report", assetLiabilityColumns), nil, err
	}
	return t, summary, nil
}

func (e *Engine) buildAssetLiability() (*report.Table, *ALSummary, error) {
	a, err := e.ensureAssets()
	if err != nil {
		return nil, nil, fmt.Errorf("AssetLiabilityReport: %w", err)
	}
	l, err := e.ensureLiabilities()
	if err != nil {
		return nil, nil, fmt.Errorf("AssetLiabilityReport: %w", err)
	}
	v, err := e.ensureValuation()
	if err != nil {
		return nil, nil, fmt.Errorf("AssetLiabilityReport: %w", err)
	}
	g, err := e.ensureGuarantees()
	if err != nil {
		return nil, nil, fmt.Errorf("AssetLiabilityReport: %w", err)
	}
	d := e.res.curve

	n := len(a.Years)
	assetsBV := a.TotalBV()
	assetsMV := a.TotalMV()

	liabBV := make([]float64, n)
	liabMV := make([]float64, n)
	surplusBV := make([]float64, n)
	surplusMV := make([]float64, n)
	yield := make([]float64, n)
	cost := make([]float64, n)
	spread := make([]float64, n)

	horizon := float64(e.cfg.ContractsMaturity)
	marketLiability := v.BELNet + v.RiskMargin + g.Total

	for t := 0; t < n; t++ {
		liabBV[t] = l.TechnicalReserves[t] + e.cfg.RiskAdjustment

		// Market-value liabilities run off with the remaining duration.
		durationFactor := math.Max(1, horizon-float64(t)) / horizon
		liabMV[t] = marketLiability * durationFactor

		surplusBV[t] = assetsBV[t] - liabBV[t]
		surplusMV[t] = assetsMV[t] - liabMV[t]

		yield[t] = d.Forward[t]
		cost[t] = e.cfg.GuaranteedMinimumRate
		spread[t] = yield[t] - cost[t]
	}

	// Cash-flow-weighted durations: bond coupons on the asset side,
	// benefits plus surrenders on the liability side.
	assetCF := make([]float64, n)
	liabCF := make([]float64, n)
	for t := 0; t < n; t++ {
		assetCF[t] = a.BondsBV[t] * e.cfg.CouponRate
		liabCF[t] = l.BenefitPayments[t] + l.SurrenderBenefits[t]
	}
	summary := &ALSummary{
		AssetDuration:     weightedDuration(assetCF, d.Deflator),
		LiabilityDuration: weightedDuration(liabCF, d.Deflator),
		CoverageRatioBV:   meanRatio(assetsBV, liabBV),
		CoverageRatioMV:   meanRatio(assetsMV, liabMV),
	}
	summary.DurationGap = summary.AssetDuration - summary.LiabilityDuration

	t := report.New("Asset-Liability Report", a.Years, assetLiabilityColumns)
	t.Set("Assets BV", assetsBV)
	t.Set("Assets MV", assetsMV)
	t.Set("Liabilities BV", liabBV)
	t.Set("Liabilities MV", liabMV)
	t.Set("Surplus BV", surplusBV)
	t.Set("Surplus MV", surplusMV)
	t.Set("Asset Yield", yield)
	t.Set("Liability Cost", cost)
	t.Set("Spread", spread)
	return t, summary, nil
}

// CashFlowSummary carries the scalar cash-flow metrics.
type CashFlowSummary struct {
	TotalNetCF float64

	// AvgCoverageRatio averages the finite coverage ratios only.
	AvgCoverageRatio float64

	// CFVolatility is the population standard deviation of net total CF.
	CFVolatility float64

	// BreakEvenYear is the first grid index with positive cumulative CF,
	// or the horizon length when cumulative CF never turns positive.
	BreakEvenYear int
}

// CashFlowReport aggregates asset and liability cash-flow lines into
// inflow/outflow/net/cumulative series with a coverage ratio.
func (e *Engine) CashFlowReport() (*report.Table, *CashFlowSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, summary, err := e.buildCashFlow()
	if err != nil {
		return report.Empty("Cash Flow Report", cashFlowColumns), nil, err
	}
	return t, summary, nil
}

func (e *Engine) buildCashFlow() (*report.Table, *CashFlowSummary, error) {
	a, err := e.ensureAssets()
	if err != nil {
		return nil, nil, fmt.Errorf("CashFlowReport: %w", err)
	}
	l, err := e.ensureLiabilities()
	if err != nil {
		return nil, nil, fmt.Errorf("CashFlowReport: %w", err)
	}

	n := len(a.Years)
	investmentIncome := make([]float64, n)
	inflows := make([]float64, n)
	outflows := l.TotalOutflows()
	netOperating := make([]float64, n)
	netInvestment := make([]float64, n)
	netTotal := make([]float64, n)
	cumulative := make([]float64, n)
	coverage := make([]float64, n)

	var cum float64
	for t := 0; t < n; t++ {
		coupons := a.BondsBV[t] * e.cfg.CouponRate
		dividends := a.StocksMV[t] * e.cfg.DividendYield
		interest := a.Cash[t] * e.cfg.CashYield
		investmentIncome[t] = coupons + dividends + interest

		inflows[t] = l.PremiumIncome[t] + investmentIncome[t]
		netOperating[t] = l.PremiumIncome[t] - outflows[t]
		netInvestment[t] = investmentIncome[t]
		netTotal[t] = netOperating[t] + netInvestment[t]

		cum += netTotal[t]
		cumulative[t] = cum

		if outflows[t] > 0 {
			coverage[t] = inflows[t] / outflows[t]
		} else {
			coverage[t] = math.Inf(1)
		}
	}

	summary := &CashFlowSummary{BreakEvenYear: n}
	var finiteSum float64
	var finiteCount int
	for t := 0; t < n; t++ {
		summary.TotalNetCF += netTotal[t]
		if !math.IsInf(coverage[t], 0) {
			finiteSum += coverage[t]
			finiteCount++
		}
		if summary.BreakEvenYear == n && cumulative[t] > 0 {
			summary.BreakEvenYear = t
		}
	}
	if finiteCount > 0 {
		summary.AvgCoverageRatio = finiteSum / float64(finiteCount)
	}
	summary.CFVolatility = stdDev(netTotal)

	t := report.New("Cash Flow Report", a.Years, cashFlowColumns)
	t.Set("Premium Income", l.PremiumIncome)
	t.Set("Investment Income", investmentIncome)
	t.Set("Total Inflows", inflows)
	t.Set("Benefit Payments", l.BenefitPayments)
	t.Set("Surrender Benefits", l.SurrenderBenefits)
	t.Set("Expenses", l.Expenses)
	t.Set("Total Outflows", outflows)
	t.Set("Net Operating CF", netOperating)
	t.Set("Net Investment CF", netInvestment)
	t.Set("Net Total CF", netTotal)
	t.Set("Cumulative CF", cumulative)
	t.Set("CF Coverage Ratio", coverage)
	return t, summary, nil
}

// weightedDuration is the deflator-discounted cash-flow-weighted average
// time, zero when the discounted cash flows sum to zero.
func weightedDuration(cashflows, deflator []float64) float64 {
	var num, den float64
	for t := 0; t < len(cashflows) && t < len(deflator); t++ {
		pv := cashflows[t] * deflator[t]
		num += float64(t) * pv
		den += pv
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// meanRatio averages a[t]/b[t], zero when the mean denominator is not
// positive.
func meanRatio(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var meanB float64
	for _, v := range b {
		meanB += v
	}
	meanB /= float64(len(b))
	if meanB <= 0 {
		return 0
	}
	var sum float64
	for t := range a {
		sum += a[t] / b[t]
	}
	return sum / float64(len(a))
}

func stdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var variance float64
	for _, x := range xs {
		variance += (x - mean) * (x - mean)
	}
	return math.Sqrt(variance / float64(len(xs)))
}
