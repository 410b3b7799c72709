// Package curve derives the discounting quantities an ALM projection is
// built on: spot rates bootstrapped from a forward curve, deflators
// (discount factors), per-period discount rates and risk-adjusted rates,
// all aligned to an annual projection grid.
package curve

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/almlib/marketdata"
)

// Discount is the bootstrapped discount curve on the projection grid.
//
// Index 0 is the base year by convention: Deflator[0] = 1 and
// DiscountRate[0] = 0. All slices share the grid length.
type Discount struct {
	Years        []int
	Maturity     string
	Forward      []float64
	Spot         []float64
	Deflator     []float64
	DiscountRate []float64
	Volatility   []float64
	RiskAdjusted []float64

	// RiskPremiumMultiplier scales volatility into the risk premium.
	RiskPremiumMultiplier float64
}

// DefaultRiskPremiumMultiplier converts volatility into a risk premium on
// top of the forward rate.
const DefaultRiskPremiumMultiplier = 1.5

// Build bootstraps a discount curve for the selected maturity tenor.
//
// For each projection year the forward rate and volatility are taken at
// the nearest curve date (January 1st of the year). Spot rates satisfy
// (1+spot[t])^(t+1) = (1+spot[t-1])^t · (1+forward[t]); deflators are
// (1+spot[t])^-t.
func Build(store *marketdata.Store, years []int, maturity string, riskPremiumMultiplier float64) (*Discount, error) {
	n := len(years)
	if n == 0 {
		return nil, fmt.Errorf("curve.Build: empty projection grid")
	}
	if riskPremiumMultiplier == 0 {
		riskPremiumMultiplier = DefaultRiskPremiumMultiplier
	}

	d := &Discount{
		Years:                 append([]int(nil), years...),
		Maturity:              maturity,
		Forward:               make([]float64, n),
		Spot:                  make([]float64, n),
		Deflator:              make([]float64, n),
		DiscountRate:          make([]float64, n),
		Volatility:            make([]float64, n),
		RiskAdjusted:          make([]float64, n),
		RiskPremiumMultiplier: riskPremiumMultiplier,
	}

	for i, year := range years {
		date := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		fwd, err := store.ForwardRate(date, maturity)
		if err != nil {
			return nil, fmt.Errorf("curve.Build: year %d: %w", year, err)
		}
		d.Forward[i] = fwd
		d.Volatility[i] = store.ForwardVolatility(date, maturity)
	}

	bootstrap(d)
	return d, nil
}

// BuildFromForwards bootstraps a curve from explicit forward and
// volatility paths, bypassing a market data store. Primarily for tests
// and diagnostics; volatility may be nil (defaults to 1%).
func BuildFromForwards(years []int, forwards, volatility []float64, riskPremiumMultiplier float64) (*Discount, error) {
	n := len(years)
	if n == 0 || len(forwards) != n {
		return nil, fmt.Errorf("curve.BuildFromForwards: forwards length %d, grid length %d", len(forwards), n)
	}
	if volatility != nil && len(volatility) != n {
		return nil, fmt.Errorf("curve.BuildFromForwards: volatility length %d, grid length %d", len(volatility), n)
	}
	if riskPremiumMultiplier == 0 {
		riskPremiumMultiplier = DefaultRiskPremiumMultiplier
	}

	d := &Discount{
		Years:                 append([]int(nil), years...),
		Forward:               append([]float64(nil), forwards...),
		Spot:                  make([]float64, n),
		Deflator:              make([]float64, n),
		DiscountRate:          make([]float64, n),
		Volatility:            make([]float64, n),
		RiskAdjusted:          make([]float64, n),
		RiskPremiumMultiplier: riskPremiumMultiplier,
	}
	for i := range d.Volatility {
		if volatility != nil {
			d.Volatility[i] = volatility[i]
		} else {
			d.Volatility[i] = marketdata.DefaultVolatility
		}
	}

	bootstrap(d)
	return d, nil
}

func bootstrap(d *Discount) {
	n := len(d.Forward)

	// Spot rates: first two periods equal the forwards, then compound.
	d.Spot[0] = d.Forward[0]
	for t := 1; t < n; t++ {
		if t == 1 {
			d.Spot[t] = d.Forward[t]
			continue
		}
		compound := math.Pow(1+d.Spot[t-1], float64(t)) * (1 + d.Forward[t])
		d.Spot[t] = math.Pow(compound, 1/float64(t+1)) - 1
	}

	// Deflators and per-period discount rates.
	d.Deflator[0] = 1
	d.DiscountRate[0] = 0
	for t := 1; t < n; t++ {
		d.Deflator[t] = math.Pow(1+d.Spot[t], -float64(t))
		d.DiscountRate[t] = math.Pow(1/d.Deflator[t], 1/float64(t)) - 1
	}

	for t := 0; t < n; t++ {
		d.RiskAdjusted[t] = d.Forward[t] + d.Volatility[t]*d.RiskPremiumMultiplier
	}
}

// RiskPremium returns the volatility premium series (risk-adjusted minus
// forward).
func (d *Discount) RiskPremium() []float64 {
	out := make([]float64, len(d.Volatility))
	for i, v := range d.Volatility {
		out[i] = v * d.RiskPremiumMultiplier
	}
	return out
}

// Len returns the grid length.
func (d *Discount) Len() int { return len(d.Years) }

// PV discounts a cash-flow series on the grid to its present value.
func (d *Discount) PV(cashflows []float64) float64 {
	var pv float64
	for t := 0; t < len(cashflows) && t < len(d.Deflator); t++ {
		pv += cashflows[t] * d.Deflator[t]
	}
	return pv
}
