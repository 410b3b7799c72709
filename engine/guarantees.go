package engine

import (
	"fmt"
	"math"
)

// GuaranteesResult values the embedded minimum-benefit guarantees against
// the per-contract account value.
type GuaranteesResult struct {
	Years []int

	// Per-year payoff series.
	GMDB []float64 // guaranteed minimum death benefit
	GMWB []float64 // guaranteed minimum withdrawal benefit
	GMAB []float64 // guaranteed minimum accumulation benefit

	PVGMDB float64
	PVGMWB float64
	PVGMAB float64
	Total  float64
}

// ensureGuarantees values the three guarantee types per year and
// discounts each series by the deflator.
//
// Account value per contract is total asset market value over the
// contract count (zero for an empty portfolio, which makes every floor
// bind at its full guaranteed amount).
func (e *Engine) ensureGuarantees() (*GuaranteesResult, error) {
	if e.res.guarantees != nil {
		return e.res.guarantees, nil
	}
	a, err := e.ensureAssets()
	if err != nil {
		return nil, fmt.Errorf("Guarantees: %w", err)
	}
	d, err := e.ensureCurve("")
	if err != nil {
		return nil, fmt.Errorf("Guarantees: %w", err)
	}

	n := len(a.Years)
	g := &GuaranteesResult{
		Years: append([]int(nil), a.Years...),
		GMDB:  make([]float64, n),
		GMWB:  make([]float64, n),
		GMAB:  make([]float64, n),
	}

	totalMV := a.TotalMV()
	premium := e.cfg.InsuredPremium
	guaranteedDeath := premium * e.cfg.DeathBenefitMultiple

	for t := 0; t < n; t++ {
		var account float64
		if e.cfg.InsuredNumber > 0 {
			account = totalMV[t] / float64(e.cfg.InsuredNumber)
		}

		g.GMDB[t] = math.Max(0, guaranteedDeath-account)

		if t > 0 {
			g.GMWB[t] = premium * e.cfg.GuaranteedWithdrawalRate

			accumulated := premium * math.Pow(1+e.cfg.GuaranteedMinimumRate, float64(t))
			g.GMAB[t] = math.Max(0, accumulated-account)
		}
	}

	g.PVGMDB = d.PV(g.GMDB)
	g.PVGMWB = d.PV(g.GMWB)
	g.PVGMAB = d.PV(g.GMAB)
	g.Total = g.PVGMDB + g.PVGMWB + g.PVGMAB

	e.res.guarantees = g
	return g, nil
}
