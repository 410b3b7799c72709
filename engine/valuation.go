package engine

import "fmt"

// ValuationResult is the Best Estimate Liability block.
type ValuationResult struct {
	PVBenefits   float64
	PVSurrenders float64
	PVExpenses   float64
	PVPremiums   float64

	// BELGross is the present value of outflows; BELNet nets off future
	// premiums.
	BELGross float64
	BELNet   float64

	// RiskMargin is BELGross scaled by the cost-of-capital rate.
	RiskMargin          float64
	TechnicalProvisions float64
}

func (e *Engine) ensureValuation() (*ValuationResult, error) {
	if e.res.valuation != nil {
		return e.res.valuation, nil
	}
	l, err := e.ensureLiabilities()
	if err != nil {
		return nil, fmt.Errorf("Valuation: %w", err)
	}
	d, err := e.ensureCurve("")
	if err != nil {
		return nil, fmt.Errorf("Valuation: %w", err)
	}

	v := &ValuationResult{
		PVBenefits:   d.PV(l.BenefitPayments),
		PVSurrenders: d.PV(l.SurrenderBenefits),
		PVExpenses:   d.PV(l.Expenses),
		PVPremiums:   d.PV(l.PremiumIncome),
	}
	v.BELGross = v.PVBenefits + v.PVSurrenders + v.PVExpenses
	v.BELNet = v.BELGross - v.PVPremiums
	v.RiskMargin = v.BELGross * e.cfg.CostOfCapital
	v.TechnicalProvisions = v.BELNet + v.RiskMargin

	e.res.valuation = v
	return v, nil
}
