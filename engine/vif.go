package engine

import (
	"fmt"
	"math"
)

// VIFResult is the Value in Force block: present value of future profits
// from in-force business at the risk discount rate, net of new-business
// strain and acquisition costs.
type VIFResult struct {
	PVFutureProfits   float64
	NewBusinessStrain float64
	AcquisitionCosts  float64
	VIFGross          float64
	VIFNet            float64

	// VIFMargin is net VIF per unit of premium volume, zero when the
	// portfolio is empty.
	VIFMargin        float64
	RiskDiscountRate float64
}

// ensureVIF discounts the net income path at the risk discount rate,
// which is deliberately distinct from the risk-free curve.
func (e *Engine) ensureVIF() (*VIFResult, error) {
	if e.res.vif != nil {
		return e.res.vif, nil
	}
	p, err := e.ensurePnL()
	if err != nil {
		return nil, fmt.Errorf("VIF: %w", err)
	}

	v := &VIFResult{RiskDiscountRate: e.cfg.RiskDiscountRate}
	for t, income := range p.NetIncome {
		v.PVFutureProfits += income * math.Pow(1+v.RiskDiscountRate, -float64(t))
	}

	premiumVolume := float64(e.cfg.InsuredNumber) * e.cfg.InsuredPremium
	v.NewBusinessStrain = premiumVolume * e.cfg.NewBusinessStrainRate
	v.AcquisitionCosts = premiumVolume * e.cfg.FeePctPremium

	v.VIFGross = v.PVFutureProfits
	v.VIFNet = v.VIFGross - v.NewBusinessStrain - v.AcquisitionCosts
	if premiumVolume > 0 {
		v.VIFMargin = v.VIFNet / premiumVolume
	}

	e.res.vif = v
	return v, nil
}
