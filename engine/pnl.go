package engine

import "fmt"

// PnLResult is the local-GAAP profit and loss path, one value per year.
type PnLResult struct {
	Years []int

	PremiumRevenue    []float64
	InvestmentIncome  []float64
	RealizedGains     []float64
	UnrealizedGains   []float64
	ClaimExpenses     []float64
	OperatingExpenses []float64

	GrossIncome   []float64
	TotalExpenses []float64
	PreTaxIncome  []float64
	TaxExpense    []float64
	NetIncome     []float64
}

// ensurePnL builds the P&L from the asset and liability projections.
//
// Investment income accrues on prior-year balances: bond book value at
// the coupon rate, stock market value at the dividend yield, cash at the
// cash yield. A fixed share of the year's unrealized gains is treated as
// realized. Tax applies only to positive pre-tax income (no loss
// carryforward).
func (e *Engine) ensurePnL() (*PnLResult, error) {
	if e.res.pnl != nil {
		return e.res.pnl, nil
	}
	a, err := e.ensureAssets()
	if err != nil {
		return nil, fmt.Errorf("PnL: %w", err)
	}
	l, err := e.ensureLiabilities()
	if err != nil {
		return nil, fmt.Errorf("PnL: %w", err)
	}

	n := len(a.Years)
	p := &PnLResult{
		Years:             append([]int(nil), a.Years...),
		PremiumRevenue:    append([]float64(nil), l.PremiumIncome...),
		InvestmentIncome:  make([]float64, n),
		RealizedGains:     make([]float64, n),
		UnrealizedGains:   make([]float64, n),
		ClaimExpenses:     make([]float64, n),
		OperatingExpenses: append([]float64(nil), l.Expenses...),
		GrossIncome:       make([]float64, n),
		TotalExpenses:     make([]float64, n),
		PreTaxIncome:      make([]float64, n),
		TaxExpense:        make([]float64, n),
		NetIncome:         make([]float64, n),
	}

	for t := 0; t < n; t++ {
		p.ClaimExpenses[t] = l.BenefitPayments[t] + l.SurrenderBenefits[t]
	}

	for t := 1; t < n; t++ {
		bondIncome := a.BondsBV[t-1] * e.cfg.CouponRate
		dividends := a.StocksMV[t-1] * e.cfg.DividendYield
		cashInterest := a.Cash[t-1] * e.cfg.CashYield
		p.InvestmentIncome[t] = bondIncome + dividends + cashInterest

		unrealized := (a.BondsMV[t] - a.BondsBV[t]) + (a.StocksMV[t] - a.StocksBV[t])
		p.RealizedGains[t] = unrealized * e.cfg.RealizationRate
		p.UnrealizedGains[t] = unrealized * (1 - e.cfg.RealizationRate)
	}

	for t := 0; t < n; t++ {
		p.GrossIncome[t] = p.PremiumRevenue[t] + p.InvestmentIncome[t] + p.RealizedGains[t]
		p.TotalExpenses[t] = p.ClaimExpenses[t] + p.OperatingExpenses[t]
		p.PreTaxIncome[t] = p.GrossIncome[t] - p.TotalExpenses[t]
		if p.PreTaxIncome[t] > 0 {
			p.TaxExpense[t] = p.PreTaxIncome[t] * e.cfg.TaxRate
		}
		p.NetIncome[t] = p.PreTaxIncome[t] - p.TaxExpense[t]
	}

	e.res.pnl = p
	return p, nil
}
