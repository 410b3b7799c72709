package engine

import (
	"math"

	"github.com/meenmo/almlib/curve"
)

// AssetProjection holds the year-by-year book value, market value and
// quantity for each asset class.
type AssetProjection struct {
	Years []int

	BondsBV  []float64
	BondsMV  []float64
	BondsQty []float64

	StocksBV  []float64
	StocksMV  []float64
	StocksQty []float64

	Cash []float64
}

// TotalBV sums the asset classes at book value per year.
func (a *AssetProjection) TotalBV() []float64 {
	out := make([]float64, len(a.Years))
	for t := range out {
		out[t] = a.BondsBV[t] + a.StocksBV[t] + a.Cash[t]
	}
	return out
}

// TotalMV sums the asset classes at market value per year.
func (a *AssetProjection) TotalMV() []float64 {
	out := make([]float64, len(a.Years))
	for t := range out {
		out[t] = a.BondsMV[t] + a.StocksMV[t] + a.Cash[t]
	}
	return out
}

// projectAssets rolls the asset portfolio forward on the projection grid.
//
// Bonds amortize toward par at 1/horizon per year; bond market value
// moves by a duration-approximated sensitivity to the forward-rate shift
// from the base year. Stocks keep their cost basis, with market value
// growing at the expected return plus a volatility-scaled normal shock
// (zero when no source is injected). Cash accrues half the period forward
// rate.
func projectAssets(cfg *Config, d *curve.Discount, normals NormalSource) *AssetProjection {
	n := len(d.Years)
	a := &AssetProjection{
		Years:     append([]int(nil), d.Years...),
		BondsBV:   make([]float64, n),
		BondsMV:   make([]float64, n),
		BondsQty:  make([]float64, n),
		StocksBV:  make([]float64, n),
		StocksMV:  make([]float64, n),
		StocksQty: make([]float64, n),
		Cash:      make([]float64, n),
	}

	a.BondsBV[0] = cfg.BondsInitialBV
	a.BondsMV[0] = cfg.BondsInitialMV
	a.BondsQty[0] = cfg.BondsInitialBV / cfg.Nominal

	a.StocksBV[0] = cfg.StocksInitialBV
	a.StocksMV[0] = cfg.StocksInitialMV
	a.StocksQty[0] = 1.0

	// Initial cash keeps the configured allocation relative to the
	// invested book.
	investedAlloc := cfg.AllocBonds + cfg.AllocStocks
	if investedAlloc > 0 {
		a.Cash[0] = (cfg.BondsInitialBV + cfg.StocksInitialBV) * cfg.AllocCash / investedAlloc
	}

	horizon := float64(cfg.ContractsMaturity)
	amortRate := 1 / horizon

	for t := 1; t < n; t++ {
		a.BondsBV[t] = a.BondsBV[t-1] + (cfg.Nominal-a.BondsBV[t-1])*amortRate

		duration := math.Max(1, horizon-float64(t))
		priceChange := -duration * (d.Forward[t] - d.Forward[0])
		a.BondsMV[t] = a.BondsMV[0] * (1 + priceChange)
		a.BondsQty[t] = a.BondsQty[0]

		a.StocksBV[t] = a.StocksBV[0]
		growth := cfg.ExpectedStockReturn
		if normals != nil {
			growth += d.Volatility[t] * normals.NormFloat64()
		}
		a.StocksMV[t] = a.StocksMV[t-1] * (1 + growth)
		a.StocksQty[t] = a.StocksQty[0]

		a.Cash[t] = a.Cash[t-1] * (1 + d.Forward[t]*0.5)
	}
	return a
}
