package engine

import (
	"fmt"
	"math"
)

// Stress shock sizes matching the historical reference scenarios.
const (
	stressRateShock   = 0.01 // 100 bps parallel shift
	stressEquityShock = 0.20 // 20% equity move
)

// StressResult holds total asset market values under instantaneous shock
// scenarios relative to the reference projection.
type StressResult struct {
	Years []int

	Reference  []float64
	RateUp     []float64
	RateDown   []float64
	EquityUp   []float64
	EquityDown []float64
	Combined   []float64 // rate up and equity down together
}

// Stress revalues the asset portfolio under rate and equity shocks.
//
// Rate sensitivity uses the mean remaining-duration approximation on the
// bond position; equity shocks scale the stock market value directly.
func (e *Engine) Stress() (*StressResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := e.ensureAssets()
	if err != nil {
		return nil, fmt.Errorf("Stress: %w", err)
	}

	n := len(a.Years)
	s := &StressResult{
		Years:      append([]int(nil), a.Years...),
		Reference:  a.TotalMV(),
		RateUp:     make([]float64, n),
		RateDown:   make([]float64, n),
		EquityUp:   make([]float64, n),
		EquityDown: make([]float64, n),
		Combined:   make([]float64, n),
	}

	horizon := float64(e.cfg.ContractsMaturity)
	var meanDuration float64
	for t := 0; t < n; t++ {
		meanDuration += math.Max(1, horizon-float64(t))
	}
	meanDuration /= float64(n)

	for t := 0; t < n; t++ {
		pv01 := a.BondsMV[t] * meanDuration * stressRateShock
		equity := a.StocksMV[t] * stressEquityShock

		s.RateUp[t] = s.Reference[t] - pv01
		s.RateDown[t] = s.Reference[t] + pv01
		s.EquityUp[t] = s.Reference[t] + equity
		s.EquityDown[t] = s.Reference[t] - equity
		s.Combined[t] = s.Reference[t] - pv01 - equity
	}
	return s, nil
}
