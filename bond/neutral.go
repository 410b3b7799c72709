package bond

import (
	"fmt"
	"math"
)

// Neutral-risk validation tolerance: the discounted neutral cash flows
// must reproduce the observed market value within 0.1%.
const neutralPVTolerance = 0.001

// NeutralResult is the outcome of a neutral-risk calibration.
//
// Factor scales the bond cash flows so that their discounted sum equals
// the observed market value. Mismatch is non-fatal: it flags a curve or
// parameter inconsistency but the calibration is still usable.
type NeutralResult struct {
	// Factor applied uniformly to all non-zero cash flows (per period;
	// index 0 stays zero).
	Factor []float64
	// FactorValue is the scalar factor, 1 when the total PV is not positive.
	FactorValue float64
	// DiscountedCF is the per-period present value of the raw cash flows.
	DiscountedCF []float64
	// NeutralCF is the factor-scaled cash-flow series.
	NeutralCF []float64
	// CumulativePV is the running sum of DiscountedCF.
	CumulativePV []float64
	// TotalPV is the present value of the raw cash flows.
	TotalPV float64
	// PVCheck is the present value of the neutral cash flows.
	PVCheck float64
	// Mismatch is set when PVCheck misses the market value by more than
	// the 0.1% tolerance.
	Mismatch bool
}

// CalibrateNeutral solves for the scalar neutral-risk factor reconciling
// discounted bond cash flows with the observed market value.
//
// The same inputs always produce the same result; the validation check
// never aborts the calibration.
func CalibrateNeutral(cashflows, deflator []float64, marketValue float64) (*NeutralResult, error) {
	n := len(cashflows)
	if n == 0 {
		return nil, fmt.Errorf("CalibrateNeutral: empty cash-flow series")
	}
	if len(deflator) != n {
		return nil, fmt.Errorf("CalibrateNeutral: deflator length %d, cash flows length %d", len(deflator), n)
	}

	res := &NeutralResult{
		Factor:       make([]float64, n),
		DiscountedCF: make([]float64, n),
		NeutralCF:    make([]float64, n),
		CumulativePV: make([]float64, n),
	}

	for t := 1; t < n; t++ {
		res.DiscountedCF[t] = cashflows[t] * deflator[t]
		res.TotalPV += res.DiscountedCF[t]
	}

	res.FactorValue = 1.0
	if res.TotalPV > 0 {
		res.FactorValue = marketValue / res.TotalPV
	}
	for t := 1; t < n; t++ {
		res.Factor[t] = res.FactorValue
		res.NeutralCF[t] = cashflows[t] * res.FactorValue
		res.PVCheck += res.NeutralCF[t] * deflator[t]
	}

	var cum float64
	for t := 0; t < n; t++ {
		cum += res.DiscountedCF[t]
		res.CumulativePV[t] = cum
	}

	tolerance := math.Abs(marketValue * neutralPVTolerance)
	if math.Abs(res.PVCheck-marketValue) > tolerance {
		res.Mismatch = true
	}
	return res, nil
}
