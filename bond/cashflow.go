// Package bond models the reference bond portfolio used for neutral-risk
// calibration: level annual coupons with principal repaid at maturity.
package bond

// Cashflows builds the annual cash-flow series for a level-coupon bond on
// an n-period projection grid.
//
// Index 0 is the base period and pays nothing; coupons run from period 1,
// and the final period repays the nominal on top of its coupon.
func Cashflows(nominal, couponRate float64, n int) []float64 {
	cfs := make([]float64, n)
	if n < 2 {
		return cfs
	}
	coupon := nominal * couponRate
	for t := 1; t < n; t++ {
		cfs[t] = coupon
	}
	cfs[n-1] += nominal
	return cfs
}
