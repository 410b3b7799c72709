package curve_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/almlib/curve"
	"github.com/meenmo/almlib/marketdata"
)

func years(start, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + i
	}
	return out
}

func TestBuildFromForwards_Bootstrap(t *testing.T) {
	t.Parallel()

	forwards := []float64{0.020, 0.021, 0.022, 0.023, 0.024}
	d, err := curve.BuildFromForwards(years(2015, 5), forwards, nil, 0)
	if err != nil {
		t.Fatalf("BuildFromForwards error: %v", err)
	}

	if d.Deflator[0] != 1.0 {
		t.Fatalf("deflator[0] = %v, want 1", d.Deflator[0])
	}
	want := 1 / 1.021
	if math.Abs(d.Deflator[1]-want) > 1e-12 {
		t.Fatalf("deflator[1] = %v, want %v", d.Deflator[1], want)
	}
	if d.Spot[0] != forwards[0] || d.Spot[1] != forwards[1] {
		t.Fatalf("first two spot rates must equal forwards, got %v %v", d.Spot[0], d.Spot[1])
	}

	// Compounding identity: (1+spot[t])^(t+1) = (1+spot[t-1])^t · (1+forward[t]).
	for i := 2; i < 5; i++ {
		lhs := math.Pow(1+d.Spot[i], float64(i+1))
		rhs := math.Pow(1+d.Spot[i-1], float64(i)) * (1 + forwards[i])
		if math.Abs(lhs-rhs) > 1e-12 {
			t.Errorf("compounding identity broken at t=%d: %v vs %v", i, lhs, rhs)
		}
	}
}

func TestDiscountRateRoundTrip(t *testing.T) {
	t.Parallel()

	forwards := []float64{0.015, 0.03, 0.005, 0.04, 0.025, 0.018}
	d, err := curve.BuildFromForwards(years(2015, 6), forwards, nil, 0)
	if err != nil {
		t.Fatalf("BuildFromForwards error: %v", err)
	}

	// The per-period discount rate recomputed from the deflator must
	// reproduce the spot rate.
	for i := 1; i < d.Len(); i++ {
		got := math.Pow(1/d.Deflator[i], 1/float64(i)) - 1
		if math.Abs(got-d.Spot[i]) > 1e-9 {
			t.Errorf("t=%d: discount rate %v, spot %v", i, got, d.Spot[i])
		}
		if math.Abs(d.DiscountRate[i]-d.Spot[i]) > 1e-9 {
			t.Errorf("t=%d: DiscountRate %v diverges from spot %v", i, d.DiscountRate[i], d.Spot[i])
		}
	}
}

func TestBuild_NearestDateAndVolatilityDefault(t *testing.T) {
	t.Parallel()

	table := marketdata.NewCurveTable([]string{"5Y"})
	// Only two curve dates; projection years resolve to the nearest.
	table.SetRow(time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC), map[string]float64{"5Y": 0.02})
	table.SetRow(time.Date(2018, 6, 1, 0, 0, 0, 0, time.UTC), map[string]float64{"5Y": 0.03})
	store := &marketdata.Store{Forward: table}

	d, err := curve.Build(store, years(2015, 4), "5Y", 0)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	wantForwards := []float64{0.02, 0.02, 0.03, 0.03}
	for i, want := range wantForwards {
		if d.Forward[i] != want {
			t.Errorf("forward[%d] = %v, want %v", i, d.Forward[i], want)
		}
	}
	for i, v := range d.Volatility {
		if v != marketdata.DefaultVolatility {
			t.Errorf("volatility[%d] = %v, want default %v", i, v, marketdata.DefaultVolatility)
		}
	}

	// Risk-adjusted rate carries the volatility premium.
	for i := range d.RiskAdjusted {
		want := d.Forward[i] + d.Volatility[i]*curve.DefaultRiskPremiumMultiplier
		if math.Abs(d.RiskAdjusted[i]-want) > 1e-15 {
			t.Errorf("risk adjusted[%d] = %v, want %v", i, d.RiskAdjusted[i], want)
		}
	}
}

func TestBuild_MissingCurveData(t *testing.T) {
	t.Parallel()

	store := &marketdata.Store{}
	if _, err := curve.Build(store, years(2015, 3), "5Y", 0); err == nil {
		t.Fatal("expected error for empty forward table")
	}
}

func TestPV(t *testing.T) {
	t.Parallel()

	d, err := curve.BuildFromForwards(years(2015, 3), []float64{0.0, 0.0, 0.0}, nil, 0)
	if err != nil {
		t.Fatalf("BuildFromForwards error: %v", err)
	}
	// Zero rates: PV is the plain sum.
	got := d.PV([]float64{100, 200, 300})
	if math.Abs(got-600) > 1e-12 {
		t.Fatalf("PV = %v, want 600", got)
	}
}
