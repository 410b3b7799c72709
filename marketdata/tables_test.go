package marketdata_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/almlib/marketdata"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestCurveTable_NearestDate(t *testing.T) {
	t.Parallel()

	table := marketdata.NewCurveTable([]string{"1Y"})
	table.SetRow(date(2015, 1, 1), map[string]float64{"1Y": 0.01})
	table.SetRow(date(2016, 1, 1), map[string]float64{"1Y": 0.02})

	if v, ok := table.Rate(date(2015, 3, 1), "1Y"); !ok || v != 0.01 {
		t.Fatalf("nearest lookup = %v/%v, want 0.01", v, ok)
	}
	if v, ok := table.Rate(date(2015, 12, 1), "1Y"); !ok || v != 0.02 {
		t.Fatalf("nearest lookup = %v/%v, want 0.02", v, ok)
	}
	// Outside the range clamps to the boundary.
	if v, ok := table.Rate(date(2030, 1, 1), "1Y"); !ok || v != 0.02 {
		t.Fatalf("boundary lookup = %v/%v, want 0.02", v, ok)
	}
}

func TestCurveTable_TenorFallback(t *testing.T) {
	t.Parallel()

	table := marketdata.NewCurveTable([]string{"1Y", "1Y_Vol"})
	table.SetRow(date(2015, 1, 1), map[string]float64{"1Y": 0.015, "1Y_Vol": 0.02})

	// Case-insensitive tenor match.
	if v, ok := table.Rate(date(2015, 1, 1), "1y"); !ok || v != 0.015 {
		t.Fatalf("case-normalized lookup = %v/%v, want 0.015", v, ok)
	}
	// Missing tenor falls back to the first non-volatility column.
	if v, ok := table.Rate(date(2015, 1, 1), "30Y"); !ok || v != 0.015 {
		t.Fatalf("fallback lookup = %v/%v, want 0.015", v, ok)
	}
	if v := table.Volatility(date(2015, 1, 1), "1Y"); v != 0.02 {
		t.Fatalf("volatility = %v, want 0.02", v)
	}
	// Absent volatility column uses the 1% default.
	if v := table.Volatility(date(2015, 1, 1), "30Y"); v != marketdata.DefaultVolatility {
		t.Fatalf("volatility default = %v, want %v", v, marketdata.DefaultVolatility)
	}
}

func TestMortality_SyntheticDefault(t *testing.T) {
	t.Parallel()

	var m *marketdata.Mortality // nil: synthetic curve

	want := 0.001 * math.Pow(1.1, 45)
	if got := m.Qx(45); math.Abs(got-want) > 1e-15 {
		t.Fatalf("synthetic Qx(45) = %v, want %v", got, want)
	}
	if got := m.Qx(120); got != 0.05 {
		t.Fatalf("Qx beyond range = %v, want 0.05 cap", got)
	}
}

func TestMortality_TableLookup(t *testing.T) {
	t.Parallel()

	m, err := marketdata.NewMortality(40, []float64{0.001, 0.002, 0.003}, nil)
	if err != nil {
		t.Fatalf("NewMortality error: %v", err)
	}
	if got := m.Qx(41); got != 0.002 {
		t.Fatalf("Qx(41) = %v, want 0.002", got)
	}
	if got := m.Qx(90); got != 0.05 {
		t.Fatalf("Qx beyond table = %v, want 0.05 cap", got)
	}
	if got := m.Px(41); math.Abs(got-0.998) > 1e-15 {
		t.Fatalf("Px(41) = %v, want 0.998 (1-Qx default)", got)
	}
}

func TestStore_ForwardRateErrors(t *testing.T) {
	t.Parallel()

	var s *marketdata.Store
	if _, err := s.ForwardRate(date(2015, 1, 1), "5Y"); err == nil {
		t.Fatal("expected missing curve data error on nil store")
	}

	s = &marketdata.Store{}
	if _, err := s.ForwardRate(date(2015, 1, 1), "5Y"); err == nil {
		t.Fatal("expected missing curve data error on empty store")
	}
}

func TestStore_RepurchaseAndLiquidity(t *testing.T) {
	t.Parallel()

	s := &marketdata.Store{
		Repurchase: marketdata.NewCurveTable([]string{"Rate"}),
		Liquidity:  marketdata.NewCurveTable([]string{"Premium"}),
	}
	s.Repurchase.SetRow(date(2015, 1, 1), map[string]float64{"Rate": 0.04})
	s.Liquidity.SetRow(date(2015, 1, 1), map[string]float64{"Premium": 0.003})

	if v, ok := s.RepurchaseRate(date(2015, 6, 1)); !ok || v != 0.04 {
		t.Fatalf("repurchase = %v/%v, want 0.04", v, ok)
	}
	if v, ok := s.LiquidityPremium(date(2015, 6, 1)); !ok || v != 0.003 {
		t.Fatalf("liquidity premium = %v/%v, want 0.003", v, ok)
	}

	empty := &marketdata.Store{}
	if _, ok := empty.RepurchaseRate(date(2015, 1, 1)); ok {
		t.Fatal("expected no repurchase rate from empty store")
	}
}

func TestLoadFeed(t *testing.T) {
	t.Parallel()

	feed := marketdata.NewMapCurveFeed(map[marketdata.Kind]map[time.Time]map[string]float64{
		marketdata.ForwardRates: {
			date(2015, 1, 1): {"5Y": 0.02, "5Y_Vol": 0.012},
			date(2016, 1, 1): {"5Y": 0.025, "5Y_Vol": 0.013},
		},
	})

	s := &marketdata.Store{}
	if err := s.LoadFeed(feed, marketdata.ForwardRates); err != nil {
		t.Fatalf("LoadFeed error: %v", err)
	}
	if v, err := s.ForwardRate(date(2016, 1, 1), "5Y"); err != nil || v != 0.025 {
		t.Fatalf("forward after feed load = %v/%v, want 0.025", v, err)
	}
	if err := s.LoadFeed(feed, marketdata.RepurchaseRates); err == nil {
		t.Fatal("expected error for category missing from feed")
	}
}

func TestLoadFeed_UnevenColumns(t *testing.T) {
	t.Parallel()

	// Rows with disjoint column sets: the table must still resolve a
	// fallback column present in only some rows.
	feed := marketdata.NewMapCurveFeed(map[marketdata.Kind]map[time.Time]map[string]float64{
		marketdata.ForwardRates: {
			date(2015, 1, 1): {"5Y_Vol": 0.02},
			date(2016, 1, 1): {"5Y": 0.03},
		},
	})

	s := &marketdata.Store{}
	if err := s.LoadFeed(feed, marketdata.ForwardRates); err != nil {
		t.Fatalf("LoadFeed error: %v", err)
	}

	// "1Y" is absent everywhere; the fallback must skip the volatility
	// column and land on "5Y" even though the first row lacks it.
	if v, err := s.ForwardRate(date(2016, 1, 1), "1Y"); err != nil || v != 0.03 {
		t.Fatalf("fallback forward = %v/%v, want 0.03", v, err)
	}
	if vol := s.ForwardVolatility(date(2015, 1, 1), "5Y"); vol != 0.02 {
		t.Fatalf("volatility = %v, want 0.02", vol)
	}
}
