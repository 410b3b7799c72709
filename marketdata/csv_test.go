package marketdata_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/meenmo/almlib/marketdata"
)

func TestReadCSV_ForwardRates(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		"Date,5Y,5Y_Vol",
		"2015-01-01,0.020,0.012",
		"2016-01-01,0.021,bad",
	}, "\n")

	s := &marketdata.Store{}
	if err := s.ReadCSV(strings.NewReader(src), marketdata.ForwardRates); err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}

	v, err := s.ForwardRate(date(2015, 1, 1), "5Y")
	if err != nil || v != 0.020 {
		t.Fatalf("forward = %v/%v, want 0.020", v, err)
	}
	if vol := s.ForwardVolatility(date(2015, 1, 1), "5Y"); vol != 0.012 {
		t.Fatalf("volatility = %v, want 0.012", vol)
	}
	// Unparseable cell loads as NaN and the 1% default applies.
	if vol := s.ForwardVolatility(date(2016, 1, 1), "5Y"); vol != marketdata.DefaultVolatility {
		t.Fatalf("volatility with bad cell = %v, want default %v", vol, marketdata.DefaultVolatility)
	}
}

func TestReadCSV_Mortality(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		"Age,Qx,Px",
		"45,0.004,0.996",
		"46,0.005,0.995",
	}, "\n")

	s := &marketdata.Store{}
	if err := s.ReadCSV(strings.NewReader(src), marketdata.MortalityTable); err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}
	if q := s.Qx(46); q != 0.005 {
		t.Fatalf("Qx(46) = %v, want 0.005", q)
	}
	if p := s.Mortality.Px(45); p != 0.996 {
		t.Fatalf("Px(45) = %v, want 0.996", p)
	}
	if q := s.Qx(80); q != 0.05 {
		t.Fatalf("Qx beyond table = %v, want 0.05 cap", q)
	}
}

func TestReadCSV_MortalityWithoutPx(t *testing.T) {
	t.Parallel()

	src := "Age,Qx\n50,0.01\n"
	s := &marketdata.Store{}
	if err := s.ReadCSV(strings.NewReader(src), marketdata.MortalityTable); err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}
	if p := s.Mortality.Px(50); math.Abs(p-0.99) > 1e-15 {
		t.Fatalf("Px(50) = %v, want 0.99 derived from Qx", p)
	}
}

func TestReadCSV_Repurchase(t *testing.T) {
	t.Parallel()

	src := "Date,Rate\n2015-01-01,0.05\n"
	s := &marketdata.Store{}
	if err := s.ReadCSV(strings.NewReader(src), marketdata.RepurchaseRates); err != nil {
		t.Fatalf("ReadCSV error: %v", err)
	}
	if v, ok := s.RepurchaseRate(date(2015, 1, 1)); !ok || v != 0.05 {
		t.Fatalf("repurchase = %v/%v, want 0.05", v, ok)
	}
}

func TestReadCSV_Errors(t *testing.T) {
	t.Parallel()

	s := &marketdata.Store{}

	if err := s.ReadCSV(strings.NewReader("Date,5Y\n"), marketdata.ForwardRates); err == nil {
		t.Fatal("expected error for header-only input")
	}
	if err := s.ReadCSV(strings.NewReader("Tenor,5Y\n2015-01-01,0.02\n"), marketdata.ForwardRates); err == nil {
		t.Fatal("expected error for missing Date column")
	}
	if err := s.ReadCSV(strings.NewReader("Date,5Y\nnot-a-date,0.02\n"), marketdata.ForwardRates); err == nil {
		t.Fatal("expected error for malformed date")
	}
	err := s.ReadCSV(strings.NewReader("Date,5Y\n2015-01-01,0.02\n"), marketdata.Kind("bogus"))
	if !errors.Is(err, marketdata.ErrUnknownKind) {
		t.Fatalf("error = %v, want ErrUnknownKind", err)
	}
}
