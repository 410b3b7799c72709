package marketdata

import (
	"fmt"
	"sort"
	"time"
)

// CurveFeed supplies date-keyed curve rows for one data category.
//
// The CSV loaders and the Postgres feed are interchangeable behind this
// interface; development and tests use MapCurveFeed.
type CurveFeed interface {
	Rows(kind Kind) (map[time.Time]map[string]float64, error)
}

// MapCurveFeed is a static map-backed implementation for development/testing.
type MapCurveFeed struct {
	data map[Kind]map[time.Time]map[string]float64
}

// NewMapCurveFeed wraps pre-built rows in a feed.
func NewMapCurveFeed(data map[Kind]map[time.Time]map[string]float64) *MapCurveFeed {
	return &MapCurveFeed{data: data}
}

func (m *MapCurveFeed) Rows(kind Kind) (map[time.Time]map[string]float64, error) {
	rows, ok := m.data[kind]
	if !ok {
		return nil, fmt.Errorf("MapCurveFeed: no rows for %q: %w", kind, ErrMissingCurveData)
	}
	return rows, nil
}

// LoadFeed fills one curve category of the store from a feed.
//
// Mortality is not feed-backed; it loads from CSV or NewMortality directly.
func (s *Store) LoadFeed(feed CurveFeed, kind Kind) error {
	rows, err := feed.Rows(kind)
	if err != nil {
		return fmt.Errorf("LoadFeed %s: %w", kind, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("LoadFeed %s: empty feed: %w", kind, ErrMissingCurveData)
	}

	// Union of columns across all rows, sorted for a stable fallback
	// order; individual rows may carry differing column sets.
	seen := make(map[string]bool)
	var cols []string
	for _, row := range rows {
		for col := range row {
			if !seen[col] {
				seen[col] = true
				cols = append(cols, col)
			}
		}
	}
	sort.Strings(cols)

	t := NewCurveTable(cols)
	for date, row := range rows {
		t.SetRow(date, row)
	}

	switch kind {
	case ForwardRates:
		s.Forward = t
	case LiquidityPremium:
		s.Liquidity = t
	case RepurchaseRates:
		s.Repurchase = t
	default:
		return fmt.Errorf("LoadFeed: %q: %w", kind, ErrUnknownKind)
	}
	return nil
}
