// Package marketdata holds the externally supplied market series an ALM
// projection consumes: forward-rate curves (with optional volatility
// columns), liquidity premiums, a mortality table, and repurchase rates.
//
// Tables are pure data. Lookups resolve to the nearest available date when
// no exact match exists; the computation packages never touch raw files.
package marketdata

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/meenmo/almlib/utils"
)

// Kind identifies one of the four supported data categories.
type Kind string

const (
	ForwardRates     Kind = "forward_rates"
	LiquidityPremium Kind = "liquidity_premium"
	MortalityTable   Kind = "mortality_table"
	RepurchaseRates  Kind = "repurchase_rates"
)

var (
	// ErrMissingCurveData is returned when a requested column is absent
	// and no fallback column exists.
	ErrMissingCurveData = errors.New("missing curve data")

	// ErrUnknownKind is returned for a data category outside the four
	// supported ones.
	ErrUnknownKind = errors.New("unknown market data kind")
)

// CurveTable is a date-indexed table of named numeric columns.
//
// Dates are kept sorted ascending. Cells that failed numeric parsing are
// stored as NaN and skipped by Rate.
type CurveTable struct {
	dates   []time.Time
	columns []string
	rows    map[time.Time]map[string]float64
}

// NewCurveTable creates an empty table with the given column order.
func NewCurveTable(columns []string) *CurveTable {
	return &CurveTable{
		columns: append([]string(nil), columns...),
		rows:    make(map[time.Time]map[string]float64),
	}
}

// Columns returns the column names in file order.
func (t *CurveTable) Columns() []string { return t.columns }

// Dates returns the sorted row dates.
func (t *CurveTable) Dates() []time.Time { return t.dates }

// Len returns the number of rows.
func (t *CurveTable) Len() int { return len(t.dates) }

// SetRow inserts or replaces the row for a date.
func (t *CurveTable) SetRow(date time.Time, values map[string]float64) {
	date = date.UTC().Truncate(24 * time.Hour)
	if _, ok := t.rows[date]; !ok {
		t.dates = append(t.dates, date)
		utils.SortDates(t.dates)
	}
	row := make(map[string]float64, len(values))
	for k, v := range values {
		row[normalizeColumn(k)] = v
	}
	t.rows[date] = row
}

// At returns the row at the nearest available date.
func (t *CurveTable) At(date time.Time) (map[string]float64, bool) {
	if len(t.dates) == 0 {
		return nil, false
	}
	nearest := utils.NearestDate(date.UTC().Truncate(24*time.Hour), t.dates)
	return t.rows[nearest], true
}

// Rate returns the value of column col at the nearest date to date.
//
// Tenor-style column names are case-normalized ("5y" == "5Y"). If col is
// absent the first non-volatility column serves as fallback; the second
// return is false only when nothing can serve.
func (t *CurveTable) Rate(date time.Time, col string) (float64, bool) {
	row, ok := t.At(date)
	if !ok {
		return 0, false
	}
	col = normalizeColumn(col)
	if v, ok := row[col]; ok && !math.IsNaN(v) {
		return v, true
	}
	for _, c := range t.columns {
		name := normalizeColumn(c)
		if strings.HasSuffix(name, volSuffix) {
			continue
		}
		if v, ok := row[name]; ok && !math.IsNaN(v) {
			return v, true
		}
	}
	return 0, false
}

// Volatility returns the "<tenor>_Vol" value at the nearest date, or the
// default 1% when the volatility column is absent.
func (t *CurveTable) Volatility(date time.Time, tenor string) float64 {
	row, ok := t.At(date)
	if !ok {
		return DefaultVolatility
	}
	if v, ok := row[normalizeColumn(tenor)+volSuffix]; ok && !math.IsNaN(v) {
		return v
	}
	return DefaultVolatility
}

// DefaultVolatility applies when a forward-rate table carries no
// volatility column for the selected tenor.
const DefaultVolatility = 0.01

const volSuffix = "_VOL"

func normalizeColumn(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Mortality is an age-indexed Qx/Px table.
type Mortality struct {
	minAge int
	qx     []float64
	px     []float64
}

// Synthetic mortality parameters used when no table is loaded.
const (
	baseMortality   = 0.001
	mortalityGrowth = 1.1
	cappedMortality = 0.05
)

// NewMortality builds a table from parallel Qx/Px slices starting at minAge.
func NewMortality(minAge int, qx, px []float64) (*Mortality, error) {
	if len(qx) == 0 {
		return nil, fmt.Errorf("NewMortality: empty Qx series")
	}
	if len(px) != 0 && len(px) != len(qx) {
		return nil, fmt.Errorf("NewMortality: Px length %d != Qx length %d", len(px), len(qx))
	}
	return &Mortality{minAge: minAge, qx: qx, px: px}, nil
}

// Qx returns the mortality rate at a given age.
//
// A nil table falls back to the synthetic default curve 0.001·1.1^age for
// ages 0..99. Ages beyond the available range return the 5% cap.
func (m *Mortality) Qx(age int) float64 {
	if m == nil {
		if age < 0 {
			return baseMortality
		}
		if age >= 100 {
			return cappedMortality
		}
		return baseMortality * math.Pow(mortalityGrowth, float64(age))
	}
	idx := age - m.minAge
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.qx) {
		return cappedMortality
	}
	q := m.qx[idx]
	if math.IsNaN(q) {
		return cappedMortality
	}
	return q
}

// Px returns the survival rate at a given age, defaulting to 1-Qx when
// the table carries no Px column.
func (m *Mortality) Px(age int) float64 {
	if m == nil || len(m.px) == 0 {
		return 1 - m.Qx(age)
	}
	idx := age - m.minAge
	if idx < 0 || idx >= len(m.px) || math.IsNaN(m.px[idx]) {
		return 1 - m.Qx(age)
	}
	return m.px[idx]
}

// Store bundles the four market data categories for an engine run.
//
// All fields may be nil; consumers fall back to defaults per category.
type Store struct {
	Forward    *CurveTable
	Liquidity  *CurveTable
	Mortality  *Mortality
	Repurchase *CurveTable
}

// ForwardRate resolves the forward rate for a tenor at the nearest date.
func (s *Store) ForwardRate(date time.Time, tenor string) (float64, error) {
	if s == nil || s.Forward == nil || s.Forward.Len() == 0 {
		return 0, fmt.Errorf("ForwardRate: no forward table loaded: %w", ErrMissingCurveData)
	}
	v, ok := s.Forward.Rate(date, tenor)
	if !ok {
		return 0, fmt.Errorf("ForwardRate: tenor %q unresolvable: %w", tenor, ErrMissingCurveData)
	}
	return v, nil
}

// ForwardVolatility resolves the volatility for a tenor at the nearest
// date, defaulting to 1%.
func (s *Store) ForwardVolatility(date time.Time, tenor string) float64 {
	if s == nil || s.Forward == nil {
		return DefaultVolatility
	}
	return s.Forward.Volatility(date, tenor)
}

// RepurchaseRate returns the repurchase (lapse) rate at the nearest date.
// The second return is false when no table is loaded.
func (s *Store) RepurchaseRate(date time.Time) (float64, bool) {
	if s == nil || s.Repurchase == nil || s.Repurchase.Len() == 0 {
		return 0, false
	}
	return s.Repurchase.Rate(date, "")
}

// LiquidityPremium returns the liquidity premium at the nearest date.
// The second return is false when no table is loaded.
func (s *Store) LiquidityPremium(date time.Time) (float64, bool) {
	if s == nil || s.Liquidity == nil || s.Liquidity.Len() == 0 {
		return 0, false
	}
	return s.Liquidity.Rate(date, "")
}

// Qx returns the mortality rate for an age, using the synthetic default
// curve when no table is loaded.
func (s *Store) Qx(age int) float64 {
	if s == nil {
		return (*Mortality)(nil).Qx(age)
	}
	return s.Mortality.Qx(age)
}
