package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadCSV reads one data category from a CSV file into the store.
//
// Expected shapes:
//   - forward_rates, liquidity_premium, repurchase_rates: a Date column
//     (YYYY-MM-DD) followed by numeric columns.
//   - mortality_table: an Age column followed by Qx and Px columns.
//
// Cells that fail numeric parsing load as NaN and are skipped by lookups.
func (s *Store) LoadCSV(path string, kind Kind) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("LoadCSV %s: %w", kind, err)
	}
	defer f.Close()
	return s.ReadCSV(f, kind)
}

// ReadCSV parses one data category from r into the store.
func (s *Store) ReadCSV(r io.Reader, kind Kind) error {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return fmt.Errorf("ReadCSV %s: %w", kind, err)
	}
	if len(records) < 2 {
		return fmt.Errorf("ReadCSV %s: need a header and at least one row", kind)
	}

	header := records[0]
	switch kind {
	case MortalityTable:
		m, err := parseMortality(header, records[1:])
		if err != nil {
			return fmt.Errorf("ReadCSV %s: %w", kind, err)
		}
		s.Mortality = m
		return nil
	case ForwardRates, LiquidityPremium, RepurchaseRates:
		t, err := parseCurve(header, records[1:])
		if err != nil {
			return fmt.Errorf("ReadCSV %s: %w", kind, err)
		}
		switch kind {
		case ForwardRates:
			s.Forward = t
		case LiquidityPremium:
			s.Liquidity = t
		default:
			s.Repurchase = t
		}
		return nil
	default:
		return fmt.Errorf("ReadCSV: %q: %w", kind, ErrUnknownKind)
	}
}

func parseCurve(header []string, rows [][]string) (*CurveTable, error) {
	if len(header) < 2 {
		return nil, fmt.Errorf("parseCurve: need a Date column and at least one value column")
	}
	if !strings.EqualFold(strings.TrimSpace(header[0]), "Date") {
		return nil, fmt.Errorf("parseCurve: first column must be Date, got %q", header[0])
	}

	cols := make([]string, 0, len(header)-1)
	for _, h := range header[1:] {
		cols = append(cols, strings.TrimSpace(h))
	}
	t := NewCurveTable(cols)

	for i, rec := range rows {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("parseCurve: row %d has %d fields, want %d", i+1, len(rec), len(header))
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("parseCurve: row %d: %w", i+1, err)
		}
		values := make(map[string]float64, len(cols))
		for j, col := range cols {
			values[col] = parseCell(rec[j+1])
		}
		t.SetRow(date, values)
	}
	return t, nil
}

func parseMortality(header []string, rows [][]string) (*Mortality, error) {
	ageIdx, qxIdx, pxIdx := -1, -1, -1
	for i, h := range header {
		switch strings.ToUpper(strings.TrimSpace(h)) {
		case "AGE":
			ageIdx = i
		case "QX":
			qxIdx = i
		case "PX":
			pxIdx = i
		}
	}
	if ageIdx < 0 || qxIdx < 0 {
		return nil, fmt.Errorf("parseMortality: Age and Qx columns are required")
	}

	type entry struct {
		age    int
		qx, px float64
	}
	entries := make([]entry, 0, len(rows))
	for i, rec := range rows {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("parseMortality: row %d has %d fields, want %d", i+1, len(rec), len(header))
		}
		age, err := strconv.Atoi(strings.TrimSpace(rec[ageIdx]))
		if err != nil {
			return nil, fmt.Errorf("parseMortality: row %d: %w", i+1, err)
		}
		e := entry{age: age, qx: parseCell(rec[qxIdx]), px: math.NaN()}
		if pxIdx >= 0 {
			e.px = parseCell(rec[pxIdx])
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("parseMortality: no rows")
	}

	minAge, maxAge := entries[0].age, entries[0].age
	for _, e := range entries[1:] {
		if e.age < minAge {
			minAge = e.age
		}
		if e.age > maxAge {
			maxAge = e.age
		}
	}

	qx := make([]float64, maxAge-minAge+1)
	px := make([]float64, maxAge-minAge+1)
	for i := range qx {
		qx[i], px[i] = math.NaN(), math.NaN()
	}
	for _, e := range entries {
		qx[e.age-minAge] = e.qx
		px[e.age-minAge] = e.px
	}
	return NewMortality(minAge, qx, px)
}

func parseCell(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
