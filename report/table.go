// Package report defines the tabular output format shared by all engine
// reports: a table indexed by projection year with named numeric columns,
// renderable as aligned text or CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

// Table is a year-indexed report with ordered named columns.
//
// All columns share the length of Years. An empty-shaped table (columns
// present, zero rows) is the total-operation failure result.
type Table struct {
	Name    string
	Years   []int
	columns []string
	cells   map[string][]float64
}

// New creates a table over a projection grid with the given column order.
func New(name string, years []int, columns []string) *Table {
	t := &Table{
		Name:    name,
		Years:   append([]int(nil), years...),
		columns: append([]string(nil), columns...),
		cells:   make(map[string][]float64, len(columns)),
	}
	for _, c := range columns {
		t.cells[c] = make([]float64, len(years))
	}
	return t
}

// Empty returns a zero-row table with the given columns, used when a
// report operation fails but must still return a renderable shape.
func Empty(name string, columns []string) *Table {
	return New(name, nil, columns)
}

// Columns returns column names in display order.
func (t *Table) Columns() []string { return t.columns }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Years) }

// Set assigns a whole column. It panics on unknown columns or length
// mismatch; report builders own their column sets.
func (t *Table) Set(column string, values []float64) {
	if _, ok := t.cells[column]; !ok {
		panic(fmt.Sprintf("report: unknown column %q in table %q", column, t.Name))
	}
	if len(values) != len(t.Years) {
		panic(fmt.Sprintf("report: column %q has %d values, table %q has %d rows",
			column, len(values), t.Name, len(t.Years)))
	}
	t.cells[column] = append([]float64(nil), values...)
}

// Column returns a copy of one column's values.
func (t *Table) Column(column string) ([]float64, bool) {
	v, ok := t.cells[column]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), v...), true
}

// Value returns a single cell.
func (t *Table) Value(row int, column string) (float64, bool) {
	v, ok := t.cells[column]
	if !ok || row < 0 || row >= len(v) {
		return 0, false
	}
	return v[row], true
}

// Render writes the table as aligned text with humanized numbers.
func (t *Table) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if t.Name != "" {
		fmt.Fprintf(tw, "%s\n", t.Name)
	}

	fmt.Fprint(tw, "Year")
	for _, c := range t.columns {
		fmt.Fprintf(tw, "\t%s", c)
	}
	fmt.Fprintln(tw)

	for i, year := range t.Years {
		fmt.Fprintf(tw, "%d", year)
		for _, c := range t.columns {
			fmt.Fprintf(tw, "\t%s", formatCell(t.cells[c][i]))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// WriteCSV writes the table in CSV form with a Year column first.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string{"Year"}, t.columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("WriteCSV %s: %w", t.Name, err)
	}
	for i, year := range t.Years {
		rec := make([]string, 0, len(header))
		rec = append(rec, strconv.Itoa(year))
		for _, c := range t.columns {
			rec = append(rec, strconv.FormatFloat(t.cells[c][i], 'g', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("WriteCSV %s: %w", t.Name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("WriteCSV %s: %w", t.Name, err)
	}
	return nil
}

// formatCell humanizes large magnitudes and keeps rates readable.
func formatCell(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case math.IsNaN(v):
		return "NaN"
	case v != 0 && math.Abs(v) < 1:
		return strconv.FormatFloat(v, 'f', 6, 64)
	default:
		return humanize.CommafWithDigits(v, 2)
	}
}
