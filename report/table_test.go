package report_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/meenmo/almlib/report"
)

func TestTable_SetAndValue(t *testing.T) {
	t.Parallel()

	tbl := report.New("Demo", []int{2015, 2016}, []string{"A", "B"})
	tbl.Set("A", []float64{1, 2})
	tbl.Set("B", []float64{3, 4})

	if v, ok := tbl.Value(1, "A"); !ok || v != 2 {
		t.Fatalf("Value(1, A) = %v/%v, want 2", v, ok)
	}
	if _, ok := tbl.Value(2, "A"); ok {
		t.Fatal("expected out-of-range row to miss")
	}
	if _, ok := tbl.Value(0, "C"); ok {
		t.Fatal("expected unknown column to miss")
	}

	col, ok := tbl.Column("B")
	if !ok || len(col) != 2 || col[0] != 3 {
		t.Fatalf("Column(B) = %v/%v", col, ok)
	}
	// Columns return copies.
	col[0] = 99
	if v, _ := tbl.Value(0, "B"); v != 3 {
		t.Fatalf("table cell mutated through column copy: %v", v)
	}
}

func TestTable_SetPanics(t *testing.T) {
	t.Parallel()

	tbl := report.New("Demo", []int{2015}, []string{"A"})

	assertPanic := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Fatalf("%s: expected panic", name)
			}
		}()
		fn()
	}
	assertPanic("unknown column", func() { tbl.Set("Nope", []float64{1}) })
	assertPanic("length mismatch", func() { tbl.Set("A", []float64{1, 2}) })
}

func TestTable_Render(t *testing.T) {
	t.Parallel()

	tbl := report.New("Rates", []int{2015, 2016}, []string{"Rate", "Amount"})
	tbl.Set("Rate", []float64{0.025, math.Inf(1)})
	tbl.Set("Amount", []float64{1234567.89, 0})

	var buf bytes.Buffer
	if err := tbl.Render(&buf); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"Rates", "Year", "2015", "0.025000", "1,234,567.89", "Inf"} {
		if !strings.Contains(out, want) {
			t.Fatalf("render output missing %q:\n%s", want, out)
		}
	}
}

func TestTable_WriteCSV(t *testing.T) {
	t.Parallel()

	tbl := report.New("Rates", []int{2015}, []string{"Rate"})
	tbl.Set("Rate", []float64{0.025})

	var buf bytes.Buffer
	if err := tbl.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("CSV lines = %d, want 2:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Year,Rate" {
		t.Fatalf("header = %q, want Year,Rate", lines[0])
	}
	if lines[1] != "2015,0.025" {
		t.Fatalf("row = %q, want 2015,0.025", lines[1])
	}
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	tbl := report.Empty("Failed", []string{"A", "B"})
	if tbl.Len() != 0 {
		t.Fatalf("Len = %d, want 0", tbl.Len())
	}
	if got := tbl.Columns(); len(got) != 2 {
		t.Fatalf("Columns = %v, want 2 entries", got)
	}

	var buf bytes.Buffer
	if err := tbl.Render(&buf); err != nil {
		t.Fatalf("Render error on empty table: %v", err)
	}
}
