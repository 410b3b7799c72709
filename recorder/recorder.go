// Package recorder persists generated report tables so scenario runs can
// be compared after the fact.
package recorder

import "github.com/meenmo/almlib/report"

// Recorder stores report tables per scenario run.
type Recorder interface {
	// BeginRun registers a run and returns its id.
	BeginRun(scenario string) (int64, error)
	// RecordTable persists every cell of a table under a run id.
	RecordTable(runID int64, table *report.Table) error
	Close() error
}

// Noop discards everything. It is the default when no database path is
// configured.
type Noop struct{}

func (Noop) BeginRun(string) (int64, error)         { return 0, nil }
func (Noop) RecordTable(int64, *report.Table) error { return nil }
func (Noop) Close() error                           { return nil }
