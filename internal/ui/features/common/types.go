// Package common provides shared components and helpers for UI features.
package common

import "github.com/leapstack-labs/reportviewer/internal/record"

// TableData is the view model for a dynamic result table.
type TableData struct {
	// ID is the element id of the table container.
	ID string

	// Columns are the header cells; always the keys of Rows[0].
	Columns []string

	Rows []record.Record

	// PageSize splits rows into client-side pages; zero disables paging.
	PageSize int

	// PageSignal is the Datastar signal holding the visible page (1-based).
	PageSignal string
}

// NewTableData builds a table whose columns come from the first row.
func NewTableData(id string, rows []record.Record, pageSize int, pageSignal string) TableData {
	return TableData{
		ID:         id,
		Columns:    record.Columns(rows),
		Rows:       rows,
		PageSize:   pageSize,
		PageSignal: pageSignal,
	}
}

// PageCount returns how many pages the table spans.
func (t TableData) PageCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	if t.PageSize <= 0 {
		return 1
	}
	return (len(t.Rows) + t.PageSize - 1) / t.PageSize
}

// Page returns the rows of 1-based page p.
func (t TableData) Page(p int) []record.Record {
	if t.PageSize <= 0 {
		if p == 1 {
			return t.Rows
		}
		return nil
	}
	start := (p - 1) * t.PageSize
	if p < 1 || start >= len(t.Rows) {
		return nil
	}
	end := min(start+t.PageSize, len(t.Rows))
	return t.Rows[start:end]
}
