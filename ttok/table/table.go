package table

import (
	"errors"
	"fmt"
)

var (
	// ErrNoColumns rejects tables without a header.
	ErrNoColumns = errors.New("table has no columns")
	// ErrRagged rejects rows whose width differs from the header.
	ErrRagged = errors.New("row width differs from header")
)

// Table is an ordered header plus ordered rows of text cells. Cells are raw
// text; parsed numeric readings are derived per encoding pass and never
// stored back.
type Table struct {
	Header []string
	Rows   [][]string
}

// CellCoord addresses one data cell. Both indexes are 0-based; the header row
// is not addressable.
type CellCoord struct {
	Row    int
	Column int
}

func (t *Table) NumColumns() int { return len(t.Header) }

func (t *Table) NumRows() int { return len(t.Rows) }

// At returns the text of the data cell at (row, col).
func (t *Table) At(row, col int) string { return t.Rows[row][col] }

// Column returns the texts of one column across all data rows.
func (t *Table) Column(col int) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[col]
	}
	return out
}

// Validate checks the table is rectangular with at least one column.
func (t *Table) Validate() error {
	if len(t.Header) == 0 {
		return ErrNoColumns
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return fmt.Errorf("row %d has %d cells, want %d: %w", i, len(row), len(t.Header), ErrRagged)
		}
	}
	return nil
}
