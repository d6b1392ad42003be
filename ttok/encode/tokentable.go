package encode

import (
	"fmt"

	"github.com/ZanzyTHEbar/table-tokenizer/ttok/table"
)

// TokenCoordinates addresses one subword token inside a tokenized table.
// RowIndex 0 is the header row; data rows follow in order.
type TokenCoordinates struct {
	RowIndex    int
	ColumnIndex int
	TokenIndex  int
}

// TokenizedTable holds the subword pieces of every cell, header row first,
// plus the flat coordinate list in row-outer, column-inner, token-innermost
// order. It is built once per batch and shared read-only by every query.
type TokenizedTable struct {
	Rows     [][][]string
	Selected []TokenCoordinates
}

// tokenizeTable tokenizes the header row and every data cell. With
// StripColumnNames set, headers encode as empty cells.
func (e *Encoder) tokenizeTable(tbl *table.Table) (*TokenizedTable, error) {
	rows := make([][][]string, 0, tbl.NumRows()+1)

	header := make([][]string, tbl.NumColumns())
	for i, column := range tbl.Header {
		text := column
		if e.opts.StripColumnNames {
			text = ""
		}
		pieces, err := e.sub.Tokenize(text)
		if err != nil {
			return nil, fmt.Errorf("tokenize header %q: %w", column, err)
		}
		header[i] = pieces
	}
	rows = append(rows, header)

	for r, row := range tbl.Rows {
		cells := make([][]string, len(row))
		for c, cell := range row {
			pieces, err := e.sub.Tokenize(cell)
			if err != nil {
				return nil, fmt.Errorf("tokenize cell (%d,%d): %w", r, c, err)
			}
			cells[c] = pieces
		}
		rows = append(rows, cells)
	}

	tt := &TokenizedTable{Rows: rows}
	for rowIndex, row := range rows {
		for columnIndex, cell := range row {
			for tokenIndex := range cell {
				tt.Selected = append(tt.Selected, TokenCoordinates{
					RowIndex:    rowIndex,
					ColumnIndex: columnIndex,
					TokenIndex:  tokenIndex,
				})
			}
		}
	}
	return tt, nil
}

// boundaries returns the maximal row, column and per-cell token counts seen
// in the tokenized table, with rows and columns capped by the id limits.
func (e *Encoder) boundaries(tt *TokenizedTable) (maxRows, maxColumns, maxTokens int) {
	for _, tc := range tt.Selected {
		maxColumns = max(maxColumns, tc.ColumnIndex+1)
		maxRows = max(maxRows, tc.RowIndex+1)
		maxTokens = max(maxTokens, tc.TokenIndex+1)
		maxColumns = min(e.opts.MaxColumnID, maxColumns)
		maxRows = min(e.opts.MaxRowID, maxRows)
	}
	return maxRows, maxColumns, maxTokens
}

// numColumns rejects tables whose width cannot be represented in column ids.
func (e *Encoder) numColumns(tbl *table.Table) (int, error) {
	n := tbl.NumColumns()
	if n >= e.opts.MaxColumnID {
		return 0, fmt.Errorf("%w: %d columns with column id cap %d", ErrTooManyColumns, n, e.opts.MaxColumnID)
	}
	return n, nil
}

// numRows caps or rejects tables with more rows than row ids allow.
func (e *Encoder) numRows(tbl *table.Table) (int, error) {
	n := tbl.NumRows()
	if n >= e.opts.MaxRowID {
		if e.opts.DropRowsToFit {
			return e.opts.MaxRowID - 1, nil
		}
		return 0, fmt.Errorf("%w: %d rows with row id cap %d", ErrTooManyRows, n, e.opts.MaxRowID)
	}
	return n, nil
}
