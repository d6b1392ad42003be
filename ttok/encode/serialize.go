package encode

import (
	"github.com/ZanzyTHEbar/table-tokenizer/ttok/wordpiece"
)

// TableValue is one serialized table token with its 1-based column id and its
// row id (0 for the header row, 1-based for data rows).
type TableValue struct {
	Token    string
	ColumnID int
	RowID    int
}

// SerializedExample is the flat token sequence with aligned id channels.
// Segment 0 covers [CLS], the question and [SEP]; segment 1 covers table
// tokens.
type SerializedExample struct {
	Tokens     []string
	SegmentIDs []int
	ColumnIDs  []int
	RowIDs     []int
}

func (se *SerializedExample) push(token string, segment, column, row int) {
	se.Tokens = append(se.Tokens, token)
	se.SegmentIDs = append(se.SegmentIDs, segment)
	se.ColumnIDs = append(se.ColumnIDs, column)
	se.RowIDs = append(se.RowIDs, row)
}

func (se *SerializedExample) Len() int { return len(se.Tokens) }

// tableValues walks the tokenized table bounded by numColumns, numRows data
// rows (the header always rides along) and a per-word token cap. Inner
// wordpieces never split from their word: a token is kept only if its word's
// first piece also lies under the cap.
func (e *Encoder) tableValues(tt *TokenizedTable, numColumns, numRows, numTokens int) []TableValue {
	var out []TableValue
	for _, tc := range tt.Selected {
		if tc.RowIndex >= numRows+1 {
			continue
		}
		if tc.ColumnIndex >= numColumns {
			continue
		}
		cell := tt.Rows[tc.RowIndex][tc.ColumnIndex]
		wordBegin := tc.TokenIndex
		for wordBegin >= 0 && wordpiece.IsInner(cell[wordBegin]) {
			wordBegin--
		}
		if wordBegin >= numTokens {
			continue
		}
		out = append(out, TableValue{
			Token:    cell[tc.TokenIndex],
			ColumnID: tc.ColumnIndex + 1,
			RowID:    tc.RowIndex,
		})
	}
	return out
}

// serialize lays out [CLS] question [SEP] followed by the fitted table
// tokens.
func (e *Encoder) serialize(questionPieces []string, tt *TokenizedTable, numColumns, numRows, numTokens int) *SerializedExample {
	se := &SerializedExample{}
	se.push(wordpiece.ClsToken, 0, 0, 0)
	for _, piece := range questionPieces {
		se.push(piece, 0, 0, 0)
	}
	se.push(wordpiece.SepToken, 0, 0, 0)
	for _, tv := range e.tableValues(tt, numColumns, numRows, numTokens) {
		se.push(tv.Token, 1, tv.ColumnID, tv.RowID)
	}
	return se
}
