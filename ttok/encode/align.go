package encode

import (
	"fmt"

	"github.com/ZanzyTHEbar/table-tokenizer/ttok/table"
)

// answerLabels marks the serialized token positions that answer the query.
// With UpdateAnswerCoordinates set the answer texts are located in the table
// directly; otherwise the caller's cell coordinates are trusted as-is.
func (e *Encoder) answerLabels(tt *TokenizedTable, idx *cellIndex, q Query) ([]int, error) {
	if e.opts.UpdateAnswerCoordinates {
		return e.labelsFromTexts(tt, idx, q.AnswerTexts)
	}
	return e.labelsFromCoordinates(idx, q.AnswerCoords)
}

// labelsFromCoordinates requires every named cell to keep at least one token
// after row trimming; a cell trimmed out of the sequence fails the query.
func (e *Encoder) labelsFromCoordinates(idx *cellIndex, coords []table.CellCoord) ([]int, error) {
	labels := make([]int, e.opts.ModelMaxLength)

	requested := make(map[cellKey]struct{})
	found := make(map[cellKey]struct{})
	for _, c := range coords {
		key := cellKey{column: c.Column, row: c.Row}
		requested[key] = struct{}{}
		for _, i := range idx.tokenIndexes(key.column, key.row) {
			found[key] = struct{}{}
			labels[i] = 1
		}
	}

	if missing := len(requested) - len(found); missing > 0 {
		return nil, fmt.Errorf("%w: %d answer cells have no tokens", ErrAnswerNotFound, missing)
	}
	return labels, nil
}

// labelsFromTexts scans the data rows for the first cell containing each
// answer text and labels that occurrence. Texts that never match label
// nothing.
func (e *Encoder) labelsFromTexts(tt *TokenizedTable, idx *cellIndex, answerTexts []string) ([]int, error) {
	labels := make([]int, e.opts.ModelMaxLength)

	for _, text := range answerTexts {
		pieces, err := e.sub.Tokenize(text)
		if err != nil {
			return nil, fmt.Errorf("tokenize answer %q: %w", text, err)
		}
		if len(pieces) == 0 {
			continue
		}
		e.markTextMatch(labels, tt, idx, pieces)
	}
	return labels, nil
}

// markTextMatch walks data rows in order and labels the first cell whose
// serialized tokens fully cover an in-cell occurrence of pieces.
func (e *Encoder) markTextMatch(labels []int, tt *TokenizedTable, idx *cellIndex, pieces []string) {
	for row := 1; row < len(tt.Rows); row++ {
		for col, cell := range tt.Rows[row] {
			start, ok := findTokens(cell, pieces)
			if !ok {
				continue
			}

			// tt.Rows[0] is the header; the cell index counts data rows
			// from zero.
			indexes := idx.tokenIndexes(col, row-1)
			if len(indexes) == 0 {
				continue
			}

			begin := indexes[0] + uint32(start)
			end := begin + uint32(len(pieces))
			var covered []uint32
			for _, i := range indexes {
				if i >= begin && i < end {
					covered = append(covered, i)
				}
			}
			// Row trimming may have cut the tail of the occurrence; only a
			// fully serialized match counts.
			if len(covered) != len(pieces) {
				continue
			}
			for _, i := range covered {
				labels[i] = 1
			}
			return
		}
	}
}

// findTokens reports the offset of the first occurrence of pieces as a
// contiguous subsequence of cell.
func findTokens(cell, pieces []string) (int, bool) {
	if len(pieces) == 0 || len(pieces) > len(cell) {
		return 0, false
	}
outer:
	for start := 0; start+len(pieces) <= len(cell); start++ {
		for i, p := range pieces {
			if cell[start+i] != p {
				continue outer
			}
		}
		return start, true
	}
	return 0, false
}
