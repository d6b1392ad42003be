package encode

import (
	"context"
	"math"
	"sort"

	"github.com/ZanzyTHEbar/table-tokenizer/ttok/numeric"
	"github.com/ZanzyTHEbar/table-tokenizer/ttok/table"
)

// Features is one encoded query/table pair. Every channel is exactly
// ModelMaxLength long: integer channels pad with 0, NumericValues with NaN
// and NumericValuesScale with 1. LabelIDs is nil unless the batch carried
// answer supervision.
type Features struct {
	InputIDs      []int
	AttentionMask []int

	SegmentIDs       []int
	ColumnIDs        []int
	RowIDs           []int
	PrevLabelIDs     []int
	ColumnRanks      []int
	InvColumnRanks   []int
	NumericRelations []int

	NumericValues      []float64
	NumericValuesScale []float64

	LabelIDs []int
}

// TokenTypeIDs lays the seven structural channels out position-major, in the
// order table QA checkpoints consume them: segment, column, row, previous
// label, column rank, inverse column rank, numeric relation.
func (f *Features) TokenTypeIDs() [][]int {
	out := make([][]int, len(f.SegmentIDs))
	for i := range out {
		out[i] = []int{
			f.SegmentIDs[i],
			f.ColumnIDs[i],
			f.RowIDs[i],
			f.PrevLabelIDs[i],
			f.ColumnRanks[i],
			f.InvColumnRanks[i],
			f.NumericRelations[i],
		}
	}
	return out
}

// columnValues holds the comparable reading of every cell, one map per
// column keyed by row index. Cells whose text yields no value are absent.
type columnValues []map[int]numeric.Value

func parseColumnValues(tbl *table.Table) columnValues {
	cols := make(columnValues, tbl.NumColumns())
	for c := range cols {
		vals := make(map[int]numeric.Value)
		for r := 0; r < tbl.NumRows(); r++ {
			if v, ok := numeric.ParseFirst(numeric.NormalizeForMatch(tbl.At(r, c))); ok {
				vals[r] = v
			}
		}
		cols[c] = vals
	}
	return cols
}

func valuesOf(m map[int]numeric.Value) []numeric.Value {
	out := make([]numeric.Value, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

// padChannels pads the serialized channels out to the model length and seeds
// the prev-label channel with zeros.
func (e *Encoder) padChannels(ctx context.Context, se *SerializedExample) *Features {
	n := e.opts.ModelMaxLength
	e.AssertHandler.Assert(ctx, se.Len() <= n, "serialized sequence exceeds the model max length")
	e.AssertHandler.Assert(ctx,
		len(se.SegmentIDs) == se.Len() && len(se.ColumnIDs) == se.Len() && len(se.RowIDs) == se.Len(),
		"serialized channels disagree on length")

	return &Features{
		InputIDs:      padTo(e.vocab.IDs(se.Tokens), n),
		AttentionMask: padTo(ones(se.Len()), n),
		SegmentIDs:    padTo(se.SegmentIDs, n),
		ColumnIDs:     padTo(se.ColumnIDs, n),
		RowIDs:        padTo(se.RowIDs, n),
		PrevLabelIDs:  make([]int, n),
	}
}

// columnRanks ranks the comparable cells of every column and writes the rank
// (and its inverse) to each of the cell's tokens. Ties share a rank. Columns
// whose values have no common comparable type keep rank zero everywhere.
func (e *Encoder) columnRanks(colVals columnValues, idx *cellIndex, n int) (ranks, invRanks []int) {
	ranks = make([]int, n)
	invRanks = make([]int, n)

	for col, vals := range colVals {
		if len(vals) == 0 {
			continue
		}
		keyFn, err := numeric.NewSortKeyFn(valuesOf(vals))
		if err != nil {
			continue
		}

		type rowKey struct {
			row int
			key numeric.SortKey
		}
		pairs := make([]rowKey, 0, len(vals))
		for row, v := range vals {
			pairs = append(pairs, rowKey{row: row, key: keyFn(v)})
		}
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].key.Less(pairs[j].key) })

		groups := make([][]int, 0, len(pairs))
		for i, p := range pairs {
			if i == 0 || !p.key.Equal(pairs[i-1].key) {
				groups = append(groups, nil)
			}
			groups[len(groups)-1] = append(groups[len(groups)-1], p.row)
		}

		for rank, rows := range groups {
			for _, row := range rows {
				for _, i := range idx.tokenIndexes(col, row) {
					ranks[i] = rank + 1
					invRanks[i] = len(groups) - rank
				}
			}
		}
	}
	return ranks, invRanks
}

// numericRelations compares every value mentioned in the question against
// every comparable cell and writes the resulting relation bitmask (EQ=1,
// LT=2, GT=4) to the cell's tokens.
func (e *Encoder) numericRelations(question string, colVals columnValues, idx *cellIndex, n int) []int {
	relations := make([]int, n)

	cellMasks := make(map[cellKey]int)
	for _, span := range numeric.Parse(numeric.NormalizeForMatch(question)) {
		for _, qv := range span.Values {
			for col, vals := range colVals {
				if len(vals) == 0 {
					continue
				}
				keyFn, err := numeric.NewSortKeyFn(append(valuesOf(vals), qv))
				if err != nil {
					continue
				}
				for row, cv := range vals {
					rel, ok := numeric.Compare(qv, cv, keyFn)
					if !ok {
						continue
					}
					cellMasks[cellKey{column: col, row: row}] |= rel.Bit()
				}
			}
		}
	}

	for key, mask := range cellMasks {
		for _, i := range idx.tokenIndexes(key.column, key.row) {
			relations[i] = mask
		}
	}
	return relations
}

// numericValues writes each cell's float reading to all of its tokens. Date
// readings and infinities have no float representation and stay NaN.
func (e *Encoder) numericValues(tbl *table.Table, colVals columnValues, idx *cellIndex) []float64 {
	out := make([]float64, e.opts.ModelMaxLength)
	for i := range out {
		out[i] = math.NaN()
	}

	for col := 0; col < tbl.NumColumns(); col++ {
		for row := 0; row < tbl.NumRows(); row++ {
			v, ok := colVals[col][row]
			if !ok {
				continue
			}
			f, isFloat := v.Float()
			if !isFloat || math.IsInf(f, 1) {
				continue
			}
			for _, i := range idx.tokenIndexes(col, row) {
				out[i] = f
			}
		}
	}
	return out
}

// numericValuesScale records, per token, how many tokens share its cell so
// cell-level aggregates can be recovered from token-level ones.
func (e *Encoder) numericValuesScale(tbl *table.Table, idx *cellIndex) []float64 {
	out := make([]float64, e.opts.ModelMaxLength)
	for i := range out {
		out[i] = 1.0
	}

	for col := 0; col < tbl.NumColumns(); col++ {
		for row := 0; row < tbl.NumRows(); row++ {
			indexes := idx.tokenIndexes(col, row)
			if len(indexes) <= 1 {
				continue
			}
			for _, i := range indexes {
				out[i] = float64(len(indexes))
			}
		}
	}
	return out
}

// padTo right-pads xs with zeros out to length n.
func padTo(xs []int, n int) []int {
	if len(xs) >= n {
		return xs[:n]
	}
	out := make([]int, n)
	copy(out, xs)
	return out
}

func ones(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = 1
	}
	return out
}
