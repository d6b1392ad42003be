package predict

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ZanzyTHEbar/table-tokenizer/ttok/encode"
	"github.com/ZanzyTHEbar/table-tokenizer/ttok/table"
)

// Decoder turns model logits back into table cell answers.
type Decoder struct {
	CellThreshold float64 // Minimum mean cell probability to select a cell
}

// NewDecoder returns a decoder with the usual selection threshold.
func NewDecoder() *Decoder {
	return &Decoder{CellThreshold: 0.5}
}

// DecodeCells selects, per example, the cells whose mean token probability
// clears the threshold. Token probabilities are the sigmoid of the logits,
// restricted to attended table tokens.
func (d *Decoder) DecodeCells(feats []*encode.Features, logits [][]float64) ([][]table.CellCoord, error) {
	probs := make([][]float64, len(logits))
	for i, row := range logits {
		probs[i] = make([]float64, len(row))
		for j, logit := range row {
			probs[i][j] = sigmoid(logit)
		}
	}
	return d.DecodeProbabilities(feats, probs)
}

// DecodeProbabilities maps per-token probabilities back to cell answers.
// Cells come back sorted by row, then column; an example that selects
// nothing gets an empty list so batch alignment holds.
func (d *Decoder) DecodeProbabilities(feats []*encode.Features, probs [][]float64) ([][]table.CellCoord, error) {
	if len(feats) != len(probs) {
		return nil, fmt.Errorf("got %d probability rows for %d feature sets", len(probs), len(feats))
	}

	out := make([][]table.CellCoord, len(feats))
	for i, f := range feats {
		if len(probs[i]) != len(f.InputIDs) {
			return nil, fmt.Errorf("example %d: got %d probabilities for %d tokens", i, len(probs[i]), len(f.InputIDs))
		}
		out[i] = d.decodeExample(f, probs[i])
	}
	return out, nil
}

func (d *Decoder) decodeExample(f *encode.Features, probs []float64) []table.CellCoord {
	cellProbs := make(map[table.CellCoord][]float64)
	for j, p := range probs {
		if f.AttentionMask[j] == 0 || f.SegmentIDs[j] != 1 {
			continue
		}
		col, row := f.ColumnIDs[j]-1, f.RowIDs[j]-1
		if col < 0 || row < 0 {
			continue
		}
		coord := table.CellCoord{Row: row, Column: col}
		cellProbs[coord] = append(cellProbs[coord], p)
	}

	coords := make([]table.CellCoord, 0, len(cellProbs))
	for coord, probs := range cellProbs {
		if stat.Mean(probs, nil) > d.CellThreshold {
			coords = append(coords, coord)
		}
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Column < coords[j].Column
	})
	return coords
}

// DecodeAggregation picks the highest-scoring aggregation operator per
// example. An example without aggregation logits keeps operator zero.
func (d *Decoder) DecodeAggregation(aggLogits [][]float64) []int {
	out := make([]int, len(aggLogits))
	for i, row := range aggLogits {
		if len(row) == 0 {
			continue
		}
		out[i] = floats.MaxIdx(row)
	}
	return out
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
