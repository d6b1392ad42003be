package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/table-tokenizer/ttok/encode"
	"github.com/ZanzyTHEbar/table-tokenizer/ttok/table"
)

// gridFeatures lays out [CLS] question [SEP], a header token, a two-token
// cell, two single-token cells and two padding positions.
func gridFeatures() *encode.Features {
	return &encode.Features{
		InputIDs:      make([]int, 10),
		AttentionMask: []int{1, 1, 1, 1, 1, 1, 1, 1, 0, 0},
		SegmentIDs:    []int{0, 0, 0, 1, 1, 1, 1, 1, 0, 0},
		ColumnIDs:     []int{0, 0, 0, 1, 1, 1, 2, 1, 0, 0},
		RowIDs:        []int{0, 0, 0, 0, 1, 1, 1, 2, 0, 0},
	}
}

func TestDecodeCellsSelectsByMeanProbability(t *testing.T) {
	d := NewDecoder()
	logits := [][]float64{{0, 0, 0, 99, 1, 3, -1, 3, 0, 0}}

	got, err := d.DecodeCells([]*encode.Features{gridFeatures()}, logits)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// The two-token cell averages above the threshold, the negative cell
	// does not, and the header token never counts no matter its logit.
	assert.Equal(t, []table.CellCoord{
		{Row: 0, Column: 0},
		{Row: 1, Column: 0},
	}, got[0])
}

func TestDecodeProbabilitiesRoundTrip(t *testing.T) {
	d := NewDecoder()

	// Probabilities near one on the two-token cell and the second single
	// cell, near zero everywhere else, recover exactly those coordinates.
	probs := [][]float64{{0, 0, 0, 0, 0.99, 0.98, 0.01, 0.97, 0, 0}}
	got, err := d.DecodeProbabilities([]*encode.Features{gridFeatures()}, probs)
	require.NoError(t, err)
	assert.Equal(t, []table.CellCoord{
		{Row: 0, Column: 0},
		{Row: 1, Column: 0},
	}, got[0])
}

func TestDecodeCellsThreshold(t *testing.T) {
	d := &Decoder{CellThreshold: 0.9}
	logits := [][]float64{{0, 0, 0, 0, 1, 3, -1, 3, 0, 0}}

	got, err := d.DecodeCells([]*encode.Features{gridFeatures()}, logits)
	require.NoError(t, err)
	assert.Equal(t, []table.CellCoord{{Row: 1, Column: 0}}, got[0])
}

func TestDecodeCellsIgnoresPadding(t *testing.T) {
	d := NewDecoder()
	logits := [][]float64{{-5, -5, -5, -5, -5, -5, -5, -5, 99, 99}}

	got, err := d.DecodeCells([]*encode.Features{gridFeatures()}, logits)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotNil(t, got[0])
	assert.Empty(t, got[0])
}

func TestDecodeCellsKeepsBatchAlignment(t *testing.T) {
	d := NewDecoder()
	feats := []*encode.Features{gridFeatures(), gridFeatures()}
	logits := [][]float64{
		{0, 0, 0, 0, -5, -5, -5, -5, 0, 0},
		{0, 0, 0, 0, -5, -5, 5, -5, 0, 0},
	}

	got, err := d.DecodeCells(feats, logits)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Empty(t, got[0])
	assert.Equal(t, []table.CellCoord{{Row: 0, Column: 1}}, got[1])
}

func TestDecodeCellsLengthMismatch(t *testing.T) {
	d := NewDecoder()

	_, err := d.DecodeCells([]*encode.Features{gridFeatures()}, nil)
	require.Error(t, err)

	_, err = d.DecodeCells([]*encode.Features{gridFeatures()}, [][]float64{{1, 2, 3}})
	require.Error(t, err)
}

func TestDecodeAggregation(t *testing.T) {
	d := NewDecoder()

	got := d.DecodeAggregation([][]float64{
		{0.1, 2.5, 0.3},
		{4, 1, 0},
		{},
	})
	assert.Equal(t, []int{1, 0, 0}, got)
}
