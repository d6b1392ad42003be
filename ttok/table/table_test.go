package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRectangular(t *testing.T) {
	tbl := &Table{
		Header: []string{"name", "age"},
		Rows:   [][]string{{"alice", "30"}, {"bob", "42"}},
	}
	require.NoError(t, tbl.Validate())
	assert.Equal(t, 2, tbl.NumColumns())
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, "42", tbl.At(1, 1))
	assert.Equal(t, []string{"alice", "bob"}, tbl.Column(0))
}

func TestValidateEmptyHeader(t *testing.T) {
	tbl := &Table{}
	assert.ErrorIs(t, tbl.Validate(), ErrNoColumns)
}

func TestValidateRaggedRow(t *testing.T) {
	tbl := &Table{
		Header: []string{"name", "age"},
		Rows:   [][]string{{"alice", "30"}, {"bob"}},
	}
	assert.ErrorIs(t, tbl.Validate(), ErrRagged)
}

func TestValidateHeaderOnly(t *testing.T) {
	tbl := &Table{Header: []string{"name"}}
	assert.NoError(t, tbl.Validate())
	assert.Zero(t, tbl.NumRows())
}
