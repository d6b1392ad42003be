package encode

import (
	roaring "github.com/RoaringBitmap/roaring"
)

type cellKey struct {
	column int
	row    int
}

// cellIndex holds roaring bitmaps keyed by 0-based data cell coordinates,
// each bitmap marking the serialized token positions that carry the cell.
// Question, special and padding positions have zero column and row ids and
// never enter the index.
type cellIndex struct {
	cells map[cellKey]*roaring.Bitmap
}

func newCellIndex(columnIDs, rowIDs []int) *cellIndex {
	idx := &cellIndex{cells: make(map[cellKey]*roaring.Bitmap)}
	for i := range columnIDs {
		column := columnIDs[i] - 1
		row := rowIDs[i] - 1
		if column < 0 || row < 0 {
			continue
		}
		key := cellKey{column: column, row: row}
		bm, ok := idx.cells[key]
		if !ok {
			bm = roaring.New()
			idx.cells[key] = bm
		}
		bm.Add(uint32(i))
	}
	return idx
}

// tokenIndexes returns the ascending token positions of the data cell at
// (column, row), both 0-based.
func (idx *cellIndex) tokenIndexes(column, row int) []uint32 {
	bm, ok := idx.cells[cellKey{column: column, row: row}]
	if !ok {
		return nil
	}
	return bm.ToArray()
}
