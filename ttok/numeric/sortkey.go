package numeric

import "errors"

var (
	// ErrNoCommonType signals a mix of plain numbers and dates.
	ErrNoCommonType = errors.New("values have no common type")
	// ErrNoCommonFields signals dates with no universally populated field.
	ErrNoCommonFields = errors.New("dates share no populated field")
)

// Relation tags how two table entities relate. The structural members carry
// conversational links; value comparison only ever produces EQ, LT or GT.
type Relation int

const (
	RelationHeaderToCell Relation = iota + 1
	RelationCellToHeader
	RelationQueryToHeader
	RelationQueryToCell
	RelationRowToCell
	RelationCellToRow
	RelationEQ
	RelationLT
	RelationGT
)

// Bit returns the bitmask contribution of a comparison relation, used when a
// cell accumulates several relations against one question.
func (r Relation) Bit() int {
	return 1 << int(r-RelationEQ)
}

// SortKey is a comparable projection of a Value. Keys produced by one
// SortKeyFn always have equal length and compare lexicographically.
type SortKey []float64

// SortKeyFn projects heterogeneous values onto comparable keys.
type SortKeyFn func(Value) SortKey

func (k SortKey) Equal(other SortKey) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// Less orders keys lexicographically.
func (k SortKey) Less(other SortKey) bool {
	n := len(k)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		if k[i] != other[i] {
			return k[i] < other[i]
		}
	}
	return len(k) < len(other)
}

// NewSortKeyFn builds the common comparable projection for a set of values.
// Numbers project onto themselves. Dates project onto the fields populated in
// every input value, in year, month, day order, so values like "august 2007"
// and "2010" still compare by year. Mixing numbers and dates fails with
// ErrNoCommonType; dates without a shared field fail with ErrNoCommonFields.
func NewSortKeyFn(values []Value) (SortKeyFn, error) {
	floats, dates := 0, 0
	for _, v := range values {
		switch {
		case v.IsFloat():
			floats++
		case v.IsDate():
			dates++
		}
	}
	if floats+dates != len(values) || len(values) == 0 || (floats > 0 && dates > 0) {
		return nil, ErrNoCommonType
	}

	if floats > 0 {
		return func(v Value) SortKey {
			f, _ := v.Float()
			return SortKey{f}
		}, nil
	}

	populated := [3]bool{true, true, true}
	for _, v := range values {
		d, _ := v.Date()
		if d.Year == 0 {
			populated[0] = false
		}
		if d.Month == 0 {
			populated[1] = false
		}
		if d.Day == 0 {
			populated[2] = false
		}
	}
	var fields []int
	for i, ok := range populated {
		if ok {
			fields = append(fields, i)
		}
	}
	if len(fields) == 0 {
		return nil, ErrNoCommonFields
	}

	return func(v Value) SortKey {
		d, _ := v.Date()
		parts := [3]float64{float64(d.Year), float64(d.Month), float64(d.Day)}
		key := make(SortKey, 0, len(fields))
		for _, i := range fields {
			key = append(key, parts[i])
		}
		return key
	}, nil
}

// Compare reports the relation of a to b under key. The ok result is false
// only when the keys are unordered.
func Compare(a, b Value, key SortKeyFn) (Relation, bool) {
	ka, kb := key(a), key(b)
	switch {
	case ka.Equal(kb):
		return RelationEQ, true
	case ka.Less(kb):
		return RelationLT, true
	case kb.Less(ka):
		return RelationGT, true
	}
	return 0, false
}
