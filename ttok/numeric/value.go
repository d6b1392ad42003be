package numeric

import "fmt"

// Date is a possibly partial calendar date. A zero field is unset; parsing
// never produces year 0, month 0 or day 0 for a populated field.
type Date struct {
	Year  int
	Month int
	Day   int
}

type kind uint8

const (
	kindNone kind = iota
	kindFloat
	kindDate
)

// Value holds either a float or a partial date, never both. The zero Value
// holds neither and is rejected wherever values are compared.
type Value struct {
	kind kind
	f    float64
	d    Date
}

// FromFloat wraps a plain number.
func FromFloat(f float64) Value { return Value{kind: kindFloat, f: f} }

// FromDate wraps a partial date.
func FromDate(d Date) Value { return Value{kind: kindDate, d: d} }

func (v Value) IsFloat() bool { return v.kind == kindFloat }

func (v Value) IsDate() bool { return v.kind == kindDate }

// Float returns the numeric variant, if populated.
func (v Value) Float() (float64, bool) { return v.f, v.kind == kindFloat }

// Date returns the date variant, if populated.
func (v Value) Date() (Date, bool) { return v.d, v.kind == kindDate }

func (v Value) String() string {
	switch v.kind {
	case kindFloat:
		return fmt.Sprintf("float(%g)", v.f)
	case kindDate:
		return fmt.Sprintf("date(%d-%d-%d)", v.d.Year, v.d.Month, v.d.Day)
	default:
		return "none"
	}
}

// Span is a byte-offset range of the source text together with every value
// candidate the range could represent. Spans returned by Parse are maximal
// and non-overlapping, ordered by begin offset.
type Span struct {
	Begin  int
	End    int
	Values []Value
}
