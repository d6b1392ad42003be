package numeric

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// numberPattern matches explicit numeric literals: an optional sign preceded
// by start-of-text or whitespace, then either a bare decimal fraction or
// digits with optional thousands separators and decimal part.
var numberPattern = regexp.MustCompile(`((^|\s)[+-])?((\.\d+)|(\d+(,\d\d\d)*(\.\d*)?))`)

var septAbbrev = regexp.MustCompile(`Sept\b`)

var cardinalWords = []string{
	"zero", "one", "two", "three", "four", "five", "six",
	"seven", "eight", "nine", "ten", "eleven", "twelve",
}

var ordinalWords = []string{
	"zeroth", "first", "second", "third", "fourth", "fifth", "sixth",
	"seventh", "eighth", "ninth", "tenth", "eleventh", "twelfth",
}

var ordinalSuffixes = []string{"st", "nd", "rd", "th"}

const (
	minYear = 1700
	maxYear = 2016

	// maxDateNgramSize bounds how many word runs a date candidate may span.
	maxDateNgramSize = 5
)

type fieldMask struct {
	year  bool
	month bool
	day   bool
}

type datePattern struct {
	layout    string
	mask      fieldMask
	prefilter *regexp.Regexp
}

// dateFields maps strptime-style directives to a Go reference layout piece
// and a prefilter regex fragment.
var dateFields = []struct {
	directive string
	layout    string
	regex     string
}{
	{"%A", "Monday", `\w+`},
	{"%B", "January", `\w+`},
	{"%Y", "2006", `\d{4}`},
	{"%b", "Jan", `\w{3}`},
	{"%d", "2", `\d{1,2}`},
	{"%m", "1", `\d{1,2}`},
}

var datePatterns = compileDatePatterns()

func compileDatePatterns() []datePattern {
	ymd := fieldMask{year: true, month: true, day: true}
	ym := fieldMask{year: true, month: true}
	md := fieldMask{month: true, day: true}
	specs := []struct {
		pattern string
		mask    fieldMask
	}{
		{"%B", fieldMask{month: true}},
		{"%Y", fieldMask{year: true}},
		{"%Ys", fieldMask{year: true}},
		{"%b %Y", ym},
		{"%B %Y", ym},
		{"%B %d", md},
		{"%b %d", md},
		{"%d %b", md},
		{"%d %B", md},
		{"%B %d, %Y", ymd},
		{"%d %B %Y", ymd},
		{"%m-%d-%Y", ymd},
		{"%Y-%m-%d", ymd},
		{"%Y-%m", ym},
		{"%d %b %Y", ymd},
		{"%b %d, %Y", ymd},
		{"%d.%m.%Y", ymd},
		{"%A, %b %d", md},
		{"%A, %B %d", md},
	}

	out := make([]datePattern, 0, len(specs))
	for _, spec := range specs {
		layout := spec.pattern
		filter := strings.NewReplacer(".", `\.`, "-", `\-`, " ", `\s+`).Replace(spec.pattern)
		for _, f := range dateFields {
			layout = strings.ReplaceAll(layout, f.directive, f.layout)
			filter = strings.ReplaceAll(filter, f.directive, f.regex)
		}
		out = append(out, datePattern{
			layout:    layout,
			mask:      spec.mask,
			prefilter: regexp.MustCompile("^" + filter + "$"),
		})
	}
	return out
}

// NormalizeForMatch lowercases text and collapses whitespace runs to single
// spaces. Question and cell text pass through it before parsing so that span
// offsets refer to the normalized form.
func NormalizeForMatch(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func parseNumber(text string) (float64, bool) {
	for _, suffix := range ordinalSuffixes {
		if strings.HasSuffix(text, suffix) {
			text = text[:len(text)-len(suffix)]
			break
		}
	}
	text = strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	// strconv accepts hex float syntax that plain decimal parsing should not
	if strings.ContainsAny(text, "xX") {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseDate(text string) (Value, bool) {
	text = strings.Join(strings.Fields(septAbbrev.ReplaceAllString(text, "Sep")), " ")
	for _, dp := range datePatterns {
		if !dp.prefilter.MatchString(text) {
			continue
		}
		t, err := time.Parse(dp.layout, text)
		if err != nil {
			continue
		}
		d, ok := maskedDate(t, dp.mask)
		if !ok {
			continue
		}
		return FromDate(d), true
	}
	return Value{}, false
}

func maskedDate(t time.Time, mask fieldMask) (Date, bool) {
	if mask.year && (t.Year() < minYear || t.Year() > maxYear) {
		return Date{}, false
	}
	// Without a year there is no leap day to anchor February 29 to.
	if !mask.year && t.Month() == time.February && t.Day() == 29 {
		return Date{}, false
	}
	var d Date
	if mask.year {
		d.Year = t.Year()
	}
	if mask.month {
		d.Month = int(t.Month())
	}
	if mask.day {
		d.Day = t.Day()
	}
	return d, true
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// allSpans yields (begin, end) byte ranges covering 1..maxNgram consecutive
// alphanumeric runs, every range ending at a run boundary.
func allSpans(text string, maxNgram int) [][2]int {
	var spans [][2]int
	var starts []int
	prev := false
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		cur := isAlnum(r)
		if cur {
			if !prev {
				starts = append(starts, i)
			}
			next := i + size
			nr, _ := utf8.DecodeRuneInString(text[next:])
			if next >= len(text) || !isAlnum(nr) {
				from := 0
				if len(starts) > maxNgram {
					from = len(starts) - maxNgram
				}
				for _, s := range starts[from:] {
					spans = append(spans, [2]int{s, next})
				}
			}
		}
		prev = cur
		i += size
	}
	return spans
}

// Parse extracts the longest non-overlapping numeric and date spans from
// text. It is a pure function: no state is shared between calls.
//
// Three candidate passes feed span selection: a literal-number regex scan,
// single word runs (number parse plus cardinal/ordinal word lookup), and word
// runs of up to five tokens matched against the date pattern table. A span
// collects every candidate value produced for its exact byte range.
func Parse(text string) []Span {
	type candidate struct {
		begin  int
		end    int
		values []Value
	}
	var candidates []candidate
	index := make(map[[2]int]int)

	add := func(begin, end int, v Value) {
		key := [2]int{begin, end}
		i, ok := index[key]
		if !ok {
			i = len(candidates)
			index[key] = i
			candidates = append(candidates, candidate{begin: begin, end: end})
		}
		candidates[i].values = append(candidates[i].values, v)
	}

	for _, m := range numberPattern.FindAllStringIndex(text, -1) {
		if f, ok := parseNumber(text[m[0]:m[1]]); ok {
			add(m[0], m[1], FromFloat(f))
		}
	}

	for _, sp := range allSpans(text, 1) {
		if _, seen := index[[2]int{sp[0], sp[1]}]; seen {
			continue
		}
		spanText := text[sp[0]:sp[1]]
		if f, ok := parseNumber(spanText); ok {
			add(sp[0], sp[1], FromFloat(f))
		}
		for i, word := range cardinalWords {
			if spanText == word {
				add(sp[0], sp[1], FromFloat(float64(i)))
				break
			}
		}
		for i, word := range ordinalWords {
			if spanText == word {
				add(sp[0], sp[1], FromFloat(float64(i)))
				break
			}
		}
	}

	for _, sp := range allSpans(text, maxDateNgramSize) {
		if d, ok := parseDate(text[sp[0]:sp[1]]); ok {
			add(sp[0], sp[1], d)
		}
	}

	// Longest span wins; a shorter span survives only when no kept span
	// contains it.
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ca, cb := candidates[order[a]], candidates[order[b]]
		la, lb := ca.end-ca.begin, cb.end-cb.begin
		if la != lb {
			return la > lb
		}
		return ca.begin < cb.begin
	})

	var kept []candidate
	for _, i := range order {
		c := candidates[i]
		contained := false
		for _, k := range kept {
			if k.begin <= c.begin && c.end <= k.end {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(a, b int) bool { return kept[a].begin < kept[b].begin })

	spans := make([]Span, len(kept))
	for i, c := range kept {
		spans[i] = Span{Begin: c.begin, End: c.end, Values: c.values}
	}
	return spans
}

// ParseFirst returns the first value of the first span in text, mirroring how
// cell text resolves to at most one comparable value.
func ParseFirst(text string) (Value, bool) {
	spans := Parse(text)
	if len(spans) == 0 || len(spans[0].Values) == 0 {
		return Value{}, false
	}
	return spans[0].Values[0], true
}
