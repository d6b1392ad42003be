package wordpiece

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Basic splits raw text into word-level tokens. Control characters are
// dropped, CJK ideographs become standalone tokens, and punctuation always
// splits off as its own token.
type Basic struct {
	Lowercase            bool
	StripAccents         bool
	TokenizeChineseChars bool
}

// Split pre-tokenizes text into words and single punctuation marks.
func (b Basic) Split(text string) []string {
	text = cleanText(text)
	if b.TokenizeChineseChars {
		text = padCJK(text)
	}
	var out []string
	for _, word := range strings.Fields(text) {
		if b.Lowercase {
			word = strings.ToLower(word)
		}
		if b.StripAccents {
			word = stripAccents(word)
		}
		out = append(out, splitPunct(word)...)
	}
	return out
}

func cleanText(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		switch {
		case r == 0 || r == 0xFFFD || isControl(r):
		case isSpaceLike(r):
			sb.WriteByte(' ')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return unicode.IsControl(r) || unicode.Is(unicode.Cf, r)
}

func isSpaceLike(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || unicode.Is(unicode.Zs, r)
}

func padCJK(text string) string {
	var sb strings.Builder
	sb.Grow(len(text) + len(text)/2)
	for _, r := range text {
		if isCJK(r) {
			sb.WriteByte(' ')
			sb.WriteRune(r)
			sb.WriteByte(' ')
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isCJK(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF,
		r >= 0x3400 && r <= 0x4DBF,
		r >= 0x20000 && r <= 0x2A6DF,
		r >= 0x2A700 && r <= 0x2B73F,
		r >= 0x2B740 && r <= 0x2B81F,
		r >= 0x2B820 && r <= 0x2CEAF,
		r >= 0xF900 && r <= 0xFAFF,
		r >= 0x2F800 && r <= 0x2FA1F:
		return true
	}
	return false
}

// stripAccents decomposes to NFD and drops combining marks.
func stripAccents(word string) string {
	decomposed := norm.NFD.String(word)
	var sb strings.Builder
	sb.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func splitPunct(word string) []string {
	var out []string
	var cur []rune
	for _, r := range word {
		if isPunct(r) {
			if len(cur) > 0 {
				out = append(out, string(cur))
				cur = cur[:0]
			}
			out = append(out, string(r))
			continue
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}

// isPunct counts the ASCII symbol ranges as punctuation so tokens like "$"
// and "^" split off the same way true punctuation does.
func isPunct(r rune) bool {
	if (r >= 33 && r <= 47) || (r >= 58 && r <= 64) || (r >= 91 && r <= 96) || (r >= 123 && r <= 126) {
		return true
	}
	return unicode.IsPunct(r)
}
