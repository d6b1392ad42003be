package wordpiece

import (
	"strings"
	"unicode/utf8"
)

const (
	continuation = "##"
	maxWordChars = 100
)

// IsInner reports whether piece continues a word rather than starting one.
func IsInner(piece string) bool {
	return strings.HasPrefix(piece, continuation)
}

// WordPiece is a greedy longest-match subword engine over a fixed vocabulary.
// A word that cannot be fully segmented collapses to the unknown token, as
// does any word longer than maxWordChars runes.
type WordPiece struct {
	vocab *Vocab
	basic Basic
}

func NewWordPiece(v *Vocab, cfg Config) *WordPiece {
	return &WordPiece{
		vocab: v,
		basic: Basic{
			Lowercase:            cfg.Lowercase,
			StripAccents:         cfg.StripAccents,
			TokenizeChineseChars: cfg.TokenizeChineseChars,
		},
	}
}

// Tokenize splits text into vocabulary pieces.
func (w *WordPiece) Tokenize(text string) ([]string, error) {
	var out []string
	for _, word := range w.basic.Split(text) {
		out = append(out, w.pieces(word)...)
	}
	return out, nil
}

func (w *WordPiece) pieces(word string) []string {
	if utf8.RuneCountInString(word) > maxWordChars {
		return []string{UnkToken}
	}
	var pieces []string
	for start := 0; start < len(word); {
		query := word[start:]
		if start > 0 {
			query = continuation + query
		}
		match, _, ok := w.vocab.LongestPrefix(query)
		consumed := len(match)
		if start > 0 {
			// Inner matches must reach past the "##" marker itself.
			consumed -= len(continuation)
		}
		if !ok || consumed <= 0 {
			return []string{UnkToken}
		}
		pieces = append(pieces, match)
		start += consumed
	}
	return pieces
}
