package wordpiece

import (
	"fmt"
	"strings"

	tk "github.com/sugarme/tokenizer"
	wpmodel "github.com/sugarme/tokenizer/model/wordpiece"
	"github.com/sugarme/tokenizer/normalizer"
	"github.com/sugarme/tokenizer/pretokenizer"
)

// SugarSubword adapts the sugarme/tokenizer BERT WordPiece pipeline to the
// Subword interface. Special tokens stay out of its output; the serializer
// owns those.
type SugarSubword struct {
	t *tk.Tokenizer
}

// NewSugarSubword loads vocab.txt and wires the BERT normalizer and
// pre-tokenizer around sugarme's WordPiece model.
func NewSugarSubword(vocabPath string, cfg Config) (*SugarSubword, error) {
	model, err := wpmodel.NewWordPieceFromFile(vocabPath, UnkToken)
	if err != nil {
		return nil, fmt.Errorf("load wordpiece model: %w", err)
	}

	t := tk.NewTokenizer(model)
	t.WithNormalizer(normalizer.NewBertNormalizer(true, cfg.TokenizeChineseChars, cfg.StripAccents, cfg.Lowercase))
	t.WithPreTokenizer(pretokenizer.NewBertPreTokenizer())
	return &SugarSubword{t: t}, nil
}

// Tokenize returns the subword pieces of text in order.
func (s *SugarSubword) Tokenize(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	enc, err := s.t.Encode(tk.NewSingleEncodeInput(tk.NewInputSequence(text)), false)
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", text, err)
	}
	return enc.GetTokens(), nil
}
