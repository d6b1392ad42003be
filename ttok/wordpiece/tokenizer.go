package wordpiece

import (
	"fmt"
)

// Subword converts one text fragment to subword pieces. Implementations must
// be safe for concurrent use and deterministic for identical input.
type Subword interface {
	Tokenize(text string) ([]string, error)
}

// Config holds the text normalization settings shared by both engines.
type Config struct {
	Lowercase            bool
	StripAccents         bool
	TokenizeChineseChars bool
}

// DefaultConfig matches uncased BERT vocabularies.
func DefaultConfig() Config {
	return Config{Lowercase: true, StripAccents: true, TokenizeChineseChars: true}
}

// Engine selects the subword implementation.
type Engine string

const (
	// EngineLocal is the in-process greedy longest-match engine.
	EngineLocal Engine = "local"
	// EngineSugarme delegates to the sugarme/tokenizer pipeline.
	EngineSugarme Engine = "sugarme"
)

// ErrUnsupported indicates the subword engine could not be initialized
var ErrUnsupported = fmt.Errorf("unsupported subword configuration")

// New loads the vocabulary at vocabPath and builds the requested engine over
// it. An empty engine name selects the local one.
func New(engine Engine, vocabPath string, cfg Config) (Subword, *Vocab, error) {
	v, err := LoadVocabFile(vocabPath)
	if err != nil {
		return nil, nil, err
	}
	switch engine {
	case EngineLocal, "":
		return NewWordPiece(v, cfg), v, nil
	case EngineSugarme:
		sub, err := NewSugarSubword(vocabPath, cfg)
		if err != nil {
			return nil, nil, err
		}
		return sub, v, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown engine %q", ErrUnsupported, engine)
	}
}
