package wordpiece

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/armon/go-radix"
)

// Conventional BERT special pieces.
const (
	PadToken = "[PAD]"
	UnkToken = "[UNK]"
	ClsToken = "[CLS]"
	SepToken = "[SEP]"
)

// Vocab is an ordered WordPiece vocabulary with lookup in both directions.
// A radix tree over the pieces serves longest-prefix matching for the local
// engine.
type Vocab struct {
	ids    map[string]int
	pieces []string
	tree   *radix.Tree

	PadID int
	UnkID int
	ClsID int
	SepID int
}

// LoadVocabFile reads a vocab.txt with one piece per line, ids in line order.
// Blank lines are skipped without consuming an id.
func LoadVocabFile(path string) (*Vocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary: %w", err)
	}
	defer f.Close()

	var pieces []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		piece := strings.TrimSpace(scanner.Text())
		if piece == "" {
			continue
		}
		pieces = append(pieces, piece)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	return NewVocab(pieces)
}

// NewVocab builds a vocabulary from pieces in id order. A duplicated piece
// keeps its last id.
func NewVocab(pieces []string) (*Vocab, error) {
	if len(pieces) == 0 {
		return nil, fmt.Errorf("empty vocabulary")
	}
	v := &Vocab{
		ids:    make(map[string]int, len(pieces)),
		pieces: make([]string, len(pieces)),
		tree:   radix.New(),
	}
	for i, piece := range pieces {
		if piece == "" {
			return nil, fmt.Errorf("empty vocabulary piece at id %d", i)
		}
		v.ids[piece] = i
		v.pieces[i] = piece
		v.tree.Insert(piece, i)
	}

	// Defaults; real IDs should be looked up
	v.PadID = v.idOr(PadToken, 0)
	v.UnkID = v.idOr(UnkToken, 100)
	v.ClsID = v.idOr(ClsToken, 101)
	v.SepID = v.idOr(SepToken, 102)
	return v, nil
}

func (v *Vocab) idOr(piece string, fallback int) int {
	if id, ok := v.ids[piece]; ok {
		return id
	}
	return fallback
}

func (v *Vocab) Size() int { return len(v.pieces) }

// ID returns the id of piece when it is in the vocabulary.
func (v *Vocab) ID(piece string) (int, bool) {
	id, ok := v.ids[piece]
	return id, ok
}

// Piece returns the piece text for id.
func (v *Vocab) Piece(id int) (string, bool) {
	if id < 0 || id >= len(v.pieces) {
		return "", false
	}
	return v.pieces[id], true
}

// IDs maps pieces to ids, substituting the unknown id for pieces outside the
// vocabulary.
func (v *Vocab) IDs(pieces []string) []int {
	out := make([]int, len(pieces))
	for i, piece := range pieces {
		id, ok := v.ids[piece]
		if !ok {
			id = v.UnkID
		}
		out[i] = id
	}
	return out
}

// LongestPrefix returns the longest vocabulary piece that prefixes s.
func (v *Vocab) LongestPrefix(s string) (string, int, bool) {
	key, val, ok := v.tree.LongestPrefix(s)
	if !ok {
		return "", 0, false
	}
	return key, val.(int), true
}
