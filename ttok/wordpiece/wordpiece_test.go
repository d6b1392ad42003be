package wordpiece

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPieces = []string{
	"[PAD]", "[UNK]", "[CLS]", "[SEP]",
	"the", "un", "##aff", "##able", "run", "##ning", "30", "alice", ",", "!",
}

func testVocab(t *testing.T) *Vocab {
	t.Helper()
	v, err := NewVocab(testPieces)
	require.NoError(t, err)
	return v
}

func writeVocabFile(t *testing.T, pieces []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(pieces, "\n")+"\n"), 0o644))
	return path
}

func TestLoadVocabFile(t *testing.T) {
	path := writeVocabFile(t, testPieces)
	v, err := LoadVocabFile(path)
	require.NoError(t, err)

	assert.Equal(t, len(testPieces), v.Size())
	id, ok := v.ID("the")
	require.True(t, ok)
	assert.Equal(t, 4, id)
	piece, ok := v.Piece(7)
	require.True(t, ok)
	assert.Equal(t, "##able", piece)

	assert.Equal(t, 0, v.PadID)
	assert.Equal(t, 1, v.UnkID)
	assert.Equal(t, 2, v.ClsID)
	assert.Equal(t, 3, v.SepID)
}

func TestVocabSpecialFallbacks(t *testing.T) {
	v, err := NewVocab([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 0, v.PadID)
	assert.Equal(t, 100, v.UnkID)
	assert.Equal(t, 101, v.ClsID)
	assert.Equal(t, 102, v.SepID)
}

func TestVocabIDsSubstitutesUnknown(t *testing.T) {
	v := testVocab(t)
	assert.Equal(t, []int{4, v.UnkID, 10}, v.IDs([]string{"the", "zzz", "30"}))
}

func TestVocabRejectsEmpty(t *testing.T) {
	_, err := NewVocab(nil)
	assert.Error(t, err)
}

func TestWordPieceGreedyLongestMatch(t *testing.T) {
	w := NewWordPiece(testVocab(t), DefaultConfig())
	got, err := w.Tokenize("unaffable running")
	require.NoError(t, err)
	assert.Equal(t, []string{"un", "##aff", "##able", "run", "##ning"}, got)
}

func TestWordPieceUnknownWord(t *testing.T) {
	w := NewWordPiece(testVocab(t), DefaultConfig())
	got, err := w.Tokenize("xyzzy")
	require.NoError(t, err)
	assert.Equal(t, []string{UnkToken}, got)
}

func TestWordPiecePunctuationSplits(t *testing.T) {
	w := NewWordPiece(testVocab(t), DefaultConfig())
	got, err := w.Tokenize("alice, run!")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", ",", "run", "!"}, got)
}

func TestWordPieceEmptyText(t *testing.T) {
	w := NewWordPiece(testVocab(t), DefaultConfig())
	got, err := w.Tokenize("   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWordPieceLongWordIsUnknown(t *testing.T) {
	w := NewWordPiece(testVocab(t), DefaultConfig())
	got, err := w.Tokenize(strings.Repeat("a", maxWordChars+1))
	require.NoError(t, err)
	assert.Equal(t, []string{UnkToken}, got)
}

func TestBasicLowercaseAndAccents(t *testing.T) {
	b := Basic{Lowercase: true, StripAccents: true}
	assert.Equal(t, []string{"cafe", "run"}, b.Split("Café RUN"))
}

func TestBasicChineseChars(t *testing.T) {
	b := Basic{TokenizeChineseChars: true}
	assert.Equal(t, []string{"中", "文", "ab"}, b.Split("中文ab"))
}

func TestBasicDropsControlChars(t *testing.T) {
	b := Basic{}
	assert.Equal(t, []string{"ab", "c"}, b.Split("a\x00b\tc"))
}

func TestNewSelectsEngine(t *testing.T) {
	path := writeVocabFile(t, testPieces)

	sub, v, err := New(EngineLocal, path, DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, v)
	got, err := sub.Tokenize("the alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"the", "alice"}, got)

	_, _, err = New("bogus", path, DefaultConfig())
	assert.ErrorIs(t, err, ErrUnsupported)
}
