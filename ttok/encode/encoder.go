package encode

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/ZanzyTHEbar/assert-lib"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/ZanzyTHEbar/table-tokenizer/ttok/table"
	"github.com/ZanzyTHEbar/table-tokenizer/ttok/wordpiece"
)

// Query is one question about a table. AnswerCoords and AnswerTexts carry
// answer supervision; they are provided together or not at all.
type Query struct {
	Text         string
	AnswerCoords []table.CellCoord
	AnswerTexts  []string
}

func (q Query) supervised() bool { return q.AnswerCoords != nil || q.AnswerTexts != nil }

// Encoder turns tables and questions into fixed-length model features. It is
// safe for concurrent use once constructed.
type Encoder struct {
	sub   wordpiece.Subword
	vocab *wordpiece.Vocab
	opts  Options

	AssertHandler *assert.AssertHandler
}

// NewEncoder builds an encoder over an already configured subword engine and
// its vocabulary.
func NewEncoder(sub wordpiece.Subword, vocab *wordpiece.Vocab, opts Options) (*Encoder, error) {
	if sub == nil {
		return nil, fmt.Errorf("subword engine is required")
	}
	if vocab == nil {
		return nil, fmt.Errorf("vocabulary is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Encoder{
		sub:           sub,
		vocab:         vocab,
		opts:          opts.withDefaults(),
		AssertHandler: assert.NewAssertHandler(),
	}, nil
}

// Options returns the resolved options the encoder runs with.
func (e *Encoder) Options() Options { return e.opts }

// Encode processes a single query against a table.
func (e *Encoder) Encode(ctx context.Context, tbl *table.Table, q Query) (*Features, error) {
	out, err := e.EncodeBatch(ctx, tbl, []Query{q})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EncodeBatch encodes every query against one shared table. The table is
// tokenized once, queries encode independently on a bounded pool, and the
// PrevLabelIDs channel then chains each query to its predecessor's labels in
// input order. Any failing query fails the whole batch.
func (e *Encoder) EncodeBatch(ctx context.Context, tbl *table.Table, queries []Query) ([]*Features, error) {
	if len(queries) == 0 {
		return nil, nil
	}
	if err := tbl.Validate(); err != nil {
		return nil, err
	}
	supervised, err := batchSupervision(queries)
	if err != nil {
		return nil, err
	}

	numColumns, err := e.numColumns(tbl)
	if err != nil {
		return nil, err
	}
	numRows, err := e.numRows(tbl)
	if err != nil {
		return nil, err
	}
	tt, err := e.tokenizeTable(tbl)
	if err != nil {
		return nil, err
	}
	colVals := parseColumnValues(tbl)

	batchID := uuid.New().String()
	slog.Debug("Encoding batch",
		"batch_id", batchID,
		"queries", len(queries),
		"columns", tbl.NumColumns(),
		"rows", tbl.NumRows(),
		"supervised", supervised)

	results := make([]*Features, len(queries))
	p := pool.New().WithMaxGoroutines(e.workers()).WithContext(ctx)
	for i, q := range queries {
		p.Go(func(ctx context.Context) error {
			f, err := e.encodeOne(ctx, tbl, tt, colVals, numColumns, numRows, q, supervised)
			if err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}
			results[i] = f
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	for i, f := range results {
		prev := make([]int, e.opts.ModelMaxLength)
		if supervised && i > 0 {
			copy(prev, results[i-1].LabelIDs)
		}
		f.PrevLabelIDs = prev
	}

	slog.Debug("Encoded batch", "batch_id", batchID, "features", len(results))
	return results, nil
}

func (e *Encoder) encodeOne(ctx context.Context, tbl *table.Table, tt *TokenizedTable, colVals columnValues, numColumns, numRows int, q Query, supervised bool) (*Features, error) {
	questionPieces, err := e.sub.Tokenize(q.Text)
	if err != nil {
		return nil, fmt.Errorf("tokenize question: %w", err)
	}

	rows, cellTokens, err := e.fit(tt, numColumns, numRows, len(questionPieces))
	if err != nil {
		return nil, err
	}
	se := e.serialize(questionPieces, tt, numColumns, rows, cellTokens)

	f := e.padChannels(ctx, se)
	idx := newCellIndex(f.ColumnIDs, f.RowIDs)

	n := e.opts.ModelMaxLength
	f.ColumnRanks, f.InvColumnRanks = e.columnRanks(colVals, idx, n)
	f.NumericRelations = e.numericRelations(q.Text, colVals, idx, n)
	f.NumericValues = e.numericValues(tbl, colVals, idx)
	f.NumericValuesScale = e.numericValuesScale(tbl, idx)

	if supervised {
		labels, err := e.answerLabels(tt, idx, q)
		if err != nil {
			return nil, err
		}
		f.LabelIDs = labels
	}
	return f, nil
}

// batchSupervision enforces the all-or-nothing answer contract: every query
// carries both coordinates and texts, or no query carries either.
func batchSupervision(queries []Query) (bool, error) {
	supervised := 0
	for _, q := range queries {
		if (q.AnswerCoords != nil) != (q.AnswerTexts != nil) {
			return false, ErrAnswerPair
		}
		if q.supervised() {
			supervised++
		}
	}
	switch supervised {
	case 0:
		return false, nil
	case len(queries):
		return true, nil
	default:
		return false, ErrAnswerPair
	}
}

func (e *Encoder) workers() int {
	if e.opts.WorkerCount > 0 {
		return e.opts.WorkerCount
	}
	return runtime.GOMAXPROCS(0)
}
