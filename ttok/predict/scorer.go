package predict

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/table-tokenizer/ttok/encode"
)

// ErrScorerUnavailable means no scoring backend was compiled in.
var ErrScorerUnavailable = errors.New("scorer unavailable")

// ScoreSet carries raw model outputs for one batch. TokenLogits is one row
// per example, aligned with its feature channels. AggregationLogits is nil
// when the model has no aggregation head.
type ScoreSet struct {
	TokenLogits       [][]float64
	AggregationLogits [][]float64
}

// Scorer runs a table QA model over encoded features.
type Scorer interface {
	Score(ctx context.Context, feats []*encode.Features) (*ScoreSet, error)
}

// NewScorer selects a scoring backend by name. Only the ONNX backend exists;
// it needs the onnx build tag and a model path.
func NewScorer(backend, modelPath string) (Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "onnx":
		return newONNXScorer(modelPath), nil
	default:
		return nil, fmt.Errorf("unknown scorer backend %q", backend)
	}
}
