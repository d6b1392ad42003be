//go:build !onnx
// +build !onnx

package predict

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/table-tokenizer/ttok/encode"
)

// onnxScorer is a stub used when built without the "onnx" build tag.
type onnxScorer struct{}

func newONNXScorer(modelPath string) Scorer { return &onnxScorer{} }

func (s *onnxScorer) Score(ctx context.Context, feats []*encode.Features) (*ScoreSet, error) {
	return nil, fmt.Errorf("%w: build with -tags onnx and provide a supported model", ErrScorerUnavailable)
}
