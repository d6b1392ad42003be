//go:build !onnx
// +build !onnx

package predict

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScorerUnavailableWithoutBuildTag(t *testing.T) {
	s, err := NewScorer("onnx", "model.onnx")
	require.NoError(t, err)

	_, err = s.Score(context.Background(), nil)
	require.ErrorIs(t, err, ErrScorerUnavailable)
}
