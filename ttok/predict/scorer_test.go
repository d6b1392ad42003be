package predict

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewScorerUnknownBackend(t *testing.T) {
	_, err := NewScorer("tensorflow", "model.onnx")
	require.Error(t, err)
}
