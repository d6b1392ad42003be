//go:build onnx
// +build onnx

package predict

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/ZanzyTHEbar/table-tokenizer/ttok/encode"
)

const numTypeChannels = 7

// ONNX-backed scorer under the onnx build tag. Initializes ORT lazily and
// opens a dynamic session over the exported table QA graph.
type onnxScorer struct {
	modelPath   string
	mu          sync.Mutex
	session     *ort.DynamicAdvancedSession
	inputNames  []string
	outputNames []string
}

func newONNXScorer(modelPath string) Scorer {
	return &onnxScorer{modelPath: modelPath}
}

func (s *onnxScorer) ensureSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		return nil
	}
	if s.modelPath == "" {
		return fmt.Errorf("onnx model path is required")
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("initialize onnx runtime: %w", err)
		}
	}

	// Probe IO
	ins, outs, err := ort.GetInputOutputInfo(s.modelPath)
	if err != nil {
		return fmt.Errorf("get IO info: %w", err)
	}
	var idsName, maskName, typesName string
	for _, ii := range ins {
		n := strings.ToLower(ii.Name)
		switch {
		case strings.Contains(n, "input_ids"):
			idsName = ii.Name
		case strings.Contains(n, "attention_mask"):
			maskName = ii.Name
		case strings.Contains(n, "token_type"):
			typesName = ii.Name
		}
	}
	if idsName == "" || maskName == "" || typesName == "" {
		return fmt.Errorf("could not determine ONNX input names")
	}

	// Token logits first, aggregation logits second when the head exists.
	var outputNames []string
	for _, oi := range outs {
		if oi.DataType == ort.TensorElementDataTypeFloat {
			outputNames = append(outputNames, oi.Name)
		}
		if len(outputNames) == 2 {
			break
		}
	}
	if len(outputNames) == 0 {
		return fmt.Errorf("could not determine ONNX output names")
	}

	// EP detection and options; fall back to CPU if the requested EP cannot
	// be configured.
	var opts *ort.SessionOptions
	if onnxEPPreference != "" && onnxEPPreference != "cpu" {
		o, oerr := ort.NewSessionOptions()
		if oerr != nil {
			slog.Warn("Could not create session options, falling back to CPU",
				"ep", onnxEPPreference, "error", oerr)
		} else {
			_ = o.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableAll)
			_ = o.SetIntraOpNumThreads(0)
			_ = o.SetInterOpNumThreads(0)
			var epErr error
			switch onnxEPPreference {
			case "cuda":
				var cu *ort.CUDAProviderOptions
				if cu, epErr = ort.NewCUDAProviderOptions(); epErr == nil {
					epErr = o.AppendExecutionProviderCUDA(cu)
					_ = cu.Destroy()
				}
			case "tensorrt":
				var trt *ort.TensorRTProviderOptions
				if trt, epErr = ort.NewTensorRTProviderOptions(); epErr == nil {
					epErr = o.AppendExecutionProviderTensorRT(trt)
					_ = trt.Destroy()
				}
			case "coreml":
				flags := onnxEPOptions
				if flags == nil {
					flags = map[string]string{}
				}
				epErr = o.AppendExecutionProviderCoreMLV2(flags)
			case "dml":
				epErr = o.AppendExecutionProviderDirectML(onnxDeviceID)
			}
			if epErr != nil {
				slog.Warn("Could not configure execution provider, falling back to CPU",
					"ep", onnxEPPreference, "error", epErr)
			}
			opts = o
		}
	}

	inputNames := []string{idsName, maskName, typesName}
	var sess *ort.DynamicAdvancedSession
	if opts != nil {
		sess, err = ort.NewDynamicAdvancedSession(s.modelPath, inputNames, outputNames, opts)
		_ = opts.Destroy()
	} else {
		sess, err = ort.NewDynamicAdvancedSession(s.modelPath, inputNames, outputNames, nil)
	}
	if err != nil {
		return fmt.Errorf("create onnx session: %w", err)
	}
	s.session = sess
	s.inputNames = inputNames
	s.outputNames = outputNames
	return nil
}

func (s *onnxScorer) Score(ctx context.Context, feats []*encode.Features) (*ScoreSet, error) {
	if err := s.ensureSession(); err != nil {
		return nil, err
	}
	if len(feats) == 0 {
		return &ScoreSet{}, nil
	}

	// Chunk large batches so tensor sizes stay bounded.
	set := &ScoreSet{}
	for i := 0; i < len(feats); i += onnxBatchSize {
		end := i + onnxBatchSize
		if end > len(feats) {
			end = len(feats)
		}
		chunk, err := s.scoreChunk(ctx, feats[i:end])
		if err != nil {
			return nil, err
		}
		set.TokenLogits = append(set.TokenLogits, chunk.TokenLogits...)
		set.AggregationLogits = append(set.AggregationLogits, chunk.AggregationLogits...)
	}
	return set, nil
}

func (s *onnxScorer) scoreChunk(ctx context.Context, feats []*encode.Features) (*ScoreSet, error) {
	batch := len(feats)
	seq := len(feats[0].InputIDs)
	flatIDs := make([]int64, batch*seq)
	flatMask := make([]int64, batch*seq)
	flatTypes := make([]int64, batch*seq*numTypeChannels)
	for i, f := range feats {
		if len(f.InputIDs) != seq {
			return nil, fmt.Errorf("example %d: sequence length %d differs from %d", i, len(f.InputIDs), seq)
		}
		for j := 0; j < seq; j++ {
			flatIDs[i*seq+j] = int64(f.InputIDs[j])
			flatMask[i*seq+j] = int64(f.AttentionMask[j])
		}
		for j, channels := range f.TokenTypeIDs() {
			base := (i*seq + j) * numTypeChannels
			for k, v := range channels {
				flatTypes[base+k] = int64(v)
			}
		}
	}

	shape := ort.NewShape(int64(batch), int64(seq))
	idsTensor, err := ort.NewTensor(shape, flatIDs)
	if err != nil {
		return nil, fmt.Errorf("ids tensor: %w", err)
	}
	defer idsTensor.Destroy()
	maskTensor, err := ort.NewTensor(shape, flatMask)
	if err != nil {
		return nil, fmt.Errorf("mask tensor: %w", err)
	}
	defer maskTensor.Destroy()
	typesTensor, err := ort.NewTensor(ort.NewShape(int64(batch), int64(seq), numTypeChannels), flatTypes)
	if err != nil {
		return nil, fmt.Errorf("token types tensor: %w", err)
	}
	defer typesTensor.Destroy()

	inVals := []ort.Value{idsTensor, maskTensor, typesTensor}
	outVals := make([]ort.Value, len(s.outputNames))
	if err := s.session.Run(inVals, outVals); err != nil {
		return nil, fmt.Errorf("onnx run: %w", err)
	}
	defer func() {
		for _, v := range outVals {
			if v != nil {
				v.Destroy()
			}
		}
	}()

	set := &ScoreSet{}
	set.TokenLogits, err = matrixFromTensor(outVals[0], batch, seq)
	if err != nil {
		return nil, fmt.Errorf("token logits: %w", err)
	}
	if len(outVals) > 1 {
		agg, ok := outVals[1].(*ort.Tensor[float32])
		if !ok {
			return nil, fmt.Errorf("aggregation logits: unexpected output type")
		}
		aggShape := agg.GetShape()
		if len(aggShape) != 2 || int(aggShape[0]) != batch {
			return nil, fmt.Errorf("aggregation logits: unexpected shape %v", aggShape)
		}
		set.AggregationLogits, err = matrixFromTensor(outVals[1], batch, int(aggShape[1]))
		if err != nil {
			return nil, fmt.Errorf("aggregation logits: %w", err)
		}
	}
	return set, nil
}

func matrixFromTensor(v ort.Value, rows, cols int) ([][]float64, error) {
	t, ok := v.(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output type")
	}
	data := t.GetData()
	if len(data) != rows*cols {
		return nil, fmt.Errorf("got %d values for a %dx%d matrix", len(data), rows, cols)
	}
	out := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		row := make([]float64, cols)
		for c := 0; c < cols; c++ {
			row[c] = float64(data[r*cols+c])
		}
		out[r] = row
	}
	return out, nil
}
