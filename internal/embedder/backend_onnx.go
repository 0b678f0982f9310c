//go:build onnx
// +build onnx

package embedder

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"
)

// onnxBackend implements TransformerBackend with ONNX Runtime.
type onnxBackend struct {
	session    *ort.DynamicAdvancedSession
	inputNames []string
	outputName string
	logger     *zap.Logger
	mu         sync.RWMutex
	ready      bool
}

// newTransformerBackend initializes the ONNX Runtime backend.
func newTransformerBackend(logger *zap.Logger, modelPath string) TransformerBackend {
	if shlib := os.Getenv("ONNXRUNTIME_SHARED_LIB"); shlib != "" {
		ort.SetSharedLibraryPath(shlib)
	}

	if err := ort.InitializeEnvironment(); err != nil {
		logger.Error("ONNX Runtime environment init failed", zap.Error(err))
		return nil
	}

	inputsInfo, outputsInfo, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		logger.Error("failed to inspect ONNX model IO", zap.Error(err), zap.String("model", modelPath))
		return nil
	}
	if len(outputsInfo) == 0 {
		logger.Error("ONNX model reports no outputs", zap.String("model", modelPath))
		return nil
	}

	// BERT-style models declare input_ids/attention_mask and sometimes
	// token_type_ids; keep the subset the model wants, in that order.
	available := map[string]bool{}
	for _, info := range inputsInfo {
		available[strings.ToLower(info.Name)] = true
	}
	var inputNames []string
	for _, name := range []string{"input_ids", "attention_mask", "token_type_ids"} {
		if available[name] {
			inputNames = append(inputNames, name)
		}
	}
	if len(inputNames) == 0 {
		logger.Error("ONNX model declares no recognized transformer inputs", zap.String("model", modelPath))
		return nil
	}

	outputName := outputsInfo[0].Name
	session, err := ort.NewDynamicAdvancedSession(modelPath, inputNames, []string{outputName}, nil)
	if err != nil {
		logger.Error("ONNX Runtime session creation failed", zap.Error(err), zap.String("model", modelPath))
		return nil
	}

	logger.Info("ONNX Runtime backend ready",
		zap.String("model", modelPath),
		zap.Strings("inputs", inputNames),
		zap.String("output", outputName),
	)
	return &onnxBackend{session: session, inputNames: inputNames, outputName: outputName, logger: logger, ready: true}
}

func (b *onnxBackend) IsReady() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ready && b.session != nil
}

func (b *onnxBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session != nil {
		b.session.Destroy()
		b.session = nil
	}
	ort.DestroyEnvironment()
	b.ready = false
	return nil
}

// EmbedBatch runs inference for the batch and returns Dimensions-sized
// embeddings, mean-pooling when the model emits hidden states.
func (b *onnxBackend) EmbedBatch(ctx context.Context, batch []*TokenizedInput) ([][]float32, error) {
	if !b.IsReady() {
		return nil, fmt.Errorf("onnx backend not ready")
	}
	if len(batch) == 0 {
		return [][]float32{}, nil
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	seqLen := len(batch[0].InputIDs)
	inputIDs := make([]int64, 0, len(batch)*seqLen)
	attention := make([]int64, 0, len(batch)*seqLen)
	tokenTypes := make([]int64, 0, len(batch)*seqLen)
	for _, t := range batch {
		if len(t.InputIDs) != seqLen {
			return nil, fmt.Errorf("ragged batch: want seq len %d, got %d", seqLen, len(t.InputIDs))
		}
		for i := 0; i < seqLen; i++ {
			inputIDs = append(inputIDs, int64(t.InputIDs[i]))
			attention = append(attention, int64(t.AttentionMask[i]))
			tokenTypes = append(tokenTypes, int64(t.TokenTypeIDs[i]))
		}
	}

	shape := ort.NewShape(int64(len(batch)), int64(seqLen))
	tensors := map[string][]int64{
		"input_ids":      inputIDs,
		"attention_mask": attention,
		"token_type_ids": tokenTypes,
	}
	inputs := make([]ort.Value, 0, len(b.inputNames))
	for _, name := range b.inputNames {
		tensor, err := ort.NewTensor[int64](shape, tensors[name])
		if err != nil {
			return nil, fmt.Errorf("failed to create %s tensor: %w", name, err)
		}
		defer tensor.Destroy()
		inputs = append(inputs, tensor)
	}

	outputs := make([]ort.Value, 1)
	if err := b.session.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("onnx run failed: %w", err)
	}
	if outputs[0] == nil {
		return nil, fmt.Errorf("onnx returned no outputs")
	}
	defer outputs[0].Destroy()

	outTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output type (want float32 tensor)")
	}
	data := outTensor.GetData()
	outShape := outTensor.GetShape()

	result := make([][]float32, len(batch))
	switch len(outShape) {
	case 2: // [batch, dims], already pooled
		dims := int(outShape[1])
		if dims != Dimensions {
			return nil, fmt.Errorf("unexpected output dims %d (want %d)", dims, Dimensions)
		}
		for i := range batch {
			result[i] = make([]float32, Dimensions)
			copy(result[i], data[i*dims:(i+1)*dims])
		}
	case 3: // [batch, seq, dims], mean pool over seq
		seq := int(outShape[1])
		dims := int(outShape[2])
		if dims != Dimensions {
			return nil, fmt.Errorf("unexpected hidden dims %d (want %d)", dims, Dimensions)
		}
		for i := range batch {
			pooled := make([]float32, Dimensions)
			for s := 0; s < seq; s++ {
				offset := (i*seq + s) * dims
				for d := 0; d < dims; d++ {
					pooled[d] += data[offset+d]
				}
			}
			inv := 1 / float32(seq)
			for d := range pooled {
				pooled[d] *= inv
			}
			result[i] = pooled
		}
	default:
		return nil, fmt.Errorf("unsupported output shape %v", outShape)
	}

	return result, nil
}
