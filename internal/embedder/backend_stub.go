//go:build !onnx
// +build !onnx

package embedder

import "go.uber.org/zap"

// newTransformerBackend returns nil when built without the 'onnx' tag,
// keeping the default build free of CGO dependencies.
func newTransformerBackend(logger *zap.Logger, modelPath string) TransformerBackend {
	return nil
}
