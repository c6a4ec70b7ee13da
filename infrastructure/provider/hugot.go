package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

const hugotBatchMax = 32

// hugotSingleton holds the process-wide ONNX Runtime session and feature
// extraction pipeline. ORT only allows one active session per process, so
// all HugotEmbedder instances share it. The mutex serializes both
// initialization and inference (ORT is not thread-safe).
var hugotSingleton struct {
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
	mu       sync.Mutex
	ready    bool
}

// HugotEmbedder generates sentence embeddings in-process using a local
// MiniLM-class model via hugot. The pipeline is configured with output
// normalization, so vectors come back unit length.
type HugotEmbedder struct {
	cacheDir string
	model    string
}

// NewHugotEmbedder creates a HugotEmbedder that looks for a model directory
// named after the model inside cacheDir (a directory containing
// tokenizer.json and the ONNX weights).
func NewHugotEmbedder(cacheDir, model string) *HugotEmbedder {
	return &HugotEmbedder{
		cacheDir: cacheDir,
		model:    model,
	}
}

// Available reports whether a usable model exists on disk.
func (h *HugotEmbedder) Available() bool {
	_, err := h.modelPath()
	return err == nil
}

func (h *HugotEmbedder) initialize() error {
	hugotSingleton.mu.Lock()
	defer hugotSingleton.mu.Unlock()

	if hugotSingleton.ready {
		return nil
	}

	session, err := newHugotSession()
	if err != nil {
		return fmt.Errorf("create hugot session: %w", err)
	}

	modelPath, err := h.modelPath()
	if err != nil {
		_ = session.Destroy()
		return err
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "lecture-embeddings",
		Options: []hugot.FeatureExtractionOption{
			pipelines.WithNormalization(),
		},
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = session.Destroy()
		return fmt.Errorf("create feature extraction pipeline: %w", err)
	}

	hugotSingleton.session = session
	hugotSingleton.pipeline = pipeline
	hugotSingleton.ready = true
	return nil
}

// modelPath returns the model directory for the configured model name.
// The directory must contain tokenizer.json.
func (h *HugotEmbedder) modelPath() (string, error) {
	candidate := filepath.Join(h.cacheDir, h.model)
	if _, err := os.Stat(filepath.Join(candidate, "tokenizer.json")); err != nil {
		return "", fmt.Errorf("no model %q in %s (expected a directory with tokenizer.json)", h.model, h.cacheDir)
	}
	return candidate, nil
}

// Capacity returns the maximum number of texts per Embed call.
func (h *HugotEmbedder) Capacity() int { return hugotBatchMax }

// Embed generates embeddings for the given texts using the local model.
// The number of texts must not exceed Capacity().
func (h *HugotEmbedder) Embed(ctx context.Context, req EmbeddingRequest) (EmbeddingResponse, error) {
	texts := req.Texts()
	if len(texts) == 0 {
		return NewEmbeddingResponse([][]float64{}), nil
	}

	if len(texts) > hugotBatchMax {
		return EmbeddingResponse{}, fmt.Errorf("embed: %d texts exceeds capacity %d", len(texts), hugotBatchMax)
	}

	if err := ctx.Err(); err != nil {
		return EmbeddingResponse{}, err
	}

	if err := h.initialize(); err != nil {
		return EmbeddingResponse{}, fmt.Errorf("initialize hugot: %w", err)
	}

	// Hold the singleton mutex for inference; ORT is not thread-safe.
	hugotSingleton.mu.Lock()
	defer hugotSingleton.mu.Unlock()

	result, err := hugotSingleton.pipeline.RunPipeline(texts)
	if err != nil {
		return EmbeddingResponse{}, fmt.Errorf("run embedding pipeline: %w", err)
	}

	embeddings := make([][]float64, len(result.Embeddings))
	for i, vec32 := range result.Embeddings {
		vec64 := make([]float64, len(vec32))
		for j, v := range vec32 {
			vec64[j] = float64(v)
		}
		embeddings[i] = vec64
	}

	return NewEmbeddingResponse(embeddings), nil
}

// Close is a no-op. The ONNX Runtime session is process-global and shared
// across all HugotEmbedder instances; it is cleaned up at process exit.
func (h *HugotEmbedder) Close() error {
	return nil
}

var _ Embedder = (*HugotEmbedder)(nil)
