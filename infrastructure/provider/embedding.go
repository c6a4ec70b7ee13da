package provider

import (
	"context"
	"fmt"
	"math"

	"github.com/AbokiLearn/segun/domain/search"
)

// BatchEmbedder wraps a raw Embedder with batching, dimension checking, and
// L2 normalization. Batching changes throughput only, never output values.
type BatchEmbedder struct {
	inner     Embedder
	batchSize int
	dimension int
}

// NewBatchEmbedder creates a BatchEmbedder. dimension is the deployment's
// configured vector size; every returned vector is checked against it
// because the persisted chunk index requires an exact match.
func NewBatchEmbedder(inner Embedder, batchSize, dimension int) *BatchEmbedder {
	if batchSize <= 0 {
		batchSize = 64
	}
	return &BatchEmbedder{
		inner:     inner,
		batchSize: batchSize,
		dimension: dimension,
	}
}

// Embed returns one unit-normalized vector per input text, in input order.
func (e *BatchEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	vectors := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))

		resp, err := e.inner.Embed(ctx, NewEmbeddingRequest(texts[start:end]))
		if err != nil {
			return nil, fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
		}

		batch := resp.Embeddings()
		if len(batch) != end-start {
			return nil, fmt.Errorf("embed batch [%d:%d]: got %d vectors for %d texts", start, end, len(batch), end-start)
		}
		for _, vec := range batch {
			if e.dimension > 0 && len(vec) != e.dimension {
				return nil, fmt.Errorf("embedding dimension mismatch: got %d, configured %d", len(vec), e.dimension)
			}
			vectors = append(vectors, normalize(vec))
		}
	}

	return vectors, nil
}

// EmbedText embeds a single text.
func (e *BatchEmbedder) EmbedText(ctx context.Context, text string) ([]float64, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedResult carries the outcome of an asynchronous embedding call.
type EmbedResult struct {
	Vectors [][]float64
	Err     error
}

// EmbedAsync runs Embed on a separate goroutine and returns a channel that
// delivers exactly one result. The caller's goroutine is never blocked by
// the model computation; cancellation of ctx aborts the work.
func (e *BatchEmbedder) EmbedAsync(ctx context.Context, texts []string) <-chan EmbedResult {
	out := make(chan EmbedResult, 1)
	go func() {
		defer close(out)
		vectors, err := e.Embed(ctx, texts)
		out <- EmbedResult{Vectors: vectors, Err: err}
	}()
	return out
}

// normalize scales a vector to unit L2 norm. Zero vectors pass through
// unchanged. Already-normalized vectors are numerically unaffected.
func normalize(vec []float64) []float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	scaled := make([]float64, len(vec))
	for i, v := range vec {
		scaled[i] = v / norm
	}
	return scaled
}

var _ search.Embedder = (*BatchEmbedder)(nil)
