package provider

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRawEmbedder returns a deterministic vector per text and records batch
// boundaries.
type fakeRawEmbedder struct {
	mu         sync.Mutex
	batchSizes []int
	dimension  int
	err        error
}

func (f *fakeRawEmbedder) Embed(_ context.Context, req EmbeddingRequest) (EmbeddingResponse, error) {
	if f.err != nil {
		return EmbeddingResponse{}, f.err
	}
	texts := req.Texts()
	f.mu.Lock()
	f.batchSizes = append(f.batchSizes, len(texts))
	f.mu.Unlock()

	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vec := make([]float64, f.dimension)
		for j := range vec {
			vec[j] = float64(len(text) + j + 1)
		}
		vectors[i] = vec
	}
	return NewEmbeddingResponse(vectors), nil
}

func TestBatchEmbedder_NormalizesToUnitLength(t *testing.T) {
	embedder := NewBatchEmbedder(&fakeRawEmbedder{dimension: 4}, 64, 4)

	vectors, err := embedder.Embed(context.Background(), []string{"how do promises work"})
	require.NoError(t, err)
	require.Len(t, vectors, 1)

	var sum float64
	for _, v := range vectors[0] {
		sum += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-9)
}

func TestBatchEmbedder_BatchingDoesNotChangeValues(t *testing.T) {
	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}

	whole := NewBatchEmbedder(&fakeRawEmbedder{dimension: 3}, 64, 3)
	batched := NewBatchEmbedder(&fakeRawEmbedder{dimension: 3}, 2, 3)

	wholeVecs, err := whole.Embed(context.Background(), texts)
	require.NoError(t, err)
	batchedVecs, err := batched.Embed(context.Background(), texts)
	require.NoError(t, err)

	assert.Equal(t, wholeVecs, batchedVecs)
}

func TestBatchEmbedder_SplitsIntoBatches(t *testing.T) {
	raw := &fakeRawEmbedder{dimension: 3}
	embedder := NewBatchEmbedder(raw, 2, 3)

	_, err := embedder.Embed(context.Background(), []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, raw.batchSizes)
}

func TestBatchEmbedder_DimensionMismatchFails(t *testing.T) {
	embedder := NewBatchEmbedder(&fakeRawEmbedder{dimension: 3}, 64, 384)

	_, err := embedder.Embed(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension mismatch")
}

func TestBatchEmbedder_AsyncMatchesSync(t *testing.T) {
	embedder := NewBatchEmbedder(&fakeRawEmbedder{dimension: 4}, 64, 4)
	texts := []string{"first", "second"}

	syncVecs, err := embedder.Embed(context.Background(), texts)
	require.NoError(t, err)

	result := <-embedder.EmbedAsync(context.Background(), texts)
	require.NoError(t, result.Err)
	assert.Equal(t, syncVecs, result.Vectors)
}

func TestBatchEmbedder_AsyncPropagatesError(t *testing.T) {
	embedder := NewBatchEmbedder(&fakeRawEmbedder{err: errors.New("boom")}, 64, 4)

	result := <-embedder.EmbedAsync(context.Background(), []string{"text"})
	require.Error(t, result.Err)
}

func TestBatchEmbedder_EmptyInput(t *testing.T) {
	embedder := NewBatchEmbedder(&fakeRawEmbedder{dimension: 4}, 64, 4)

	vectors, err := embedder.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

// slowGenerator blocks until released and counts concurrent callers.
type slowGenerator struct {
	inFlight atomic.Int32
	peak     atomic.Int32
	release  chan struct{}
}

func (g *slowGenerator) ChatCompletion(ctx context.Context, _ ChatCompletionRequest) (ChatCompletionResponse, error) {
	current := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)

	for {
		peak := g.peak.Load()
		if current <= peak || g.peak.CompareAndSwap(peak, current) {
			break
		}
	}

	select {
	case <-g.release:
		return NewChatCompletionResponse("ok", "stop"), nil
	case <-ctx.Done():
		return ChatCompletionResponse{}, ctx.Err()
	}
}

func TestLimitedGenerator_CapsConcurrency(t *testing.T) {
	gen := &slowGenerator{release: make(chan struct{})}
	limited := NewLimitedGenerator(gen, NewLimiter(2))

	var wg sync.WaitGroup
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = limited.ChatCompletion(context.Background(), NewChatCompletionRequest(nil))
		}()
	}

	// Let goroutines reach the generator.
	time.Sleep(50 * time.Millisecond)
	close(gen.release)
	wg.Wait()

	assert.LessOrEqual(t, gen.peak.Load(), int32(2))
}

func TestLimiter_ReleasesSlotOnError(t *testing.T) {
	limiter := NewLimiter(1)

	err := limiter.Do(context.Background(), func(context.Context) error {
		return errors.New("stage failed")
	})
	require.Error(t, err)

	// The slot must be free again; a second acquisition must not block.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err = limiter.Do(ctx, func(context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestLimiter_AcquireRespectsCancellation(t *testing.T) {
	limiter := NewLimiter(1)

	blocked := make(chan struct{})
	go func() {
		_ = limiter.Do(context.Background(), func(context.Context) error {
			close(blocked)
			time.Sleep(200 * time.Millisecond)
			return nil
		})
	}()
	<-blocked

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := limiter.Do(ctx, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
