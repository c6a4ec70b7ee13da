package provider

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limiter caps the number of in-flight model calls process-wide. All
// pipeline stages share one Limiter so the upstream rate limit is respected
// regardless of how many requests are being answered concurrently.
type Limiter struct {
	sem *semaphore.Weighted
}

// NewLimiter creates a Limiter with the given capacity.
func NewLimiter(capacity int) *Limiter {
	if capacity <= 0 {
		capacity = 1
	}
	return &Limiter{sem: semaphore.NewWeighted(int64(capacity))}
}

// Do runs fn while holding a limiter slot. The slot is released on every
// exit path, including panics and context cancellation during acquisition.
func (l *Limiter) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.sem.Release(1)
	return fn(ctx)
}

// LimitedGenerator wraps a TextGenerator so every call goes through the
// shared Limiter.
type LimitedGenerator struct {
	inner   TextGenerator
	limiter *Limiter
}

// NewLimitedGenerator creates a LimitedGenerator.
func NewLimitedGenerator(inner TextGenerator, limiter *Limiter) *LimitedGenerator {
	return &LimitedGenerator{inner: inner, limiter: limiter}
}

// ChatCompletion acquires a limiter slot, delegates, and releases the slot.
func (g *LimitedGenerator) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error) {
	var resp ChatCompletionResponse
	err := g.limiter.Do(ctx, func(ctx context.Context) error {
		var callErr error
		resp, callErr = g.inner.ChatCompletion(ctx, req)
		return callErr
	})
	return resp, err
}

var _ TextGenerator = (*LimitedGenerator)(nil)
