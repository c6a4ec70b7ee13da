package main

import (
	"context"
	"fmt"

	"github.com/AbokiLearn/segun/application/service"
	"github.com/AbokiLearn/segun/infrastructure/persistence"
	"github.com/AbokiLearn/segun/infrastructure/provider"
	"github.com/AbokiLearn/segun/internal/config"
	"github.com/AbokiLearn/segun/internal/log"
)

// buildEmbedder wires the embedding path: a remote OpenAI-compatible
// endpoint when one is configured, otherwise the local ONNX model.
func buildEmbedder(cfg config.AppConfig) (*provider.BatchEmbedder, error) {
	var raw provider.Embedder
	if cfg.EmbeddingBaseURL() != "" {
		raw = provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:         cfg.EmbeddingAPIKey(),
			BaseURL:        cfg.EmbeddingBaseURL(),
			EmbeddingModel: cfg.EmbeddingModel(),
		})
	} else {
		local := provider.NewHugotEmbedder(cfg.EmbeddingCacheDir(), cfg.EmbeddingModel())
		if !local.Available() {
			return nil, fmt.Errorf("embedding model %q not found under %s; set SEGUN_EMBEDDING_BASE_URL or download the model",
				cfg.EmbeddingModel(), cfg.EmbeddingCacheDir())
		}
		raw = local
	}

	return provider.NewBatchEmbedder(raw, cfg.EmbeddingBatchSize(), cfg.EmbeddingDimension()), nil
}

// buildGenerator wires the chat provider behind the shared concurrency
// limiter all pipeline stages draw from.
func buildGenerator(cfg config.AppConfig) *provider.LimitedGenerator {
	inner := provider.NewOpenAIProvider(provider.OpenAIConfig{
		APIKey:    cfg.LLMAPIKey(),
		BaseURL:   cfg.LLMBaseURL(),
		ChatModel: cfg.LLMModel(),
		Timeout:   cfg.LLMTimeout(),
	})
	return provider.NewLimitedGenerator(inner, provider.NewLimiter(cfg.LLMMaxConcurrent()))
}

// buildAnswerer connects the stores, retriever, and stages into the
// orchestrator. The ctx bounds the taxonomy resolution at startup.
func buildAnswerer(ctx context.Context, cfg config.AppConfig, db *persistence.DB, logger *log.Logger) (*service.Answerer, error) {
	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	subjects := persistence.NewSubjectStore(db)
	lectures := persistence.NewLectureStore(db)
	chunks := persistence.NewChunkStore(db)

	retriever := service.NewRetriever(embedder, chunks, subjects, lectures, service.RetrieverConfig{
		IndexName:  cfg.SearchIndexName(),
		VectorPath: cfg.SearchVectorPath(),
		TopK:       cfg.SearchTopK(),
		Candidates: cfg.SearchCandidates(),
	}, logger)

	stages := service.NewStages(buildGenerator(cfg), cfg.LLMMaxRetries(), logger)

	return service.NewAnswerer(ctx, stages, retriever, subjects, service.AnswerConfig{
		TopK:       cfg.SearchTopK(),
		Candidates: cfg.SearchCandidates(),
	}, logger)
}
