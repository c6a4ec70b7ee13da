package persistence

import (
	"context"
	"fmt"

	domainsearch "github.com/AbokiLearn/segun/domain/search"
	infrasearch "github.com/AbokiLearn/segun/infrastructure/search"

	"github.com/AbokiLearn/segun/domain/course"
)

// ChunkStore is the MongoDB implementation of course.ChunkStore and
// search.VectorStore. Retrieval runs a compiled $vectorSearch aggregation
// against the lecture_chunks collection.
type ChunkStore struct {
	db *DB
}

// NewChunkStore creates a new ChunkStore.
func NewChunkStore(db *DB) *ChunkStore {
	return &ChunkStore{db: db}
}

// InsertAll stores a batch of chunks.
func (s *ChunkStore) InsertAll(ctx context.Context, chunks []course.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	opCtx, cancel := s.db.opCtx(ctx)
	defer cancel()

	docs := make([]any, len(chunks))
	for i, c := range chunks {
		docs[i] = chunkToRecord(c)
	}
	if _, err := s.db.database.Collection(chunksCollection).InsertMany(opCtx, docs); err != nil {
		return fmt.Errorf("insert %d chunks: %w", len(chunks), err)
	}
	return nil
}

// Search runs the compiled retrieval pipeline and returns hits in the order
// produced by the vector index. The ranking is not touched here; score order
// is the index's contract.
func (s *ChunkStore) Search(ctx context.Context, spec domainsearch.Spec) ([]domainsearch.Hit, error) {
	opCtx, cancel := s.db.opCtx(ctx)
	defer cancel()

	pipeline := infrasearch.Compile(spec)
	cursor, err := s.db.database.Collection(chunksCollection).Aggregate(opCtx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer cursor.Close(opCtx)

	var records []hitRecord
	if err := cursor.All(opCtx, &records); err != nil {
		return nil, fmt.Errorf("decode search hits: %w", err)
	}

	hits := make([]domainsearch.Hit, len(records))
	for i, r := range records {
		hits[i] = r.toDomain()
	}
	return hits, nil
}

var (
	_ course.ChunkStore        = (*ChunkStore)(nil)
	_ domainsearch.VectorStore = (*ChunkStore)(nil)
)
