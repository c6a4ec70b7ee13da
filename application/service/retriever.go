// Package service provides the application layer: retrieval, the LLM
// pipeline stages, and the answer orchestrator that ties them together.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AbokiLearn/segun/domain/course"
	"github.com/AbokiLearn/segun/domain/qa"
	"github.com/AbokiLearn/segun/domain/search"
	"github.com/AbokiLearn/segun/internal/log"
)

// RetrieverConfig holds the retrieval parameters fixed at construction.
type RetrieverConfig struct {
	IndexName  string
	VectorPath string
	TopK       int
	Candidates int
}

// Retriever embeds a question, runs the vector search, and hydrates the raw
// hits into results carrying subject and lecture titles.
type Retriever struct {
	embedder search.Embedder
	vectors  search.VectorStore
	subjects course.SubjectStore
	lectures course.LectureStore
	cfg      RetrieverConfig
	logger   *log.Logger
}

// NewRetriever creates a new Retriever.
func NewRetriever(
	embedder search.Embedder,
	vectors search.VectorStore,
	subjects course.SubjectStore,
	lectures course.LectureStore,
	cfg RetrieverConfig,
	logger *log.Logger,
) *Retriever {
	if cfg.IndexName == "" {
		cfg.IndexName = search.DefaultIndexName
	}
	if cfg.VectorPath == "" {
		cfg.VectorPath = search.DefaultVectorPath
	}
	if cfg.TopK <= 0 {
		cfg.TopK = search.DefaultTopK
	}
	if cfg.Candidates <= 0 {
		cfg.Candidates = search.DefaultCandidates
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Retriever{
		embedder: embedder,
		vectors:  vectors,
		subjects: subjects,
		lectures: lectures,
		cfg:      cfg,
		logger:   logger,
	}
}

// Retrieve runs the full retrieval path for a query. Results come back in
// the score order produced by the vector index; this method never re-sorts.
func (r *Retriever) Retrieve(ctx context.Context, query search.Query) ([]search.RetrievedLecture, error) {
	vectors, err := r.embedder.Embed(ctx, []string{query.Text()})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: expected 1 vector, got %d", len(vectors))
	}

	spec, err := search.NewSpec(
		r.cfg.IndexName,
		r.cfg.VectorPath,
		vectors[0],
		query.Candidates(),
		query.TopK(),
		query.SubjectIDs(),
		query.LectureIDs(),
	)
	if err != nil {
		return nil, fmt.Errorf("build search spec: %w", err)
	}

	hits, err := r.vectors.Search(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	r.logger.DebugContext(ctx, "vector search complete",
		"hits", len(hits),
		"top_k", query.TopK(),
		"subject_filter", len(query.SubjectIDs()),
		"lecture_filter", len(query.LectureIDs()))

	return r.hydrate(ctx, hits)
}

// hydrate resolves subject and lecture titles for every hit, preserving the
// incoming order. A dangling reference is a data-integrity failure for the
// whole request, never a skipped row.
func (r *Retriever) hydrate(ctx context.Context, hits []search.Hit) ([]search.RetrievedLecture, error) {
	subjectTitles := make(map[string]string)
	lectureTitles := make(map[string]string)

	results := make([]search.RetrievedLecture, 0, len(hits))
	for _, hit := range hits {
		subjectTitle, ok := subjectTitles[hit.SubjectID()]
		if !ok {
			subject, err := r.subjects.ByID(ctx, hit.SubjectID())
			if errors.Is(err, course.ErrNotFound) {
				return nil, &qa.DataIntegrityError{Kind: "subject", ID: hit.SubjectID()}
			}
			if err != nil {
				return nil, fmt.Errorf("hydrate subject %s: %w", hit.SubjectID(), err)
			}
			subjectTitle = subject.Title()
			subjectTitles[hit.SubjectID()] = subjectTitle
		}

		lectureTitle, ok := lectureTitles[hit.LectureID()]
		if !ok {
			lecture, err := r.lectures.ByID(ctx, hit.LectureID())
			if errors.Is(err, course.ErrNotFound) {
				return nil, &qa.DataIntegrityError{Kind: "lecture", ID: hit.LectureID()}
			}
			if err != nil {
				return nil, fmt.Errorf("hydrate lecture %s: %w", hit.LectureID(), err)
			}
			lectureTitle = lecture.Title()
			lectureTitles[hit.LectureID()] = lectureTitle
		}

		results = append(results, search.NewRetrievedLecture(
			subjectTitle, hit.SubjectID(),
			lectureTitle, hit.LectureID(),
			hit.Chunk(), hit.Score()))
	}

	return results, nil
}
