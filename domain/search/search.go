// Package search provides the vector retrieval domain: query parameters,
// the compiled search specification, and the hydrated result type handed to
// answer synthesis.
package search

import (
	"context"
	"fmt"
)

// Defaults for lecture retrieval. Candidate count and top-k are configurable
// per deployment; these match the seeded lecture index.
const (
	DefaultTopK        = 5
	DefaultCandidates  = 200
	DefaultIndexName   = "lecture-index"
	DefaultVectorPath  = "embedding"
)

// Embedder converts text into unit-normalized embedding vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Query holds the caller-facing retrieval parameters before embedding.
type Query struct {
	text        string
	topK        int
	nCandidates int
	subjectIDs  []string
	lectureIDs  []string
}

// QueryOption is a functional option for Query.
type QueryOption func(*Query)

// WithTopK sets the number of results to return.
func WithTopK(k int) QueryOption {
	return func(q *Query) {
		if k > 0 {
			q.topK = k
		}
	}
}

// WithCandidates sets the approximate-nearest-neighbor candidate count.
func WithCandidates(n int) QueryOption {
	return func(q *Query) {
		if n > 0 {
			q.nCandidates = n
		}
	}
}

// WithSubjects restricts retrieval to chunks of the given subjects.
func WithSubjects(ids []string) QueryOption {
	return func(q *Query) {
		if ids != nil {
			q.subjectIDs = make([]string, len(ids))
			copy(q.subjectIDs, ids)
		}
	}
}

// WithLectures restricts retrieval to chunks of the given lectures.
func WithLectures(ids []string) QueryOption {
	return func(q *Query) {
		if ids != nil {
			q.lectureIDs = make([]string, len(ids))
			copy(q.lectureIDs, ids)
		}
	}
}

// NewQuery creates a Query with defaults applied.
func NewQuery(text string, opts ...QueryOption) Query {
	q := Query{
		text:        text,
		topK:        DefaultTopK,
		nCandidates: DefaultCandidates,
	}
	for _, opt := range opts {
		opt(&q)
	}
	return q
}

// Text returns the query text.
func (q Query) Text() string { return q.text }

// TopK returns the number of results to return.
func (q Query) TopK() int { return q.topK }

// Candidates returns the candidate count.
func (q Query) Candidates() int { return q.nCandidates }

// SubjectIDs returns the subject filter.
func (q Query) SubjectIDs() []string {
	ids := make([]string, len(q.subjectIDs))
	copy(ids, q.subjectIDs)
	return ids
}

// LectureIDs returns the lecture filter.
func (q Query) LectureIDs() []string {
	ids := make([]string, len(q.lectureIDs))
	copy(ids, q.lectureIDs)
	return ids
}

// Spec is a fully-resolved vector search specification: the query text has
// been embedded and all parameters are fixed. A Spec is built per query,
// compiled into a store-specific plan, and discarded.
type Spec struct {
	indexName     string
	vectorPath    string
	queryVector   []float64
	nCandidates   int
	topK          int
	subjectFilter []string
	lectureFilter []string
}

// NewSpec creates a Spec. It fails fast when nCandidates < topK; silently
// clamping would hide a misconfigured deployment.
func NewSpec(indexName, vectorPath string, queryVector []float64, nCandidates, topK int, subjectFilter, lectureFilter []string) (Spec, error) {
	if topK <= 0 {
		return Spec{}, fmt.Errorf("top_k must be positive, got %d", topK)
	}
	if nCandidates < topK {
		return Spec{}, fmt.Errorf("n_candidates (%d) must be >= top_k (%d)", nCandidates, topK)
	}
	if len(queryVector) == 0 {
		return Spec{}, fmt.Errorf("query vector is empty")
	}

	vec := make([]float64, len(queryVector))
	copy(vec, queryVector)
	subjects := make([]string, len(subjectFilter))
	copy(subjects, subjectFilter)
	lectures := make([]string, len(lectureFilter))
	copy(lectures, lectureFilter)

	return Spec{
		indexName:     indexName,
		vectorPath:    vectorPath,
		queryVector:   vec,
		nCandidates:   nCandidates,
		topK:          topK,
		subjectFilter: subjects,
		lectureFilter: lectures,
	}, nil
}

// IndexName returns the vector index name.
func (s Spec) IndexName() string { return s.indexName }

// VectorPath returns the document path of the embedding field.
func (s Spec) VectorPath() string { return s.vectorPath }

// QueryVector returns the embedded query.
func (s Spec) QueryVector() []float64 {
	vec := make([]float64, len(s.queryVector))
	copy(vec, s.queryVector)
	return vec
}

// Candidates returns the candidate count.
func (s Spec) Candidates() int { return s.nCandidates }

// TopK returns the result limit.
func (s Spec) TopK() int { return s.topK }

// SubjectFilter returns the subject ID filter.
func (s Spec) SubjectFilter() []string {
	ids := make([]string, len(s.subjectFilter))
	copy(ids, s.subjectFilter)
	return ids
}

// LectureFilter returns the lecture ID filter.
func (s Spec) LectureFilter() []string {
	ids := make([]string, len(s.lectureFilter))
	copy(ids, s.lectureFilter)
	return ids
}
