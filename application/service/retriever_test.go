package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbokiLearn/segun/domain/course"
	"github.com/AbokiLearn/segun/domain/qa"
	"github.com/AbokiLearn/segun/domain/search"
)

func newTestRetriever(vectors *fakeVectorStore, subjects *fakeSubjectStore, lectures *fakeLectureStore) *Retriever {
	embedder := &fakeEmbedder{vector: []float64{0.1, 0.2, 0.3}}
	return NewRetriever(embedder, vectors, subjects, lectures, RetrieverConfig{}, nil)
}

func TestRetrieverHydratesHitsInOrder(t *testing.T) {
	subjects := newFakeSubjectStore(course.NewSubject("sub-1", "Async", nil))
	lectures := newFakeLectureStore(
		course.NewLecture("lec-1", 1, "Promises", "sub-1", ""),
		course.NewLecture("lec-2", 2, "Async and await", "sub-1", ""),
	)
	vectors := &fakeVectorStore{hits: []search.Hit{
		search.NewHit("sub-1", "lec-2", "await pauses", 0.95),
		search.NewHit("sub-1", "lec-1", "a promise is", 0.90),
	}}

	retriever := newTestRetriever(vectors, subjects, lectures)
	results, err := retriever.Retrieve(context.Background(), search.NewQuery("how does await work"))

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Async and await", results[0].Lecture())
	assert.Equal(t, "Promises", results[1].Lecture())
	assert.Equal(t, "Async", results[0].Subject())
	assert.InDelta(t, 0.95, results[0].Score(), 1e-9)
}

func TestRetrieverCachesTitleLookups(t *testing.T) {
	subjects := newFakeSubjectStore(course.NewSubject("sub-1", "Async", nil))
	lectures := newFakeLectureStore(course.NewLecture("lec-1", 1, "Promises", "sub-1", ""))
	vectors := &fakeVectorStore{hits: []search.Hit{
		search.NewHit("sub-1", "lec-1", "chunk a", 0.9),
		search.NewHit("sub-1", "lec-1", "chunk b", 0.8),
		search.NewHit("sub-1", "lec-1", "chunk c", 0.7),
	}}

	retriever := newTestRetriever(vectors, subjects, lectures)
	_, err := retriever.Retrieve(context.Background(), search.NewQuery("promises"))

	require.NoError(t, err)
	assert.Equal(t, 1, subjects.byIDCalls)
	assert.Equal(t, 1, lectures.byIDCalls)
}

func TestRetrieverDanglingSubjectFailsRequest(t *testing.T) {
	subjects := newFakeSubjectStore()
	lectures := newFakeLectureStore()
	vectors := &fakeVectorStore{hits: []search.Hit{
		search.NewHit("missing-subject", "lec-1", "chunk", 0.9),
	}}

	retriever := newTestRetriever(vectors, subjects, lectures)
	_, err := retriever.Retrieve(context.Background(), search.NewQuery("q"))

	var integrityErr *qa.DataIntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, "subject", integrityErr.Kind)
	assert.Equal(t, "missing-subject", integrityErr.ID)
}

func TestRetrieverDanglingLectureFailsRequest(t *testing.T) {
	subjects := newFakeSubjectStore(course.NewSubject("sub-1", "Async", nil))
	lectures := newFakeLectureStore()
	vectors := &fakeVectorStore{hits: []search.Hit{
		search.NewHit("sub-1", "missing-lecture", "chunk", 0.9),
	}}

	retriever := newTestRetriever(vectors, subjects, lectures)
	_, err := retriever.Retrieve(context.Background(), search.NewQuery("q"))

	var integrityErr *qa.DataIntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, "lecture", integrityErr.Kind)
}

func TestRetrieverPassesFiltersToSpec(t *testing.T) {
	subjects := newFakeSubjectStore()
	lectures := newFakeLectureStore()
	vectors := &fakeVectorStore{}

	retriever := newTestRetriever(vectors, subjects, lectures)
	_, err := retriever.Retrieve(context.Background(), search.NewQuery("q",
		search.WithSubjects([]string{"sub-1", "sub-2"}),
		search.WithTopK(3),
		search.WithCandidates(50)))

	require.NoError(t, err)
	assert.Equal(t, []string{"sub-1", "sub-2"}, vectors.lastSpec.SubjectFilter())
	assert.Equal(t, 3, vectors.lastSpec.TopK())
	assert.Equal(t, 50, vectors.lastSpec.Candidates())
	assert.Equal(t, search.DefaultIndexName, vectors.lastSpec.IndexName())
}

func TestRetrieverEmbedFailurePropagates(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("model offline")}
	retriever := NewRetriever(embedder, &fakeVectorStore{}, newFakeSubjectStore(), newFakeLectureStore(), RetrieverConfig{}, nil)

	_, err := retriever.Retrieve(context.Background(), search.NewQuery("q"))
	require.ErrorContains(t, err, "embed query")
}
