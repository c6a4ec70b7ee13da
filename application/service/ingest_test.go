package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbokiLearn/segun/domain/course"
)

func TestParseLectureFilename(t *testing.T) {
	file, err := ParseLectureFilename("07-[async]-promise-chaining.md")

	require.NoError(t, err)
	assert.Equal(t, 7, file.Index)
	assert.Equal(t, course.LabelAsync, file.Subject)
	assert.Equal(t, "Promise chaining", file.Title)
}

func TestParseLectureFilenameMultiWordSlug(t *testing.T) {
	file, err := ParseLectureFilename("lectures/02-[objects-and-arrays]-array-methods.md")

	require.NoError(t, err)
	assert.Equal(t, 2, file.Index)
	assert.Equal(t, course.LabelObjectsAndArrays, file.Subject)
	assert.Equal(t, "Array methods", file.Title)
}

func TestParseLectureFilenameRejectsBadFormat(t *testing.T) {
	cases := []string{
		"promise-chaining.md",
		"07-async-promise-chaining.md",
		"07-[async]-promise-chaining.txt",
		"[async]-07-promise-chaining.md",
	}
	for _, name := range cases {
		_, err := ParseLectureFilename(name)
		assert.Error(t, err, name)
	}
}

func TestParseLectureFilenameRejectsUnknownSlug(t *testing.T) {
	_, err := ParseLectureFilename("01-[quantum-computing]-intro.md")
	require.ErrorContains(t, err, "not in the taxonomy")
}

func TestEnsureSubjectsInsertsMissingOnly(t *testing.T) {
	ctx := context.Background()
	store := newFakeSubjectStore()
	_, _ = store.Insert(ctx, course.LabelAsync.String())
	store.inserted = nil

	ingestor := NewIngestor(store, newFakeLectureStore(), &fakeChunkStore{}, &fakeEmbedder{vector: []float64{1}}, fixedChunker{}, nil)
	require.NoError(t, ingestor.EnsureSubjects(ctx))

	assert.Len(t, store.inserted, len(course.AllSubjectLabels())-1)
	assert.NotContains(t, store.inserted, course.LabelAsync.String())
}

func TestIngestLectureStoresChunksWithReferences(t *testing.T) {
	ctx := context.Background()
	subjects := fullTaxonomyStore()
	lectures := newFakeLectureStore()
	chunks := &fakeChunkStore{}
	embedder := &fakeEmbedder{vector: []float64{0.5, 0.5}}

	ingestor := NewIngestor(subjects, lectures, chunks, embedder, fixedChunker{}, nil)

	content := "Promises wrap a future value.\n\nChaining runs then-handlers in order."
	report, err := ingestor.IngestLecture(ctx, "07-[async]-promise-chaining.md", content)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Chunks)
	assert.Equal(t, "Promise chaining", report.Lecture.Title())

	require.Len(t, chunks.chunks, 2)
	asyncSubject, err := subjects.ByTitle(ctx, course.LabelAsync.String())
	require.NoError(t, err)
	for _, chunk := range chunks.chunks {
		assert.Equal(t, asyncSubject.ID(), chunk.SubjectID())
		assert.Equal(t, report.Lecture.ID(), chunk.LectureID())
		assert.Equal(t, []float64{0.5, 0.5}, chunk.Embedding())
	}

	// The lecture was filed under its subject.
	refreshed, err := subjects.ByID(ctx, asyncSubject.ID())
	require.NoError(t, err)
	assert.Contains(t, refreshed.LectureIDs(), report.Lecture.ID())
}

func TestIngestLectureUnknownSubjectFails(t *testing.T) {
	subjects := newFakeSubjectStore()
	ingestor := NewIngestor(subjects, newFakeLectureStore(), &fakeChunkStore{}, &fakeEmbedder{vector: []float64{1}}, fixedChunker{}, nil)

	_, err := ingestor.IngestLecture(context.Background(), "07-[async]-promises.md", "content")
	require.Error(t, err)
}
