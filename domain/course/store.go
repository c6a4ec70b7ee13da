package course

import (
	"context"
	"errors"
)

// ErrNotFound indicates a subject or lecture lookup matched no record.
// A chunk referencing a missing record is a data-integrity violation and
// must be surfaced, never skipped.
var ErrNotFound = errors.New("course: record not found")

// SubjectStore persists subjects.
type SubjectStore interface {
	// All returns every subject.
	All(ctx context.Context) ([]Subject, error)

	// ByID returns the subject with the given ID, or ErrNotFound.
	ByID(ctx context.Context, id string) (Subject, error)

	// ByTitle returns the subject with the given title, or ErrNotFound.
	ByTitle(ctx context.Context, title string) (Subject, error)

	// Insert stores a new subject and returns it with its assigned ID.
	Insert(ctx context.Context, title string) (Subject, error)

	// AppendLecture records a lecture ID on the subject's ordered list.
	AppendLecture(ctx context.Context, subjectID, lectureID string) error
}

// LectureStore persists lectures.
type LectureStore interface {
	// ByID returns the lecture with the given ID, or ErrNotFound.
	ByID(ctx context.Context, id string) (Lecture, error)

	// Insert stores a new lecture and returns it with its assigned ID.
	Insert(ctx context.Context, index int, title, subjectID, content string) (Lecture, error)
}

// ChunkStore persists lecture chunks for vector retrieval.
type ChunkStore interface {
	// InsertAll stores a batch of chunks.
	InsertAll(ctx context.Context, chunks []Chunk) error
}
