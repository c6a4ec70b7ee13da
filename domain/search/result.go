package search

import (
	"context"
	"fmt"
)

// Hit is a raw similarity-search result before hydration. It carries the
// subject and lecture references by ID only.
type Hit struct {
	subjectID string
	lectureID string
	chunk     string
	score     float64
}

// NewHit creates a new Hit.
func NewHit(subjectID, lectureID, chunk string, score float64) Hit {
	return Hit{
		subjectID: subjectID,
		lectureID: lectureID,
		chunk:     chunk,
		score:     score,
	}
}

// SubjectID returns the referenced subject ID.
func (h Hit) SubjectID() string { return h.subjectID }

// LectureID returns the referenced lecture ID.
func (h Hit) LectureID() string { return h.lectureID }

// Chunk returns the matched chunk text.
func (h Hit) Chunk() string { return h.chunk }

// Score returns the similarity score.
func (h Hit) Score() float64 { return h.score }

// RetrievedLecture is a hydrated search result: the hit's subject and
// lecture references resolved to their titles. This is the unit of context
// handed to answer synthesis.
type RetrievedLecture struct {
	subject   string
	subjectID string
	lecture   string
	lectureID string
	chunk     string
	score     float64
}

// NewRetrievedLecture creates a new RetrievedLecture.
func NewRetrievedLecture(subject, subjectID, lecture, lectureID, chunk string, score float64) RetrievedLecture {
	return RetrievedLecture{
		subject:   subject,
		subjectID: subjectID,
		lecture:   lecture,
		lectureID: lectureID,
		chunk:     chunk,
		score:     score,
	}
}

// Subject returns the subject title.
func (r RetrievedLecture) Subject() string { return r.subject }

// SubjectID returns the subject ID.
func (r RetrievedLecture) SubjectID() string { return r.subjectID }

// Lecture returns the lecture title.
func (r RetrievedLecture) Lecture() string { return r.lecture }

// LectureID returns the lecture ID.
func (r RetrievedLecture) LectureID() string { return r.lectureID }

// Chunk returns the chunk text.
func (r RetrievedLecture) Chunk() string { return r.chunk }

// Score returns the similarity score.
func (r RetrievedLecture) Score() float64 { return r.score }

// String renders the result as a context document for the synthesis prompt.
func (r RetrievedLecture) String() string {
	return fmt.Sprintf("Topic: %s\nLecture: %s\n\n%s", r.subject, r.lecture, r.chunk)
}

// VectorStore executes a compiled similarity search against the chunk
// collection. Hits come back in descending score order as ranked by the
// underlying index; callers must not re-sort.
type VectorStore interface {
	Search(ctx context.Context, spec Spec) ([]Hit, error)
}
