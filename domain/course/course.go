// Package course provides the two-level course taxonomy: a Subject groups
// many Lectures, and each Lecture is split into embeddable chunks.
package course

// Subject represents a course topic grouping an ordered list of lectures.
type Subject struct {
	id         string
	title      string
	lectureIDs []string
}

// NewSubject creates a new Subject.
func NewSubject(id, title string, lectureIDs []string) Subject {
	ids := make([]string, len(lectureIDs))
	copy(ids, lectureIDs)
	return Subject{
		id:         id,
		title:      title,
		lectureIDs: ids,
	}
}

// ID returns the subject ID.
func (s Subject) ID() string { return s.id }

// Title returns the subject title. Titles are unique across subjects.
func (s Subject) Title() string { return s.title }

// LectureIDs returns the IDs of the subject's lectures in course order.
func (s Subject) LectureIDs() []string {
	ids := make([]string, len(s.lectureIDs))
	copy(ids, s.lectureIDs)
	return ids
}

// Lecture represents a single lecture owned by exactly one Subject.
type Lecture struct {
	id        string
	index     int
	title     string
	subjectID string
	content   string
}

// NewLecture creates a new Lecture.
func NewLecture(id string, index int, title, subjectID, content string) Lecture {
	return Lecture{
		id:        id,
		index:     index,
		title:     title,
		subjectID: subjectID,
		content:   content,
	}
}

// ID returns the lecture ID.
func (l Lecture) ID() string { return l.id }

// Index returns the lecture's position in the course.
func (l Lecture) Index() int { return l.index }

// Title returns the lecture title.
func (l Lecture) Title() string { return l.title }

// SubjectID returns the ID of the owning subject.
func (l Lecture) SubjectID() string { return l.subjectID }

// Content returns the lecture transcript or markdown.
func (l Lecture) Content() string { return l.content }

// Chunk represents a segment of lecture content small enough to embed and
// retrieve independently. It references its subject and lecture by ID only.
type Chunk struct {
	subjectID string
	lectureID string
	text      string
	embedding []float64
}

// NewChunk creates a new Chunk.
func NewChunk(subjectID, lectureID, text string, embedding []float64) Chunk {
	emb := make([]float64, len(embedding))
	copy(emb, embedding)
	return Chunk{
		subjectID: subjectID,
		lectureID: lectureID,
		text:      text,
		embedding: emb,
	}
}

// SubjectID returns the ID of the subject this chunk belongs to.
func (c Chunk) SubjectID() string { return c.subjectID }

// LectureID returns the ID of the lecture this chunk was cut from.
func (c Chunk) LectureID() string { return c.lectureID }

// Text returns the chunk text.
func (c Chunk) Text() string { return c.text }

// Embedding returns the chunk's embedding vector.
func (c Chunk) Embedding() []float64 {
	emb := make([]float64, len(c.embedding))
	copy(emb, c.embedding)
	return emb
}

// Dimension returns the embedding dimension.
func (c Chunk) Dimension() int { return len(c.embedding) }
