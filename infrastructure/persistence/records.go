package persistence

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AbokiLearn/segun/domain/course"
	"github.com/AbokiLearn/segun/domain/search"
)

// subjectRecord is the BSON shape of a subjects document.
type subjectRecord struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty"`
	Title    string               `bson:"title"`
	Lectures []primitive.ObjectID `bson:"lectures"`
}

// lectureRecord is the BSON shape of a lectures document.
type lectureRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Index     int                `bson:"idx"`
	Title     string             `bson:"title"`
	SubjectID primitive.ObjectID `bson:"subject_id"`
	Content   string             `bson:"content"`
}

// chunkRecord is the BSON shape of a lecture_chunks document. The subject and
// lecture references are stored as hex strings so the vector index filter can
// match them with string equality.
type chunkRecord struct {
	SubjectID string    `bson:"subject_id"`
	LectureID string    `bson:"lecture_id"`
	Chunk     string    `bson:"chunk"`
	Embedding []float64 `bson:"embedding"`
}

// hitRecord is the projected shape produced by the retrieval pipeline.
type hitRecord struct {
	SubjectID string  `bson:"subject_id"`
	LectureID string  `bson:"lecture_id"`
	Chunk     string  `bson:"chunk"`
	Score     float64 `bson:"score"`
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid object id %q: %w", id, err)
	}
	return oid, nil
}

func (r subjectRecord) toDomain() course.Subject {
	lectureIDs := make([]string, len(r.Lectures))
	for i, id := range r.Lectures {
		lectureIDs[i] = id.Hex()
	}
	return course.NewSubject(r.ID.Hex(), r.Title, lectureIDs)
}

func (r lectureRecord) toDomain() course.Lecture {
	return course.NewLecture(r.ID.Hex(), r.Index, r.Title, r.SubjectID.Hex(), r.Content)
}

func chunkToRecord(c course.Chunk) chunkRecord {
	return chunkRecord{
		SubjectID: c.SubjectID(),
		LectureID: c.LectureID(),
		Chunk:     c.Text(),
		Embedding: c.Embedding(),
	}
}

func (r hitRecord) toDomain() search.Hit {
	return search.NewHit(r.SubjectID, r.LectureID, r.Chunk, r.Score)
}
