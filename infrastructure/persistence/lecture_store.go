package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AbokiLearn/segun/domain/course"
)

// LectureStore is the MongoDB implementation of course.LectureStore.
type LectureStore struct {
	db *DB
}

// NewLectureStore creates a new LectureStore.
func NewLectureStore(db *DB) *LectureStore {
	return &LectureStore{db: db}
}

// ByID returns the lecture with the given ID, or course.ErrNotFound.
func (s *LectureStore) ByID(ctx context.Context, id string) (course.Lecture, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return course.Lecture{}, course.ErrNotFound
	}

	opCtx, cancel := s.db.opCtx(ctx)
	defer cancel()

	var record lectureRecord
	err = s.db.database.Collection(lecturesCollection).
		FindOne(opCtx, bson.D{{Key: "_id", Value: oid}}).
		Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return course.Lecture{}, course.ErrNotFound
	}
	if err != nil {
		return course.Lecture{}, fmt.Errorf("find lecture %s: %w", id, err)
	}
	return record.toDomain(), nil
}

// Insert stores a new lecture.
func (s *LectureStore) Insert(ctx context.Context, index int, title, subjectID, content string) (course.Lecture, error) {
	subjectOID, err := parseObjectID(subjectID)
	if err != nil {
		return course.Lecture{}, fmt.Errorf("insert lecture: %w", err)
	}

	opCtx, cancel := s.db.opCtx(ctx)
	defer cancel()

	record := lectureRecord{
		ID:        primitive.NewObjectID(),
		Index:     index,
		Title:     title,
		SubjectID: subjectOID,
		Content:   content,
	}
	if _, err := s.db.database.Collection(lecturesCollection).InsertOne(opCtx, record); err != nil {
		return course.Lecture{}, fmt.Errorf("insert lecture %q: %w", title, err)
	}
	return record.toDomain(), nil
}

var _ course.LectureStore = (*LectureStore)(nil)
