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

// SubjectStore is the MongoDB implementation of course.SubjectStore.
type SubjectStore struct {
	db *DB
}

// NewSubjectStore creates a new SubjectStore.
func NewSubjectStore(db *DB) *SubjectStore {
	return &SubjectStore{db: db}
}

// All returns every subject.
func (s *SubjectStore) All(ctx context.Context) ([]course.Subject, error) {
	opCtx, cancel := s.db.opCtx(ctx)
	defer cancel()

	cursor, err := s.db.database.Collection(subjectsCollection).Find(opCtx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer cursor.Close(opCtx)

	var records []subjectRecord
	if err := cursor.All(opCtx, &records); err != nil {
		return nil, fmt.Errorf("decode subjects: %w", err)
	}

	subjects := make([]course.Subject, len(records))
	for i, r := range records {
		subjects[i] = r.toDomain()
	}
	return subjects, nil
}

// ByID returns the subject with the given ID, or course.ErrNotFound.
func (s *SubjectStore) ByID(ctx context.Context, id string) (course.Subject, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return course.Subject{}, course.ErrNotFound
	}

	opCtx, cancel := s.db.opCtx(ctx)
	defer cancel()

	var record subjectRecord
	err = s.db.database.Collection(subjectsCollection).
		FindOne(opCtx, bson.D{{Key: "_id", Value: oid}}).
		Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return course.Subject{}, course.ErrNotFound
	}
	if err != nil {
		return course.Subject{}, fmt.Errorf("find subject %s: %w", id, err)
	}
	return record.toDomain(), nil
}

// ByTitle returns the subject with the given title, or course.ErrNotFound.
func (s *SubjectStore) ByTitle(ctx context.Context, title string) (course.Subject, error) {
	opCtx, cancel := s.db.opCtx(ctx)
	defer cancel()

	var record subjectRecord
	err := s.db.database.Collection(subjectsCollection).
		FindOne(opCtx, bson.D{{Key: "title", Value: title}}).
		Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return course.Subject{}, course.ErrNotFound
	}
	if err != nil {
		return course.Subject{}, fmt.Errorf("find subject by title %q: %w", title, err)
	}
	return record.toDomain(), nil
}

// Insert stores a new subject with an empty lecture list.
func (s *SubjectStore) Insert(ctx context.Context, title string) (course.Subject, error) {
	opCtx, cancel := s.db.opCtx(ctx)
	defer cancel()

	record := subjectRecord{
		ID:       primitive.NewObjectID(),
		Title:    title,
		Lectures: []primitive.ObjectID{},
	}
	if _, err := s.db.database.Collection(subjectsCollection).InsertOne(opCtx, record); err != nil {
		return course.Subject{}, fmt.Errorf("insert subject %q: %w", title, err)
	}
	return record.toDomain(), nil
}

// AppendLecture records a lecture ID on the subject's ordered list.
func (s *SubjectStore) AppendLecture(ctx context.Context, subjectID, lectureID string) error {
	subjectOID, err := parseObjectID(subjectID)
	if err != nil {
		return course.ErrNotFound
	}
	lectureOID, err := parseObjectID(lectureID)
	if err != nil {
		return fmt.Errorf("append lecture: %w", err)
	}

	opCtx, cancel := s.db.opCtx(ctx)
	defer cancel()

	result, err := s.db.database.Collection(subjectsCollection).UpdateOne(opCtx,
		bson.D{{Key: "_id", Value: subjectOID}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "lectures", Value: lectureOID}}}})
	if err != nil {
		return fmt.Errorf("append lecture %s to subject %s: %w", lectureID, subjectID, err)
	}
	if result.MatchedCount == 0 {
		return course.ErrNotFound
	}
	return nil
}

var _ course.SubjectStore = (*SubjectStore)(nil)
