// Package search compiles vector search specifications into MongoDB Atlas
// aggregation pipelines.
package search

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AbokiLearn/segun/domain/search"
)

// Compile turns a Spec into an Atlas aggregation pipeline: a $vectorSearch
// stage returning the spec's candidate count of nearest neighbours truncated
// to top-k, followed by a $project stage that keeps the identifying fields
// and the chunk text, attaches the similarity score from the search
// metadata, and drops the row _id.
//
// Filter composition: with no filters the stage carries no filter clause;
// with exactly one of the subject or lecture filters set, the clause is a
// membership test on that field; with both set, the clause is the $or of
// the two membership tests. The OR widens: a chunk matches if it belongs to
// any named subject or any named lecture. Callers that pass both filters
// rely on that.
func Compile(spec search.Spec) mongo.Pipeline {
	vectorSearch := bson.D{
		{Key: "index", Value: spec.IndexName()},
		{Key: "path", Value: spec.VectorPath()},
		{Key: "queryVector", Value: spec.QueryVector()},
		{Key: "numCandidates", Value: spec.Candidates()},
		{Key: "limit", Value: spec.TopK()},
	}

	if filter := compileFilter(spec.SubjectFilter(), spec.LectureFilter()); filter != nil {
		vectorSearch = append(vectorSearch, bson.E{Key: "filter", Value: filter})
	}

	return mongo.Pipeline{
		bson.D{{Key: "$vectorSearch", Value: vectorSearch}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "subject_id", Value: 1},
			{Key: "lecture_id", Value: 1},
			{Key: "chunk", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}
}

func compileFilter(subjectIDs, lectureIDs []string) bson.D {
	var clauses []bson.D
	if len(subjectIDs) > 0 {
		clauses = append(clauses, bson.D{{Key: "subject_id", Value: bson.D{{Key: "$in", Value: subjectIDs}}}})
	}
	if len(lectureIDs) > 0 {
		clauses = append(clauses, bson.D{{Key: "lecture_id", Value: bson.D{{Key: "$in", Value: lectureIDs}}}})
	}

	switch len(clauses) {
	case 0:
		return nil
	case 1:
		return clauses[0]
	default:
		return bson.D{{Key: "$or", Value: bson.A{clauses[0], clauses[1]}}}
	}
}
