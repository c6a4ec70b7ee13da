// Package qa provides the question-answering domain: the intermediate
// products of the pipeline stages and the typed failures they surface.
package qa

import "github.com/AbokiLearn/segun/domain/course"

// UnderstoodQuestion is the output of the question understanding stage: the
// raw user text paraphrased into an explicit, well-formed question together
// with the model's reasoning trace.
type UnderstoodQuestion struct {
	reasoning string
	question  string
}

// NewUnderstoodQuestion creates a new UnderstoodQuestion.
func NewUnderstoodQuestion(reasoning, question string) UnderstoodQuestion {
	return UnderstoodQuestion{
		reasoning: reasoning,
		question:  question,
	}
}

// Reasoning returns the model's interpretation trace.
func (u UnderstoodQuestion) Reasoning() string { return u.reasoning }

// Question returns the explicit question.
func (u UnderstoodQuestion) Question() string { return u.question }

// Classification is the output of the subject classification stage: a
// non-empty set of labels drawn from the closed taxonomy.
type Classification struct {
	subjects []course.SubjectLabel
}

// NewClassification creates a new Classification.
func NewClassification(subjects []course.SubjectLabel) Classification {
	labels := make([]course.SubjectLabel, len(subjects))
	copy(labels, subjects)
	return Classification{subjects: labels}
}

// Subjects returns the classified labels.
func (c Classification) Subjects() []course.SubjectLabel {
	labels := make([]course.SubjectLabel, len(c.subjects))
	copy(labels, c.subjects)
	return labels
}

// Answer is the output of the synthesis stage.
type Answer struct {
	reasoning string
	text      string
	relevance int
	sources   []string
}

// NewAnswer creates a new Answer. Relevance is the model's self-reported
// 1-5 score and is informational, not enforced.
func NewAnswer(reasoning, text string, relevance int, sources []string) Answer {
	src := make([]string, len(sources))
	copy(src, sources)
	return Answer{
		reasoning: reasoning,
		text:      text,
		relevance: relevance,
		sources:   src,
	}
}

// Reasoning returns the model's reasoning trace.
func (a Answer) Reasoning() string { return a.reasoning }

// Text returns the answer body.
func (a Answer) Text() string { return a.text }

// Relevance returns the self-reported relevance score.
func (a Answer) Relevance() int { return a.relevance }

// Sources returns the lecture titles the model cited.
func (a Answer) Sources() []string {
	src := make([]string, len(a.sources))
	copy(src, a.sources)
	return src
}
