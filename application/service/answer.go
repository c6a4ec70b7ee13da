package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/AbokiLearn/segun/domain/course"
	"github.com/AbokiLearn/segun/domain/qa"
	"github.com/AbokiLearn/segun/domain/search"
	"github.com/AbokiLearn/segun/internal/log"
)

// AnswerConfig holds the orchestrator's retrieval parameters.
type AnswerConfig struct {
	TopK       int
	Candidates int
}

// Result is the outcome of a fully answered question.
type Result struct {
	understood qa.UnderstoodQuestion
	subjects   []course.SubjectLabel
	retrieved  []search.RetrievedLecture
	answer     qa.Answer
}

// Understood returns the paraphrased question.
func (r Result) Understood() qa.UnderstoodQuestion { return r.understood }

// Subjects returns the classified subject labels.
func (r Result) Subjects() []course.SubjectLabel {
	labels := make([]course.SubjectLabel, len(r.subjects))
	copy(labels, r.subjects)
	return labels
}

// Retrieved returns the hydrated retrieval results in index order.
func (r Result) Retrieved() []search.RetrievedLecture {
	results := make([]search.RetrievedLecture, len(r.retrieved))
	copy(results, r.retrieved)
	return results
}

// Answer returns the synthesized answer.
func (r Result) Answer() qa.Answer { return r.answer }

// Formatted renders the answer for delivery: the answer body followed by a
// bulleted list of the cited lecture titles, deduplicated in citation order.
func (r Result) Formatted() string {
	sources := r.answer.Sources()
	if len(sources) == 0 {
		return r.answer.Text()
	}

	var b strings.Builder
	b.WriteString(r.answer.Text())
	b.WriteString("\n")

	seen := make(map[string]bool, len(sources))
	for _, source := range sources {
		if seen[source] {
			continue
		}
		seen[source] = true
		b.WriteString("\n- ")
		b.WriteString(source)
	}
	return b.String()
}

// Answerer runs the question-answering pipeline end to end: understand,
// classify, retrieve, synthesize. The stages run strictly in sequence; each
// consumes the validated output of the one before it.
type Answerer struct {
	stages    *Stages
	retriever *Retriever
	cfg       AnswerConfig
	// subjectIDs maps every taxonomy label to its persisted subject ID.
	// Resolved once at construction; a label without a subject is a deploy
	// error, not a per-request one.
	subjectIDs map[course.SubjectLabel]string
	logger     *log.Logger
}

// NewAnswerer creates an Answerer. It resolves the taxonomy against the
// subject store and fails with a ConfigurationError when any label has no
// persisted subject.
func NewAnswerer(
	ctx context.Context,
	stages *Stages,
	retriever *Retriever,
	subjects course.SubjectStore,
	cfg AnswerConfig,
	logger *log.Logger,
) (*Answerer, error) {
	if cfg.TopK <= 0 {
		cfg.TopK = search.DefaultTopK
	}
	if cfg.Candidates <= 0 {
		cfg.Candidates = search.DefaultCandidates
	}
	if logger == nil {
		logger = log.Default()
	}

	subjectIDs := make(map[course.SubjectLabel]string)
	for _, label := range course.AllSubjectLabels() {
		subject, err := subjects.ByTitle(ctx, label.String())
		if err != nil {
			return nil, &qa.ConfigurationError{Label: label.String()}
		}
		subjectIDs[label] = subject.ID()
	}

	return &Answerer{
		stages:     stages,
		retriever:  retriever,
		cfg:        cfg,
		subjectIDs: subjectIDs,
		logger:     logger,
	}, nil
}

// Ask answers a raw student message.
func (a *Answerer) Ask(ctx context.Context, raw string) (Result, error) {
	understood, err := a.stages.Understand(ctx, raw)
	if err != nil {
		return Result{}, err
	}
	a.logger.InfoContext(ctx, "question understood", "question", understood.Question())

	classification, err := a.stages.Classify(ctx, understood.Question())
	if err != nil {
		return Result{}, err
	}
	a.logger.InfoContext(ctx, "question classified", "subjects", labelStrings(classification.Subjects()))

	subjectFilter := make([]string, 0, len(classification.Subjects()))
	for _, label := range classification.Subjects() {
		id, ok := a.subjectIDs[label]
		if !ok {
			return Result{}, &qa.ConfigurationError{Label: label.String()}
		}
		subjectFilter = append(subjectFilter, id)
	}

	query := search.NewQuery(understood.Question(),
		search.WithTopK(a.cfg.TopK),
		search.WithCandidates(a.cfg.Candidates),
		search.WithSubjects(subjectFilter))

	retrieved, err := a.retriever.Retrieve(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("retrieve context: %w", err)
	}
	if len(retrieved) == 0 {
		a.logger.WarnContext(ctx, "no lecture context retrieved", "question", understood.Question())
	}

	answer, err := a.stages.Synthesize(ctx, understood.Question(), retrieved)
	if err != nil {
		return Result{}, err
	}

	a.checkSources(ctx, answer, retrieved)

	return Result{
		understood: understood,
		subjects:   classification.Subjects(),
		retrieved:  retrieved,
		answer:     answer,
	}, nil
}

// checkSources logs any cited source that does not match a retrieved lecture
// title. Citations are advisory; a mismatch is worth a log line, not a
// failed request.
func (a *Answerer) checkSources(ctx context.Context, answer qa.Answer, retrieved []search.RetrievedLecture) {
	titles := make(map[string]bool, len(retrieved))
	for _, r := range retrieved {
		titles[r.Lecture()] = true
	}
	for _, source := range answer.Sources() {
		if !titles[source] {
			a.logger.WarnContext(ctx, "cited source not among retrieved lectures", "source", source)
		}
	}
}

func labelStrings(labels []course.SubjectLabel) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = l.String()
	}
	return out
}
