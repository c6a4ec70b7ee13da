package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AbokiLearn/segun/domain/course"
	"github.com/AbokiLearn/segun/domain/qa"
	"github.com/AbokiLearn/segun/domain/search"
	"github.com/AbokiLearn/segun/infrastructure/provider"
	"github.com/AbokiLearn/segun/internal/log"
)

// DefaultStageRetries is how many times a stage re-asks the model after a
// failed attempt before giving up.
const DefaultStageRetries = 2

// Stage names used in GenerationError and logs.
const (
	StageUnderstand = "understand"
	StageClassify   = "classify"
	StageSynthesize = "synthesize"
)

// Stages runs the three LLM calls of the pipeline. All calls go through the
// same TextGenerator, which the caller wraps with the shared limiter so the
// stages compete for the same concurrency budget.
type Stages struct {
	generator  provider.TextGenerator
	maxRetries int
	logger     *log.Logger
}

// NewStages creates a new Stages service. maxRetries < 0 selects the default.
func NewStages(generator provider.TextGenerator, maxRetries int, logger *log.Logger) *Stages {
	if maxRetries < 0 {
		maxRetries = DefaultStageRetries
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Stages{
		generator:  generator,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Understand paraphrases a raw student message into an explicit question.
func (s *Stages) Understand(ctx context.Context, raw string) (qa.UnderstoodQuestion, error) {
	var payload struct {
		Reasoning string `json:"reasoning"`
		Question  string `json:"question"`
	}

	err := s.generate(ctx, StageUnderstand, understandSystemPrompt, raw, func(content string) error {
		if err := unmarshalModelJSON(content, &payload); err != nil {
			return err
		}
		if strings.TrimSpace(payload.Question) == "" {
			return fmt.Errorf("%w: empty question", qa.ErrMalformedOutput)
		}
		return nil
	})
	if err != nil {
		return qa.UnderstoodQuestion{}, err
	}
	return qa.NewUnderstoodQuestion(payload.Reasoning, payload.Question), nil
}

// Classify assigns the question one or more subjects from the taxonomy.
func (s *Stages) Classify(ctx context.Context, question string) (qa.Classification, error) {
	var labels []course.SubjectLabel

	err := s.generate(ctx, StageClassify, classifySystemPrompt(), question, func(content string) error {
		var payload struct {
			Reasoning string          `json:"reasoning"`
			Subjects  json.RawMessage `json:"subjects"`
		}
		if err := unmarshalModelJSON(content, &payload); err != nil {
			return err
		}

		raw, err := decodeSubjectList(payload.Subjects)
		if err != nil {
			return err
		}
		if len(raw) == 0 {
			return fmt.Errorf("%w: empty subject list", qa.ErrMalformedOutput)
		}

		parsed := make([]course.SubjectLabel, 0, len(raw))
		for _, name := range raw {
			label, err := course.ParseSubjectLabel(name)
			if err != nil {
				return fmt.Errorf("%w: %v", qa.ErrMalformedOutput, err)
			}
			parsed = append(parsed, label)
		}
		labels = parsed
		return nil
	})
	if err != nil {
		return qa.Classification{}, err
	}
	return qa.NewClassification(labels), nil
}

// Synthesize answers the question from the retrieved lecture excerpts.
func (s *Stages) Synthesize(ctx context.Context, question string, contexts []search.RetrievedLecture) (qa.Answer, error) {
	var payload struct {
		Reasoning string   `json:"reasoning"`
		Answer    string   `json:"answer"`
		Relevance int      `json:"relevance"`
		Sources   []string `json:"sources"`
	}

	userPrompt := synthesizeUserPrompt(question, contexts)
	err := s.generate(ctx, StageSynthesize, synthesizeSystemPrompt, userPrompt, func(content string) error {
		if err := unmarshalModelJSON(content, &payload); err != nil {
			return err
		}
		if strings.TrimSpace(payload.Answer) == "" {
			return fmt.Errorf("%w: empty answer", qa.ErrMalformedOutput)
		}
		if payload.Relevance < 1 || payload.Relevance > 5 {
			return fmt.Errorf("%w: relevance %d out of range", qa.ErrMalformedOutput, payload.Relevance)
		}
		return nil
	})
	if err != nil {
		return qa.Answer{}, err
	}
	return qa.NewAnswer(payload.Reasoning, payload.Answer, payload.Relevance, payload.Sources), nil
}

// generate runs one stage with bounded retries. Every attempt re-sends the
// same prompt; a failed parse is not fed back to the model.
func (s *Stages) generate(ctx context.Context, stage, systemPrompt, userPrompt string, validate func(content string) error) error {
	req := provider.NewChatCompletionRequest([]provider.Message{
		provider.SystemMessage(systemPrompt),
		provider.UserMessage(userPrompt),
	}).WithJSONOutput()

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return &qa.GenerationError{Stage: stage, Err: err}
		}

		resp, err := s.generator.ChatCompletion(ctx, req)
		if err != nil {
			lastErr = err
			s.logger.WarnContext(ctx, "stage call failed",
				"stage", stage, "attempt", attempt+1, "error", err)
			continue
		}

		if err := validate(resp.Content()); err != nil {
			lastErr = err
			s.logger.WarnContext(ctx, "stage output rejected",
				"stage", stage, "attempt", attempt+1, "error", err)
			continue
		}

		return nil
	}

	return &qa.GenerationError{Stage: stage, Err: lastErr}
}

// unmarshalModelJSON parses a model response as JSON, tolerating markdown
// code fences around the object.
func unmarshalModelJSON(content string, v any) error {
	text := extractJSON(content)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("%w: %v", qa.ErrMalformedOutput, err)
	}
	return nil
}

// extractJSON strips a leading/trailing markdown code fence if present and
// trims to the outermost JSON object.
func extractJSON(content string) string {
	text := strings.TrimSpace(content)

	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx != -1 {
			text = text[idx+1:]
		}
		if idx := strings.LastIndex(text, "```"); idx != -1 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}
	return text
}

// decodeSubjectList accepts either a JSON array of strings or a bare string,
// which some models emit for single-subject questions.
func decodeSubjectList(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: missing subjects field", qa.ErrMalformedOutput)
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}

	return nil, fmt.Errorf("%w: subjects is neither a list nor a string", qa.ErrMalformedOutput)
}
