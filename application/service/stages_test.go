package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbokiLearn/segun/domain/course"
	"github.com/AbokiLearn/segun/domain/qa"
	"github.com/AbokiLearn/segun/domain/search"
)

func TestUnderstandParsesResponse(t *testing.T) {
	generator := &scriptedGenerator{responses: []scriptedResponse{
		respond(`{"reasoning": "student asks about promise chaining", "question": "How do JavaScript promises chain?"}`),
	}}
	stages := NewStages(generator, 2, nil)

	understood, err := stages.Understand(context.Background(), "promises how do they chain??")

	require.NoError(t, err)
	assert.Equal(t, "How do JavaScript promises chain?", understood.Question())
	assert.Equal(t, "student asks about promise chaining", understood.Reasoning())
	assert.Equal(t, 1, generator.calls)
}

func TestUnderstandToleratesCodeFence(t *testing.T) {
	generator := &scriptedGenerator{responses: []scriptedResponse{
		respond("```json\n{\"reasoning\": \"r\", \"question\": \"What is a closure?\"}\n```"),
	}}
	stages := NewStages(generator, 0, nil)

	understood, err := stages.Understand(context.Background(), "closures?")

	require.NoError(t, err)
	assert.Equal(t, "What is a closure?", understood.Question())
}

func TestUnderstandRetriesMalformedOutput(t *testing.T) {
	generator := &scriptedGenerator{responses: []scriptedResponse{
		respond(`not json at all`),
		respond(`{"reasoning": "r", "question": ""}`),
		respond(`{"reasoning": "r", "question": "What is hoisting?"}`),
	}}
	stages := NewStages(generator, 2, nil)

	understood, err := stages.Understand(context.Background(), "hoisting")

	require.NoError(t, err)
	assert.Equal(t, "What is hoisting?", understood.Question())
	assert.Equal(t, 3, generator.calls)
}

func TestUnderstandExhaustedRetriesReturnsGenerationError(t *testing.T) {
	generator := &scriptedGenerator{responses: []scriptedResponse{
		respond(`bad`),
		respond(`worse`),
		respond(`still bad`),
	}}
	stages := NewStages(generator, 2, nil)

	_, err := stages.Understand(context.Background(), "hi")

	var genErr *qa.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, StageUnderstand, genErr.Stage)
	assert.ErrorIs(t, err, qa.ErrMalformedOutput)
	assert.Equal(t, 3, generator.calls)
}

func TestStagesRetryTransientCallFailure(t *testing.T) {
	generator := &scriptedGenerator{responses: []scriptedResponse{
		fail(errors.New("connection reset")),
		respond(`{"reasoning": "r", "question": "What is the DOM?"}`),
	}}
	stages := NewStages(generator, 2, nil)

	understood, err := stages.Understand(context.Background(), "dom?")

	require.NoError(t, err)
	assert.Equal(t, "What is the DOM?", understood.Question())
}

func TestClassifyParsesSubjectList(t *testing.T) {
	generator := &scriptedGenerator{responses: []scriptedResponse{
		respond(`{"reasoning": "touches both", "subjects": ["Async", "Functions"]}`),
	}}
	stages := NewStages(generator, 2, nil)

	classification, err := stages.Classify(context.Background(), "How do async functions work?")

	require.NoError(t, err)
	assert.Equal(t, []course.SubjectLabel{course.LabelAsync, course.LabelFunctions}, classification.Subjects())
}

func TestClassifyNormalizesBareStringSubject(t *testing.T) {
	generator := &scriptedGenerator{responses: []scriptedResponse{
		respond(`{"reasoning": "single subject", "subjects": "Prototypes"}`),
	}}
	stages := NewStages(generator, 0, nil)

	classification, err := stages.Classify(context.Background(), "What is a prototype chain?")

	require.NoError(t, err)
	assert.Equal(t, []course.SubjectLabel{course.LabelPrototypes}, classification.Subjects())
}

func TestClassifyRejectsOffTaxonomyLabelThenRetries(t *testing.T) {
	generator := &scriptedGenerator{responses: []scriptedResponse{
		respond(`{"reasoning": "r", "subjects": ["Quantum computing"]}`),
		respond(`{"reasoning": "r", "subjects": ["Modules"]}`),
	}}
	stages := NewStages(generator, 2, nil)

	classification, err := stages.Classify(context.Background(), "How do imports work?")

	require.NoError(t, err)
	assert.Equal(t, []course.SubjectLabel{course.LabelModules}, classification.Subjects())
	assert.Equal(t, 2, generator.calls)
}

func TestClassifyRejectsEmptySubjectList(t *testing.T) {
	generator := &scriptedGenerator{responses: []scriptedResponse{
		respond(`{"reasoning": "r", "subjects": []}`),
	}}
	stages := NewStages(generator, 0, nil)

	_, err := stages.Classify(context.Background(), "hi")

	var genErr *qa.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, StageClassify, genErr.Stage)
}

func TestClassifyPromptListsFullTaxonomy(t *testing.T) {
	generator := &scriptedGenerator{responses: []scriptedResponse{
		respond(`{"reasoning": "r", "subjects": ["DOM"]}`),
	}}
	stages := NewStages(generator, 0, nil)

	_, err := stages.Classify(context.Background(), "How do I select an element?")

	require.NoError(t, err)
	require.Len(t, generator.prompts, 1)
	for _, label := range course.AllSubjectLabels() {
		assert.Contains(t, generator.prompts[0], label.String())
	}
}

func TestSynthesizeParsesAnswer(t *testing.T) {
	generator := &scriptedGenerator{responses: []scriptedResponse{
		respond(`{"reasoning": "excerpt 1 covers this", "answer": "A promise represents a future value.", "relevance": 5, "sources": ["Promises"]}`),
	}}
	stages := NewStages(generator, 2, nil)

	contexts := []search.RetrievedLecture{
		search.NewRetrievedLecture("Async", "sub-1", "Promises", "lec-1", "a promise is", 0.9),
	}
	answer, err := stages.Synthesize(context.Background(), "What is a promise?", contexts)

	require.NoError(t, err)
	assert.Equal(t, "A promise represents a future value.", answer.Text())
	assert.Equal(t, 5, answer.Relevance())
	assert.Equal(t, []string{"Promises"}, answer.Sources())
}

func TestSynthesizeRejectsRelevanceOutOfRange(t *testing.T) {
	generator := &scriptedGenerator{responses: []scriptedResponse{
		respond(`{"reasoning": "r", "answer": "text", "relevance": 9, "sources": []}`),
		respond(`{"reasoning": "r", "answer": "text", "relevance": 4, "sources": []}`),
	}}
	stages := NewStages(generator, 2, nil)

	answer, err := stages.Synthesize(context.Background(), "q", nil)

	require.NoError(t, err)
	assert.Equal(t, 4, answer.Relevance())
	assert.Equal(t, 2, generator.calls)
}

func TestSynthesizePromptIncludesExcerpts(t *testing.T) {
	generator := &scriptedGenerator{responses: []scriptedResponse{
		respond(`{"reasoning": "r", "answer": "a", "relevance": 3, "sources": []}`),
	}}
	stages := NewStages(generator, 0, nil)

	contexts := []search.RetrievedLecture{
		search.NewRetrievedLecture("Async", "sub-1", "Promises", "lec-1", "a promise is a placeholder", 0.9),
	}
	_, err := stages.Synthesize(context.Background(), "What is a promise?", contexts)

	require.NoError(t, err)
	require.Len(t, generator.prompts, 1)
	assert.Contains(t, generator.prompts[0], "Topic: Async")
	assert.Contains(t, generator.prompts[0], "Lecture: Promises")
	assert.Contains(t, generator.prompts[0], "a promise is a placeholder")
}
