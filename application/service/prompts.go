package service

import (
	"fmt"
	"strings"

	"github.com/AbokiLearn/segun/domain/course"
	"github.com/AbokiLearn/segun/domain/search"
)

const understandSystemPrompt = `You are a teaching assistant for an introductory JavaScript course.
A student has sent a message that may be vague, informal, or missing context.
Rewrite it as one explicit, well-formed question about JavaScript that the
student most plausibly means to ask.

Respond with a JSON object:
{"reasoning": "<how you interpreted the message>", "question": "<the explicit question>"}`

const classifySystemPromptTemplate = `You are a teaching assistant for an introductory JavaScript course.
Classify the student's question into one or more subjects from this exact list:

%s

Use only subjects from the list, spelled exactly as shown. Pick every subject
the question touches.

Respond with a JSON object:
{"reasoning": "<why these subjects>", "subjects": ["<subject>", ...]}`

const synthesizeSystemPrompt = `You are a teaching assistant for an introductory JavaScript course.
Answer the student's question using only the lecture excerpts provided.
If the excerpts do not cover the question, say so rather than inventing an
answer. Keep the tone friendly and the answer focused.

Rate how relevant the excerpts were to the question on a scale of 1 (not
relevant) to 5 (directly on point). List the titles of the lectures you
actually drew on.

Respond with a JSON object:
{"reasoning": "<how the excerpts answer the question>", "answer": "<the answer>", "relevance": <1-5>, "sources": ["<lecture title>", ...]}`

// classifySystemPrompt renders the classification prompt with the taxonomy.
func classifySystemPrompt() string {
	labels := course.AllSubjectLabels()
	lines := make([]string, len(labels))
	for i, label := range labels {
		lines[i] = "- " + label.String()
	}
	return fmt.Sprintf(classifySystemPromptTemplate, strings.Join(lines, "\n"))
}

// synthesizeUserPrompt renders the question together with its retrieved
// lecture excerpts.
func synthesizeUserPrompt(question string, contexts []search.RetrievedLecture) string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\nLecture excerpts:\n")
	for i, c := range contexts {
		fmt.Fprintf(&b, "\n--- Excerpt %d ---\n%s\n", i+1, c.String())
	}
	return b.String()
}
