package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/AbokiLearn/segun/domain/course"
	"github.com/AbokiLearn/segun/domain/search"
	"github.com/AbokiLearn/segun/infrastructure/provider"
)

// fakeEmbedder returns a fixed vector for every text.
type fakeEmbedder struct {
	vector []float64
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = append([]float64(nil), f.vector...)
	}
	return out, nil
}

// fakeVectorStore returns scripted hits and records the spec it saw.
type fakeVectorStore struct {
	hits     []search.Hit
	err      error
	lastSpec search.Spec
}

func (f *fakeVectorStore) Search(_ context.Context, spec search.Spec) ([]search.Hit, error) {
	f.lastSpec = spec
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

// fakeSubjectStore is an in-memory subject store.
type fakeSubjectStore struct {
	byID      map[string]course.Subject
	byIDCalls int
	inserted  []string
}

func newFakeSubjectStore(subjects ...course.Subject) *fakeSubjectStore {
	s := &fakeSubjectStore{byID: make(map[string]course.Subject)}
	for _, subject := range subjects {
		s.byID[subject.ID()] = subject
	}
	return s
}

func (f *fakeSubjectStore) All(_ context.Context) ([]course.Subject, error) {
	out := make([]course.Subject, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSubjectStore) ByID(_ context.Context, id string) (course.Subject, error) {
	f.byIDCalls++
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return course.Subject{}, course.ErrNotFound
}

func (f *fakeSubjectStore) ByTitle(_ context.Context, title string) (course.Subject, error) {
	for _, s := range f.byID {
		if s.Title() == title {
			return s, nil
		}
	}
	return course.Subject{}, course.ErrNotFound
}

func (f *fakeSubjectStore) Insert(_ context.Context, title string) (course.Subject, error) {
	id := fmt.Sprintf("sub-%d", len(f.byID)+1)
	subject := course.NewSubject(id, title, nil)
	f.byID[id] = subject
	f.inserted = append(f.inserted, title)
	return subject, nil
}

func (f *fakeSubjectStore) AppendLecture(_ context.Context, subjectID, lectureID string) error {
	subject, ok := f.byID[subjectID]
	if !ok {
		return course.ErrNotFound
	}
	f.byID[subjectID] = course.NewSubject(subject.ID(), subject.Title(), append(subject.LectureIDs(), lectureID))
	return nil
}

// fakeLectureStore is an in-memory lecture store.
type fakeLectureStore struct {
	byID      map[string]course.Lecture
	byIDCalls int
}

func newFakeLectureStore(lectures ...course.Lecture) *fakeLectureStore {
	s := &fakeLectureStore{byID: make(map[string]course.Lecture)}
	for _, lecture := range lectures {
		s.byID[lecture.ID()] = lecture
	}
	return s
}

func (f *fakeLectureStore) ByID(_ context.Context, id string) (course.Lecture, error) {
	f.byIDCalls++
	if l, ok := f.byID[id]; ok {
		return l, nil
	}
	return course.Lecture{}, course.ErrNotFound
}

func (f *fakeLectureStore) Insert(_ context.Context, index int, title, subjectID, content string) (course.Lecture, error) {
	id := fmt.Sprintf("lec-%d", len(f.byID)+1)
	lecture := course.NewLecture(id, index, title, subjectID, content)
	f.byID[id] = lecture
	return lecture, nil
}

// fakeChunkStore records inserted chunks.
type fakeChunkStore struct {
	chunks []course.Chunk
}

func (f *fakeChunkStore) InsertAll(_ context.Context, chunks []course.Chunk) error {
	f.chunks = append(f.chunks, chunks...)
	return nil
}

// scriptedGenerator replays a fixed sequence of responses and errors.
type scriptedGenerator struct {
	responses []scriptedResponse
	calls     int
	prompts   []string
}

type scriptedResponse struct {
	content string
	err     error
}

func respond(content string) scriptedResponse {
	return scriptedResponse{content: content}
}

func fail(err error) scriptedResponse {
	return scriptedResponse{err: err}
}

func (g *scriptedGenerator) ChatCompletion(_ context.Context, req provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	var prompt strings.Builder
	for _, m := range req.Messages() {
		prompt.WriteString(m.Content())
		prompt.WriteString("\n")
	}
	g.prompts = append(g.prompts, prompt.String())

	if g.calls >= len(g.responses) {
		return provider.ChatCompletionResponse{}, fmt.Errorf("unexpected call %d", g.calls+1)
	}
	r := g.responses[g.calls]
	g.calls++
	if r.err != nil {
		return provider.ChatCompletionResponse{}, r.err
	}
	return provider.NewChatCompletionResponse(r.content, "stop"), nil
}

// fixedChunker splits on blank lines.
type fixedChunker struct{}

func (fixedChunker) Chunk(text string) ([]string, error) {
	var chunks []string
	for _, part := range strings.Split(text, "\n\n") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
	}
	return chunks, nil
}
