package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/AbokiLearn/segun/domain/course"
	"github.com/AbokiLearn/segun/domain/search"
	"github.com/AbokiLearn/segun/internal/log"
)

// Chunker splits lecture content into embeddable chunks.
type Chunker interface {
	Chunk(text string) ([]string, error)
}

// lectureFilePattern matches seed lecture filenames of the form
// "NN-[subject-slug]-lecture-title.md", e.g. "07-[async]-promise-chaining.md".
var lectureFilePattern = regexp.MustCompile(`^(\d+)-\[([a-z0-9-]+)\]-(.+)\.md$`)

// LectureFile is a parsed seed filename.
type LectureFile struct {
	Index   int
	Subject course.SubjectLabel
	Title   string
}

// ParseLectureFilename parses a seed lecture filename into its index,
// subject label, and human-readable title.
func ParseLectureFilename(name string) (LectureFile, error) {
	base := filepath.Base(name)
	matches := lectureFilePattern.FindStringSubmatch(base)
	if matches == nil {
		return LectureFile{}, fmt.Errorf("filename %q does not match NN-[subject-slug]-title.md", base)
	}

	index, err := strconv.Atoi(matches[1])
	if err != nil {
		return LectureFile{}, fmt.Errorf("filename %q: bad index: %w", base, err)
	}

	label, err := labelFromSlug(matches[2])
	if err != nil {
		return LectureFile{}, fmt.Errorf("filename %q: %w", base, err)
	}

	title := strings.ReplaceAll(matches[3], "-", " ")
	title = strings.ToUpper(title[:1]) + title[1:]

	return LectureFile{Index: index, Subject: label, Title: title}, nil
}

// labelFromSlug resolves a filename slug ("objects-and-arrays") back to its
// taxonomy label ("Objects and arrays").
func labelFromSlug(slug string) (course.SubjectLabel, error) {
	for _, label := range course.AllSubjectLabels() {
		candidate := strings.ReplaceAll(strings.ToLower(label.String()), " ", "-")
		if candidate == slug {
			return label, nil
		}
	}
	return "", fmt.Errorf("subject slug %q is not in the taxonomy", slug)
}

// IngestReport summarizes one ingested lecture.
type IngestReport struct {
	Lecture course.Lecture
	Chunks  int
}

// Ingestor seeds the course collections: it files lectures under their
// subjects and writes embedded chunks into the vector collection.
type Ingestor struct {
	subjects course.SubjectStore
	lectures course.LectureStore
	chunks   course.ChunkStore
	embedder search.Embedder
	chunker  Chunker
	logger   *log.Logger
}

// NewIngestor creates a new Ingestor.
func NewIngestor(
	subjects course.SubjectStore,
	lectures course.LectureStore,
	chunks course.ChunkStore,
	embedder search.Embedder,
	chunker Chunker,
	logger *log.Logger,
) *Ingestor {
	if logger == nil {
		logger = log.Default()
	}
	return &Ingestor{
		subjects: subjects,
		lectures: lectures,
		chunks:   chunks,
		embedder: embedder,
		chunker:  chunker,
		logger:   logger,
	}
}

// EnsureSubjects inserts a subject for every taxonomy label that does not
// exist yet, so the label-to-subject mapping holds before any question runs.
func (s *Ingestor) EnsureSubjects(ctx context.Context) error {
	for _, label := range course.AllSubjectLabels() {
		_, err := s.subjects.ByTitle(ctx, label.String())
		if err == nil {
			continue
		}
		if !errors.Is(err, course.ErrNotFound) {
			return fmt.Errorf("check subject %q: %w", label, err)
		}
		if _, err := s.subjects.Insert(ctx, label.String()); err != nil {
			return fmt.Errorf("insert subject %q: %w", label, err)
		}
		s.logger.Info("subject created", "title", label.String())
	}
	return nil
}

// IngestLecture stores one lecture and its embedded chunks. The filename
// decides the owning subject and the lecture's course position.
func (s *Ingestor) IngestLecture(ctx context.Context, filename, content string) (IngestReport, error) {
	file, err := ParseLectureFilename(filename)
	if err != nil {
		return IngestReport{}, err
	}

	subject, err := s.subjects.ByTitle(ctx, file.Subject.String())
	if err != nil {
		return IngestReport{}, fmt.Errorf("subject %q: %w", file.Subject, err)
	}

	lecture, err := s.lectures.Insert(ctx, file.Index, file.Title, subject.ID(), content)
	if err != nil {
		return IngestReport{}, fmt.Errorf("insert lecture %q: %w", file.Title, err)
	}
	if err := s.subjects.AppendLecture(ctx, subject.ID(), lecture.ID()); err != nil {
		return IngestReport{}, fmt.Errorf("file lecture under subject: %w", err)
	}

	texts, err := s.chunker.Chunk(content)
	if err != nil {
		return IngestReport{}, fmt.Errorf("chunk lecture %q: %w", file.Title, err)
	}
	if len(texts) == 0 {
		s.logger.Warn("lecture produced no chunks", "lecture", file.Title)
		return IngestReport{Lecture: lecture}, nil
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return IngestReport{}, fmt.Errorf("embed lecture %q: %w", file.Title, err)
	}

	chunks := make([]course.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = course.NewChunk(subject.ID(), lecture.ID(), text, vectors[i])
	}
	if err := s.chunks.InsertAll(ctx, chunks); err != nil {
		return IngestReport{}, fmt.Errorf("store chunks for %q: %w", file.Title, err)
	}

	s.logger.Info("lecture ingested",
		"lecture", file.Title, "subject", file.Subject.String(), "chunks", len(chunks))

	return IngestReport{Lecture: lecture, Chunks: len(chunks)}, nil
}
