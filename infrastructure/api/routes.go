package api

import (
	"github.com/go-chi/chi/v5"

	v1 "github.com/AbokiLearn/segun/infrastructure/api/v1"
	"github.com/AbokiLearn/segun/internal/log"
)

// MountV1 registers the version 1 API routes.
func (s *Server) MountV1(answerer v1.QuestionAnswerer, logger *log.Logger) {
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Mount("/questions", v1.NewQuestionsRouter(answerer, logger).Routes())
	})
}
