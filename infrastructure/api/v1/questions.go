// Package v1 provides the version 1 REST endpoints.
package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AbokiLearn/segun/application/service"
	"github.com/AbokiLearn/segun/infrastructure/api/middleware"
	"github.com/AbokiLearn/segun/internal/log"
)

// QuestionAnswerer runs the full question-answering pipeline.
type QuestionAnswerer interface {
	Ask(ctx context.Context, raw string) (service.Result, error)
}

// QuestionRequest is the POST /api/v1/questions body.
type QuestionRequest struct {
	Question string `json:"question"`
}

// QuestionResponse is the answer payload.
type QuestionResponse struct {
	Question  string   `json:"question"`
	Answer    string   `json:"answer"`
	Subjects  []string `json:"subjects"`
	Sources   []string `json:"sources"`
	Relevance int      `json:"relevance"`
}

// QuestionsRouter handles question-answering endpoints.
type QuestionsRouter struct {
	answerer QuestionAnswerer
	logger   *log.Logger
}

// NewQuestionsRouter creates a new QuestionsRouter.
func NewQuestionsRouter(answerer QuestionAnswerer, logger *log.Logger) *QuestionsRouter {
	if logger == nil {
		logger = log.Default()
	}
	return &QuestionsRouter{answerer: answerer, logger: logger}
}

// Routes returns the chi router for question endpoints.
func (r *QuestionsRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", r.Answer)
	return router
}

// Answer handles POST /api/v1/questions.
func (r *QuestionsRouter) Answer(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body QuestionRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req,
			middleware.NewStatusError(http.StatusBadRequest, "request body must be JSON", err), r.logger)
		return
	}
	if strings.TrimSpace(body.Question) == "" {
		middleware.WriteError(w, req,
			middleware.NewStatusError(http.StatusBadRequest, "question is required", nil), r.logger)
		return
	}

	result, err := r.answerer.Ask(ctx, body.Question)
	if err != nil {
		middleware.WriteError(w, req,
			middleware.NewStatusError(http.StatusInternalServerError, service.UserFacingMessage, err), r.logger)
		return
	}

	subjects := make([]string, 0, len(result.Subjects()))
	for _, label := range result.Subjects() {
		subjects = append(subjects, label.String())
	}

	middleware.WriteJSON(w, http.StatusOK, QuestionResponse{
		Question:  result.Understood().Question(),
		Answer:    result.Formatted(),
		Subjects:  subjects,
		Sources:   result.Answer().Sources(),
		Relevance: result.Answer().Relevance(),
	})
}
