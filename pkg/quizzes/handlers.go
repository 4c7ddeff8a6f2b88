package quizzes

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/studyhall/studyhall/pkg/httputil"
)

const (
	editForbiddenReason   = "You are not authorized to edit this quiz."
	deleteForbiddenReason = "You are not authorized to delete this quiz."
)

// Handlers provides HTTP handlers for the quiz resource
type Handlers struct {
	service Service
	logger  *logrus.Logger
}

// NewHandlers creates quiz handlers
func NewHandlers(service Service, logger *logrus.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// RegisterRoutes registers quiz routes on the router
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/quizzes", h.ListQuizzes).Methods("GET")
	r.HandleFunc("/api/quizzes", h.CreateQuiz).Methods("POST")
	r.HandleFunc("/api/quizzes/{id}", h.GetQuiz).Methods("GET")
	r.HandleFunc("/api/quizzes/{id}", h.UpdateQuiz).Methods("PUT")
	r.HandleFunc("/api/quizzes/{id}", h.DeleteQuiz).Methods("DELETE")
}

// ListQuizzes returns all quizzes
func (h *Handlers) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.service.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list quizzes")
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, quizzes)
}

// GetQuiz returns a single quiz by ID
func (h *Handlers) GetQuiz(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	quiz, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteNotFoundError(w, "Quiz not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("quiz_id", id).Error("Failed to get quiz")
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, quiz)
}

// CreateQuiz stores a new quiz for the creator named in the body
func (h *Handlers) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var quiz Quiz
	if !httputil.ParseJSONOrError(w, r, &quiz) {
		return
	}
	if !httputil.RequireNonEmpty(w, quiz.Title, "title") {
		return
	}

	created, err := h.service.Create(r.Context(), &quiz)
	if errors.Is(err, ErrCreatorNotFound) {
		httputil.WriteNotFoundError(w, "User not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to create quiz")
		httputil.WriteInternalError(w, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"quiz_id":    created.ID,
		"creator_id": created.CreatorID,
	}).Info("Quiz created")
	httputil.WriteSuccess(w, created)
}

// UpdateQuiz replaces a quiz's content. Only the quiz creator may edit it;
// the caller's identity is the creatorId carried in the request body.
func (h *Handlers) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var quiz Quiz
	if !httputil.ParseJSONOrError(w, r, &quiz) {
		return
	}

	existing, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteNotFoundError(w, "Quiz not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("quiz_id", id).Error("Failed to get quiz")
		httputil.WriteInternalError(w, err)
		return
	}
	if existing.CreatorID != quiz.CreatorID {
		httputil.WriteForbiddenText(w, editForbiddenReason)
		return
	}

	updated, err := h.service.Update(r.Context(), id, &quiz)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteNotFoundError(w, "Quiz not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("quiz_id", id).Error("Failed to update quiz")
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, updated)
}

// DeleteQuiz removes a quiz. The caller identifies itself with the creatorId
// query parameter and must match the quiz creator.
func (h *Handlers) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	creatorID, err := httputil.ParseQueryInt64(r, "creatorId", 0)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	existing, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		httputil.WriteNotFoundError(w, "Quiz not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("quiz_id", id).Error("Failed to get quiz")
		httputil.WriteInternalError(w, err)
		return
	}
	if existing.CreatorID != creatorID {
		httputil.WriteForbiddenText(w, deleteForbiddenReason)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.WriteNotFoundError(w, "Quiz not found")
			return
		}
		h.logger.WithError(err).WithField("quiz_id", id).Error("Failed to delete quiz")
		httputil.WriteInternalError(w, err)
		return
	}

	h.logger.WithField("quiz_id", id).Info("Quiz deleted")
	httputil.WriteNoContent(w)
}
