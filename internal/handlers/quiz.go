package handlers

import (
	"context"
	"net/http"

	"github.com/brinda-08/Quiz/internal/auth"
	"github.com/brinda-08/Quiz/internal/models"
	pkghttp "github.com/brinda-08/Quiz/pkg/http"
	"github.com/go-chi/chi/v5"
)

// QuizServiceInterface defines quiz management and score recording.
type QuizServiceInterface interface {
	CreateQuiz(ctx context.Context, actor, title string, questions []models.Question) (*models.Quiz, error)
	ListQuizzes(ctx context.Context) ([]*models.Quiz, error)
	GetQuiz(ctx context.Context, id string) (*models.Quiz, error)
	DeleteQuiz(ctx context.Context, actor, id string) error
	SubmitScore(ctx context.Context, userID, quizID string, score int) error
}

type QuizHandler struct {
	service QuizServiceInterface
}

func NewQuizHandler(service QuizServiceInterface) *QuizHandler {
	return &QuizHandler{service: service}
}

// Question rules are checked by models.Quiz.Validate in the service.
type CreateQuizRequest struct {
	Title     string            `json:"title" validate:"required"`
	Questions []models.Question `json:"questions" validate:"required,min=1"`
}

type CreateQuizResponse struct {
	Message string `json:"message"`
	QuizID  string `json:"quizId"`
}

type SubmitScoreRequest struct {
	QuizID string `json:"quizId" validate:"required"`
	Score  *int   `json:"score" validate:"required,gte=0"`
}

// Create handles POST /api/quizzes
func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateQuizRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quiz, err := h.service.CreateQuiz(r.Context(), actorOf(r), req.Title, req.Questions)
	if err != nil {
		writeServiceError(w, err, "Quiz not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, CreateQuizResponse{
		Message: "Custom quiz created",
		QuizID:  quiz.ID,
	})
}

// List handles GET /api/quizzes
func (h *QuizHandler) List(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.service.ListQuizzes(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to fetch quizzes")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, quizzes)
}

// Get handles GET /api/quizzes/{id}
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.service.GetQuiz(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Quiz not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, quiz)
}

// Delete handles DELETE /api/quizzes/{id}
func (h *QuizHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteQuiz(r.Context(), actorOf(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "Quiz not found")
		return
	}

	pkghttp.WriteMessage(w, http.StatusOK, "Quiz deleted")
}

// SubmitScore handles POST /api/quizzes/submit-score
func (h *QuizHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var req SubmitScoreRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Access token required")
		return
	}

	if err := h.service.SubmitScore(r.Context(), claims.UserID, req.QuizID, *req.Score); err != nil {
		writeServiceError(w, err, "Quiz or user not found")
		return
	}

	pkghttp.WriteMessage(w, http.StatusCreated, "Score submitted successfully")
}
