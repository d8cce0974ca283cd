package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brinda-08/Quiz/internal/models"
	pkglogger "github.com/brinda-08/Quiz/pkg/logger"
)

// QuizRepository defines the quiz store operations.
type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) (*models.Quiz, error)
	GetByID(ctx context.Context, id string) (*models.Quiz, error)
	List(ctx context.Context) ([]*models.Quiz, error)
	Delete(ctx context.Context, id string) error
}

// ScoreRepository is the subset of UserRepository needed to record results.
type ScoreRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	AppendScore(ctx context.Context, userID string, entry models.ScoreEntry) error
}

type QuizService struct {
	quizzes     QuizRepository
	users       ScoreRepository
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

func NewQuizService(quizzes QuizRepository, users ScoreRepository, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *QuizService {
	return &QuizService{
		quizzes:     quizzes,
		users:       users,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

func (s *QuizService) CreateQuiz(ctx context.Context, actor, title string, questions []models.Question) (*models.Quiz, error) {
	quiz := &models.Quiz{Title: strings.TrimSpace(title), Questions: questions}
	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	created, err := s.quizzes.Create(ctx, quiz)
	if err != nil {
		return nil, passSentinel(s.logger, "failed to create quiz", err)
	}

	s.auditLogger.LogAccountAction(ctx, pkglogger.AuditEvent{
		EventType: pkglogger.EventQuizCreated,
		Actor:     actor,
		Metadata:  map[string]string{"quiz_id": created.ID},
	})
	return created, nil
}

// ListQuizzes returns every quiz, newest first.
func (s *QuizService) ListQuizzes(ctx context.Context) ([]*models.Quiz, error) {
	quizzes, err := s.quizzes.List(ctx)
	if err != nil {
		s.logger.Error("failed to list quizzes", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return quizzes, nil
}

func (s *QuizService) GetQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		return nil, passSentinel(s.logger, "failed to get quiz", err)
	}
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(ctx context.Context, actor, id string) error {
	if err := s.quizzes.Delete(ctx, id); err != nil {
		return passSentinel(s.logger, "failed to delete quiz", err)
	}

	s.auditLogger.LogAccountAction(ctx, pkglogger.AuditEvent{
		EventType: pkglogger.EventQuizDeleted,
		Actor:     actor,
		Metadata:  map[string]string{"quiz_id": id},
	})
	return nil
}

// SubmitScore appends a result for quizID to the user's score history.
func (s *QuizService) SubmitScore(ctx context.Context, userID, quizID string, score int) error {
	if userID == "" {
		return fmt.Errorf("%w: scores can only be recorded for stored accounts", models.ErrInvalidInput)
	}
	if quizID == "" {
		return fmt.Errorf("%w: quizId is required", models.ErrInvalidInput)
	}
	if score < 0 {
		return fmt.Errorf("%w: score cannot be negative", models.ErrInvalidInput)
	}

	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return passSentinel(s.logger, "failed to load quiz", err)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return passSentinel(s.logger, "failed to load user", err)
	}

	entry := models.ScoreEntry{QuizID: quiz.ID, Title: quiz.Title, Score: score}
	if err := s.users.AppendScore(ctx, userID, entry); err != nil {
		return passSentinel(s.logger, "failed to append score", err)
	}

	s.auditLogger.LogAccountAction(ctx, pkglogger.AuditEvent{
		EventType: pkglogger.EventScoreSubmitted,
		Actor:     userID,
		Metadata:  map[string]string{"quiz_id": quiz.ID},
	})
	return nil
}
