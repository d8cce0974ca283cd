package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brinda-08/Quiz/internal/database"
	"github.com/brinda-08/Quiz/internal/models"
	"github.com/google/uuid"
)

const quizColumns = `id, title, questions, created_at`

type QuizRepository struct {
	db *database.DB
}

func NewQuizRepository(db *database.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

func scanQuizRow(scanner rowScanner) (*models.Quiz, error) {
	var q models.Quiz
	var questions []byte

	if err := scanner.Scan(&q.ID, &q.Title, &questions, &q.CreatedAt); err != nil {
		return nil, database.MapPostgresError(err)
	}
	if err := json.Unmarshal(questions, &q.Questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions for quiz %s: %w", q.ID, err)
	}
	return &q, nil
}

func (r *QuizRepository) Create(ctx context.Context, quiz *models.Quiz) (*models.Quiz, error) {
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode questions: %w", err)
	}

	quiz.ID = uuid.New().String()
	quiz.CreatedAt = time.Now()

	query := `
		INSERT INTO quizzes (id, title, questions, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + quizColumns

	return scanQuizRow(r.db.Pool.QueryRow(ctx, query, quiz.ID, quiz.Title, questions, quiz.CreatedAt))
}

func (r *QuizRepository) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	if !validID(id) {
		return nil, models.ErrNotFound
	}
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE id = $1`
	return scanQuizRow(r.db.Pool.QueryRow(ctx, query, id))
}

// List returns every quiz, newest first.
func (r *QuizRepository) List(ctx context.Context) ([]*models.Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := make([]*models.Quiz, 0)
	for rows.Next() {
		q, err := scanQuizRow(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return quizzes, nil
}

func (r *QuizRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return models.ErrNotFound
	}

	result, err := r.db.Pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
