package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/brinda-08/Quiz/internal/database"
	"github.com/brinda-08/Quiz/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, password_hash, role, otp_code, otp_expires_at, is_email_verified, created_at, updated_at`

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// rowScanner is implemented by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	var email *string
	var role string

	err := scanner.Scan(
		&user.ID, &user.Username, &email, &user.PasswordHash, &role,
		&user.OTPCode, &user.OTPExpiresAt, &user.IsEmailVerified,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if email != nil {
		user.Email = *email
	}
	if user.Role, err = models.ParseRole(role); err != nil {
		return nil, fmt.Errorf("user %s: %w", user.ID, err)
	}

	return &user, nil
}

func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

// validID reports whether id is a well-formed UUID. Malformed ids can never
// match a row and are treated as not found.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// nullableEmail stores an empty email as NULL so the partial unique index
// ignores accounts without one.
func nullableEmail(email string) *string {
	if email == "" {
		return nil
	}
	return &email
}

// insertUser assigns an id and timestamps and writes the record through q.
func insertUser(ctx context.Context, q database.Querier, user *models.User) (*models.User, error) {
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if !user.Role.Persistable() {
		return nil, fmt.Errorf("%w: role %q cannot be stored", models.ErrInvalidInput, user.Role)
	}

	user.ID = uuid.New().String()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, username, email, password_hash, role, otp_code, otp_expires_at, is_email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns

	return scanUserRow(q.QueryRow(ctx, query,
		user.ID, user.Username, nullableEmail(user.Email), user.PasswordHash, string(user.Role),
		user.OTPCode, user.OTPExpiresAt, user.IsEmailVerified, user.CreatedAt, user.UpdatedAt,
	))
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	return insertUser(ctx, r.db.Pool, user)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, models.ErrNotFound
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUserRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUserRow(r.db.Pool.QueryRow(ctx, query, username))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUserRow(r.db.Pool.QueryRow(ctx, query, email))
}

// FindByUsernameOrEmail returns the user whose username or email matches.
// A username match wins when the two fields point at different records.
func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1 OR email = $2
		ORDER BY (username = $1) DESC
		LIMIT 1`
	return scanUserRow(r.db.Pool.QueryRow(ctx, query, username, email))
}

// Update writes the mutable fields of user. An empty password hash leaves the
// stored hash in place.
func (r *UserRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	user.UpdatedAt = time.Now()

	var passwordHash *string
	if user.PasswordHash != "" {
		passwordHash = &user.PasswordHash
	}

	query := `
		UPDATE users SET
			email = $1,
			password_hash = COALESCE($2, password_hash),
			role = $3,
			otp_code = $4,
			otp_expires_at = $5,
			is_email_verified = $6,
			updated_at = $7
		WHERE id = $8
		RETURNING ` + userColumns

	return scanUserRow(r.db.Pool.QueryRow(ctx, query,
		nullableEmail(user.Email), passwordHash, string(user.Role),
		user.OTPCode, user.OTPExpiresAt, user.IsEmailVerified, user.UpdatedAt, user.ID,
	))
}

// ClearExpiredOTPs wipes codes that expired before now and returns how many
// users were touched.
func (r *UserRepository) ClearExpiredOTPs(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE users SET otp_code = NULL, otp_expires_at = NULL, updated_at = $1
		WHERE otp_expires_at IS NOT NULL AND otp_expires_at < $1`

	result, err := r.db.Pool.Exec(ctx, query, now)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return result.RowsAffected(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return deleteUser(ctx, r.db.Pool, id)
}

func deleteUser(ctx context.Context, q database.Querier, id string) error {
	if !validID(id) {
		return models.ErrNotFound
	}
	result, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListByRole returns every user with the given role, oldest first, with
// their score history attached.
func (r *UserRepository) ListByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at ASC`

	rows, err := r.db.Pool.Query(ctx, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	users, err := scanUserRows(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachScores(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

// AppendScore adds a result to the end of the user's score history.
func (r *UserRepository) AppendScore(ctx context.Context, userID string, entry models.ScoreEntry) error {
	query := `INSERT INTO user_scores (user_id, quiz_id, title, score) VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Pool.Exec(ctx, query, userID, entry.QuizID, entry.Title, entry.Score); err != nil {
		return database.MapPostgresError(err)
	}
	return nil
}

func (r *UserRepository) attachScores(ctx context.Context, users []*models.User) error {
	if len(users) == 0 {
		return nil
	}

	ids := make([]string, len(users))
	byID := make(map[string]*models.User, len(users))
	for i, u := range users {
		ids[i] = u.ID
		byID[u.ID] = u
		u.Scores = make([]models.ScoreEntry, 0)
	}

	query := `
		SELECT user_id, quiz_id, title, score
		FROM user_scores
		WHERE user_id = ANY($1::uuid[])
		ORDER BY id ASC`

	rows, err := r.db.Pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		var entry models.ScoreEntry
		if err := rows.Scan(&userID, &entry.QuizID, &entry.Title, &entry.Score); err != nil {
			return fmt.Errorf("failed to scan score: %w", err)
		}
		if u, ok := byID[userID]; ok {
			u.Scores = append(u.Scores, entry)
		}
	}

	return rows.Err()
}
