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

const pendingAdminColumns = `id, username, email, password_hash, created_at`

type PendingAdminRepository struct {
	db *database.DB
}

func NewPendingAdminRepository(db *database.DB) *PendingAdminRepository {
	return &PendingAdminRepository{db: db}
}

func scanPendingAdminRow(scanner rowScanner) (*models.PendingAdmin, error) {
	var p models.PendingAdmin
	var email *string

	if err := scanner.Scan(&p.ID, &p.Username, &email, &p.PasswordHash, &p.CreatedAt); err != nil {
		return nil, database.MapPostgresError(err)
	}
	if email != nil {
		p.Email = *email
	}
	return &p, nil
}

func insertPendingAdmin(ctx context.Context, q database.Querier, p *models.PendingAdmin) (*models.PendingAdmin, error) {
	p.ID = uuid.New().String()
	p.CreatedAt = time.Now()

	query := `
		INSERT INTO pending_admins (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + pendingAdminColumns

	return scanPendingAdminRow(q.QueryRow(ctx, query,
		p.ID, p.Username, nullableEmail(p.Email), p.PasswordHash, p.CreatedAt,
	))
}

func (r *PendingAdminRepository) Create(ctx context.Context, p *models.PendingAdmin) (*models.PendingAdmin, error) {
	return insertPendingAdmin(ctx, r.db.Pool, p)
}

func (r *PendingAdminRepository) GetByID(ctx context.Context, id string) (*models.PendingAdmin, error) {
	if !validID(id) {
		return nil, models.ErrNotFound
	}
	query := `SELECT ` + pendingAdminColumns + ` FROM pending_admins WHERE id = $1`
	return scanPendingAdminRow(r.db.Pool.QueryRow(ctx, query, id))
}

// FindByUsernameOrEmail returns a pending request holding either identifier.
// An empty email only matches on username.
func (r *PendingAdminRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.PendingAdmin, error) {
	query := `
		SELECT ` + pendingAdminColumns + `
		FROM pending_admins
		WHERE username = $1 OR ($2 <> '' AND email = $2)
		LIMIT 1`
	return scanPendingAdminRow(r.db.Pool.QueryRow(ctx, query, username, email))
}

// List returns every pending request, newest first.
func (r *PendingAdminRepository) List(ctx context.Context) ([]*models.PendingAdmin, error) {
	query := `SELECT ` + pendingAdminColumns + ` FROM pending_admins ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending admins: %w", err)
	}
	defer rows.Close()

	pending := make([]*models.PendingAdmin, 0)
	for rows.Next() {
		p, err := scanPendingAdminRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending admin: %w", err)
		}
		pending = append(pending, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return pending, nil
}

func (r *PendingAdminRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return models.ErrNotFound
	}

	result, err := r.db.Pool.Exec(ctx, `DELETE FROM pending_admins WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CreateFromUser removes the user record and files a pending admin request
// carrying the same identity, in one transaction.
func (r *PendingAdminRepository) CreateFromUser(ctx context.Context, user *models.User) (*models.PendingAdmin, error) {
	var created *models.PendingAdmin

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if err := deleteUser(ctx, tx, user.ID); err != nil {
			return err
		}
		p, err := insertPendingAdmin(ctx, tx, models.PendingAdminFromUser(user))
		if err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Promote turns a pending request into an admin user and deletes the request,
// in one transaction. The row is locked first so two concurrent approvals
// cannot both succeed. A unique violation on insert leaves the request intact.
func (r *PendingAdminRepository) Promote(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, models.ErrNotFound
	}

	var admin *models.User

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `SELECT ` + pendingAdminColumns + ` FROM pending_admins WHERE id = $1 FOR UPDATE`
		p, err := scanPendingAdminRow(tx.QueryRow(ctx, query, id))
		if err != nil {
			return err
		}

		u, err := insertUser(ctx, tx, p.ToAdmin())
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM pending_admins WHERE id = $1`, id); err != nil {
			return database.MapPostgresError(err)
		}
		admin = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}
