package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/brinda-08/Quiz/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPostgresError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, models.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("query: %w", pgx.ErrNoRows), models.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}, models.ErrConflict},
		{"malformed uuid", &pgconn.PgError{Code: "22P02"}, models.ErrNotFound},
		{"not null violation", &pgconn.PgError{Code: "23502"}, models.ErrInvalidInput},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, models.ErrInvalidInput},
		{"check violation", &pgconn.PgError{Code: "23514", ConstraintName: "users_otp_pair"}, models.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, MapPostgresError(tt.err), tt.want)
		})
	}
}

func TestMapPostgresError_Passthrough(t *testing.T) {
	assert.NoError(t, MapPostgresError(nil))

	other := errors.New("connection reset")
	assert.Equal(t, other, MapPostgresError(other))

	unknown := &pgconn.PgError{Code: "40001"}
	assert.Equal(t, error(unknown), MapPostgresError(unknown))
}
