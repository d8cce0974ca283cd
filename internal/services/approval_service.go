package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/brinda-08/Quiz/internal/models"
	pkglogger "github.com/brinda-08/Quiz/pkg/logger"
)

// ApprovalUserRepository is the subset of UserRepository needed by ApprovalService.
type ApprovalUserRepository interface {
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.User, error)
}

// UserSummary is a user as shown to admins.
type UserSummary struct {
	ID       string              `json:"id"`
	Username string              `json:"username"`
	Email    string              `json:"email,omitempty"`
	Scores   []models.ScoreEntry `json:"scores"`
}

// AdminSummary is an admin as shown to admins.
type AdminSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// UsersAndAdminsResponse is the read-only account overview.
type UsersAndAdminsResponse struct {
	Users  []UserSummary  `json:"users"`
	Admins []AdminSummary `json:"admins"`
}

// ApprovalService runs the pending admin workflow.
type ApprovalService struct {
	users       ApprovalUserRepository
	pending     PendingAdminRepository
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

func NewApprovalService(users ApprovalUserRepository, pending PendingAdminRepository, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *ApprovalService {
	return &ApprovalService{
		users:       users,
		pending:     pending,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// ListPending returns every pending admin request, newest first.
func (s *ApprovalService) ListPending(ctx context.Context) ([]*models.PendingAdmin, error) {
	pending, err := s.pending.List(ctx)
	if err != nil {
		s.logger.Error("failed to list pending admins", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return pending, nil
}

// Approve promotes a pending request to an admin account. A username or email
// already held by a user is a conflict and leaves the request in place.
func (s *ApprovalService) Approve(ctx context.Context, actor, pendingID string) (*models.User, error) {
	p, err := s.pending.GetByID(ctx, pendingID)
	if err != nil {
		return nil, passSentinel(s.logger, "failed to load pending admin", err)
	}

	if _, err := s.users.FindByUsernameOrEmail(ctx, p.Username, p.Email); err == nil {
		return nil, fmt.Errorf("%w: a user with this username or email already exists", models.ErrConflict)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, passSentinel(s.logger, "failed to check for existing user", err)
	}

	admin, err := s.pending.Promote(ctx, pendingID)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("%w: a user with this username or email already exists", models.ErrConflict)
		}
		return nil, passSentinel(s.logger, "failed to promote pending admin", err)
	}

	s.logger.Info("admin approved", slog.String("user_id", admin.ID))
	s.auditLogger.LogAccountAction(ctx, pkglogger.AuditEvent{
		EventType: pkglogger.EventAdminApproved,
		Actor:     actor,
		Metadata:  map[string]string{"user_id": admin.ID, "username": admin.Username},
	})
	return admin, nil
}

// Reject deletes a pending request.
func (s *ApprovalService) Reject(ctx context.Context, actor, pendingID string) error {
	if err := s.pending.Delete(ctx, pendingID); err != nil {
		return passSentinel(s.logger, "failed to delete pending admin", err)
	}

	s.auditLogger.LogAccountAction(ctx, pkglogger.AuditEvent{
		EventType: pkglogger.EventAdminRejected,
		Actor:     actor,
		Metadata:  map[string]string{"pending_id": pendingID},
	})
	return nil
}

// ListUsersAndAdmins returns every user with their scores and every admin.
func (s *ApprovalService) ListUsersAndAdmins(ctx context.Context) (*UsersAndAdminsResponse, error) {
	users, err := s.users.ListByRole(ctx, models.RoleUser)
	if err != nil {
		s.logger.Error("failed to list users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	admins, err := s.users.ListByRole(ctx, models.RoleAdmin)
	if err != nil {
		s.logger.Error("failed to list admins", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	resp := &UsersAndAdminsResponse{
		Users:  make([]UserSummary, 0, len(users)),
		Admins: make([]AdminSummary, 0, len(admins)),
	}
	for _, u := range users {
		scores := u.Scores
		if scores == nil {
			scores = []models.ScoreEntry{}
		}
		resp.Users = append(resp.Users, UserSummary{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Scores:   scores,
		})
	}
	for _, a := range admins {
		resp.Admins = append(resp.Admins, AdminSummary{ID: a.ID, Username: a.Username})
	}

	return resp, nil
}
