package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/brinda-08/Quiz/internal/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	CreateFunc                func(ctx context.Context, user *models.User) (*models.User, error)
	GetByIDFunc               func(ctx context.Context, id string) (*models.User, error)
	GetByUsernameFunc         func(ctx context.Context, username string) (*models.User, error)
	GetByEmailFunc            func(ctx context.Context, email string) (*models.User, error)
	FindByUsernameOrEmailFunc func(ctx context.Context, username, email string) (*models.User, error)
	UpdateFunc                func(ctx context.Context, user *models.User) (*models.User, error)
	ListByRoleFunc            func(ctx context.Context, role models.Role) ([]*models.User, error)
	AppendScoreFunc           func(ctx context.Context, userID string, entry models.ScoreEntry) error
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	if m.FindByUsernameOrEmailFunc != nil {
		return m.FindByUsernameOrEmailFunc(ctx, username, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return user, nil
}

func (m *MockUserRepository) ListByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	if m.ListByRoleFunc != nil {
		return m.ListByRoleFunc(ctx, role)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) AppendScore(ctx context.Context, userID string, entry models.ScoreEntry) error {
	if m.AppendScoreFunc != nil {
		return m.AppendScoreFunc(ctx, userID, entry)
	}
	return nil
}

// MockPendingAdminRepository implements PendingAdminRepository for testing
type MockPendingAdminRepository struct {
	CreateFunc                func(ctx context.Context, p *models.PendingAdmin) (*models.PendingAdmin, error)
	GetByIDFunc               func(ctx context.Context, id string) (*models.PendingAdmin, error)
	FindByUsernameOrEmailFunc func(ctx context.Context, username, email string) (*models.PendingAdmin, error)
	ListFunc                  func(ctx context.Context) ([]*models.PendingAdmin, error)
	DeleteFunc                func(ctx context.Context, id string) error
	CreateFromUserFunc        func(ctx context.Context, user *models.User) (*models.PendingAdmin, error)
	PromoteFunc               func(ctx context.Context, id string) (*models.User, error)
}

func (m *MockPendingAdminRepository) Create(ctx context.Context, p *models.PendingAdmin) (*models.PendingAdmin, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil, models.ErrInternalServer
}

func (m *MockPendingAdminRepository) GetByID(ctx context.Context, id string) (*models.PendingAdmin, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockPendingAdminRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.PendingAdmin, error) {
	if m.FindByUsernameOrEmailFunc != nil {
		return m.FindByUsernameOrEmailFunc(ctx, username, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockPendingAdminRepository) List(ctx context.Context) ([]*models.PendingAdmin, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.PendingAdmin{}, nil
}

func (m *MockPendingAdminRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return models.ErrNotFound
}

func (m *MockPendingAdminRepository) CreateFromUser(ctx context.Context, user *models.User) (*models.PendingAdmin, error) {
	if m.CreateFromUserFunc != nil {
		return m.CreateFromUserFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockPendingAdminRepository) Promote(ctx context.Context, id string) (*models.User, error) {
	if m.PromoteFunc != nil {
		return m.PromoteFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

// MockQuizRepository implements QuizRepository for testing
type MockQuizRepository struct {
	CreateFunc  func(ctx context.Context, quiz *models.Quiz) (*models.Quiz, error)
	GetByIDFunc func(ctx context.Context, id string) (*models.Quiz, error)
	ListFunc    func(ctx context.Context) ([]*models.Quiz, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *MockQuizRepository) Create(ctx context.Context, quiz *models.Quiz) (*models.Quiz, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, quiz)
	}
	return nil, models.ErrInternalServer
}

func (m *MockQuizRepository) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockQuizRepository) List(ctx context.Context) ([]*models.Quiz, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Quiz{}, nil
}

func (m *MockQuizRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return models.ErrNotFound
}

// MockEmailService records every OTP it is asked to send.
type MockEmailService struct {
	SendOTPEmailFunc func(ctx context.Context, to, code string, purpose OTPPurpose, expiresAt time.Time) error
	Sent             []SentOTP
}

// SentOTP is one recorded call to MockEmailService.SendOTPEmail.
type SentOTP struct {
	To      string
	Code    string
	Purpose OTPPurpose
}

func (m *MockEmailService) SendOTPEmail(ctx context.Context, to, code string, purpose OTPPurpose, expiresAt time.Time) error {
	m.Sent = append(m.Sent, SentOTP{To: to, Code: code, Purpose: purpose})
	if m.SendOTPEmailFunc != nil {
		return m.SendOTPEmailFunc(ctx, to, code, purpose, expiresAt)
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestUser creates a stored user for tests.
func NewTestUser(id, username, email string, role models.Role) *models.User {
	return &models.User{
		ID:              id,
		Username:        username,
		Email:           email,
		PasswordHash:    "",
		Role:            role,
		IsEmailVerified: email != "",
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}
