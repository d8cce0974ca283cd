package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brinda-08/Quiz/internal/auth"
	"github.com/brinda-08/Quiz/internal/models"
	"github.com/brinda-08/Quiz/internal/services"
	pkghttp "github.com/brinda-08/Quiz/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext adds token claims to the request context
func WithAuthContext(req *http.Request, userID, username string, role models.Role) *http.Request {
	claims := &models.TokenClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
	}
	return req.WithContext(auth.WithClaims(req.Context(), claims))
}

// WithURLParam sets a chi route parameter on the request
func WithURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"), "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterFunc             func(ctx context.Context, username, password string, requestAdmin bool) (*services.RegisterResult, error)
	RequestOtpFunc           func(ctx context.Context, username, email, password string) error
	VerifyOtpAndRegisterFunc func(ctx context.Context, email, code string, requestAdmin bool) (*services.VerifyRegistrationResult, error)
	LoginFunc                func(ctx context.Context, identifier, password string) (*services.LoginResult, error)
	RequestLoginOtpFunc      func(ctx context.Context, username, email, password string) error
	VerifyOtpAndLoginFunc    func(ctx context.Context, username, code string) (*services.LoginResult, error)
}

func (m *MockAuthService) Register(ctx context.Context, username, password string, requestAdmin bool) (*services.RegisterResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, username, password, requestAdmin)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) RequestOtp(ctx context.Context, username, email, password string) error {
	if m.RequestOtpFunc != nil {
		return m.RequestOtpFunc(ctx, username, email, password)
	}
	return models.ErrInternalServer
}

func (m *MockAuthService) VerifyOtpAndRegister(ctx context.Context, email, code string, requestAdmin bool) (*services.VerifyRegistrationResult, error) {
	if m.VerifyOtpAndRegisterFunc != nil {
		return m.VerifyOtpAndRegisterFunc(ctx, email, code, requestAdmin)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) Login(ctx context.Context, identifier, password string) (*services.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, identifier, password)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) RequestLoginOtp(ctx context.Context, username, email, password string) error {
	if m.RequestLoginOtpFunc != nil {
		return m.RequestLoginOtpFunc(ctx, username, email, password)
	}
	return models.ErrInternalServer
}

func (m *MockAuthService) VerifyOtpAndLogin(ctx context.Context, username, code string) (*services.LoginResult, error) {
	if m.VerifyOtpAndLoginFunc != nil {
		return m.VerifyOtpAndLoginFunc(ctx, username, code)
	}
	return nil, models.ErrInternalServer
}

// MockApprovalService implements ApprovalServiceInterface for testing
type MockApprovalService struct {
	ListPendingFunc        func(ctx context.Context) ([]*models.PendingAdmin, error)
	ApproveFunc            func(ctx context.Context, actor, pendingID string) (*models.User, error)
	RejectFunc             func(ctx context.Context, actor, pendingID string) error
	ListUsersAndAdminsFunc func(ctx context.Context) (*services.UsersAndAdminsResponse, error)
}

func (m *MockApprovalService) ListPending(ctx context.Context) ([]*models.PendingAdmin, error) {
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(ctx)
	}
	return []*models.PendingAdmin{}, nil
}

func (m *MockApprovalService) Approve(ctx context.Context, actor, pendingID string) (*models.User, error) {
	if m.ApproveFunc != nil {
		return m.ApproveFunc(ctx, actor, pendingID)
	}
	return nil, models.ErrNotFound
}

func (m *MockApprovalService) Reject(ctx context.Context, actor, pendingID string) error {
	if m.RejectFunc != nil {
		return m.RejectFunc(ctx, actor, pendingID)
	}
	return models.ErrNotFound
}

func (m *MockApprovalService) ListUsersAndAdmins(ctx context.Context) (*services.UsersAndAdminsResponse, error) {
	if m.ListUsersAndAdminsFunc != nil {
		return m.ListUsersAndAdminsFunc(ctx)
	}
	return &services.UsersAndAdminsResponse{Users: []services.UserSummary{}, Admins: []services.AdminSummary{}}, nil
}

// MockQuizService implements QuizServiceInterface for testing
type MockQuizService struct {
	CreateQuizFunc  func(ctx context.Context, actor, title string, questions []models.Question) (*models.Quiz, error)
	ListQuizzesFunc func(ctx context.Context) ([]*models.Quiz, error)
	GetQuizFunc     func(ctx context.Context, id string) (*models.Quiz, error)
	DeleteQuizFunc  func(ctx context.Context, actor, id string) error
	SubmitScoreFunc func(ctx context.Context, userID, quizID string, score int) error
}

func (m *MockQuizService) CreateQuiz(ctx context.Context, actor, title string, questions []models.Question) (*models.Quiz, error) {
	if m.CreateQuizFunc != nil {
		return m.CreateQuizFunc(ctx, actor, title, questions)
	}
	return nil, models.ErrInternalServer
}

func (m *MockQuizService) ListQuizzes(ctx context.Context) ([]*models.Quiz, error) {
	if m.ListQuizzesFunc != nil {
		return m.ListQuizzesFunc(ctx)
	}
	return []*models.Quiz{}, nil
}

func (m *MockQuizService) GetQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	if m.GetQuizFunc != nil {
		return m.GetQuizFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockQuizService) DeleteQuiz(ctx context.Context, actor, id string) error {
	if m.DeleteQuizFunc != nil {
		return m.DeleteQuizFunc(ctx, actor, id)
	}
	return models.ErrNotFound
}

func (m *MockQuizService) SubmitScore(ctx context.Context, userID, quizID string, score int) error {
	if m.SubmitScoreFunc != nil {
		return m.SubmitScoreFunc(ctx, userID, quizID, score)
	}
	return nil
}
