package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brinda-08/Quiz/internal/auth"
	"github.com/brinda-08/Quiz/internal/handlers"
	"github.com/brinda-08/Quiz/internal/middleware"
	"github.com/brinda-08/Quiz/internal/models"
	"github.com/brinda-08/Quiz/internal/routes"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "routes-test-secret-32-characters"

func newRouter(t *testing.T) (http.Handler, *auth.TokenManager) {
	t.Helper()
	tm := auth.NewTokenManager(secret, time.Hour, time.Hour)

	quizzes := &handlers.MockQuizService{
		ListQuizzesFunc: func(ctx context.Context) ([]*models.Quiz, error) {
			return []*models.Quiz{}, nil
		},
		CreateQuizFunc: func(ctx context.Context, actor, title string, questions []models.Question) (*models.Quiz, error) {
			return &models.Quiz{ID: "q1", Title: title}, nil
		},
	}
	approvals := &handlers.MockApprovalService{
		ApproveFunc: func(ctx context.Context, actor, pendingID string) (*models.User, error) {
			return &models.User{ID: "a1", Role: models.RoleAdmin}, nil
		},
	}

	r := chi.NewRouter()
	routes.RegisterRoutes(r, routes.Handlers{
		Auth:       handlers.NewAuthHandler(&handlers.MockAuthService{}),
		Superadmin: handlers.NewSuperadminHandler(approvals),
		Quiz:       handlers.NewQuizHandler(quizzes),
	}, tm, middleware.RateLimitConfig{RequestsPerMinute: 1000}, middleware.RateLimitConfig{RequestsPerMinute: 1000})
	return r, tm
}

func tokenFor(t *testing.T, tm *auth.TokenManager, role models.Role) string {
	t.Helper()
	var (
		token string
		err   error
	)
	if role == models.RoleSuperadmin {
		token, err = tm.IssueSuperadminToken("root")
	} else {
		token, err = tm.IssueSessionToken(&models.User{ID: "id-" + string(role), Username: string(role), Role: role})
	}
	require.NoError(t, err)
	return token
}

func do(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRoleGate(t *testing.T) {
	router, tm := newRouter(t)
	user := tokenFor(t, tm, models.RoleUser)
	admin := tokenFor(t, tm, models.RoleAdmin)
	superadmin := tokenFor(t, tm, models.RoleSuperadmin)

	quizBody := `{"title":"Basics","questions":[{"text":"?","options":["a","b"],"correct":0}]}`

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       string
		wantStatus int
	}{
		{"no token", "GET", "/api/quizzes", "", "", http.StatusUnauthorized},
		{"tampered token", "GET", "/api/quizzes", user + "x", "", http.StatusForbidden},
		{"user lists quizzes", "GET", "/api/quizzes", user, "", http.StatusOK},
		{"user cannot create quiz", "POST", "/api/quizzes", user, quizBody, http.StatusForbidden},
		{"admin creates quiz", "POST", "/api/quizzes", admin, quizBody, http.StatusCreated},
		{"user cannot list pending", "GET", "/api/superadmin/pending", user, "", http.StatusForbidden},
		{"admin lists pending", "GET", "/api/superadmin/pending", admin, "", http.StatusOK},
		{"admin cannot approve", "POST", "/api/superadmin/approve/p1", admin, "", http.StatusForbidden},
		{"superadmin approves", "POST", "/api/superadmin/approve/p1", superadmin, "", http.StatusOK},
		{"superadmin lists users", "GET", "/api/superadmin/users", superadmin, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestExpiredTokenIsForbidden(t *testing.T) {
	router, _ := newRouter(t)
	expired := auth.NewTokenManager(secret, -time.Minute, -time.Minute)
	token, err := expired.IssueSessionToken(&models.User{ID: "u1", Username: "alice", Role: models.RoleUser})
	require.NoError(t, err)

	w := do(router, "GET", "/api/quizzes", token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthRoutesArePublic(t *testing.T) {
	router, _ := newRouter(t)

	// the mock service fails with an internal error, which proves the
	// request reached the handler without a token
	w := do(router, "POST", "/api/auth/login", "", `{"emailOrUsername":"alice","password":"pw"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
