package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brinda-08/Quiz/internal/handlers"
	"github.com/brinda-08/Quiz/internal/models"
	"github.com/brinda-08/Quiz/internal/services"
	pkghttp "github.com/brinda-08/Quiz/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPending_Returns200(t *testing.T) {
	mock := &handlers.MockApprovalService{
		ListPendingFunc: func(ctx context.Context) ([]*models.PendingAdmin, error) {
			return []*models.PendingAdmin{
				{ID: "p1", Username: "grace", Email: "grace@example.com", PasswordHash: "secret-hash", CreatedAt: time.Now()},
			}, nil
		},
	}
	h := handlers.NewSuperadminHandler(mock)

	req := httptest.NewRequest("GET", "/api/superadmin/pending", nil)
	w := httptest.NewRecorder()
	h.ListPending(w, req)

	var resp []map[string]any
	handlers.AssertJSONResponse(t, w, 200, &resp)
	require.Len(t, resp, 1)
	assert.Equal(t, "grace", resp[0]["username"])
	assert.NotContains(t, w.Body.String(), "secret-hash")
}

func TestListPending_ServiceError_Returns500(t *testing.T) {
	mock := &handlers.MockApprovalService{
		ListPendingFunc: func(ctx context.Context) ([]*models.PendingAdmin, error) {
			return nil, errors.New("database connection lost")
		},
	}
	h := handlers.NewSuperadminHandler(mock)

	req := httptest.NewRequest("GET", "/api/superadmin/pending", nil)
	w := httptest.NewRecorder()
	h.ListPending(w, req)

	handlers.AssertErrorResponse(t, w, 500, "internal_error")
}

func TestApprove_Returns200(t *testing.T) {
	mock := &handlers.MockApprovalService{
		ApproveFunc: func(ctx context.Context, actor, pendingID string) (*models.User, error) {
			assert.Equal(t, "root", actor)
			assert.Equal(t, "p1", pendingID)
			return &models.User{ID: "admin-1", Username: "grace", Role: models.RoleAdmin}, nil
		},
	}
	h := handlers.NewSuperadminHandler(mock)

	req := httptest.NewRequest("POST", "/api/superadmin/approve/p1", nil)
	req = handlers.WithURLParam(req, "id", "p1")
	req = handlers.WithAuthContext(req, "", "root", models.RoleSuperadmin)
	w := httptest.NewRecorder()
	h.Approve(w, req)

	var resp pkghttp.MessageResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "Admin approved", resp.Message)
}

func TestApprove_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unknown request", models.ErrNotFound, 404, "not_found"},
		{"identity taken", fmt.Errorf("%w: a user with this username or email already exists", models.ErrConflict), 409, "conflict"},
		{"store failure", models.ErrInternalServer, 500, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &handlers.MockApprovalService{
				ApproveFunc: func(ctx context.Context, actor, pendingID string) (*models.User, error) {
					return nil, tt.err
				},
			}
			h := handlers.NewSuperadminHandler(mock)

			req := httptest.NewRequest("POST", "/api/superadmin/approve/p1", nil)
			req = handlers.WithURLParam(req, "id", "p1")
			w := httptest.NewRecorder()
			h.Approve(w, req)

			handlers.AssertErrorResponse(t, w, tt.wantStatus, tt.wantCode)
		})
	}
}

func TestReject_Returns200(t *testing.T) {
	var rejected string
	mock := &handlers.MockApprovalService{
		RejectFunc: func(ctx context.Context, actor, pendingID string) error {
			rejected = pendingID
			return nil
		},
	}
	h := handlers.NewSuperadminHandler(mock)

	req := httptest.NewRequest("DELETE", "/api/superadmin/reject/p2", nil)
	req = handlers.WithURLParam(req, "id", "p2")
	w := httptest.NewRecorder()
	h.Reject(w, req)

	var resp pkghttp.MessageResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "Admin request rejected", resp.Message)
	assert.Equal(t, "p2", rejected)
}

func TestReject_Unknown_Returns404(t *testing.T) {
	h := handlers.NewSuperadminHandler(&handlers.MockApprovalService{})

	req := httptest.NewRequest("DELETE", "/api/superadmin/reject/missing", nil)
	req = handlers.WithURLParam(req, "id", "missing")
	w := httptest.NewRecorder()
	h.Reject(w, req)

	handlers.AssertErrorResponse(t, w, 404, "not_found")
}

func TestListUsers_Returns200(t *testing.T) {
	mock := &handlers.MockApprovalService{
		ListUsersAndAdminsFunc: func(ctx context.Context) (*services.UsersAndAdminsResponse, error) {
			return &services.UsersAndAdminsResponse{
				Users: []services.UserSummary{{
					ID:       "u1",
					Username: "alice",
					Scores:   []models.ScoreEntry{{QuizID: "q1", Title: "Basics", Score: 4}},
				}},
				Admins: []services.AdminSummary{{ID: "a1", Username: "grace"}},
			}, nil
		},
	}
	h := handlers.NewSuperadminHandler(mock)

	req := httptest.NewRequest("GET", "/api/superadmin/users", nil)
	w := httptest.NewRecorder()
	h.ListUsers(w, req)

	var resp services.UsersAndAdminsResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, 4, resp.Users[0].Scores[0].Score)
	require.Len(t, resp.Admins, 1)
	assert.Equal(t, "grace", resp.Admins[0].Username)
}
