package handlers

import (
	"context"
	"net/http"

	"github.com/brinda-08/Quiz/internal/auth"
	"github.com/brinda-08/Quiz/internal/models"
	"github.com/brinda-08/Quiz/internal/services"
	pkghttp "github.com/brinda-08/Quiz/pkg/http"
	"github.com/go-chi/chi/v5"
)

// ApprovalServiceInterface defines the admin approval workflow.
type ApprovalServiceInterface interface {
	ListPending(ctx context.Context) ([]*models.PendingAdmin, error)
	Approve(ctx context.Context, actor, pendingID string) (*models.User, error)
	Reject(ctx context.Context, actor, pendingID string) error
	ListUsersAndAdmins(ctx context.Context) (*services.UsersAndAdminsResponse, error)
}

// SuperadminHandler serves the pending admin queue and account overview.
type SuperadminHandler struct {
	service ApprovalServiceInterface
}

func NewSuperadminHandler(service ApprovalServiceInterface) *SuperadminHandler {
	return &SuperadminHandler{service: service}
}

// ListPending handles GET /api/superadmin/pending
func (h *SuperadminHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.service.ListPending(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to fetch pending requests")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, pending)
}

// Approve handles POST /api/superadmin/approve/{id}
func (h *SuperadminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Approve(r.Context(), actorOf(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "Pending request not found")
		return
	}

	pkghttp.WriteMessage(w, http.StatusOK, "Admin approved")
}

// Reject handles DELETE /api/superadmin/reject/{id}
func (h *SuperadminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reject(r.Context(), actorOf(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "Pending request not found")
		return
	}

	pkghttp.WriteMessage(w, http.StatusOK, "Admin request rejected")
}

// ListUsers handles GET /api/superadmin/users
func (h *SuperadminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListUsersAndAdmins(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to fetch users/admins")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// actorOf names the authenticated caller for audit records.
func actorOf(r *http.Request) string {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		return ""
	}
	if claims.UserID != "" {
		return claims.UserID
	}
	return claims.Username
}
