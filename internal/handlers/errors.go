package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/brinda-08/Quiz/internal/models"
	pkghttp "github.com/brinda-08/Quiz/pkg/http"
)

// writeServiceError maps a service sentinel to its HTTP reply. notFound is the
// message used for ErrNotFound, which differs per resource.
func writeServiceError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		pkghttp.WriteBadRequest(w, publicMessage(err, models.ErrInvalidInput, "Invalid request"))
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, publicMessage(err, models.ErrConflict, "Already exists"))
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, notFound)
	case errors.Is(err, models.ErrInvalidCredentials):
		pkghttp.WriteUnauthorized(w, "Invalid credentials")
	case errors.Is(err, models.ErrUnauthenticated):
		pkghttp.WriteUnauthorized(w, "Access token required")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "Insufficient permissions")
	case errors.Is(err, models.ErrInvalidOTP):
		pkghttp.WriteInvalidOTP(w, "Invalid or expired OTP")
	case errors.Is(err, models.ErrOTPDispatchFailed):
		pkghttp.WriteOTPDispatchFailed(w, "OTP generated but email delivery failed")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}

// publicMessage returns the detail a service attached to sentinel, or
// fallback when the error is the bare sentinel.
func publicMessage(err, sentinel error, fallback string) string {
	prefix := sentinel.Error() + ": "
	msg := err.Error()
	if !strings.HasPrefix(msg, prefix) {
		return fallback
	}
	return strings.TrimPrefix(msg, prefix)
}
