package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/brinda-08/Quiz/internal/services"
	pkghttp "github.com/brinda-08/Quiz/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Register(ctx context.Context, username, password string, requestAdmin bool) (*services.RegisterResult, error)
	RequestOtp(ctx context.Context, username, email, password string) error
	VerifyOtpAndRegister(ctx context.Context, email, code string, requestAdmin bool) (*services.VerifyRegistrationResult, error)
	Login(ctx context.Context, identifier, password string) (*services.LoginResult, error)
	RequestLoginOtp(ctx context.Context, username, email, password string) error
	VerifyOtpAndLogin(ctx context.Context, username, code string) (*services.LoginResult, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service AuthServiceInterface
}

func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// Request DTOs

type RegisterRequest struct {
	Username     string `json:"username" validate:"required"`
	Password     string `json:"password" validate:"required"`
	RequestAdmin bool   `json:"requestAdmin"`
}

// SendOtpRequest starts a registration, or a login when Purpose is "login".
type SendOtpRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Purpose  string `json:"purpose" validate:"omitempty,oneof=register login"`
}

type VerifyOtpRegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	OTP          string `json:"otp" validate:"required"`
	RequestAdmin bool   `json:"requestAdmin"`
}

// LoginRequest accepts the identifier as emailOrUsername or, from older
// clients, as username.
type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required_without=Username"`
	Username        string `json:"username"`
	Password        string `json:"password" validate:"required"`
}

func (r LoginRequest) identifier() string {
	if id := strings.TrimSpace(r.EmailOrUsername); id != "" {
		return id
	}
	return strings.TrimSpace(r.Username)
}

type VerifyOtpLoginRequest struct {
	Username string `json:"username" validate:"required"`
	OTP      string `json:"otp" validate:"required"`
}

// decodeAndValidate reads a JSON body into req and validates it. It writes
// the 400 reply itself and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return false
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return false
	}
	return true
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.Register(r.Context(), req.Username, req.Password, req.RequestAdmin)
	if err != nil {
		writeServiceError(w, err, "User not found")
		return
	}

	status := http.StatusCreated
	if result.Pending {
		status = http.StatusOK
	}
	pkghttp.WriteMessage(w, status, result.Message)
}

// SendOtp handles POST /api/auth/send-otp
func (h *AuthHandler) SendOtp(w http.ResponseWriter, r *http.Request) {
	var req SendOtpRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var err error
	if req.Purpose == "login" {
		err = h.service.RequestLoginOtp(r.Context(), req.Username, req.Email, req.Password)
	} else {
		err = h.service.RequestOtp(r.Context(), req.Username, req.Email, req.Password)
	}
	if err != nil {
		writeServiceError(w, err, "User not found")
		return
	}

	pkghttp.WriteMessage(w, http.StatusOK, "OTP sent successfully")
}

// VerifyOtpRegister handles POST /api/auth/verify-otp-register
func (h *AuthHandler) VerifyOtpRegister(w http.ResponseWriter, r *http.Request) {
	var req VerifyOtpRegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.VerifyOtpAndRegister(r.Context(), req.Email, req.OTP, req.RequestAdmin)
	if err != nil {
		writeServiceError(w, err, "User not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, result)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), req.identifier(), req.Password)
	if err != nil {
		writeServiceError(w, err, "User not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, result)
}

// VerifyOtpLogin handles POST /api/auth/verify-otp-login
func (h *AuthHandler) VerifyOtpLogin(w http.ResponseWriter, r *http.Request) {
	var req VerifyOtpLoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.VerifyOtpAndLogin(r.Context(), req.Username, req.OTP)
	if err != nil {
		writeServiceError(w, err, "User not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, result)
}
