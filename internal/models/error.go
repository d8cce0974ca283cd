package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrInvalidInput   = errors.New("invalid input")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")

	// Authentication errors
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")

	// ErrOTPDispatchFailed means a code was generated and stored but the
	// email carrying it could not be sent.
	ErrOTPDispatchFailed = errors.New("OTP generated but email delivery failed")
)
