package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the payload of a session token. UserID is empty for the
// superadmin, which has no stored record.
type TokenClaims struct {
	UserID   string `json:"id,omitempty"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}
