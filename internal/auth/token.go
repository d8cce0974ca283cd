package auth

import (
	"fmt"
	"time"

	"github.com/brinda-08/Quiz/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager signs and validates HS256 session tokens.
type TokenManager struct {
	secret           []byte
	sessionExpiry    time.Duration
	superadminExpiry time.Duration
	now              func() time.Time
}

func NewTokenManager(secret string, sessionExpiry, superadminExpiry time.Duration) *TokenManager {
	return &TokenManager{
		secret:           []byte(secret),
		sessionExpiry:    sessionExpiry,
		superadminExpiry: superadminExpiry,
		now:              time.Now,
	}
}

// IssueSessionToken signs a token for a stored user, carrying the record's role.
func (tm *TokenManager) IssueSessionToken(user *models.User) (string, error) {
	return tm.sign(user.ID, user.Username, user.Role, tm.sessionExpiry)
}

// IssueSuperadminToken signs a token for the configured superadmin. It has no
// user id and a shorter lifetime than regular sessions.
func (tm *TokenManager) IssueSuperadminToken(username string) (string, error) {
	return tm.sign("", username, models.RoleSuperadmin, tm.superadminExpiry)
}

func (tm *TokenManager) sign(userID, username string, role models.Role, ttl time.Duration) (string, error) {
	now := tm.now()
	claims := &models.TokenClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken verifies signature, expiry and role of a token. Every failure
// wraps models.ErrForbidden.
func (tm *TokenManager) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrForbidden, err)
	}
	if !token.Valid {
		return nil, models.ErrForbidden
	}

	if _, err := models.ParseRole(string(claims.Role)); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrForbidden, err)
	}
	if claims.Username == "" {
		return nil, fmt.Errorf("%w: token has no subject", models.ErrForbidden)
	}

	return claims, nil
}
