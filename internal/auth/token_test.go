package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/brinda-08/Quiz/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-32-characters-long!!"

func newTestTokenManager(now time.Time) *TokenManager {
	tm := NewTokenManager(testSecret, 24*time.Hour, 2*time.Hour)
	tm.now = func() time.Time { return now }
	return tm
}

func TestTokenManager_SessionTokenRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	tm := newTestTokenManager(now)
	user := &models.User{ID: "9b2f2c1e-0000-4000-8000-000000000001", Username: "alice", Role: models.RoleAdmin}

	token, err := tm.IssueSessionToken(user)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, now.Add(24*time.Hour), claims.ExpiresAt.Time)
	assert.Equal(t, now, claims.IssuedAt.Time)
}

func TestTokenManager_SuperadminToken(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	tm := newTestTokenManager(now)

	token, err := tm.IssueSuperadminToken("root")
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Empty(t, claims.UserID)
	assert.Equal(t, models.RoleSuperadmin, claims.Role)
	assert.Equal(t, now.Add(2*time.Hour), claims.ExpiresAt.Time)
}

func TestTokenManager_UniqueJTI(t *testing.T) {
	tm := newTestTokenManager(time.Now())
	user := &models.User{ID: "id", Username: "bob", Role: models.RoleUser}

	first, err := tm.IssueSessionToken(user)
	require.NoError(t, err)
	second, err := tm.IssueSessionToken(user)
	require.NoError(t, err)

	c1, err := tm.ValidateToken(first)
	require.NoError(t, err)
	c2, err := tm.ValidateToken(second)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestTokenManager_Expired(t *testing.T) {
	issuedAt := time.Now().Add(-3 * time.Hour)
	issuer := newTestTokenManager(issuedAt)

	token, err := issuer.IssueSuperadminToken("root")
	require.NoError(t, err)

	validator := newTestTokenManager(time.Now())
	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	tm := newTestTokenManager(time.Now())
	token, err := tm.IssueSuperadminToken("root")
	require.NoError(t, err)

	other := NewTokenManager("another-secret-that-is-long-enough", 24*time.Hour, 2*time.Hour)
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestTokenManager_TamperedPayload(t *testing.T) {
	tm := newTestTokenManager(time.Now())
	token, err := tm.IssueSessionToken(&models.User{ID: "id", Username: "carol", Role: models.RoleUser})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged, err := tm.sign("id", "carol", models.RoleSuperadmin, time.Hour)
	require.NoError(t, err)
	forgedParts := strings.Split(forged, ".")

	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]
	_, err = tm.ValidateToken(tampered)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestTokenManager_UnknownRole(t *testing.T) {
	now := time.Now()
	claims := &models.TokenClaims{
		Username: "mallory",
		Role:     models.Role("owner"),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = newTestTokenManager(now).ValidateToken(token)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestTokenManager_RejectsNoneAlgorithm(t *testing.T) {
	now := time.Now()
	claims := &models.TokenClaims{
		Username: "mallory",
		Role:     models.RoleSuperadmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestTokenManager(now).ValidateToken(token)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestTokenManager_Garbage(t *testing.T) {
	_, err := newTestTokenManager(time.Now()).ValidateToken("not.a.token")
	assert.ErrorIs(t, err, models.ErrForbidden)
}
