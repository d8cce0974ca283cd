package auth

import (
	"bytes"
	"regexp"
	"testing"
	"time"

	"github.com/brinda-08/Quiz/internal/models"
	"github.com/pquerna/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

func newTestIssuer(now time.Time) *OTPIssuer {
	o := NewOTPIssuer(10 * time.Minute)
	o.now = func() time.Time { return now }
	return o
}

func TestOTPIssuer_IssueFormatAndExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(now)
	user := &models.User{Username: "alice"}

	for i := 0; i < 50; i++ {
		code, err := issuer.Issue(user)
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
		require.True(t, user.HasOTP())
		assert.Equal(t, code, *user.OTPCode)
		assert.Equal(t, now.Add(10*time.Minute), *user.OTPExpiresAt)
	}
}

func TestOTPIssuer_IssueKeepsLeadingZeros(t *testing.T) {
	issuer := newTestIssuer(time.Now())
	// rand.Int reads big-endian bytes; an all-zero stream yields 0.
	issuer.rand = bytes.NewReader(make([]byte, 64))

	code, err := issuer.Issue(&models.User{})
	require.NoError(t, err)
	assert.Equal(t, "000000", code)
}

func TestOTPIssuer_CodeSpaceFollowsDigits(t *testing.T) {
	issuer := newTestIssuer(time.Now())
	assert.Equal(t, int64(1_000_000), issuer.codeSpace().Int64())

	issuer.digits = otp.DigitsEight
	assert.Equal(t, int64(100_000_000), issuer.codeSpace().Int64())

	code, err := issuer.Issue(&models.User{})
	require.NoError(t, err)
	assert.Len(t, code, 8)
}

func TestOTPIssuer_IssueReplacesPreviousCode(t *testing.T) {
	issuer := newTestIssuer(time.Now())
	user := &models.User{}
	user.SetOTP("not-a-real-code", time.Now().Add(-time.Hour))

	code, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, code, *user.OTPCode)
	assert.True(t, user.OTPExpiresAt.After(time.Now()))
}

func TestOTPIssuer_Verify(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expiry := issuedAt.Add(10 * time.Minute)
	issuer := newTestIssuer(issuedAt)

	user := &models.User{}
	user.SetOTP("123456", expiry)

	tests := []struct {
		name string
		code string
		now  time.Time
		want bool
	}{
		{"matching before expiry", "123456", issuedAt.Add(time.Minute), true},
		{"matching at expiry instant", "123456", expiry, true},
		{"matching after expiry", "123456", expiry.Add(time.Nanosecond), false},
		{"wrong code", "654321", issuedAt, false},
		{"empty code", "", issuedAt, false},
		{"prefix of code", "12345", issuedAt, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, issuer.Verify(user, tt.code, tt.now))
		})
	}

	// Verify never clears the pending code.
	assert.True(t, user.HasOTP())
	assert.Equal(t, "123456", *user.OTPCode)
}

func TestOTPIssuer_VerifyWithoutCode(t *testing.T) {
	issuer := newTestIssuer(time.Now())
	assert.False(t, issuer.Verify(&models.User{}, "123456", time.Now()))

	code := "123456"
	halfSet := &models.User{OTPCode: &code}
	assert.False(t, issuer.Verify(halfSet, "123456", time.Now()))
}
