package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/brinda-08/Quiz/internal/models"
	"github.com/pquerna/otp"
)

// OTPIssuer generates one-time codes and checks them against a user record.
type OTPIssuer struct {
	ttl    time.Duration
	digits otp.Digits
	rand   io.Reader
	now    func() time.Time
}

func NewOTPIssuer(ttl time.Duration) *OTPIssuer {
	return &OTPIssuer{
		ttl:    ttl,
		digits: otp.DigitsSix,
		rand:   rand.Reader,
		now:    time.Now,
	}
}

// Issue attaches a fresh six digit code and its expiry to user and returns
// the code. Any previous code is replaced.
func (o *OTPIssuer) Issue(user *models.User) (string, error) {
	n, err := rand.Int(o.rand, o.codeSpace())
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}

	code := o.digits.Format(int32(n.Int64()))
	user.SetOTP(code, o.now().Add(o.ttl))
	return code, nil
}

// codeSpace is 10^digits, the number of distinct codes.
func (o *OTPIssuer) codeSpace() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(o.digits.Length())), nil)
}

// Verify reports whether code matches the user's pending code at instant now.
// The expiry instant itself is still valid. The record is not modified.
func (o *OTPIssuer) Verify(user *models.User, code string, now time.Time) bool {
	if !user.HasOTP() {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(*user.OTPCode), []byte(code)) != 1 {
		return false
	}
	return !now.After(*user.OTPExpiresAt)
}

// Now returns the issuer's current time.
func (o *OTPIssuer) Now() time.Time {
	return o.now()
}
