package middleware

import (
	"net/http"
	"time"

	"github.com/brinda-08/Quiz/internal/auth"
	pkghttp "github.com/brinda-08/Quiz/pkg/http"
	"github.com/go-chi/httprate"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int
}

// DefaultAuthRateLimit is used when no limit is configured.
func DefaultAuthRateLimit() RateLimitConfig {
	return RateLimitConfig{RequestsPerMinute: 10}
}

func limitExceeded(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteTooManyRequests(w, "Too many requests. Please try again later.")
}

// RateLimitByIP limits requests per client IP. It relies on chi's RealIP
// middleware having rewritten RemoteAddr. A non-positive limit falls back to
// DefaultAuthRateLimit.
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	if config.RequestsPerMinute <= 0 {
		config = DefaultAuthRateLimit()
	}
	return httprate.Limit(
		config.RequestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(limitExceeded),
	)
}

// RateLimitByUser limits authenticated requests per account, falling back to
// the client IP when no claims are present.
func RateLimitByUser(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(userKey),
		httprate.WithLimitHandler(limitExceeded),
	)
}

func userKey(r *http.Request) (string, error) {
	claims := auth.GetUserFromContext(r)
	switch {
	case claims == nil:
		return httprate.KeyByIP(r)
	case claims.UserID != "":
		return "user:" + claims.UserID, nil
	default:
		return "name:" + claims.Username, nil
	}
}
