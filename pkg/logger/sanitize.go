package logger

import (
	"strings"
)

// SanitizedEmail masks an email address for logging, e.g. "a****@*******.com".
// An empty address is returned as "[none]".
func SanitizedEmail(email string) string {
	if email == "" {
		return "[none]"
	}
	local, domain, found := strings.Cut(email, "@")
	if !found || local == "" || domain == "" {
		return "[invalid-email]"
	}

	if len(local) > 1 {
		local = local[:1] + strings.Repeat("*", len(local)-1)
	}

	labels := strings.Split(domain, ".")
	for i := 0; i < len(labels)-1; i++ {
		labels[i] = strings.Repeat("*", len(labels[i]))
	}

	return local + "@" + strings.Join(labels, ".")
}

var sensitiveQueryParams = []string{
	"password",
	"token",
	"otp",
	"secret",
	"email",
	"auth",
}

// SanitizeQueryString reports whether a raw query string mentions a sensitive
// parameter and should be redacted as a whole.
func SanitizeQueryString(rawQuery string) bool {
	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveQueryParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}
