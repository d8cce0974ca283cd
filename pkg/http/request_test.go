package http_test

import (
	"net/http/httptest"
	"testing"

	pkghttp "github.com/brinda-08/Quiz/pkg/http"
	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		want       string
	}{
		{"ipv4 with port", "192.168.1.10:54321", "192.168.1.10"},
		{"ipv6 with port", "[2001:db8::1]:8080", "2001:db8::1"},
		{"no port", "10.0.0.1", "10.0.0.1"},
		{"empty", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			assert.Equal(t, tt.want, pkghttp.ClientIP(req))
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"lowercase scheme", "bearer abc", "abc", true},
		{"missing header", "", "", false},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", false},
		{"scheme only", "Bearer", "", false},
		{"blank token", "Bearer   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, ok := pkghttp.BearerToken(req)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
