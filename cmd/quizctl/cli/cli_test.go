package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brinda-08/Quiz/pkg/client"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubPassword(t *testing.T, passwords ...string) {
	t.Helper()
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	i := 0
	readPassword = func() ([]byte, error) {
		pw := passwords[i%len(passwords)]
		i++
		return []byte(pw), nil
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "root",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("cli-test-secret"))
	require.NoError(t, err)
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLogin_AdminSavesSession(t *testing.T) {
	stubPassword(t, "root-secret")
	token := signedToken(t, time.Now().Add(2*time.Hour))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "root", body["emailOrUsername"])
		assert.Equal(t, "root-secret", body["password"])
		writeJSON(w, http.StatusOK, map[string]string{
			"token": token, "username": "root", "role": "superadmin", "message": "Login successful",
		})
	}))
	defer srv.Close()

	sessionPath := filepath.Join(t.TempDir(), "session.json")
	out, err := run(t, "", "--server", srv.URL, "--session", sessionPath, "login", "--user", "root")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as root (superadmin)")

	session, err := client.LoadSession(sessionPath)
	require.NoError(t, err)
	assert.Equal(t, token, session.Token)
	assert.Equal(t, srv.URL, session.Server)
	assert.Equal(t, "superadmin", session.Role)
}

func TestLogin_UserCompletesWithCode(t *testing.T) {
	stubPassword(t, "pw")
	token := signedToken(t, time.Now().Add(24*time.Hour))
	var sentOTP bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch r.URL.Path {
		case "/api/auth/login":
			writeJSON(w, http.StatusOK, map[string]string{
				"username": "grace", "email": "grace@example.com", "role": "user", "message": "Credentials verified",
			})
		case "/api/auth/send-otp":
			sentOTP = true
			assert.Equal(t, "login", body["purpose"])
			assert.Equal(t, "grace@example.com", body["email"])
			writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent successfully"})
		case "/api/auth/verify-otp-login":
			assert.Equal(t, "123456", body["otp"])
			writeJSON(w, http.StatusOK, map[string]string{
				"token": token, "username": "grace", "role": "user", "message": "Login successful",
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	sessionPath := filepath.Join(t.TempDir(), "session.json")
	out, err := run(t, "123456\n", "--server", srv.URL, "--session", sessionPath, "login", "-u", "grace")
	require.NoError(t, err)
	assert.True(t, sentOTP)
	assert.Contains(t, out, "Logged in as grace (user)")

	session, err := client.LoadSession(sessionPath)
	require.NoError(t, err)
	assert.Equal(t, token, session.Token)
}

func TestLogin_UserWithoutEmail(t *testing.T) {
	stubPassword(t, "pw")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"username": "legacy", "role": "user"})
	}))
	defer srv.Close()

	sessionPath := filepath.Join(t.TempDir(), "session.json")
	_, err := run(t, "", "--server", srv.URL, "--session", sessionPath, "login", "-u", "legacy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no email")

	_, err = client.LoadSession(sessionPath)
	assert.ErrorIs(t, err, client.ErrNoSession)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	stubPassword(t, "wrong")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized", "message": "Invalid credentials"})
	}))
	defer srv.Close()

	_, err := run(t, "", "--server", srv.URL, "--session", filepath.Join(t.TempDir(), "s.json"), "login", "-u", "x")
	require.Error(t, err)
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
}

func saveSession(t *testing.T, server string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	s := &client.Session{
		Server:   server,
		Token:    signedToken(t, time.Now().Add(time.Hour)),
		Username: "root",
		Role:     "superadmin",
	}
	require.NoError(t, s.Save(path))
	return path
}

func TestWhoamiAndLogout(t *testing.T) {
	path := saveSession(t, "http://quiz.test")

	out, err := run(t, "", "--session", path, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "root (superadmin) on http://quiz.test")
	assert.Contains(t, out, "token expires at")

	out, err = run(t, "", "--session", path, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, err = run(t, "", "--session", path, "whoami")
	assert.ErrorIs(t, err, client.ErrNoSession)
}

func TestPendingCommands(t *testing.T) {
	var approved, rejected string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/superadmin/pending":
			writeJSON(w, http.StatusOK, []map[string]any{
				{"id": "p-1", "username": "alan", "email": "alan@example.com", "createdAt": "2026-10-01T10:00:00Z"},
			})
		case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/superadmin/approve/"):
			approved = strings.TrimPrefix(r.URL.Path, "/api/superadmin/approve/")
			writeJSON(w, http.StatusOK, map[string]string{"message": "Admin approved"})
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/superadmin/reject/"):
			rejected = strings.TrimPrefix(r.URL.Path, "/api/superadmin/reject/")
			writeJSON(w, http.StatusOK, map[string]string{"message": "Admin request rejected"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	path := saveSession(t, srv.URL)

	out, err := run(t, "", "--session", path, "pending", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "USERNAME")
	assert.Contains(t, out, "alan@example.com")

	out, err = run(t, "", "--session", path, "pending", "list", "--json")
	require.NoError(t, err)
	var listed []client.PendingAdmin
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "p-1", listed[0].ID)

	out, err = run(t, "", "--session", path, "pending", "approve", "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Admin approved\n", out)
	assert.Equal(t, "p-1", approved)

	out, err = run(t, "", "--session", path, "pending", "reject", "p-2")
	require.NoError(t, err)
	assert.Equal(t, "Admin request rejected\n", out)
	assert.Equal(t, "p-2", rejected)

	_, err = run(t, "", "--session", path, "pending", "approve")
	assert.Error(t, err)
}

func TestPending_NotLoggedIn(t *testing.T) {
	_, err := run(t, "", "--session", filepath.Join(t.TempDir(), "none.json"), "pending", "list")
	assert.ErrorIs(t, err, client.ErrNoSession)
}

func TestUsersCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/superadmin/users", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"users": []map[string]any{{
				"id": "u-1", "username": "grace", "email": "grace@example.com",
				"scores": []map[string]any{{"quizId": "q-1", "title": "Go", "score": 7}},
			}},
			"admins": []map[string]any{{"id": "a-1", "username": "ada"}},
		})
	}))
	defer srv.Close()

	path := saveSession(t, srv.URL)
	out, err := run(t, "", "--session", path, "users")
	require.NoError(t, err)
	assert.Contains(t, out, "QUIZZES TAKEN")
	assert.Contains(t, out, "ada")
	assert.Contains(t, out, "grace@example.com")
}

func TestHashPassword(t *testing.T) {
	stubPassword(t, "hunter22")
	out, err := run(t, "", "hash-password", "--cost", "4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "$2a$04$"))

	stubPassword(t, "one", "two")
	_, err = run(t, "", "hash-password", "--cost", "4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "do not match")
}
