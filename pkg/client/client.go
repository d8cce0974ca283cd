// Package client is a small HTTP client for the quiz API used by quizctl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is a non-2xx reply from the server.
type APIError struct {
	StatusCode int
	Code       string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

type LoginResponse struct {
	Token    string `json:"token,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	UserID   string `json:"userId,omitempty"`
	Message  string `json:"message"`
}

type PendingAdmin struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type ScoreEntry struct {
	QuizID string `json:"quizId"`
	Title  string `json:"title"`
	Score  int    `json:"score"`
}

type UserSummary struct {
	ID       string       `json:"id"`
	Username string       `json:"username"`
	Email    string       `json:"email,omitempty"`
	Scores   []ScoreEntry `json:"scores"`
}

type AdminSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type UsersAndAdmins struct {
	Users  []UserSummary  `json:"users"`
	Admins []AdminSummary `json:"admins"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Client calls the quiz API. A zero token sends unauthenticated requests.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// Login submits credentials. Admin roles receive a token; plain users
// receive identity hints and continue with SendLoginOTP and VerifyLoginOTP.
func (c *Client) Login(ctx context.Context, identifier, password string) (*LoginResponse, error) {
	var resp LoginResponse
	body := map[string]string{"emailOrUsername": identifier, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendLoginOTP asks the server to email a login code.
func (c *Client) SendLoginOTP(ctx context.Context, username, email, password string) error {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
		"purpose":  "login",
	}
	return c.do(ctx, http.MethodPost, "/api/auth/send-otp", body, &messageResponse{})
}

func (c *Client) VerifyLoginOTP(ctx context.Context, username, otp string) (*LoginResponse, error) {
	var resp LoginResponse
	body := map[string]string{"username": username, "otp": otp}
	if err := c.do(ctx, http.MethodPost, "/api/auth/verify-otp-login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListPending(ctx context.Context) ([]PendingAdmin, error) {
	var resp []PendingAdmin
	if err := c.do(ctx, http.MethodGet, "/api/superadmin/pending", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Approve(ctx context.Context, id string) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/api/superadmin/approve/"+url.PathEscape(id), nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) Reject(ctx context.Context, id string) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, http.MethodDelete, "/api/superadmin/reject/"+url.PathEscape(id), nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) ListUsers(ctx context.Context) (*UsersAndAdmins, error) {
	var resp UsersAndAdmins
	if err := c.do(ctx, http.MethodGet, "/api/superadmin/users", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
