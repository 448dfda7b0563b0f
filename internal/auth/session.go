package auth

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"derrclan.com/verse-sdk/internal/failure"
	"derrclan.com/verse-sdk/internal/normalize"
	"derrclan.com/verse-sdk/internal/transport"
)

const opAuthenticate = "Authentication failed"

// Response is the body returned by auth/setup.
type Response struct {
	Token  string `json:"lat"`
	Status string `json:"status"`
}

// Session holds the in-memory token of one client instance. The token is set
// only by a successful Authenticate and cleared only by Logout.
type Session struct {
	baseURL   string
	transport *transport.Client

	mu    sync.RWMutex
	token string
}

// NewSession returns an unauthenticated session against baseURL.
func NewSession(baseURL string, tc *transport.Client) *Session {
	return &Session{baseURL: baseURL, transport: tc}
}

// Authenticate posts the credentials to auth/setup and stores the returned
// token. Concurrent calls are last-writer-wins.
func (s *Session) Authenticate(ctx context.Context, username, password string) (string, error) {
	slog.Info("authenticating user", "username", username)

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := s.transport.PostForm(ctx, Endpoint(s.baseURL, "auth/setup"), form)
	ar, err := normalize.Decode[Response](resp, err, opAuthenticate)
	if err != nil {
		slog.Error("authentication failed", "username", username, "error", err)
		return "", err
	}
	if ar.Token == "" {
		slog.Error("authentication response has no token", "username", username)
		return "", failure.EmptyResponse(opAuthenticate)
	}

	s.mu.Lock()
	s.token = ar.Token
	s.mu.Unlock()

	slog.Info("authentication successful", "username", username, "status", ar.Status)
	return ar.Token, nil
}

// IsAuthenticated reports whether a token is currently stored.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// Token returns the stored token, or "" when unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Logout clears the stored token. It is safe to call repeatedly.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

// Endpoint joins baseURL and path with exactly one slash between them.
func Endpoint(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
