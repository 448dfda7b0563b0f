package userinfo

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"derrclan.com/verse-sdk/internal/auth"
	"derrclan.com/verse-sdk/internal/catalog"
	"derrclan.com/verse-sdk/internal/failure"
	"derrclan.com/verse-sdk/internal/normalize"
	"derrclan.com/verse-sdk/internal/transport"
)

const opFetch = "Failed to get user info"

// UserProfile is the body of auth/me.
type UserProfile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ID        int64  `json:"id"`
}

// Client fetches the authenticated user's profile.
type Client struct {
	baseURL   string
	transport *transport.Client
}

func New(baseURL string, tc *transport.Client) *Client {
	return &Client{baseURL: baseURL, transport: tc}
}

// FetchUserInfo calls auth/me with token. An empty token fails with
// failure.ErrNotAuthenticated before any network call.
func (c *Client) FetchUserInfo(ctx context.Context, token string) (*UserProfile, error) {
	if token == "" {
		return nil, failure.NotAuthenticated()
	}

	q := url.Values{}
	q.Set("lat", token)
	q.Set("translationId", strconv.Itoa(catalog.DefaultTranslationID))

	resp, err := c.transport.Get(ctx, auth.Endpoint(c.baseURL, "auth/me"), q)
	u, err := normalize.Decode[UserProfile](resp, err, opFetch)
	if err != nil {
		slog.Error("failed to get user info", "error", err)
		return nil, err
	}

	slog.Info("user info fetched", "user_id", u.ID)
	return u, nil
}
