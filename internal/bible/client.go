// Package bible is the entry point UI layers call into. It wires the CSV
// source, the auth session, the verse-of-the-day client and the user info
// client together and reports every outcome through a callback on the
// client's executor.
package bible

import (
	"context"
	"errors"
	"log/slog"

	"derrclan.com/verse-sdk/internal/async"
	"derrclan.com/verse-sdk/internal/auth"
	"derrclan.com/verse-sdk/internal/config"
	"derrclan.com/verse-sdk/internal/csvsource"
	"derrclan.com/verse-sdk/internal/failure"
	"derrclan.com/verse-sdk/internal/transport"
	"derrclan.com/verse-sdk/internal/userinfo"
	"derrclan.com/verse-sdk/internal/votd"
)

var errMissingCredentials = errors.New("Please enter both username and password")

// Client is one SDK instance. Its session lives as long as the Client.
type Client struct {
	exec          async.Executor
	translationID int

	CSV     *csvsource.Source
	Session *auth.Session
	Verses  *votd.Client
	Users   *userinfo.Client
}

// New builds a Client from cfg. Callbacks are posted to exec; a nil exec
// runs them inline on the request goroutine.
func New(cfg config.Config, exec async.Executor) *Client {
	if exec == nil {
		exec = async.Inline{}
	}
	tc := transport.New(cfg.Transport())
	session := auth.NewSession(cfg.APIBaseURL, tc)

	return &Client{
		exec:          exec,
		translationID: cfg.TranslationID,
		CSV:           csvsource.New(cfg.CSVURL, tc),
		Session:       session,
		Verses:        votd.New(votd.Config{BaseURL: cfg.APIBaseURL, FallbackToken: cfg.FallbackToken}, tc, session),
		Users:         userinfo.New(cfg.APIBaseURL, tc),
	}
}

// LoadVerse fetches the CSV verse. reference is advisory.
func (c *Client) LoadVerse(ctx context.Context, reference string, cb func(async.Result[*csvsource.VerseResponse])) {
	async.Go(ctx, c.exec, func(ctx context.Context) (*csvsource.VerseResponse, error) {
		return c.CSV.FetchVerse(ctx, reference)
	}, cb)
}

// LoadVerseOfDay fetches the verse of the day with the fallback token. A
// non-positive translationID selects the configured translation.
func (c *Client) LoadVerseOfDay(ctx context.Context, translationID int, cb func(async.Result[*votd.Display])) {
	if translationID <= 0 {
		translationID = c.translationID
	}
	async.Go(ctx, c.exec, func(ctx context.Context) (*votd.Display, error) {
		v, err := c.Verses.FetchWithFallbackToken(ctx, translationID)
		if err != nil {
			return nil, err
		}
		d := v.Display()
		return &d, nil
	}, cb)
}

// LoadSessionVerseOfDay is LoadVerseOfDay using the session token.
func (c *Client) LoadSessionVerseOfDay(ctx context.Context, translationID int, cb func(async.Result[*votd.Display])) {
	if translationID <= 0 {
		translationID = c.translationID
	}
	async.Go(ctx, c.exec, func(ctx context.Context) (*votd.Display, error) {
		v, err := c.Verses.FetchWithSession(ctx, translationID)
		if err != nil {
			return nil, err
		}
		d := v.Display()
		return &d, nil
	}, cb)
}

// Login authenticates and then fetches the user's profile with the new
// token. Blank credentials fail without a network call.
func (c *Client) Login(ctx context.Context, username, password string, cb func(async.Result[*userinfo.UserProfile])) {
	if username == "" || password == "" {
		c.exec.Post(func() {
			cb(async.Result[*userinfo.UserProfile]{Err: failure.Format(errMissingCredentials)})
		})
		return
	}
	async.Go(ctx, c.exec, func(ctx context.Context) (*userinfo.UserProfile, error) {
		token, err := c.Session.Authenticate(ctx, username, password)
		if err != nil {
			return nil, err
		}
		return c.Users.FetchUserInfo(ctx, token)
	}, cb)
}

// CheckAuthenticationStatus fetches the profile when a session token is
// present and passes it to cb. Failures are logged and cb is not called.
func (c *Client) CheckAuthenticationStatus(ctx context.Context, cb func(*userinfo.UserProfile)) {
	token := c.Session.Token()
	if token == "" {
		return
	}
	async.Go(ctx, c.exec, func(ctx context.Context) (*userinfo.UserProfile, error) {
		return c.Users.FetchUserInfo(ctx, token)
	}, func(r async.Result[*userinfo.UserProfile]) {
		if r.Err != nil {
			slog.Error("error fetching user info", "error", r.Err)
			return
		}
		cb(r.Value)
	})
}

// IsAuthenticated reports whether the session holds a token.
func (c *Client) IsAuthenticated() bool { return c.Session.IsAuthenticated() }

// Logout clears the session token.
func (c *Client) Logout() { c.Session.Logout() }

// Greeting is the line shown to a logged-in user.
func Greeting(p *userinfo.UserProfile) string {
	return "Hello, " + p.FirstName
}
