package votd

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

// DefaultBaseURL is the hosted verse API.
const DefaultBaseURL = "https://biblesdk-web-890431326916.us-central1.run.app/"

const opFetch = "Failed to get verse"

// TranslationVerseResponse is the body of votd/today.
type TranslationVerseResponse struct {
	Text          string `json:"text"`
	TranslationID int    `json:"translationId"`
	USFM          string `json:"usfm"`
}

// Reference renders the USFM address for display, e.g. "John 3:16".
func (r TranslationVerseResponse) Reference() string {
	return catalog.FormatUSFM(r.USFM)
}

// Translation returns the short translation name, e.g. "NIV".
func (r TranslationVerseResponse) Translation() string {
	return catalog.TranslationName(r.TranslationID)
}

// Display is a verse ready to render.
type Display struct {
	Reference   string
	Text        string
	Translation string
}

// Display resolves the reference and translation name.
func (r TranslationVerseResponse) Display() Display {
	return Display{
		Reference:   r.Reference(),
		Text:        r.Text,
		Translation: r.Translation(),
	}
}

// Config configures a Client. FallbackToken is the credential used by
// FetchWithFallbackToken; it comes from configuration, never from code.
type Config struct {
	BaseURL       string
	FallbackToken string
}

// Client fetches the verse of the day.
type Client struct {
	baseURL       string
	fallbackToken string
	transport     *transport.Client
	session       *auth.Session
}

// New returns a Client. An empty cfg.BaseURL selects DefaultBaseURL.
func New(cfg Config, tc *transport.Client, session *auth.Session) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:       cfg.BaseURL,
		fallbackToken: cfg.FallbackToken,
		transport:     tc,
		session:       session,
	}
}

// FetchWithFallbackToken fetches the verse of the day with the configured
// fallback token. Session state is never consulted. A non-positive
// translationID selects catalog.DefaultTranslationID.
func (c *Client) FetchWithFallbackToken(ctx context.Context, translationID int) (*TranslationVerseResponse, error) {
	if c.fallbackToken == "" {
		slog.Error("cannot get verse: no fallback token configured")
		return nil, failure.NotAuthenticated()
	}
	slog.Debug("fetching verse of the day with fallback token", "translation_id", translationID)
	return c.fetch(ctx, c.fallbackToken, translationID)
}

// FetchWithSession fetches the verse of the day with the session token. It
// fails with failure.ErrNotAuthenticated, without a network call, when the
// session holds no token.
func (c *Client) FetchWithSession(ctx context.Context, translationID int) (*TranslationVerseResponse, error) {
	var token string
	if c.session != nil {
		token = c.session.Token()
	}
	if token == "" {
		slog.Error("cannot get verse: not authenticated")
		return nil, failure.NotAuthenticated()
	}
	slog.Debug("fetching verse of the day with session token", "translation_id", translationID)
	return c.fetch(ctx, token, translationID)
}

func (c *Client) fetch(ctx context.Context, token string, translationID int) (*TranslationVerseResponse, error) {
	if translationID <= 0 {
		translationID = catalog.DefaultTranslationID
	}

	q := url.Values{}
	q.Set("lat", token)
	q.Set("translationId", strconv.Itoa(translationID))

	resp, err := c.transport.Get(ctx, auth.Endpoint(c.baseURL, "votd/today"), q)
	v, err := normalize.Decode[TranslationVerseResponse](resp, err, opFetch)
	if err != nil {
		slog.Error("failed to get verse", "translation_id", translationID, "error", err)
		return nil, err
	}

	slog.Info("verse fetched", "usfm", v.USFM, "translation_id", v.TranslationID)
	return v, nil
}
