package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"derrclan.com/verse-sdk/internal/catalog"
	"derrclan.com/verse-sdk/internal/csvsource"
	"derrclan.com/verse-sdk/internal/transport"
	"derrclan.com/verse-sdk/internal/votd"
)

// Config is the client configuration read from the environment.
type Config struct {
	CSVURL        string
	APIBaseURL    string
	FallbackToken string
	TranslationID int
	HTTPTimeout   time.Duration
	HTTPVerbose   bool
	LogLevel      slog.Level
}

// Transport returns the transport settings derived from c.
func (c Config) Transport() transport.Config {
	return transport.Config{
		ConnectTimeout: c.HTTPTimeout,
		ReadTimeout:    c.HTTPTimeout,
		WriteTimeout:   c.HTTPTimeout,
		Verbose:        c.HTTPVerbose,
	}
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		CSVURL:        csvsource.DefaultURL,
		APIBaseURL:    votd.DefaultBaseURL,
		TranslationID: catalog.DefaultTranslationID,
		HTTPTimeout:   transport.DefaultTimeout,
		LogLevel:      slog.LevelInfo,
	}
}

// LoadDotEnv loads the given .env files, or ".env" when none are named.
// Missing files are ignored; variables already set are not overridden.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to load env file", "file", f, "error", err)
		}
	}
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup reads the configuration through lookup.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	c := Default()

	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("VERSE_CSV_URL"); ok {
		c.CSVURL = v
	}
	if v, ok := get("VERSE_API_BASE_URL"); ok {
		c.APIBaseURL = v
	}
	if v, ok := get("VERSE_FALLBACK_TOKEN"); ok {
		c.FallbackToken = v
	}
	if v, ok := get("VERSE_TRANSLATION_ID"); ok {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			return c, fmt.Errorf("invalid VERSE_TRANSLATION_ID %q", v)
		}
		c.TranslationID = id
	}
	if v, ok := get("VERSE_HTTP_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return c, fmt.Errorf("invalid VERSE_HTTP_TIMEOUT %q", v)
		}
		c.HTTPTimeout = d
	}
	if v, ok := get("VERSE_HTTP_VERBOSE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("invalid VERSE_HTTP_VERBOSE %q: %w", v, err)
		}
		c.HTTPVerbose = b
	}
	if v, ok := get("VERSE_LOG_LEVEL"); ok {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return c, fmt.Errorf("invalid VERSE_LOG_LEVEL %q: %w", v, err)
		}
	}

	return c, nil
}

// Getenv returns the trimmed value of key, or def when unset or blank.
func Getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// SetupLogging installs a text slog handler writing to w.
func SetupLogging(w io.Writer, level slog.Level) {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
}
