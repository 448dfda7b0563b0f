package csvsource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"derrclan.com/verse-sdk/internal/failure"
	"derrclan.com/verse-sdk/internal/transport"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchVerse(t *testing.T) {
	srv := serve(t, http.StatusOK, "John 3:16,\"For God so loved the world...\"\nRomans 8:28,\"And we know\"\n")

	src := New(srv.URL, transport.New(transport.Config{}))
	got, err := src.FetchVerse(context.Background(), "ignored 1:1")
	if err != nil {
		t.Fatalf("FetchVerse failed: %v", err)
	}

	want := &VerseResponse{
		Reference: "John 3:16",
		Verses: []Verse{{
			BookID:   "JHN",
			BookName: "John",
			Chapter:  3,
			Verse:    16,
			Text:     "For God so loved the world...",
		}},
		Text:            "For God so loved the world...",
		TranslationID:   "csv",
		TranslationName: "CSV Version",
		TranslationNote: "From Google Sheets",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantRef string
		want    string
	}{
		{"simple", `John 3:16,"For God so loved the world"`, "John 3:16", "For God so loved the world"},
		{"embedded comma", `Gen 1:1,"In the beginning, God created"`, "Gen 1:1", "In the beginning, God created"},
		{"embedded quote pattern", `Ps 1:1,"Blessed," he said,"is the man"`, "Ps 1:1", `Blessed," he said,"is the man`},
		{"unterminated quote", `Ps 23:1,"The LORD is my shepherd`, "Ps 23:1", "The LORD is my shepherd"},
		{"reference untrimmed", ` Jude 1:25 ,"Amen"`, " Jude 1:25 ", "Amen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			if err != nil {
				t.Fatalf("ParseLine failed: %v", err)
			}
			if got.Reference != tt.wantRef {
				t.Errorf("reference = %q, want %q", got.Reference, tt.wantRef)
			}
			if got.Text != tt.want {
				t.Errorf("text = %q, want %q", got.Text, tt.want)
			}
			if len(got.Verses) != 1 || got.Verses[0].Text != tt.want {
				t.Errorf("verses = %+v", got.Verses)
			}
		})
	}
}

func TestFetchVerseLineEndings(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"lf", "John 3:16,\"For God\"\nPsalm 1:1,\"Blessed\""},
		{"crlf", "John 3:16,\"For God\"\r\nPsalm 1:1,\"Blessed\""},
		{"lone cr", "John 3:16,\"For God\"\rPsalm 1:1,\"Blessed\""},
		{"single line", "John 3:16,\"For God\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, http.StatusOK, tt.body)
			got, err := New(srv.URL, transport.New(transport.Config{})).FetchVerse(context.Background(), "")
			if err != nil {
				t.Fatalf("FetchVerse failed: %v", err)
			}
			if got.Reference != "John 3:16" || got.Text != "For God" {
				t.Errorf("got %q / %q", got.Reference, got.Text)
			}
		})
	}
}

func TestParseLineFormatErrors(t *testing.T) {
	for _, line := range []string{
		"John 3:16 For God so loved",
		`John 3:16,For God "so" loved`,
		`,"leading pattern"`,
		"",
	} {
		_, err := ParseLine(line)
		if !errors.Is(err, failure.ErrFormat) {
			t.Errorf("ParseLine(%q) = %v, want format error", line, err)
		}
	}
}

func TestFetchVerseFailures(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		srv := serve(t, http.StatusOK, "")
		_, err := New(srv.URL, transport.New(transport.Config{})).FetchVerse(context.Background(), "")
		if !errors.Is(err, failure.ErrEmpty) {
			t.Errorf("got %v, want empty error", err)
		}
	})

	t.Run("pattern missing", func(t *testing.T) {
		srv := serve(t, http.StatusOK, "reference,text\n")
		_, err := New(srv.URL, transport.New(transport.Config{})).FetchVerse(context.Background(), "")
		if !errors.Is(err, failure.ErrFormat) {
			t.Errorf("got %v, want format error", err)
		}
	})

	t.Run("http status", func(t *testing.T) {
		srv := serve(t, http.StatusNotFound, "missing")
		_, err := New(srv.URL, transport.New(transport.Config{})).FetchVerse(context.Background(), "")
		if failure.StatusOf(err) != http.StatusNotFound {
			t.Errorf("got %v, want 404", err)
		}
	})

	t.Run("network", func(t *testing.T) {
		_, err := New("http://127.0.0.1:1/", transport.New(transport.Config{})).FetchVerse(context.Background(), "")
		if !errors.Is(err, failure.ErrNetwork) {
			t.Errorf("got %v, want network error", err)
		}
	})
}

func TestNewVerseRejectsNonPositive(t *testing.T) {
	if _, err := NewVerse("JHN", "John", 0, 1, ""); err == nil {
		t.Errorf("chapter 0 must be rejected")
	}
	if _, err := NewVerse("JHN", "John", 1, -1, ""); err == nil {
		t.Errorf("negative verse must be rejected")
	}
}

func TestDefaultURL(t *testing.T) {
	if got := New("", nil).URL(); got != DefaultURL {
		t.Errorf("URL() = %q", got)
	}
}
