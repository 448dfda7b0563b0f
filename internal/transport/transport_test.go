package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestGetMergesQuery(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(Config{})
	resp, err := c.Get(context.Background(), srv.URL+"/votd/today?a=1", url.Values{"lat": {"tok"}, "translationId": {"111"}})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !resp.OK() || string(resp.Body) != "ok" {
		t.Errorf("unexpected response: %d %q", resp.StatusCode, resp.Body)
	}

	want := url.Values{"a": {"1"}, "lat": {"tok"}, "translationId": {"111"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestPostFormEncodesBody(t *testing.T) {
	var contentType, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(Config{Verbose: true})
	resp, err := c.PostForm(context.Background(), srv.URL, url.Values{"username": {"user"}, "password": {"pass"}})
	if err != nil {
		t.Fatalf("PostForm failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want 201", resp.StatusCode)
	}
	if contentType != "application/x-www-form-urlencoded" {
		t.Errorf("content type = %q", contentType)
	}
	if body != "password=pass&username=user" {
		t.Errorf("body = %q", body)
	}
}

func TestNon2xxIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	resp, err := New(Config{}).Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.OK() {
		t.Errorf("401 must not be OK")
	}
}

func TestTransportErrors(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"malformed", "://bad"},
		{"missing scheme", "example.com/path"},
		{"refused", "http://127.0.0.1:1/"},
	}

	c := New(Config{ConnectTimeout: time.Second})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Get(context.Background(), tt.url, nil)
			var te *Error
			if !errors.As(err, &te) {
				t.Fatalf("expected *Error, got %v", err)
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(Config{ConnectTimeout: 20 * time.Millisecond, ReadTimeout: 20 * time.Millisecond, WriteTimeout: 20 * time.Millisecond})
	_, err := c.Get(context.Background(), srv.URL, nil)
	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("expected timeout *Error, got %v", err)
	}
}

func TestRedact(t *testing.T) {
	u, _ := url.Parse("https://api.example.com/auth/me?lat=secret&translationId=111")
	got := redact(u)
	want := "https://api.example.com/auth/me?lat=REDACTED&translationId=111"
	if got != want {
		t.Errorf("redact = %q, want %q", got, want)
	}
}

func TestVerboseLogRedactsTokens(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"lat":"session-secret","status":"ok"}`))
	}))
	defer srv.Close()

	c := New(Config{Verbose: true})
	if _, err := c.PostForm(context.Background(), srv.URL+"/auth/setup", url.Values{"username": {"user"}, "password": {"pw-secret"}}); err != nil {
		t.Fatalf("PostForm failed: %v", err)
	}
	if _, err := c.Get(context.Background(), srv.URL+"/auth/me", url.Values{"lat": {"query-secret"}}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	logged := buf.String()
	for _, secret := range []string{"session-secret", "pw-secret", "query-secret"} {
		if strings.Contains(logged, secret) {
			t.Errorf("log contains %q:\n%s", secret, logged)
		}
	}
	if !strings.Contains(logged, "REDACTED") || !strings.Contains(logged, "status") {
		t.Errorf("expected redacted body in log:\n%s", logged)
	}
}

func TestRedactBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"token field", `{"lat":"abc","status":"ok"}`, `{"lat":"REDACTED","status":"ok"}`},
		{"no token", `{"text":"For God"}`, `{"text":"For God"}`},
		{"not json", `John 3:16,"For God"`, `John 3:16,"For God"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactBody([]byte(tt.body)); got != tt.want {
				t.Errorf("redactBody = %q, want %q", got, tt.want)
			}
		})
	}
}
