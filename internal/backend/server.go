package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"derrclan.com/verse-sdk/internal/auth"
	"derrclan.com/verse-sdk/internal/catalog"
	"derrclan.com/verse-sdk/internal/userinfo"
	"derrclan.com/verse-sdk/internal/votd"
)

// Server serves the verse API: auth/setup, votd/today and auth/me.
type Server struct {
	store          *Store
	daily          *Daily
	fallbackTokens map[string]bool
	now            func() time.Time
}

// NewServer returns a Server. fallbackTokens are accepted by votd/today
// only; they never identify a user.
func NewServer(store *Store, daily *Daily, fallbackTokens ...string) *Server {
	ft := make(map[string]bool, len(fallbackTokens))
	for _, t := range fallbackTokens {
		if t != "" {
			ft[t] = true
		}
	}
	return &Server{store: store, daily: daily, fallbackTokens: ft, now: time.Now}
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)
	r.HandleFunc("/auth/setup", s.handleAuthSetup).Methods(http.MethodPost)
	r.HandleFunc("/votd/today", s.handleVerseOfDay).Methods(http.MethodGet)
	r.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)
	return r
}

func (s *Server) handleAuthSetup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	token, err := s.store.Login(r.Context(), username, password)
	if errors.Is(err, ErrInvalidCredentials) {
		slog.Warn("login rejected", "username", username)
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to log in", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("user logged in", "username", username)
	writeJSON(w, http.StatusOK, auth.Response{Token: token, Status: "ok"})
}

func (s *Server) handleVerseOfDay(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("lat")
	translationID, ok := parseTranslationID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid translationId")
		return
	}

	if !s.fallbackTokens[token] {
		if _, status := s.lookupUser(r, token); status != http.StatusOK {
			writeError(w, status, http.StatusText(status))
			return
		}
	}

	v := s.daily.For(s.now())
	if translationID != BundledTranslationID {
		slog.Debug("translation not bundled, serving KJV", "requested", translationID)
	}
	writeJSON(w, http.StatusOK, votd.TranslationVerseResponse{
		Text:          v.Text,
		TranslationID: BundledTranslationID,
		USFM:          v.USFM,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if _, ok := parseTranslationID(r); !ok {
		writeError(w, http.StatusBadRequest, "invalid translationId")
		return
	}
	u, status := s.lookupUser(r, r.URL.Query().Get("lat"))
	if status != http.StatusOK {
		writeError(w, status, http.StatusText(status))
		return
	}
	writeJSON(w, http.StatusOK, userinfo.UserProfile{FirstName: u.FirstName, LastName: u.LastName, ID: u.ID})
}

func (s *Server) lookupUser(r *http.Request, token string) (*User, int) {
	if token == "" {
		return nil, http.StatusUnauthorized
	}
	u, err := s.store.UserByToken(r.Context(), token)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, http.StatusUnauthorized
	}
	if err != nil {
		slog.Error("failed to look up session", "error", err)
		return nil, http.StatusInternalServerError
	}
	return u, http.StatusOK
}

func parseTranslationID(r *http.Request) (int, bool) {
	v := r.URL.Query().Get("translationId")
	if v == "" {
		return catalog.DefaultTranslationID, true
	}
	id, err := strconv.Atoi(v)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
