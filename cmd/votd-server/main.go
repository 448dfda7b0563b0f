package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"derrclan.com/verse-sdk/internal/backend"
	"derrclan.com/verse-sdk/internal/config"
	"derrclan.com/verse-sdk/internal/expunger"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	config.SetupLogging(os.Stderr, cfg.LogLevel)

	store, err := backend.Open(config.Getenv("VOTD_DB", "votd.db"))
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	seedUser(store)

	daily, err := backend.LoadDaily()
	if err != nil {
		slog.Error("failed to load daily verses", "error", err)
		os.Exit(1)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	expunger.Start(ctx, store.DB())

	srv := http.Server{
		Addr:    config.Getenv("VOTD_ADDR", ":42069"),
		Handler: backend.NewServer(store, daily, cfg.FallbackToken).Router(),
	}

	idleConns := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		stop()
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("error shutting down http server", "error", err)
		}
		close(idleConns)
	}()

	slog.Info("verse api listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server died", "error", err)
		os.Exit(1)
	}
	<-idleConns
}

// seedUser creates the account named by VOTD_SEED_USER
// ("username:password:First:Last") if it does not exist yet.
func seedUser(store *backend.Store) {
	seed := os.Getenv("VOTD_SEED_USER")
	if seed == "" {
		return
	}
	parts := strings.SplitN(seed, ":", 4)
	if len(parts) != 4 {
		slog.Warn("ignoring malformed VOTD_SEED_USER")
		return
	}
	_, err := store.CreateUser(context.Background(), parts[0], parts[1], parts[2], parts[3])
	switch {
	case err == nil:
		slog.Info("seeded user", "username", parts[0])
	case errors.Is(err, backend.ErrUserExists):
	default:
		slog.Error("failed to seed user", "error", err)
	}
}
