package expunger

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"time"
)

const (
	// MaxAge is how long a session token stays valid.
	MaxAge = 28 * 24 * time.Hour
	// MaxSessions caps the sessions table; the oldest rows go first.
	MaxSessions = 500
	// Interval is the time between scheduled runs.
	Interval = 24 * time.Hour
)

// Start runs an initial expunge immediately in a background goroutine and then
// every Interval until ctx is done.
func Start(ctx context.Context, db *sql.DB) {
	go func() {
		slog.Debug("starting initial session expunge")
		if err := Expunge(db); err != nil {
			slog.Error("failed to expunge sessions", "error", err)
		}

		ticker := time.NewTicker(Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				slog.Debug("starting scheduled session expunge")
				if err := Expunge(db); err != nil {
					slog.Error("failed to expunge sessions", "error", err)
				}
			}
		}
	}()
}

// Expunge removes sessions older than MaxAge, then trims the table to
// MaxSessions rows.
func Expunge(db *sql.DB) error {
	// created_at defaults to CURRENT_TIMESTAMP, which is UTC, as is 'now'.
	res, err := db.Exec("DELETE FROM sessions WHERE created_at < datetime('now', ?)",
		"-"+formatDays(MaxAge)+" days")
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		slog.Info("expunged expired sessions", "removed_count", n)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count); err != nil {
		return err
	}

	if count > MaxSessions {
		limit := count - MaxSessions
		query := `
			DELETE FROM sessions
			WHERE token IN (
				SELECT token
				FROM sessions
				ORDER BY created_at ASC
				LIMIT ?
			)
		`
		if _, err := db.Exec(query, limit); err != nil {
			return err
		}
		slog.Info("expunged excess sessions", "removed_count", limit)
	}

	return nil
}

func formatDays(d time.Duration) string {
	return strconv.Itoa(int(d / (24 * time.Hour)))
}
