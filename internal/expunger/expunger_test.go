package expunger

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1)

	query := `
	CREATE TABLE sessions (
		token TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	return db
}

func TestExpunge_TimeLimit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.Exec(`INSERT INTO sessions (token, user_id, created_at) VALUES ('old', 1, datetime('now', '-30 days'))`)
	if err != nil {
		t.Fatalf("failed to insert old session: %v", err)
	}
	_, err = db.Exec(`INSERT INTO sessions (token, user_id, created_at) VALUES ('new', 1, datetime('now', '-1 days'))`)
	if err != nil {
		t.Fatalf("failed to insert new session: %v", err)
	}

	if err := Expunge(db); err != nil {
		t.Fatalf("Expunge failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sessions WHERE token = 'old'").Scan(&count); err != nil {
		t.Fatalf("failed to query count: %v", err)
	}
	if count != 0 {
		t.Errorf("old session should have been deleted")
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM sessions WHERE token = 'new'").Scan(&count); err != nil {
		t.Fatalf("failed to query count: %v", err)
	}
	if count != 1 {
		t.Errorf("new session should have been preserved")
	}
}

func TestExpunge_CountLimit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	// 10 oldest sessions, 10 days ago
	for i := 0; i < 10; i++ {
		_, err := db.Exec(fmt.Sprintf(`INSERT INTO sessions (token, user_id, created_at) VALUES ('old_%d', 1, datetime('now', '-10 days', '+%d seconds'))`, i, i))
		if err != nil {
			t.Fatalf("failed to insert session: %v", err)
		}
	}
	for i := 0; i < MaxSessions; i++ {
		_, err := db.Exec(fmt.Sprintf(`INSERT INTO sessions (token, user_id, created_at) VALUES ('new_%d', 1, datetime('now', '-1 days', '+%d seconds'))`, i, i))
		if err != nil {
			t.Fatalf("failed to insert session: %v", err)
		}
	}

	if err := Expunge(db); err != nil {
		t.Fatalf("Expunge failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count); err != nil {
		t.Fatalf("failed to query total count: %v", err)
	}
	if count != MaxSessions {
		t.Errorf("expected %d sessions, got %d", MaxSessions, count)
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM sessions WHERE token LIKE 'old_%'").Scan(&count); err != nil {
		t.Fatalf("failed to query old sessions count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected all 10 old sessions to be deleted, found %d", count)
	}
}

func TestFormatDays(t *testing.T) {
	if got := formatDays(MaxAge); got != "28" {
		t.Errorf("formatDays(MaxAge) = %q, want 28", got)
	}
}
