// Package store is an append-only SQLite ledger of finished sessions:
// connect/disconnect timestamps, final score, and board parameters,
// kept for observability only. It is never read back to reconstruct
// board state; board state has no persistence.
package store

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Ledger wraps the SQLite connection backing the session table.
type Ledger struct {
	db *sql.DB
}

// Open initializes (creating parent directories and the table as needed)
// the SQLite-backed ledger at path.
func Open(path string) (*Ledger, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store: create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	const createTableSQL = `
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER,
		name TEXT,
		connected_at DATETIME,
		disconnected_at DATETIME,
		final_score INTEGER,
		board_w INTEGER,
		board_h INTEGER,
		seed INTEGER
	);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create table: %w", err)
	}

	log.Printf("store: ledger opened at %s", path)
	return &Ledger{db: db}, nil
}

// Close releases the underlying database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Session is one completed client session, recorded when a logged-in
// client disconnects.
type Session struct {
	UserID         int
	Name           string
	ConnectedAt    time.Time
	DisconnectedAt time.Time
	FinalScore     int
	BoardW, BoardH int
	Seed           uint64
}

// RecordSession appends s to the ledger. It runs in its own goroutine so
// a slow disk write never blocks the hub's single-writer select loop;
// only captured local values are touched, never live hub state.
func (l *Ledger) RecordSession(s Session) {
	go func() {
		const insertSQL = `
		INSERT INTO sessions (user_id, name, connected_at, disconnected_at, final_score, board_w, board_h, seed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := l.db.Exec(insertSQL,
			s.UserID, s.Name, s.ConnectedAt, s.DisconnectedAt, s.FinalScore,
			s.BoardW, s.BoardH, int64(s.Seed),
		)
		if err != nil {
			log.Printf("store: failed to record session for user %d: %v", s.UserID, err)
			return
		}
		log.Printf("store: recorded session for %s (user %d, score %d)", s.Name, s.UserID, s.FinalScore)
	}()
}

// Sessions returns every recorded session, most recent connection first.
// Used by cmd/minefield-ledger-dump; never consulted by the server.
func (l *Ledger) Sessions() ([]Session, error) {
	rows, err := l.db.Query(`
		SELECT user_id, name, connected_at, disconnected_at, final_score, board_w, board_h, seed
		FROM sessions
		ORDER BY connected_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: query sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var s Session
		var seed int64
		if err := rows.Scan(&s.UserID, &s.Name, &s.ConnectedAt, &s.DisconnectedAt, &s.FinalScore, &s.BoardW, &s.BoardH, &seed); err != nil {
			return nil, fmt.Errorf("store: scan session row: %w", err)
		}
		s.Seed = uint64(seed)
		out = append(out, s)
	}
	return out, rows.Err()
}
