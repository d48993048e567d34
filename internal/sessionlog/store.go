// internal/sessionlog/store.go
package sessionlog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"primeminister/internal/engine"
)

// Store persists session records in a local sqlite database.
type Store struct {
	db *sql.DB
}

// SessionInfo is the summary row shown in history listings.
type SessionInfo struct {
	ID          string
	Question    string
	Mode        string
	Winner      string
	WinnerVotes int
	TieBroken   bool
	CreatedAt   time.Time
}

func Open() (*Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "sessions.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func dataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "primeminister"), nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		question TEXT NOT NULL,
		mode TEXT NOT NULL,
		winner TEXT,
		winner_votes INTEGER DEFAULT 0,
		tie_broken INTEGER DEFAULT 0,
		record TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSession stores the canonical record for a completed deliberation.
func (s *Store) SaveSession(session *engine.Session) error {
	record := BuildRecord(session)

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	winner, winnerVotes, _ := record.Winner()

	_, err = s.db.Exec(
		`INSERT INTO sessions (id, question, mode, winner, winner_votes, tie_broken, record, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.Question, string(session.Mode),
		winner, winnerVotes, session.Metadata.TieBroken,
		string(payload), session.CreatedAt,
	)
	return err
}

// ListSessions returns the most recent sessions, newest first.
func (s *Store) ListSessions(limit int) ([]SessionInfo, error) {
	rows, err := s.db.Query(
		`SELECT id, question, mode, winner, winner_votes, tie_broken, created_at
		 FROM sessions ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var winner sql.NullString
		if err := rows.Scan(&info.ID, &info.Question, &info.Mode, &winner, &info.WinnerVotes, &info.TieBroken, &info.CreatedAt); err != nil {
			return nil, err
		}
		info.Winner = winner.String
		sessions = append(sessions, info)
	}
	return sessions, rows.Err()
}

// GetRecord retrieves the full record for a session by id.
func (s *Store) GetRecord(id string) (*Record, error) {
	row := s.db.QueryRow(`SELECT record FROM sessions WHERE id = ?`, id)

	var payload string
	if err := row.Scan(&payload); err != nil {
		return nil, err
	}

	var record Record
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return &record, nil
}
