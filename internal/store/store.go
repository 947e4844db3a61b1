// Package store keeps the session journal in SQLite.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/kana/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store wraps SQLite access for journal data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies migrations.
func Open(path string) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			answered_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			glyph TEXT NOT NULL,
			expected TEXT NOT NULL,
			answer TEXT NOT NULL,
			correct INTEGER NOT NULL,
			latency_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_session ON attempts(session_id, id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAttempts stores scored answers in one transaction.
func (s *Store) InsertAttempts(ctx context.Context, attempts []model.Attempt) (err error) {
	if len(attempts) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO attempts (session_id, answered_at, mode, glyph, expected, answer, correct, latency_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, a := range attempts {
		correct := 0
		if a.Correct {
			correct = 1
		}
		if _, err = stmt.ExecContext(ctx,
			a.SessionID,
			a.At.Format(time.RFC3339Nano),
			string(a.Mode),
			a.Glyph,
			a.Expected,
			a.Answer,
			correct,
			a.LatencyMs,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListCharAggregates aggregates attempts per glyph for a session.
func (s *Store) ListCharAggregates(ctx context.Context, sessionID string) ([]model.CharAggregate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT glyph, SUM(correct) AS correct, SUM(1 - correct) AS incorrect,
			SUM(latency_ms) AS latency_sum_ms, SUM(CASE WHEN latency_ms > 0 THEN 1 ELSE 0 END) AS latency_count
		FROM attempts
		WHERE session_id = ?
		GROUP BY glyph
		ORDER BY MIN(id)`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CharAggregate
	for rows.Next() {
		var agg model.CharAggregate
		if err := rows.Scan(&agg.Char, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListAttempts returns a session's attempts in answer order.
func (s *Store) ListAttempts(ctx context.Context, sessionID string) ([]model.Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, answered_at, mode, glyph, expected, answer, correct, latency_ms
		FROM attempts
		WHERE session_id = ?
		ORDER BY id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.Attempt
	for rows.Next() {
		var a model.Attempt
		var answeredAt, mode string
		var correct int
		if err := rows.Scan(&a.SessionID, &answeredAt, &mode, &a.Glyph, &a.Expected, &a.Answer, &correct, &a.LatencyMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, answeredAt)
		if err != nil {
			return nil, err
		}
		a.At = parsed
		a.Mode = model.Mode(mode)
		a.Correct = correct != 0
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteSession removes every attempt of a session.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM attempts WHERE session_id = ?`, sessionID)
	return err
}
