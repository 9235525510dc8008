// File: journal.go
// Title: Batch Journal
// Description: SQLite-backed record of executed batches: their actions,
//              printed output and outcome.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial SQLite journal

package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
)

// Entry is one journaled batch
type Entry struct {
	BatchID      string        `json:"batch_id"`
	SessionID    string        `json:"session_id"`
	Actions      string        `json:"actions"` // JSON array in wire shape
	Output       []string      `json:"output"`
	Total        int           `json:"total"`
	Executed     int           `json:"executed"`
	ErrorCode    string        `json:"error_code,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Duration     time.Duration `json:"duration"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Failed reports whether the batch stopped on an error
func (e *Entry) Failed() bool {
	return e.ErrorCode != "" || e.ErrorMessage != ""
}

// Journal defines batch persistence
type Journal interface {
	Record(ctx context.Context, e *Entry) error
	Get(ctx context.Context, batchID string) (*Entry, error)
	Recent(ctx context.Context, sessionID string, limit int) ([]*Entry, error)
	Statistics(ctx context.Context) (map[string]interface{}, error)
	Close() error
}

// Config holds configuration for the SQLite journal
type Config struct {
	Path string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path: "./data/history.db",
	}
}

// SQLiteJournal implements Journal using SQLite
type SQLiteJournal struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates or opens the journal at cfg.Path
func Open(cfg Config) (*SQLiteJournal, error) {
	dsn := ":memory:"
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, journalError(err, "create journal directory").WithDetail("path", cfg.Path)
		}
		dsn = cfg.Path + "?_journal_mode=WAL&_synchronous=NORMAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, journalError(err, "open journal").WithDetail("path", cfg.Path)
	}
	// a single connection keeps an in-memory database shared
	db.SetMaxOpenConns(1)

	j := &SQLiteJournal{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, journalError(err, "initialize journal schema")
	}
	return j, nil
}

func (j *SQLiteJournal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS batches (
		batch_id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		actions TEXT NOT NULL,
		output TEXT NOT NULL DEFAULT '[]',
		total INTEGER NOT NULL DEFAULT 0,
		executed INTEGER NOT NULL DEFAULT 0,
		error_code TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT '',
		duration_ns INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_batches_session ON batches(session_id);
	CREATE INDEX IF NOT EXISTS idx_batches_created ON batches(created_at DESC);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Record stores a batch
func (j *SQLiteJournal) Record(ctx context.Context, e *Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if e.BatchID == "" {
		return mdwerror.New("batch ID is required").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("history.Record")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if e.Output == nil {
		e.Output = []string{}
	}
	output, err := json.Marshal(e.Output)
	if err != nil {
		return journalError(err, "encode output")
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO batches (batch_id, session_id, actions, output, total, executed,
			error_code, error_message, duration_ns, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.BatchID, e.SessionID, e.Actions, string(output), e.Total, e.Executed,
		e.ErrorCode, e.ErrorMessage, int64(e.Duration), e.CreatedAt)
	if err != nil {
		return journalError(err, "record batch").WithDetail("batch_id", e.BatchID)
	}
	return nil
}

// Get returns a batch by ID
func (j *SQLiteJournal) Get(ctx context.Context, batchID string) (*Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	row := j.db.QueryRowContext(ctx, `
		SELECT batch_id, session_id, actions, output, total, executed,
			error_code, error_message, duration_ns, created_at
		FROM batches WHERE batch_id = ?
	`, batchID)

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, mdwerror.Newf("batch %s not found", batchID).
			WithCode(mdwerror.CodeNotFound).
			WithOperation("history.Get")
	}
	if err != nil {
		return nil, journalError(err, "get batch").WithDetail("batch_id", batchID)
	}
	return e, nil
}

// Recent returns the latest batches, newest first. An empty sessionID
// spans all sessions.
func (j *SQLiteJournal) Recent(ctx context.Context, sessionID string, limit int) ([]*Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT batch_id, session_id, actions, output, total, executed,
			error_code, error_message, duration_ns, created_at
		FROM batches
		WHERE ? = '' OR session_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, sessionID, sessionID, limit)
	if err != nil {
		return nil, journalError(err, "list batches")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, journalError(err, "scan batch")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Statistics returns journal counters
func (j *SQLiteJournal) Statistics(ctx context.Context) (map[string]interface{}, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var batches, sessions, failures int64
	var actions sql.NullInt64
	err := j.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT session_id),
			COALESCE(SUM(CASE WHEN error_code != '' OR error_message != '' THEN 1 ELSE 0 END), 0),
			SUM(executed)
		FROM batches
	`).Scan(&batches, &sessions, &failures, &actions)
	if err != nil {
		return nil, journalError(err, "journal statistics")
	}

	return map[string]interface{}{
		"batches":  batches,
		"sessions": sessions,
		"failures": failures,
		"actions":  actions.Int64,
	}, nil
}

// Close closes the database
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(s scanner) (*Entry, error) {
	var e Entry
	var output string
	var durationNS int64
	err := s.Scan(&e.BatchID, &e.SessionID, &e.Actions, &output, &e.Total, &e.Executed,
		&e.ErrorCode, &e.ErrorMessage, &durationNS, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Duration = time.Duration(durationNS)
	if err := json.Unmarshal([]byte(output), &e.Output); err != nil {
		e.Output = []string{}
	}
	return &e, nil
}

func journalError(err error, msg string) *mdwerror.Error {
	return mdwerror.Wrap(err, msg).
		WithCode(mdwerror.CodeInternal).
		WithOperation("history")
}
