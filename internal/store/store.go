// Package store provides PostgreSQL persistence for the current resume slot
// and the append-only resume history.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-builder/internal/types"
)

// currentSlotID keys the single "current resume" row. A multi-user rewrite
// would replace this with a real user or session key.
const currentSlotID = "default"

// DefaultHistoryLimit bounds history listings when the caller does not ask
// for a specific limit.
const DefaultHistoryLimit = 50

// StoredResume is the persistence-layer wrapper around the current resume.
type StoredResume struct {
	ID        string       `json:"id"`
	Data      types.Resume `json:"data"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// HistoryEntry is one append-only snapshot of a saved resume.
type HistoryEntry struct {
	ID        int64        `json:"id"`
	Data      types.Resume `json:"data"`
	Label     string       `json:"label,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// HistorySummary is a listing view of a history entry with the data omitted.
type HistorySummary struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the persistence gateway consumed by the session controller and
// the HTTP layer. Absent rows are reported as nil results, not errors;
// failures surface as *StorageError.
type Store interface {
	// GetResume returns the current slot, or nil if nothing has been saved.
	GetResume(ctx context.Context) (*StoredResume, error)
	// SaveResume upserts the current slot and appends a history entry with
	// the same data as a single atomic unit.
	SaveResume(ctx context.Context, resume types.Resume, label string) (*StoredResume, error)
	// DeleteResume removes the current slot. History is untouched.
	DeleteResume(ctx context.Context) error
	// ListHistory returns at most limit entries, newest first by id.
	ListHistory(ctx context.Context, limit int) ([]HistorySummary, error)
	// GetHistoryEntry returns the full entry, or nil if the id is unknown.
	GetHistoryEntry(ctx context.Context, id int64) (*HistoryEntry, error)
	// DeleteHistoryEntry removes one entry; deleting an unknown id is not an
	// error.
	DeleteHistoryEntry(ctx context.Context, id int64) error
	// ClearHistory removes all entries; idempotent.
	ClearHistory(ctx context.Context) error
	Close()
}

// DB implements Store on a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

var _ Store = (*DB)(nil)

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, &StorageError{Op: "connect", Cause: err}
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &StorageError{Op: "ping", Cause: err}
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the resume tables if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS resumes (
			id TEXT PRIMARY KEY,
			data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return &StorageError{Op: "migrate resumes", Cause: err}
	}

	_, err = db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS resume_history (
			id BIGSERIAL PRIMARY KEY,
			data JSONB NOT NULL,
			label TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return &StorageError{Op: "migrate resume_history", Cause: err}
	}
	return nil
}

// GetResume returns the current slot's contents, or nil if nothing has ever
// been saved.
func (db *DB) GetResume(ctx context.Context) (*StoredResume, error) {
	var (
		stored StoredResume
		raw    []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, data, created_at, updated_at FROM resumes WHERE id = $1`,
		currentSlotID,
	).Scan(&stored.ID, &raw, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, &StorageError{Op: "get resume", Cause: err}
	}

	if err := json.Unmarshal(raw, &stored.Data); err != nil {
		return nil, &StorageError{Op: "decode resume", Cause: err}
	}
	return &stored, nil
}

// SaveResume upserts the current slot and appends a history entry inside one
// transaction; a reader never sees one write without the other.
func (db *DB) SaveResume(ctx context.Context, resume types.Resume, label string) (*StoredResume, error) {
	raw, err := json.Marshal(resume)
	if err != nil {
		return nil, &StorageError{Op: "encode resume", Cause: err}
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, &StorageError{Op: "begin save", Cause: err}
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	now := time.Now().UTC()
	stored := StoredResume{ID: currentSlotID, Data: resume, UpdatedAt: now}
	err = tx.QueryRow(ctx,
		`INSERT INTO resumes (id, data, created_at, updated_at)
		 VALUES ($1, $2, $3, $3)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
		 RETURNING created_at`,
		currentSlotID, raw, now,
	).Scan(&stored.CreatedAt)
	if err != nil {
		return nil, &StorageError{Op: "save resume", Cause: err}
	}

	var historyLabel *string
	if label != "" {
		historyLabel = &label
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO resume_history (data, label, created_at) VALUES ($1, $2, $3)`,
		raw, historyLabel, now,
	)
	if err != nil {
		return nil, &StorageError{Op: "append history", Cause: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &StorageError{Op: "commit save", Cause: err}
	}
	return &stored, nil
}

// DeleteResume removes the current slot. Deleting an empty slot is not an
// error, and history is never touched.
func (db *DB) DeleteResume(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, currentSlotID)
	if err != nil {
		return &StorageError{Op: "delete resume", Cause: err}
	}
	return nil
}

// ListHistory returns the most recent entries, newest first by id, with the
// resume data omitted.
func (db *DB) ListHistory(ctx context.Context, limit int) ([]HistorySummary, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, COALESCE(label, ''), created_at
		 FROM resume_history ORDER BY id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, &StorageError{Op: "list history", Cause: err}
	}
	defer rows.Close()

	var entries []HistorySummary
	for rows.Next() {
		var entry HistorySummary
		if err := rows.Scan(&entry.ID, &entry.Label, &entry.CreatedAt); err != nil {
			return nil, &StorageError{Op: "scan history", Cause: err}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list history", Cause: err}
	}
	return entries, nil
}

// GetHistoryEntry returns the full entry including data, or nil if the id
// does not exist.
func (db *DB) GetHistoryEntry(ctx context.Context, id int64) (*HistoryEntry, error) {
	var (
		entry HistoryEntry
		raw   []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, data, COALESCE(label, ''), created_at FROM resume_history WHERE id = $1`,
		id,
	).Scan(&entry.ID, &raw, &entry.Label, &entry.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, &StorageError{Op: "get history entry", Cause: err}
	}

	if err := json.Unmarshal(raw, &entry.Data); err != nil {
		return nil, &StorageError{Op: "decode history entry", Cause: err}
	}
	return &entry, nil
}

// DeleteHistoryEntry removes one entry by id; unknown ids are ignored.
func (db *DB) DeleteHistoryEntry(ctx context.Context, id int64) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM resume_history WHERE id = $1`, id)
	if err != nil {
		return &StorageError{Op: "delete history entry", Cause: err}
	}
	return nil
}

// ClearHistory removes every history entry.
func (db *DB) ClearHistory(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM resume_history`)
	if err != nil {
		return &StorageError{Op: "clear history", Cause: err}
	}
	return nil
}
