// Package sqlite persists engine checkpoints in a SQLite database.
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"atmos-ca/internal/atmos"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// ErrNotFound is returned when no checkpoint matches.
var ErrNotFound = errors.New("checkpoint not found")

const schema = `
CREATE TABLE IF NOT EXISTS checkpoints (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    scenario TEXT NOT NULL,
    tick INTEGER NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    payload BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_checkpoints_scenario ON checkpoints(scenario, seq);
`

// Entry describes a stored checkpoint without its payload.
type Entry struct {
	ID        string    `json:"id"`
	Scenario  string    `json:"scenario"`
	Tick      uint64    `json:"tick"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps checkpoints as encoded JSON blobs.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = "atmos.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Save stores cp under a fresh id.
func (s *Store) Save(ctx context.Context, scenario string, cp atmos.Checkpoint) (Entry, error) {
	var buf bytes.Buffer
	if err := cp.Encode(&buf); err != nil {
		return Entry{}, err
	}
	entry := Entry{
		ID:        uuid.NewString(),
		Scenario:  scenario,
		Tick:      cp.Tick,
		Width:     cp.Width,
		Height:    cp.Height,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checkpoints (id, scenario, tick, width, height, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Scenario, int64(entry.Tick), entry.Width, entry.Height,
		entry.CreatedAt.Format(time.RFC3339Nano), buf.Bytes(),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert checkpoint: %w", err)
	}
	return entry, nil
}

// Get loads the checkpoint with id.
func (s *Store) Get(ctx context.Context, id string) (Entry, atmos.Checkpoint, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, scenario, tick, width, height, created_at, payload
		FROM checkpoints WHERE id = ?`, id)
	return scanCheckpoint(row)
}

// Latest loads the most recent checkpoint. An empty scenario matches any.
func (s *Store) Latest(ctx context.Context, scenario string) (Entry, atmos.Checkpoint, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, scenario, tick, width, height, created_at, payload
		FROM checkpoints WHERE ? = '' OR scenario = ?
		ORDER BY seq DESC LIMIT 1`, scenario, scenario)
	return scanCheckpoint(row)
}

// List returns every checkpoint, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scenario, tick, width, height, created_at
		FROM checkpoints ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			tick    int64
			created string
		)
		if err := rows.Scan(&e.ID, &e.Scenario, &tick, &e.Width, &e.Height, &created); err != nil {
			return nil, fmt.Errorf("scan checkpoint: %w", err)
		}
		e.Tick = uint64(tick)
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes a checkpoint, reporting whether it existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete checkpoint: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanCheckpoint(row *sql.Row) (Entry, atmos.Checkpoint, error) {
	var (
		e       Entry
		tick    int64
		created string
		payload []byte
	)
	err := row.Scan(&e.ID, &e.Scenario, &tick, &e.Width, &e.Height, &created, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, atmos.Checkpoint{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, atmos.Checkpoint{}, fmt.Errorf("scan checkpoint: %w", err)
	}
	e.Tick = uint64(tick)
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	cp, err := atmos.DecodeCheckpoint(bytes.NewReader(payload))
	if err != nil {
		return Entry{}, atmos.Checkpoint{}, err
	}
	return e, cp, nil
}
