// Package ledger is the local receiver for delivery statuses: a small SQLite
// table and the HTTP handler the status sink posts to.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"kankotri/internal/delivery"

	_ "modernc.org/sqlite"
)

// ErrInvalidEntry marks an entry that is missing a name or carries an
// unknown status.
var ErrInvalidEntry = errors.New("invalid ledger entry")

// Entry is one stored status report.
type Entry struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Number    string          `json:"number"`
	Status    delivery.Status `json:"status"`
	Message   string          `json:"message"`
	CreatedAt time.Time       `json:"created_at"`
}

// Validate checks the fields the receiver requires.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEntry)
	}
	if !e.Status.Valid() {
		return fmt.Errorf("%w: status %q must be SUCCESS, FAILED or ERROR", ErrInvalidEntry, e.Status)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS delivery_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	number TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	message TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_delivery_logs_status ON delivery_logs(status);
`

// DefaultListLimit caps List when the caller passes no limit.
const DefaultListLimit = 50

// Store persists entries in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("ledger path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; the receiver is low volume.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA busy_timeout = 5000")

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

// Insert validates and stores e, returning it with ID and CreatedAt set.
func (s *Store) Insert(ctx context.Context, e Entry) (Entry, error) {
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO delivery_logs (name, number, status, message, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.Name, e.Number, string(e.Status), e.Message, e.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Entry{}, fmt.Errorf("insert log: %w", err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return Entry{}, fmt.Errorf("insert log: %w", err)
	}
	return e, nil
}

// List returns up to limit entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, number, status, message, created_at FROM delivery_logs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			status  string
			created string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Number, &status, &e.Message, &created); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		e.Status = delivery.Status(status)
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.CreatedAt = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Counts returns the number of stored entries per status.
func (s *Store) Counts(ctx context.Context) (map[delivery.Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM delivery_logs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count logs: %w", err)
	}
	defer rows.Close()

	counts := make(map[delivery.Status]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[delivery.Status(status)] = n
	}
	return counts, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
