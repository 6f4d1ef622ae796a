package chroot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one materialized chroot in the index.
type Record struct {
	Key         string
	Interpreter string
	Binary      string
	Path        string
	Targets     int
	CreatedAt   time.Time
	LastUsedAt  time.Time
}

// Store is the SQLite index of materialized chroots.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens (creating if needed) the index at path and migrates it.
// Use ":memory:" for a throwaway index.
func OpenStore(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open chroot index: %w", err)
	}
	// an in-memory database lives as long as its one connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping chroot index: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the index.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the record for key, or nil if there is none.
func (s *Store) Get(ctx context.Context, key string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, interpreter, binary_path, path, targets, created_at, last_used_at
		FROM chroots WHERE id = ?`, key)

	var r Record
	err := row.Scan(&r.Key, &r.Interpreter, &r.Binary, &r.Path, &r.Targets, &r.CreatedAt, &r.LastUsedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chroot %s: %w", key, err)
	}
	return &r, nil
}

// Put inserts or replaces a record.
func (s *Store) Put(ctx context.Context, r *Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chroots (id, interpreter, binary_path, path, targets, created_at, last_used_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			interpreter = excluded.interpreter,
			binary_path = excluded.binary_path,
			path = excluded.path,
			targets = excluded.targets,
			last_used_at = excluded.last_used_at`,
		r.Key, r.Interpreter, r.Binary, r.Path, r.Targets, r.CreatedAt.UTC(), r.LastUsedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record chroot %s: %w", r.Key, err)
	}
	return nil
}

// Touch updates the last use time of key.
func (s *Store) Touch(ctx context.Context, key string, at time.Time) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE chroots SET last_used_at = ? WHERE id = ?`, at.UTC(), key); err != nil {
		return fmt.Errorf("failed to touch chroot %s: %w", key, err)
	}
	return nil
}

// List returns every record for interpreter, or all records when it is
// empty, most recently used first.
func (s *Store) List(ctx context.Context, interpreter string) ([]*Record, error) {
	query := `SELECT id, interpreter, binary_path, path, targets, created_at, last_used_at FROM chroots`
	var args []any
	if interpreter != "" {
		query += ` WHERE interpreter = ?`
		args = append(args, interpreter)
	}
	query += ` ORDER BY last_used_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list chroots: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Key, &r.Interpreter, &r.Binary, &r.Path, &r.Targets, &r.CreatedAt, &r.LastUsedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chroot: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// Delete removes the record for key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chroots WHERE id = ?`, key); err != nil {
		return fmt.Errorf("failed to delete chroot %s: %w", key, err)
	}
	return nil
}
