package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteBackend keeps tables as rows of a SQLite database.
type SQLiteBackend struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS stored_tables (
			name TEXT PRIMARY KEY NOT NULL,
			payload BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating stored_tables table: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Name() string { return "sqlite" }

func (b *SQLiteBackend) Put(ctx context.Context, key string, blob []byte) error {
	if key == "" {
		return ErrInvalidName
	}
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO stored_tables (name, payload) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP;
	`, key, blob)
	if err != nil {
		return fmt.Errorf("failed to upsert table %s: %w", key, err)
	}
	return nil
}

func (b *SQLiteBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := b.db.QueryRowContext(ctx, "SELECT payload FROM stored_tables WHERE name = ?", key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", key, err)
	}
	return blob, nil
}

func (b *SQLiteBackend) Delete(ctx context.Context, key string) error {
	res, err := b.db.ExecContext(ctx, "DELETE FROM stored_tables WHERE name = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete table %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Keys lists stored tables in insertion order.
func (b *SQLiteBackend) Keys(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, "SELECT name FROM stored_tables ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (b *SQLiteBackend) Close() error { return b.db.Close() }
