package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBackend keeps tables as rows of a PostgreSQL table.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects a pool of at most maxConns connections and ensures
// the stored_tables table exists.
func OpenPostgres(ctx context.Context, url string, maxConns int32) (*PostgresBackend, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS stored_tables (
			name TEXT PRIMARY KEY,
			payload BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create stored_tables: %w", err)
	}
	return &PostgresBackend{pool: pool}, nil
}

func (b *PostgresBackend) Name() string { return "postgres" }

func (b *PostgresBackend) Put(ctx context.Context, key string, blob []byte) error {
	if key == "" {
		return ErrInvalidName
	}
	_, err := b.pool.Exec(ctx, `
		INSERT INTO stored_tables (name, payload) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
	`, key, blob)
	if err != nil {
		return fmt.Errorf("upsert table %s: %w", key, err)
	}
	return nil
}

func (b *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := b.pool.QueryRow(ctx, "SELECT payload FROM stored_tables WHERE name = $1", key).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query table %s: %w", key, err)
	}
	return blob, nil
}

func (b *PostgresBackend) Delete(ctx context.Context, key string) error {
	tag, err := b.pool.Exec(ctx, "DELETE FROM stored_tables WHERE name = $1", key)
	if err != nil {
		return fmt.Errorf("delete table %s: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Keys lists stored tables in creation order.
func (b *PostgresBackend) Keys(ctx context.Context) ([]string, error) {
	rows, err := b.pool.Query(ctx, "SELECT name FROM stored_tables ORDER BY created_at, name")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (b *PostgresBackend) Close() error {
	b.pool.Close()
	return nil
}
