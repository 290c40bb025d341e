// Package store persists named tables.
//
// A [Store] encodes tables with a versioned JSON envelope and hands the bytes
// to a [Backend]: plain files, a bbolt database, SQLite, or PostgreSQL.
// Backends only move opaque blobs by key, so every backend round-trips a
// table identically.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JonMunkholm/dfmanager/internal/table"
)

var (
	ErrNotFound    = errors.New("stored table not found")
	ErrInvalidName = errors.New("invalid table name")
)

// CheckName rejects names that some backend cannot store, so a table name
// stays valid whichever backend is configured.
func CheckName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Backend stores opaque blobs by key.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string
	Put(ctx context.Context, key string, blob []byte) error
	// Get returns ErrNotFound for an unknown key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete returns ErrNotFound for an unknown key.
	Delete(ctx context.Context, key string) error
	// Keys lists stored keys in the backend's natural order.
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Store saves and loads tables through a backend.
type Store struct {
	backend Backend
	logger  *slog.Logger
}

func New(b Backend) *Store {
	return &Store{
		backend: b,
		logger:  slog.Default().With("component", "store", "backend", b.Name()),
	}
}

func (s *Store) Backend() string { return s.backend.Name() }

// Put encodes and stores t under name, replacing any previous table.
func (s *Store) Put(ctx context.Context, name string, t *table.Table) error {
	if err := CheckName(name); err != nil {
		return err
	}
	if t == nil {
		return errors.New("nil table")
	}
	blob, err := Encode(name, t)
	if err != nil {
		return err
	}
	return s.backend.Put(ctx, name, blob)
}

// Get loads the table stored under name.
func (s *Store) Get(ctx context.Context, name string) (*table.Table, error) {
	blob, err := s.backend.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return Decode(blob)
}

// Remove deletes the table stored under name.
func (s *Store) Remove(ctx context.Context, name string) error {
	return s.backend.Delete(ctx, name)
}

// List returns the stored table names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	return s.backend.Keys(ctx)
}

// Save stores t and reports success. Failures are logged, not returned.
func (s *Store) Save(ctx context.Context, name string, t *table.Table) bool {
	if err := s.Put(ctx, name, t); err != nil {
		s.logger.Error("save failed", "name", name, "error", err)
		return false
	}
	s.logger.Info("table saved", "name", name, "rows", t.Len(), "columns", t.Width())
	return true
}

// Load returns the stored table, or nil when it is absent or unreadable.
func (s *Store) Load(ctx context.Context, name string) *table.Table {
	t, err := s.Get(ctx, name)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("load failed", "name", name, "error", err)
		}
		return nil
	}
	return t
}

// Delete removes the stored table and reports whether it was removed.
func (s *Store) Delete(ctx context.Context, name string) bool {
	if err := s.Remove(ctx, name); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("delete failed", "name", name, "error", err)
		}
		return false
	}
	s.logger.Info("table deleted", "name", name)
	return true
}

// Names returns the stored table names, or nil when listing fails.
func (s *Store) Names(ctx context.Context) []string {
	names, err := s.List(ctx)
	if err != nil {
		s.logger.Error("list failed", "error", err)
		return nil
	}
	return names
}

func (s *Store) Close() error { return s.backend.Close() }
