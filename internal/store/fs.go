package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const fileExt = ".json"

// FSBackend keeps one file per table in a directory.
type FSBackend struct {
	dir string
}

// OpenFS creates dir if needed.
func OpenFS(dir string) (*FSBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FSBackend{dir: dir}, nil
}

func (b *FSBackend) Name() string { return "fs" }

func (b *FSBackend) path(key string) (string, error) {
	if err := CheckName(key); err != nil {
		return "", err
	}
	return filepath.Join(b.dir, key+fileExt), nil
}

// Put writes to a temp file and renames it into place.
func (b *FSBackend) Put(_ context.Context, key string, blob []byte) error {
	path, err := b.path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(b.dir, ".save-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

func (b *FSBackend) Get(_ context.Context, key string) ([]byte, error) {
	path, err := b.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (b *FSBackend) Delete(_ context.Context, key string) error {
	path, err := b.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

// Keys lists stored tables in directory order.
func (b *FSBackend) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, fileExt))
	}
	return keys, nil
}

func (b *FSBackend) Close() error { return nil }
