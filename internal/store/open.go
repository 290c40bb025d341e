package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFS       = "fs"
	BackendBolt     = "bolt"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type OpenConfig struct {
	Backend     string
	DataPath    string
	DatabaseURL string
	MaxConns    int32
}

// Open builds the configured backend. File-based backends live under
// DataPath: fs uses it as a directory, bolt and sqlite put a database file
// in it.
func Open(ctx context.Context, cfg OpenConfig) (*Store, error) {
	var (
		b   Backend
		err error
	)
	switch strings.ToLower(cfg.Backend) {
	case "", BackendFS:
		b, err = OpenFS(cfg.DataPath)
	case BackendBolt:
		if err = os.MkdirAll(cfg.DataPath, 0o755); err == nil {
			b, err = OpenBolt(filepath.Join(cfg.DataPath, "tables.db"))
		}
	case BackendSQLite:
		if err = os.MkdirAll(cfg.DataPath, 0o755); err == nil {
			b, err = OpenSQLite(filepath.Join(cfg.DataPath, "tables.sqlite"))
		}
	case BackendPostgres:
		b, err = OpenPostgres(ctx, cfg.DatabaseURL, cfg.MaxConns)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return New(b), nil
}
