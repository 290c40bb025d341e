package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/dfmanager/internal/format"
	"github.com/JonMunkholm/dfmanager/internal/logging"
	"github.com/JonMunkholm/dfmanager/internal/table"
)

// FileStatus describes one member path of a group as it is on disk now.
type FileStatus struct {
	Path      string
	Exists    bool
	Supported bool
	Format    string
}

// LoadGroup reads every file of a group and stacks them into one table.
//
// An unknown or empty group yields (nil, nil). If any member path is missing
// the load fails with *MissingFilesError naming all of them before anything
// is read. Files with an unrecognized extension are skipped; a file that
// fails to parse aborts the load with its *format.ReadError. When no file
// produced a table the result is (nil, nil).
func (s *Service) LoadGroup(ctx context.Context, name string) (*table.Table, error) {
	paths, ok := s.groups.Paths(name)
	if !ok || len(paths) == 0 {
		return nil, nil
	}

	ctx = logging.WithLoadID(ctx, uuid.NewString())
	logger := logging.WithFields(ctx, "group", name)
	start := time.Now()

	if missing := missingPaths(paths); len(missing) > 0 {
		logger.Warn("group has missing files", "missing", len(missing))
		return nil, &MissingFilesError{Group: name, Paths: missing}
	}

	var tables []*table.Table
	for _, p := range paths {
		r, err := format.Lookup(p, s.read)
		if errors.Is(err, format.ErrUnsupportedFormat) {
			logger.Debug("skipping unsupported file", "path", p)
			continue
		}
		if err != nil {
			return nil, err
		}
		t, err := r.Read(p)
		if err != nil {
			logger.Error("read failed", "path", p, "format", r.Kind().String(), "error", err)
			return nil, err
		}
		logger.Debug("file read", "path", p, "format", r.Kind().String(), "rows", t.Len(), "columns", t.Width())
		tables = append(tables, t)
	}
	if len(tables) == 0 {
		logger.Info("group has no readable files")
		return nil, nil
	}

	out, renamed, err := concat(tables)
	if err != nil {
		return nil, err
	}
	if renamed {
		logger.Warn("column names collided, suffixed columns with file index")
	}
	logger.Info("group loaded",
		"files", len(tables),
		"rows", out.Len(),
		"columns", out.Width(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// GroupFiles reports the on-disk state of each path in a group.
func (s *Service) GroupFiles(name string) ([]FileStatus, error) {
	paths, ok := s.groups.Paths(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, name)
	}
	out := make([]FileStatus, len(paths))
	for i, p := range paths {
		st := FileStatus{Path: p, Exists: exists(p)}
		if k, ok := format.Detect(p); ok {
			st.Supported, st.Format = true, k.String()
		}
		out[i] = st
	}
	return out, nil
}

// missingPaths returns the paths that cannot be stat'ed, in group order.
func missingPaths(paths []string) []string {
	var missing []string
	for _, p := range paths {
		if !exists(p) {
			missing = append(missing, p)
		}
	}
	return missing
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
