package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JonMunkholm/dfmanager/internal/format"
	"github.com/JonMunkholm/dfmanager/internal/logging"
	"github.com/JonMunkholm/dfmanager/internal/store"
	"github.com/JonMunkholm/dfmanager/internal/table"
)

// DefaultPreviewRows is the preview length used when Options leaves it zero.
const DefaultPreviewRows = 50

type Options struct {
	Read        format.Options
	PreviewRows int
	// NullPolicy is used when a caller passes an empty policy.
	NullPolicy NullPolicy
}

// Service ties the group registry, the readers, and the table store together.
type Service struct {
	groups *Registry
	tables *store.Store

	read        format.Options
	previewRows int
	policy      NullPolicy
}

func NewService(groups *Registry, tables *store.Store, opts Options) *Service {
	s := &Service{
		groups:      groups,
		tables:      tables,
		read:        opts.Read,
		previewRows: opts.PreviewRows,
		policy:      opts.NullPolicy,
	}
	if s.previewRows <= 0 {
		s.previewRows = DefaultPreviewRows
	}
	if s.policy == "" {
		s.policy = NullDrop
	}
	return s
}

func (s *Service) resolve(p NullPolicy) NullPolicy {
	if p == "" {
		return s.policy
	}
	return p
}

// ----------------------------------------------------------------------------
// Groups
// ----------------------------------------------------------------------------

func (s *Service) CreateGroup(ctx context.Context, name string) error {
	if err := s.groups.CreateGroup(name); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("group created", "group", name)
	return nil
}

func (s *Service) DeleteGroup(ctx context.Context, name string) error {
	if err := s.groups.DeleteGroup(name); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("group deleted", "group", name)
	return nil
}

func (s *Service) AddFiles(ctx context.Context, name string, paths []string) (int, error) {
	n, err := s.groups.AddPaths(name, paths)
	if err != nil {
		return 0, err
	}
	logging.FromContext(ctx).Info("files added", "group", name, "added", n, "requested", len(paths))
	return n, nil
}

func (s *Service) RemoveFiles(ctx context.Context, name string, paths []string) (int, error) {
	n, err := s.groups.RemovePaths(name, paths)
	if err != nil {
		return 0, err
	}
	logging.FromContext(ctx).Info("files removed", "group", name, "removed", n)
	return n, nil
}

func (s *Service) Groups() []string { return s.groups.Groups() }

// Paths returns a copy of a group's paths. ok is false for an unknown group.
func (s *Service) Paths(name string) ([]string, bool) { return s.groups.Paths(name) }

// ----------------------------------------------------------------------------
// Processing
// ----------------------------------------------------------------------------

// Process loads a group and applies a null policy. A group that yields no
// table, or a table with no rows, is ErrNoData.
func (s *Service) Process(ctx context.Context, group string, policy NullPolicy) (*table.Table, error) {
	t, err := s.LoadGroup(ctx, group)
	if err != nil {
		return nil, err
	}
	if t == nil || t.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, group)
	}
	return ApplyNullPolicy(t, s.resolve(policy)), nil
}

// Preview summarizes a processed group for display.
type Preview struct {
	Group  string
	Policy NullPolicy
	Rows   int
	Cols   int
	Nulls  int
	Head   *table.Table
}

// Preview processes a group and keeps only the first rows of the result.
func (s *Service) Preview(ctx context.Context, group string, policy NullPolicy, rows int) (*Preview, error) {
	if rows <= 0 {
		rows = s.previewRows
	}
	t, err := s.Process(ctx, group, policy)
	if err != nil {
		return nil, err
	}
	return &Preview{
		Group:  group,
		Policy: s.resolve(policy),
		Rows:   t.Len(),
		Cols:   t.Width(),
		Nulls:  t.NullCount(),
		Head:   t.Head(rows),
	}, nil
}

// ProcessAndSave processes a group and stores the result under name,
// replacing any table already stored there.
func (s *Service) ProcessAndSave(ctx context.Context, group, name string, policy NullPolicy) (*table.Table, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyTableName
	}
	t, err := s.Process(ctx, group, policy)
	if err != nil {
		return nil, err
	}
	if err := store.CheckName(name); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrSaveFailed, name, err)
	}
	if !s.tables.Save(ctx, name, t) {
		return nil, fmt.Errorf("%w %q", ErrSaveFailed, name)
	}
	logging.FromContext(ctx).Info("group saved",
		"group", group,
		"name", name,
		"policy", s.resolve(policy),
		"rows", t.Len(),
		"columns", t.Width(),
		"backend", s.tables.Backend(),
	)
	return t, nil
}

// ----------------------------------------------------------------------------
// Stored tables
// ----------------------------------------------------------------------------

// Tables lists stored table names; a failing backend lists nothing.
func (s *Service) Tables(ctx context.Context) []string {
	return s.tables.Names(ctx)
}

// Table loads a stored table. Absent and unreadable tables both report
// ErrTableNotFound; the store logs the underlying failure.
func (s *Service) Table(ctx context.Context, name string) (*table.Table, error) {
	t := s.tables.Load(ctx, name)
	if t == nil {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return t, nil
}

// DeleteTable removes a stored table and reports whether it existed.
func (s *Service) DeleteTable(ctx context.Context, name string) bool {
	return s.tables.Delete(ctx, name)
}

// ExportTable writes a stored table to path as CSV or XLSX.
func (s *Service) ExportTable(ctx context.Context, name, path string) error {
	t, err := s.Table(ctx, name)
	if err != nil {
		return err
	}
	if err := format.Export(path, t); err != nil {
		return err
	}
	slog.Info("table exported", "name", name, "path", path, "rows", t.Len())
	return nil
}
