package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/dfmanager/internal/table"
)

var (
	ErrDuplicateGroup  = errors.New("group already exists")
	ErrGroupNotFound   = errors.New("group not found")
	ErrColumnCollision = errors.New("column name collision")
	ErrNoData          = errors.New("no valid data files in this group")
	ErrSaveFailed      = errors.New("failed to save table")
	ErrTableNotFound   = errors.New("stored table not found")
	ErrEmptyTableName  = errors.New("table name is empty")
)

// ErrEmptyGroupName is returned when creating a group with a blank name. It
// also matches ErrDuplicateGroup, so both create failures can be handled as
// one.
var ErrEmptyGroupName error = emptyGroupNameError{}

type emptyGroupNameError struct{}

func (emptyGroupNameError) Error() string        { return "group name is empty" }
func (emptyGroupNameError) Is(target error) bool { return target == ErrDuplicateGroup }

// MissingFilesError lists every member path of a group that no longer exists.
type MissingFilesError struct {
	Group string
	Paths []string
}

func (e *MissingFilesError) Error() string {
	return fmt.Sprintf("group %q: missing files: %s", e.Group, strings.Join(e.Paths, ", "))
}

// CollisionError reports a column shared by two tables with kinds that
// cannot be unified.
type CollisionError struct {
	Column string
	Kinds  [2]table.Kind
	Table  int
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%v: %q is %s in an earlier table and %s in table %d", ErrColumnCollision, e.Column, e.Kinds[0], e.Kinds[1], e.Table)
}

func (e *CollisionError) Is(target error) bool { return target == ErrColumnCollision }

// StorageError reports a failure persisting the group registry.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
