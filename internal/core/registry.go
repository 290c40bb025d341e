package core

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Registry is the persistent set of file groups: each group is a unique
// name with an ordered list of file paths. Every mutation is written
// through to the config file before it returns; if the write fails the
// in-memory state is left as it was.
type Registry struct {
	path string

	mu     sync.RWMutex
	order  []string
	groups map[string][]string
}

// OpenRegistry loads the registry stored at path. A missing file gives an
// empty registry; an unreadable or corrupt one also gives an empty registry
// and a warning, and is overwritten by the next mutation.
func OpenRegistry(path string) *Registry {
	r := &Registry{path: path, groups: make(map[string][]string)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return r
	}
	if err != nil {
		slog.Warn("cannot read group config, starting empty", "path", path, "error", err)
		return r
	}

	order, groups, err := decodeGroups(path, data)
	if err != nil {
		slog.Warn("corrupt group config, starting empty", "path", path, "error", err)
		return r
	}
	r.order, r.groups = order, groups
	slog.Debug("group config loaded", "path", path, "groups", len(order))
	return r
}

// CreateGroup adds an empty group.
func (r *Registry) CreateGroup(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyGroupName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateGroup, name)
	}

	groups := r.cloneGroups()
	groups[name] = []string{}
	return r.commit(append(slices.Clone(r.order), name), groups)
}

// DeleteGroup removes a group and its path list. Files on disk are untouched.
func (r *Registry) DeleteGroup(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[name]; !ok {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, name)
	}

	groups := r.cloneGroups()
	delete(groups, name)
	order := slices.DeleteFunc(slices.Clone(r.order), func(n string) bool { return n == name })
	return r.commit(order, groups)
}

// AddPaths appends the paths not already in the group, keeping their order,
// and returns how many were added. Paths are stored as given.
func (r *Registry) AddPaths(name string, paths []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.groups[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrGroupNotFound, name)
	}

	next := slices.Clone(current)
	for _, p := range paths {
		if !slices.Contains(next, p) {
			next = append(next, p)
		}
	}
	added := len(next) - len(current)
	if added == 0 {
		return 0, nil
	}

	groups := r.cloneGroups()
	groups[name] = next
	if err := r.commit(r.order, groups); err != nil {
		return 0, err
	}
	return added, nil
}

// RemovePaths drops the given paths from the group and returns how many were
// removed. Paths not in the group are ignored.
func (r *Registry) RemovePaths(name string, paths []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.groups[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrGroupNotFound, name)
	}

	next := slices.DeleteFunc(slices.Clone(current), func(p string) bool {
		return slices.Contains(paths, p)
	})
	removed := len(current) - len(next)
	if removed == 0 {
		return 0, nil
	}

	groups := r.cloneGroups()
	groups[name] = next
	if err := r.commit(r.order, groups); err != nil {
		return 0, err
	}
	return removed, nil
}

// Groups returns group names in creation order.
func (r *Registry) Groups() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Paths returns a copy of the group's paths. ok is false for an unknown group.
func (r *Registry) Paths(name string) (paths []string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.groups[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(p), true
}

// cloneGroups copies the map; the path slices are shared and must not be
// mutated in place.
func (r *Registry) cloneGroups() map[string][]string {
	out := make(map[string][]string, len(r.groups))
	for k, v := range r.groups {
		out[k] = v
	}
	return out
}

// commit persists the new state and swaps it in. Callers hold r.mu.
func (r *Registry) commit(order []string, groups map[string][]string) error {
	data, err := encodeGroups(r.path, order, groups)
	if err != nil {
		return &StorageError{Op: "encode", Path: r.path, Err: err}
	}
	if err := writeFileAtomic(r.path, data); err != nil {
		return &StorageError{Op: "write", Path: r.path, Err: err}
	}
	r.order, r.groups = order, groups
	return nil
}

// writeFileAtomic writes to a temp file next to path and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
