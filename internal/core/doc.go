// Package core provides the grouping, merging, and persistence logic of the
// table manager.
//
// This package is independent of any UI. The CLI in internal/cli drives it,
// and tests use it directly.
//
// # Architecture
//
// The package is organized around a few concepts:
//
//   - Registry: named groups of file paths, persisted to a JSON or YAML
//     config file on every change.
//   - Load: every file of a group is read by the reader its extension
//     selects (see package format) and the results are stacked with [Concat].
//   - Null policy: missing cells are dropped, zero-filled, or kept with
//     [ApplyNullPolicy].
//   - Service: the entry point tying groups, readers, and the table store
//     together.
//
// # Loading a Group
//
//	svc := core.NewService(core.OpenRegistry("df_manager_config.json"), st, core.Options{})
//	t, err := svc.LoadGroup(ctx, "sales")
//
// A load checks that every member file exists before reading any of them,
// skips files with unknown extensions, and fails on the first file that
// cannot be parsed. Each load carries a load_id in its log entries.
//
// # Merging
//
// Tables are stacked by column name. When a shared column holds values of
// incompatible kinds in two tables, every column of the i-th table is
// renamed "<name>_<i>" and the stack is retried once.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE007: File errors (missing, malformed, too large, unreadable)
//   - GRP001-GRP003: Group errors (empty name, duplicate, not found)
//   - DATA001: Group produced no data
//   - STO001-STO005: Storage errors (config, save, lookup, database)
package core
