// Package core groups files, merges them into one table, applies null
// policies, and saves the result.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Errors are matched first by identity (errors.Is / errors.As against the
// package's sentinels and error types) and then by message pattern, so
// errors that crossed a boundary as plain text still map.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Missing files: One or more files in this group no longer exist
//	          Action: Remove the missing files from the group or restore them
//	          Matches: *MissingFilesError, "missing files"
//
//	FILE002 - Malformed file: A file has rows that do not match its header
//	          Action: Check the reported line for extra or missing fields
//	          Matches: format.ErrFieldCount, format.ErrDuplicateHeader
//
//	FILE003 - File too large: A file exceeds the maximum size limit
//	          Action: Split the file or raise INGEST_MAX_FILE_SIZE
//	          Matches: format.ErrFileTooLarge, "file too large"
//
//	FILE004 - Empty file: A file has no header row
//	          Action: Remove the empty file from the group
//	          Matches: format.ErrEmptyFile
//
//	FILE005 - Unreadable file: A file in this group could not be read
//	          Action: Check that the file is a valid CSV, Excel, or rowout file
//	          Matches: *format.ReadError
//
//	FILE006 - Unsupported format: The file type is not supported
//	          Action: Use a .csv or .xlsx file name
//	          Matches: format.ErrUnsupportedFormat
//
//	FILE007 - Permission denied: A file or folder could not be accessed
//	          Action: Check file permissions
//	          Patterns: "permission denied"
//
// # Group Errors (GRP001-GRP099)
//
//	GRP001 - Empty name: Group name cannot be empty
//	GRP002 - Duplicate group: A group with this name already exists
//	GRP003 - Group not found: The group does not exist
//
// # Data Errors (DATA001-DATA099)
//
//	DATA001 - No data: No valid data files in this group
//	          Action: Add .csv, .xlsx, or .rowout files to the group
//
// # Storage Errors (STO001-STO099)
//
//	STO001 - Config not saved: The group configuration could not be saved
//	STO002 - Save failed: The table could not be saved
//	STO003 - Table not found: No stored table has this name
//	STO004 - Invalid name: Table names cannot be empty or contain slashes
//	STO005 - Database unavailable: Unable to connect to the database
//	         Patterns: "connection refused"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Check the log output for details
//
// The first matching entry wins, so more specific entries come first.
package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/dfmanager/internal/format"
	"github.com/JonMunkholm/dfmanager/internal/store"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern matches an error by identity, by message text, or both.
type errorPattern struct {
	match   func(error) bool
	pattern string
	msg     UserMessage
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func as[T error]() func(error) bool {
	return func(err error) bool {
		var target T
		return errors.As(err, &target)
	}
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors (FILE001-FILE007)
	// =========================================================================
	{
		match:   as[*MissingFilesError](),
		pattern: "missing files",
		msg: UserMessage{
			Message: "One or more files in this group no longer exist",
			Action:  "Remove the missing files from the group or restore them",
			Code:    "FILE001",
		},
	},
	{
		match:   is(format.ErrFieldCount),
		pattern: "wrong number of fields",
		msg: UserMessage{
			Message: "A file has rows that do not match its header",
			Action:  "Check the reported line for extra or missing fields",
			Code:    "FILE002",
		},
	},
	{
		match:   is(format.ErrDuplicateHeader),
		pattern: "duplicate column name",
		msg: UserMessage{
			Message: "A file has rows that do not match its header",
			Action:  "Rename the repeated column in the header line",
			Code:    "FILE002",
		},
	},
	{
		match:   is(format.ErrFileTooLarge),
		pattern: "file too large",
		msg: UserMessage{
			Message: "A file exceeds the maximum size limit",
			Action:  "Split the file or raise INGEST_MAX_FILE_SIZE",
			Code:    "FILE003",
		},
	},
	{
		match: is(format.ErrEmptyFile),
		msg: UserMessage{
			Message: "A file has no header row",
			Action:  "Remove the empty file from the group",
			Code:    "FILE004",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "A file or folder could not be accessed",
			Action:  "Check file permissions",
			Code:    "FILE007",
		},
	},
	{
		match: as[*format.ReadError](),
		msg: UserMessage{
			Message: "A file in this group could not be read",
			Action:  "Check that the file is a valid CSV, Excel, or rowout file",
			Code:    "FILE005",
		},
	},
	{
		match:   is(format.ErrUnsupportedFormat),
		pattern: "unsupported file format",
		msg: UserMessage{
			Message: "The file type is not supported",
			Action:  "Use a .csv or .xlsx file name",
			Code:    "FILE006",
		},
	},

	// =========================================================================
	// Group Errors (GRP001-GRP003)
	// ErrEmptyGroupName also matches ErrDuplicateGroup, so it must come first.
	// =========================================================================
	{
		match: is(ErrEmptyGroupName),
		msg: UserMessage{
			Message: "Group name cannot be empty",
			Action:  "Enter a name for the group",
			Code:    "GRP001",
		},
	},
	{
		match:   is(ErrDuplicateGroup),
		pattern: "group already exists",
		msg: UserMessage{
			Message: "A group with this name already exists",
			Action:  "Choose a different group name",
			Code:    "GRP002",
		},
	},
	{
		match:   is(ErrGroupNotFound),
		pattern: "group not found",
		msg: UserMessage{
			Message: "The group does not exist",
			Action:  "Check the group name with 'group list'",
			Code:    "GRP003",
		},
	},

	// =========================================================================
	// Data Errors (DATA001)
	// =========================================================================
	{
		match: is(ErrNoData),
		msg: UserMessage{
			Message: "No valid data files in this group",
			Action:  "Add .csv, .xlsx, or .rowout files to the group",
			Code:    "DATA001",
		},
	},

	// =========================================================================
	// Storage Errors (STO001-STO005)
	// =========================================================================
	{
		match: as[*StorageError](),
		msg: UserMessage{
			Message: "The group configuration could not be saved",
			Action:  "Check that GROUPS_CONFIG_PATH is writable",
			Code:    "STO001",
		},
	},
	{
		match: func(err error) bool {
			return errors.Is(err, store.ErrInvalidName) || errors.Is(err, ErrEmptyTableName)
		},
		msg: UserMessage{
			Message: "Table names cannot be empty or contain slashes",
			Action:  "Choose a different table name",
			Code:    "STO004",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to the database",
			Action:  "Check DATABASE_URL and that the database is running",
			Code:    "STO005",
		},
	},
	{
		match: is(ErrSaveFailed),
		msg: UserMessage{
			Message: "The table could not be saved",
			Action:  "Check the log output and the storage location",
			Code:    "STO002",
		},
	},
	{
		match: func(err error) bool {
			return errors.Is(err, ErrTableNotFound) || errors.Is(err, store.ErrNotFound)
		},
		pattern: "stored table not found",
		msg: UserMessage{
			Message: "No stored table has this name",
			Action:  "Check the name with 'tables list'",
			Code:    "STO003",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log output for details",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Entries are
// tried in order; an entry matches when its match func accepts the error or
// its pattern occurs in the lowercased message.
//
// Example:
//
//	err := fmt.Errorf("load: %w", core.ErrNoData)
//	msg := MapError(err)
//	// msg.Code == "DATA001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if ep.match != nil && ep.match(err) {
			return ep.msg
		}
		if ep.pattern != "" && strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
