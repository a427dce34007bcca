package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadableFile is matched by every error returned when an upload
	// cannot be read as delimited text or a workbook.
	ErrUnreadableFile = errors.New("unreadable file")

	// ErrMissingColumn is matched by MissingColumnError.
	ErrMissingColumn = errors.New("missing column")
)

// UnreadableFileError describes why an upload could not be read.
type UnreadableFileError struct {
	Name   string
	Line   int
	Reason string
	Err    error
}

func (e *UnreadableFileError) Error() string {
	msg := fmt.Sprintf("unreadable file %q", e.Name)
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports ErrUnreadableFile as a match.
func (e *UnreadableFileError) Is(target error) bool {
	return target == ErrUnreadableFile
}

func (e *UnreadableFileError) Unwrap() error {
	return e.Err
}

func unreadable(name string, line int, reason string, err error) error {
	return &UnreadableFileError{Name: name, Line: line, Reason: reason, Err: err}
}

// MissingColumnError is returned when a computation needs a column the
// uploaded file does not have.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column `%s` missing", e.Column)
}

// Is reports ErrMissingColumn as a match.
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}
