// Package errors provides standardized error handling for srvhelper.
// It defines the two recoverable error families of the application — file
// errors raised while browsing and action errors raised by administrative
// commands — plus helpers for consistent creation and wrapping.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package functions re-exported for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	DirUnreadable
	PathVanished
	NotADirectory
	// Action error kinds
	ActionFailed
	ActionUnknown
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors raised while reading directories in the
// browser. These are always recovered locally: the browser shows the
// message inline and stays in the last good directory.
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ActionError represents a failed administrative action. The message is
// what the operator sees on the status screen; the action is never retried
// automatically.
type ActionError struct {
	ApplicationError
	actionID string
}

// NewActionError creates a new action error
func NewActionError(msg string, actionID string, kind ErrorKind, err error) *ActionError {
	return &ActionError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		actionID: actionID,
	}
}

// Error returns the action error message
func (e *ActionError) Error() string {
	if e.actionID != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.actionID, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.actionID)
	}
	return e.ApplicationError.Error()
}

// ActionID returns the action identifier associated with the error
func (e *ActionError) ActionID() string {
	return e.actionID
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// IsDirUnreadable checks if the error is an unreadable directory error
func IsDirUnreadable(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == DirUnreadable
	}
	return false
}

// IsPathVanished checks if the error reports a path removed mid-browse
func IsPathVanished(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == PathVanished
	}
	return false
}
