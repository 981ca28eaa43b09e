package dbcmd

import (
	"errors"
	"fmt"
)

// Standard sentinel errors returned by generated invokers and the runtime.
var (
	// ErrNotSingular is returned when a single-row query returns more than one row.
	ErrNotSingular = errors.New("dbcmd: result not singular")

	// ErrNoSource is returned when no data source is available for a command.
	ErrNoSource = errors.New("dbcmd: no data source")
)

// NotSingularError represents an error when a query expects at most one
// row but receives several.
type NotSingularError struct {
	label string
	count int // Number of rows seen (-1 if unknown)
}

// Error returns the error string.
func (e *NotSingularError) Error() string {
	if e.count >= 0 {
		return fmt.Sprintf("dbcmd: %s not singular (got %d rows, expected at most 1)", e.label, e.count)
	}
	return fmt.Sprintf("dbcmd: %s not singular", e.label)
}

// Is reports whether the target error matches NotSingularError.
// This allows errors.Is(notSingularErr, ErrNotSingular) to return true.
func (e *NotSingularError) Is(err error) bool {
	return err == ErrNotSingular
}

// Label returns the command label.
func (e *NotSingularError) Label() string {
	return e.label
}

// Count returns the number of rows, or -1 if unknown.
func (e *NotSingularError) Count() int {
	return e.count
}

// NewNotSingularError returns a new NotSingularError for the given command.
func NewNotSingularError(label string) *NotSingularError {
	return &NotSingularError{label: label, count: -1}
}

// NewNotSingularErrorWithCount returns a new NotSingularError with the row count.
func NewNotSingularErrorWithCount(label string, count int) *NotSingularError {
	return &NotSingularError{label: label, count: count}
}

// IsNotSingular returns true if the error is a NotSingularError.
func IsNotSingular(err error) bool {
	if err == nil {
		return false
	}
	var e *NotSingularError
	return errors.As(err, &e) || errors.Is(err, ErrNotSingular)
}

// CommandError wraps a data-access failure with the command that caused it.
type CommandError struct {
	Command string // Command text or routine name
	Op      string // Call shape (e.g., "exec", "scalar", "list", "single")
	Err     error  // Underlying error
}

// Error returns the error string.
func (e *CommandError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("dbcmd: running %s (%s): %v", e.Command, e.Op, e.Err)
	}
	return fmt.Sprintf("dbcmd: running %s: %v", e.Command, e.Err)
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError returns a new CommandError.
func NewCommandError(command, op string, err error) *CommandError {
	return &CommandError{Command: command, Op: op, Err: err}
}

// IsCommandError returns true if the error is a CommandError.
func IsCommandError(err error) bool {
	if err == nil {
		return false
	}
	var e *CommandError
	return errors.As(err, &e)
}
