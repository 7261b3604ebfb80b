package zeroorm

import "errors"

// Configuration errors. They are returned before any I/O takes place and are
// never retried.
var (
	ErrEmptyCommand          = errors.New("zeroorm: command text is empty")
	ErrNilConnection         = errors.New("zeroorm: connection is nil")
	ErrEmptyConnectionString = errors.New("zeroorm: connection string is empty")
	ErrNilTransaction        = errors.New("zeroorm: transaction is nil")
	ErrPlaceholderCount      = errors.New("zeroorm: command text must reference exactly one placeholder")
	ErrParamNameMismatch     = errors.New("zeroorm: parameter name does not match placeholder")
	ErrNilValue              = errors.New("zeroorm: composite value is nil")
	ErrInvalidTarget         = errors.New("zeroorm: target type must be a struct")
	ErrUnboundPlaceholder    = errors.New("zeroorm: placeholder has no binding")
)

// Strict mode errors. Without strict mode these conditions are only logged.
var (
	ErrUnmappedPlaceholder = errors.New("zeroorm: placeholder has no matching member")
	ErrUnmappedColumn      = errors.New("zeroorm: column has no matching member")
)

// Cursor errors.
var (
	ErrNilCursor        = errors.New("zeroorm: cursor is nil")
	ErrCursorClosed     = errors.New("zeroorm: cursor is closed")
	ErrNoCurrentRow     = errors.New("zeroorm: cursor has no current row")
	ErrSequenceConsumed = errors.New("zeroorm: row sequence already consumed")
)
