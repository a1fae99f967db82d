package mailship

import (
	"bytes"
	"errors"
	"fmt"
)

// Error codes. The HTTP boundary maps codes to status codes; anything it
// does not recognize is treated as internal.
const (
	ErrInvalid  = "invalid"
	ErrNotFound = "not_found"
	ErrConflict = "conflict"
	ErrInternal = "internal"
)

// Error is the application error type. Code classifies the failure for the
// client, Message is safe to show, Op names the step that failed, and Err
// carries the underlying cause for the logs.
type Error struct {
	Code    string
	Message string
	Op      string
	Err     error
}

// ErrorCode returns the code of the first coded error in err's chain, or
// ErrInternal when the chain carries no code.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		if e.Code != "" {
			return e.Code
		}
		if e.Err != nil {
			return ErrorCode(e.Err)
		}
	}

	return ErrInternal
}

// ErrorMessage returns the first human-readable message in err's chain.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		if e.Err != nil {
			return ErrorMessage(e.Err)
		}
	}

	return "An internal error has occurred."
}

// Error renders the operation chain down to the root cause.
func (e *Error) Error() string {
	var buf bytes.Buffer

	if e.Op != "" {
		fmt.Fprintf(&buf, "%s: ", e.Op)
	}

	if e.Err != nil {
		buf.WriteString(e.Err.Error())
	} else {
		if e.Code != "" {
			fmt.Fprintf(&buf, "<%s> ", e.Code)
		}
		buf.WriteString(e.Message)
	}

	return buf.String()
}

// Unwrap exposes the cause so errors.Is/As traverse the chain.
func (e *Error) Unwrap() error {
	return e.Err
}
