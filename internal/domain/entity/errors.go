package entity

import (
	"errors"
	"fmt"
)

// ErrNoRoster is returned by roster stores when no roster has ever been
// saved for the user. It is not a failure.
var ErrNoRoster = errors.New("no roster stored for user")

// ErrUserNotFound is returned by user stores for an unknown user.
var ErrUserNotFound = errors.New("user not found")

// ErrUserExists is returned on registration when the email is taken.
var ErrUserExists = errors.New("user already exists")

// ServerError means the parser backend answered with a non-2xx status.
// The raw body is kept as diagnostic context.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("parser service returned status %d: %s", e.StatusCode, e.Body)
}

// DecodingError means the parser backend's response was not valid JSON or
// did not match the expected shape. Field names the offending field where
// determinable, Date the roster date entry it belongs to.
type DecodingError struct {
	Field string
	Date  string
	Err   error
}

func (e *DecodingError) Error() string {
	msg := "failed to decode roster response"
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	if e.Date != "" {
		msg += fmt.Sprintf(" (date %s)", e.Date)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodingError) Unwrap() error { return e.Err }

// StorageError means a local store read or write failed. The import flow
// uses it to keep storage failures distinct from parser-service failures.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("roster storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// CorruptDataError means a persisted roster file exists but could not be
// parsed. Distinct from ErrNoRoster so callers can tell "no data yet" from
// "data lost".
type CorruptDataError struct {
	Path string
	Err  error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("roster file %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptDataError) Unwrap() error { return e.Err }
