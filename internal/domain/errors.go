// Package domain defines the core record/table types and error kinds shared
// by the blocking-debugger pipeline stages.
package domain

import "fmt"

// InvalidArgumentError indicates a malformed top-level argument: K <= 0, or
// an empty ltable/rtable.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string { return e.Message }

// UnknownColumnError indicates a correspondence entry names a column that is
// not present in the referenced table's schema.
type UnknownColumnError struct {
	Message string
}

func (e *UnknownColumnError) Error() string { return e.Message }

// MalformedCorrespondenceError indicates a correspondence entry is not a
// well-formed (left-column, right-column) pair.
type MalformedCorrespondenceError struct {
	Message string
}

func (e *MalformedCorrespondenceError) Error() string { return e.Message }

// EmptyCorrespondenceError indicates that, after filtering numeric-only
// pairs, only the key pair survives in the attribute correspondence.
type EmptyCorrespondenceError struct {
	Message string
}

func (e *EmptyCorrespondenceError) Error() string { return e.Message }

// DuplicateKeyError indicates a table contains the same key value twice.
type DuplicateKeyError struct {
	Message string
}

func (e *DuplicateKeyError) Error() string { return e.Message }

// SchemaMismatchError indicates the aligned ltable/rtable ended up with a
// differing number of columns — defensive; should not occur when the
// Schema Aligner is correct.
type SchemaMismatchError struct {
	Message string
}

func (e *SchemaMismatchError) Error() string { return e.Message }

// UnknownKeyError indicates the candidate set references a key absent from
// the table it is supposed to belong to.
type UnknownKeyError struct {
	Message string
}

func (e *UnknownKeyError) Error() string { return e.Message }

// ErrInvalidArgument creates an InvalidArgumentError with a formatted message.
func ErrInvalidArgument(format string, args ...interface{}) *InvalidArgumentError {
	return &InvalidArgumentError{Message: fmt.Sprintf(format, args...)}
}

// ErrUnknownColumn creates an UnknownColumnError with a formatted message.
func ErrUnknownColumn(format string, args ...interface{}) *UnknownColumnError {
	return &UnknownColumnError{Message: fmt.Sprintf(format, args...)}
}

// ErrMalformedCorrespondence creates a MalformedCorrespondenceError with a
// formatted message.
func ErrMalformedCorrespondence(format string, args ...interface{}) *MalformedCorrespondenceError {
	return &MalformedCorrespondenceError{Message: fmt.Sprintf(format, args...)}
}

// ErrEmptyCorrespondence creates an EmptyCorrespondenceError with a formatted
// message.
func ErrEmptyCorrespondence(format string, args ...interface{}) *EmptyCorrespondenceError {
	return &EmptyCorrespondenceError{Message: fmt.Sprintf(format, args...)}
}

// ErrDuplicateKey creates a DuplicateKeyError with a formatted message.
func ErrDuplicateKey(format string, args ...interface{}) *DuplicateKeyError {
	return &DuplicateKeyError{Message: fmt.Sprintf(format, args...)}
}

// ErrSchemaMismatch creates a SchemaMismatchError with a formatted message.
func ErrSchemaMismatch(format string, args ...interface{}) *SchemaMismatchError {
	return &SchemaMismatchError{Message: fmt.Sprintf(format, args...)}
}

// ErrUnknownKey creates an UnknownKeyError with a formatted message.
func ErrUnknownKey(format string, args ...interface{}) *UnknownKeyError {
	return &UnknownKeyError{Message: fmt.Sprintf(format, args...)}
}
