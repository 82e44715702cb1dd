// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
	"strings"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Reconciliation errors.
	ErrNoWorkOrders  = errors.New("no work orders in snapshot")
	ErrEmptySource   = errors.New("source table is empty")
	ErrUnknownSource = errors.New("unknown source table")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// MissingColumnsError reports canonical columns absent from a source table.
// It is a warning-grade condition: the pipeline materializes the columns as
// empty and keeps going, but callers need to know which fields are degraded.
type MissingColumnsError struct {
	Source  string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("source %s is missing columns: %s", e.Source, strings.Join(e.Columns, ", "))
}

// SourceUnreadableError is the one fatal ingestion condition: a source table
// could not be read at all. It always names the source so the caller can
// identify which upload failed.
type SourceUnreadableError struct {
	Err    error
	Source string
}

func (e *SourceUnreadableError) Error() string {
	return fmt.Sprintf("source %s is unreadable: %v", e.Source, e.Err)
}

func (e *SourceUnreadableError) Unwrap() error {
	return e.Err
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
