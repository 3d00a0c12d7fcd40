// Package analysiserror defines the typed errors that abort an analysis run.
package analysiserror

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates the API token was rejected.
	ErrUnauthorized = errors.New("budgeting service: unauthorized (token missing, expired or revoked)")
	// ErrRateLimited indicates the service refused the request because of its rate limit.
	ErrRateLimited = errors.New("budgeting service: rate limited")
	// ErrNotFound indicates the budget id does not exist for this token.
	ErrNotFound = errors.New("budgeting service: resource not found")
)

// SourceError reports that a read against the budgeting data source failed.
// The run is aborted; Retryable tells whether a later attempt may succeed.
type SourceError struct {
	Operation  string
	StatusCode int
	Retryable  bool
	Err        error
}

func (e *SourceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("source unavailable: %s (status %d): %v", e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("source unavailable: %s: %v", e.Operation, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// MalformedRecordError reports a record that is missing a required field or has a
// value that cannot be parsed. The whole batch is rejected.
type MalformedRecordError struct {
	Kind  string // "transaction" or "category"
	Index int
	ID    string
	Field string
	Value string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	ref := fmt.Sprintf("#%d", e.Index)
	if e.ID != "" {
		ref = fmt.Sprintf("%s (%s)", ref, e.ID)
	}
	if e.Err != nil {
		return fmt.Sprintf("malformed %s %s: field %s='%s': %v", e.Kind, ref, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("malformed %s %s: missing field %s", e.Kind, ref, e.Field)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Key, e.Reason)
}

// IsRetryable reports whether err carries a SourceError marked retryable.
func IsRetryable(err error) bool {
	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		return srcErr.Retryable
	}
	return false
}
