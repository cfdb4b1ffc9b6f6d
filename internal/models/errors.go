package models

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized means no (or an expired) session; callers redirect to sign-in.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the principal is authenticated but not allowed; no detail leaks.
	ErrForbidden = errors.New("forbidden")
	ErrNotFound  = errors.New("not found")
	// ErrConflict signals a concurrent modification detected by the version check.
	ErrConflict       = errors.New("conflict")
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError carries field-level messages so a form can be redisplayed
// with every violated rule at once, not just the first.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// ErrOrNil lets builders return the error only when something was recorded.
func (e *ValidationError) ErrOrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var parts []string
	for _, f := range fields {
		for _, msg := range e.Fields[f] {
			parts = append(parts, f+": "+msg)
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
