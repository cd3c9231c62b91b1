package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed its constraints.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// ConflictError carries a human-readable reason and matches ErrConflict.
type ConflictError struct{ Reason string }

func (e *ConflictError) Error() string        { return "conflict: " + e.Reason }
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
