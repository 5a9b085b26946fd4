// Package session drives the resume-builder lifecycle as a state machine
// over a single logical session.
package session

import "fmt"

// ValidationError represents missing or malformed input rejected before any
// collaborator is invoked.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NotFoundError represents a lookup for a record that does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Message)
}
