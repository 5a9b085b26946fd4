package parsing

import "fmt"

// ParseError represents a failure to extract a resume from an uploaded file:
// unsupported type, empty or unextractable content, or malformed structured
// input.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
