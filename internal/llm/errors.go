package llm

import "fmt"

// StructuringError represents a failure to turn raw resume text into a
// structured record: the model returned no content or non-parseable output.
type StructuringError struct {
	Message string
	Cause   error
}

func (e *StructuringError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to structure resume: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to structure resume: %s", e.Message)
}

func (e *StructuringError) Unwrap() error {
	return e.Cause
}

// TailoringError represents a failure to tailor a resume to a job
// description.
type TailoringError struct {
	Message string
	Cause   error
}

func (e *TailoringError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to tailor resume: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to tailor resume: %s", e.Message)
}

func (e *TailoringError) Unwrap() error {
	return e.Cause
}

// CoverLetterError represents a failure to generate a cover letter. It never
// blocks a submission on its own.
type CoverLetterError struct {
	Message string
	Cause   error
}

func (e *CoverLetterError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to generate cover letter: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to generate cover letter: %s", e.Message)
}

func (e *CoverLetterError) Unwrap() error {
	return e.Cause
}
