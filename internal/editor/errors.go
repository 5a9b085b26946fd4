package editor

import "fmt"

// PathError reports an edit instruction that addresses a path the target
// resume does not have, or an index outside the addressed list.
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid edit path %q: %s", e.Path, e.Message)
}

// InstructionError reports a structurally invalid instruction (unknown
// operation, missing value, and so on) independent of any resume.
type InstructionError struct {
	Message string
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("invalid edit instruction: %s", e.Message)
}
