package store

import "fmt"

// StorageError marks the persistence layer as unavailable or corrupt. It is
// distinct from absence: a missing row is reported as a nil result with a nil
// error, never as a StorageError.
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage error during %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("storage error during %s", e.Op)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}
