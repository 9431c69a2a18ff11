package journal

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a sweep ID is not in the journal.
var ErrNotFound = errors.New("sweep not found")

// StorageError represents an error from the journal database.
type StorageError struct {
	Driver    string // database/sql driver name ("sqlite", "sqlite3")
	Operation string // Operation that failed ("open", "record", "query", etc.)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("journal error [driver=%s, operation=%s]: %v", e.Driver, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(driver, operation string, cause error) *StorageError {
	return &StorageError{
		Driver:    driver,
		Operation: operation,
		Cause:     cause,
	}
}
