package usecase

import "fmt"

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// StorageError normalizes backend-specific failures (timeout, auth, schema)
// so the orchestrator can walk the fallback chain without knowing wire formats.
type StorageError struct {
	Backend string
	Cause   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Backend, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// PersistenceExhaustedError means every store, including the local backup
// file, refused the lead. The only outcome that surfaces as a 500.
type PersistenceExhaustedError struct {
	RemoteErr string
	BackupErr string
}

func (e *PersistenceExhaustedError) Error() string {
	return fmt.Sprintf("lead persistence exhausted: remote: %s; backup: %s", e.RemoteErr, e.BackupErr)
}

func IsPersistenceExhausted(err error) bool {
	_, ok := err.(*PersistenceExhaustedError)
	return ok
}
