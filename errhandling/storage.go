package errhandling

import (
	"errors"
	"fmt"
)

// StorageErrorKind classifies object store failures
type StorageErrorKind string

const (
	StorageNotFound     StorageErrorKind = "not_found"
	StorageAccessDenied StorageErrorKind = "access_denied"
	StorageTransient    StorageErrorKind = "transient"
	StorageOther        StorageErrorKind = "other"
)

// StorageError is returned by object store collaborators
type StorageError struct {
	Kind      StorageErrorKind
	Op        string
	Bucket    string
	Key       string
	Retryable bool
	Err       error
}

// NewStorageError builds a StorageError, deriving retryability from the kind
func NewStorageError(kind StorageErrorKind, op, bucket, key string, err error) *StorageError {
	return &StorageError{
		Kind:      kind,
		Op:        op,
		Bucket:    bucket,
		Key:       key,
		Retryable: kind == StorageTransient,
		Err:       err,
	}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s/%s failed (%s): %s", e.Op, e.Bucket, e.Key, e.Kind, e.Err.Error())
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if err is a StorageError flagged as retryable
func IsRetryable(err error) bool {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return storageErr.Retryable
	}
	return false
}

// IsNotFound returns true if err is a StorageError for a missing object
func IsNotFound(err error) bool {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return storageErr.Kind == StorageNotFound
	}
	return false
}
