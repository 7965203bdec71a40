package main

import "fmt"

// DatasetFetchError reports a failed dataset retrieval. A run that ends with
// this error never invoked the adapter, so every backend is left untouched.
type DatasetFetchError struct {
	URL   string
	Cause error
}

func (e *DatasetFetchError) Error() string {
	return fmt.Sprintf("fetch dataset from %v: %v", e.URL, e.Cause)
}

func (e *DatasetFetchError) Unwrap() error { return e.Cause }

// StorageError is returned by adapters for failures inside their engine. It
// never crosses the runner boundary directly; the runner wraps it into a
// BackendOperationError.
type StorageError struct {
	Backend string
	Cause   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("backend %v: %v", e.Backend, e.Cause)
}

func (e *StorageError) Unwrap() error { return e.Cause }

// BackendOperationError is what a failed adapter call looks like from outside
// the runner: the backend, the operation, and the underlying cause.
type BackendOperationError struct {
	Backend   string
	Operation Operation
	Cause     error
}

func (e *BackendOperationError) Error() string {
	return fmt.Sprintf("%v %v failed: %v", e.Backend, e.Operation, e.Cause)
}

func (e *BackendOperationError) Unwrap() error { return e.Cause }
