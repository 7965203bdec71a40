package main

import "context"

// Operation names one of the uniform bulk operations every backend supports.
type Operation string

const (
	OpPopulate Operation = "populate"
	OpUpdate   Operation = "update"
)

// DatasetSource supplies the common dataset a benchmark run drives through a
// backend.
type DatasetSource interface {
	Fetch(ctx context.Context) ([]Record, error)
}

// BackendAdapter is the uniform contract over one concrete storage engine.
// An adapter exclusively owns its underlying handle and serializes writes to
// it, so concurrent runs against the same adapter never interleave batches.
//
// BulkInsert upserts every record by identity and is atomic at the batch
// level. BulkUpdate overwrites the mutable fields of records that already
// exist; a missing identity is a silent no-op. Failures surface as
// *StorageError values.
type BackendAdapter interface {
	Name() string
	BulkInsert(ctx context.Context, records []Record) error
	BulkUpdate(ctx context.Context, records []Record) error
	Close() error
}
