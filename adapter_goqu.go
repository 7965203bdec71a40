package main

import (
	"context"
	"database/sql"
	"slices"
	"sync"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

// AdapterGoqu drives the same relational engine as AdapterSQLiteBatch, but
// every statement is built through the goqu typed query layer instead of
// hand-assembled SQL. Semantics match the batch adapter: batch-atomic upsert
// on insert, and updates for missing identities are no-ops.
type AdapterGoqu struct {
	mu sync.Mutex
	db *sql.DB
	gq *goqu.Database
}

func OpenGoqu(driver, dsn string) (*AdapterGoqu, error) {
	db, err := openRelational(driver, dsn)
	if err != nil {
		return nil, err
	}
	return &AdapterGoqu{db: db, gq: goqu.Dialect("sqlite3").DB(db)}, nil
}

func (a *AdapterGoqu) Name() string { return "sqlite-goqu" }
func (a *AdapterGoqu) Close() error { return a.db.Close() }

func (a *AdapterGoqu) BulkInsert(ctx context.Context, records []Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	tx, err := a.gq.Begin()
	if err != nil {
		return &StorageError{Backend: a.Name(), Cause: err}
	}
	err = tx.Wrap(func() error {
		for chunk := range slices.Chunk(records, relationalChunkRows) {
			rows := make([]any, len(chunk))
			for i, record := range chunk {
				rows[i] = record
			}
			_, err := tx.Insert("records").
				Rows(rows...).
				OnConflict(goqu.DoUpdate("id", goqu.Record{
					"name":  goqu.L("excluded.name"),
					"value": goqu.L("excluded.value"),
				})).
				Executor().
				ExecContext(ctx)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &StorageError{Backend: a.Name(), Cause: err}
	}
	return nil
}

func (a *AdapterGoqu) BulkUpdate(ctx context.Context, records []Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	tx, err := a.gq.Begin()
	if err != nil {
		return &StorageError{Backend: a.Name(), Cause: err}
	}
	err = tx.Wrap(func() error {
		for _, record := range records {
			_, err := tx.Update("records").
				Set(goqu.Record{"name": record.Name, "value": record.Value}).
				Where(goqu.C("id").Eq(record.ID)).
				Executor().
				ExecContext(ctx)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &StorageError{Backend: a.Name(), Cause: err}
	}
	return nil
}

func (a *AdapterGoqu) get(ctx context.Context, id int64) (Record, bool, error) {
	var record Record
	found, err := a.gq.From("records").Where(goqu.C("id").Eq(id)).ScanStructContext(ctx, &record)
	return record, found, err
}

func (a *AdapterGoqu) count(ctx context.Context) (int, error) {
	total, err := a.gq.From("records").CountContext(ctx)
	return int(total), err
}
