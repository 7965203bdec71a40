package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// sqlite caps bound variables per statement; 3 columns per row keeps chunks
// well under the limit for both the sqlite3 and libsql drivers.
const relationalChunkRows = 300

const relationalSchema = `CREATE TABLE IF NOT EXISTS records (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	value TEXT NOT NULL
)`

func openRelational(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(relationalSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init records schema: %w", err)
	}
	return db, nil
}

// AdapterSQLiteBatch drives the relational engine through hand-built batched
// statements: one transaction per bulk call, chunked multi-row upserts for
// inserts, a prepared per-row statement for updates. An update for an
// identity that was never inserted matches zero rows and is a no-op.
type AdapterSQLiteBatch struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenSQLiteBatch opens the batch adapter over the given database/sql driver.
// The driver is sqlite3 with a local file DSN, or libsql with a remote URL.
func OpenSQLiteBatch(driver, dsn string) (*AdapterSQLiteBatch, error) {
	db, err := openRelational(driver, dsn)
	if err != nil {
		return nil, err
	}
	return &AdapterSQLiteBatch{db: db}, nil
}

func (a *AdapterSQLiteBatch) Name() string { return "sqlite-batch" }
func (a *AdapterSQLiteBatch) Close() error { return a.db.Close() }

func (a *AdapterSQLiteBatch) BulkInsert(ctx context.Context, records []Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Backend: a.Name(), Cause: err}
	}
	defer tx.Rollback()
	for chunk := range slices.Chunk(records, relationalChunkRows) {
		placeholders := strings.Join(slices.Repeat([]string{"(?, ?, ?)"}, len(chunk)), ", ")
		args := make([]any, 0, len(chunk)*3)
		for _, record := range chunk {
			args = append(args, record.ID, record.Name, record.Value)
		}
		query := fmt.Sprintf(
			"INSERT INTO records (id, name, value) VALUES %v ON CONFLICT(id) DO UPDATE SET name = excluded.name, value = excluded.value",
			placeholders,
		)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return &StorageError{Backend: a.Name(), Cause: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &StorageError{Backend: a.Name(), Cause: err}
	}
	return nil
}

func (a *AdapterSQLiteBatch) BulkUpdate(ctx context.Context, records []Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Backend: a.Name(), Cause: err}
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx, "UPDATE records SET name = ?, value = ? WHERE id = ?")
	if err != nil {
		return &StorageError{Backend: a.Name(), Cause: err}
	}
	defer stmt.Close()
	for _, record := range records {
		if _, err := stmt.ExecContext(ctx, record.Name, record.Value, record.ID); err != nil {
			return &StorageError{Backend: a.Name(), Cause: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &StorageError{Backend: a.Name(), Cause: err}
	}
	return nil
}

func (a *AdapterSQLiteBatch) get(ctx context.Context, id int64) (Record, bool, error) {
	return relationalGet(ctx, a.db, id)
}

func (a *AdapterSQLiteBatch) count(ctx context.Context) (int, error) {
	return relationalCount(ctx, a.db)
}

func relationalGet(ctx context.Context, db *sql.DB, id int64) (Record, bool, error) {
	var record Record
	row := db.QueryRowContext(ctx, "SELECT id, name, value FROM records WHERE id = ?", id)
	err := row.Scan(&record.ID, &record.Name, &record.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return record, true, nil
}

func relationalCount(ctx context.Context, db *sql.DB) (int, error) {
	var total int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&total)
	return total, err
}
