package main

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// recordKey encodes the external identity as a big-endian uint64 so keys sort
// in id order in both key-value engines.
func recordKey(id int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}

// AdapterBadger stores records as JSON objects in a log-structured (LSM)
// key-value store. Inserts go through one write batch; updates do a point
// lookup by identity first and silently skip identities that were never
// inserted.
type AdapterBadger struct {
	mu sync.Mutex
	db *badger.DB
}

func OpenBadger(dir string) (*AdapterBadger, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, err
	}
	return &AdapterBadger{db: db}, nil
}

func (a *AdapterBadger) Name() string { return "badger" }
func (a *AdapterBadger) Close() error { return a.db.Close() }

func (a *AdapterBadger) BulkInsert(ctx context.Context, records []Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	batch := a.db.NewWriteBatch()
	defer batch.Cancel()
	for _, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return &StorageError{Backend: a.Name(), Cause: err}
		}
		if err := batch.Set(recordKey(record.ID), data); err != nil {
			return &StorageError{Backend: a.Name(), Cause: err}
		}
	}
	if err := batch.Flush(); err != nil {
		return &StorageError{Backend: a.Name(), Cause: err}
	}
	return nil
}

func (a *AdapterBadger) BulkUpdate(ctx context.Context, records []Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	batch := a.db.NewWriteBatch()
	defer batch.Cancel()
	err := a.db.View(func(txn *badger.Txn) error {
		for _, record := range records {
			_, err := txn.Get(recordKey(record.ID))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			data, err := json.Marshal(record)
			if err != nil {
				return err
			}
			if err := batch.Set(recordKey(record.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &StorageError{Backend: a.Name(), Cause: err}
	}
	if err := batch.Flush(); err != nil {
		return &StorageError{Backend: a.Name(), Cause: err}
	}
	return nil
}

func (a *AdapterBadger) get(ctx context.Context, id int64) (Record, bool, error) {
	var record Record
	found := false
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &record)
		})
	})
	if err != nil {
		return Record{}, false, err
	}
	return record, found, nil
}

func (a *AdapterBadger) count(ctx context.Context) (int, error) {
	total := 0
	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			total++
		}
		return nil
	})
	return total, err
}
