package main

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var recordsBucket = []byte("records")

// AdapterBolt stores records as JSON objects in an embedded B+tree database.
// Each bulk call runs inside a single write transaction; updates do a point
// lookup by identity inside that transaction and silently skip identities
// that were never inserted.
type AdapterBolt struct {
	mu sync.Mutex
	db *bolt.DB
}

func OpenBolt(path string) (*AdapterBolt, error) {
	db, err := bolt.Open(path, 0660, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(recordsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &AdapterBolt{db: db}, nil
}

func (a *AdapterBolt) Name() string { return "bolt" }
func (a *AdapterBolt) Close() error { return a.db.Close() }

func (a *AdapterBolt) BulkInsert(ctx context.Context, records []Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	err := a.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(recordsBucket)
		for _, record := range records {
			data, err := json.Marshal(record)
			if err != nil {
				return err
			}
			if err := bucket.Put(recordKey(record.ID), data); err != nil {
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

func (a *AdapterBolt) BulkUpdate(ctx context.Context, records []Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	err := a.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(recordsBucket)
		for _, record := range records {
			key := recordKey(record.ID)
			if bucket.Get(key) == nil {
				continue
			}
			data, err := json.Marshal(record)
			if err != nil {
				return err
			}
			if err := bucket.Put(key, data); err != nil {
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

func (a *AdapterBolt) get(ctx context.Context, id int64) (Record, bool, error) {
	var record Record
	found := false
	err := a.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(recordsBucket).Get(recordKey(id))
		if value == nil {
			return nil
		}
		found = true
		return json.Unmarshal(value, &record)
	})
	if err != nil {
		return Record{}, false, err
	}
	return record, found, nil
}

func (a *AdapterBolt) count(ctx context.Context) (int, error) {
	total := 0
	err := a.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(recordsBucket).ForEach(func(key, value []byte) error {
			total++
			return nil
		})
	})
	return total, err
}
