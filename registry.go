package main

import (
	"slices"
	"sync"
	"time"
)

// TimingResult is the most recent measurement for one backend/operation pair.
type TimingResult struct {
	Backend       string    `json:"backend"`
	Operation     Operation `json:"operation"`
	ElapsedMillis int64     `json:"elapsed_ms"`
}

// Registry holds the latest timing per (backend, operation) key. Writes are
// last-write-wins; Snapshot preserves the insertion order of the first write
// for each key so the display stays stable across re-runs. Safe for
// concurrent use: runs triggered in parallel upsert through one mutex.
type Registry struct {
	mu      sync.Mutex
	indexes map[string]int
	results []TimingResult
}

func NewRegistry() *Registry {
	return &Registry{indexes: make(map[string]int)}
}

func (r *Registry) Record(backend string, op Operation, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := TimingResult{Backend: backend, Operation: op, ElapsedMillis: elapsed.Milliseconds()}
	key := backend + "/" + string(op)
	if i, ok := r.indexes[key]; ok {
		r.results[i] = result
		return
	}
	r.indexes[key] = len(r.results)
	r.results = append(r.results, result)
}

func (r *Registry) Snapshot() []TimingResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.results)
}
