package main

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegistryLastWriteWins(t *testing.T) {
	registry := NewRegistry()
	registry.Record("badger", OpPopulate, 100*time.Millisecond)
	registry.Record("badger", OpPopulate, 250*time.Millisecond)

	snapshot := registry.Snapshot()
	require.Len(t, snapshot, 1)
	require.Equal(t, int64(250), snapshot[0].ElapsedMillis)
}

func TestRegistrySnapshotKeepsFirstWriteOrder(t *testing.T) {
	registry := NewRegistry()
	registry.Record("badger", OpPopulate, time.Millisecond)
	registry.Record("bolt", OpPopulate, time.Millisecond)
	registry.Record("badger", OpUpdate, time.Millisecond)
	// re-writes must not move entries
	registry.Record("badger", OpPopulate, 5*time.Millisecond)

	snapshot := registry.Snapshot()
	require.Len(t, snapshot, 3)
	require.Equal(t, "badger", snapshot[0].Backend)
	require.Equal(t, OpPopulate, snapshot[0].Operation)
	require.Equal(t, int64(5), snapshot[0].ElapsedMillis)
	require.Equal(t, "bolt", snapshot[1].Backend)
	require.Equal(t, OpUpdate, snapshot[2].Operation)
}

func TestRegistryConcurrentUpserts(t *testing.T) {
	registry := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			backend := fmt.Sprintf("backend-%v", i%4)
			for j := 0; j < 100; j++ {
				registry.Record(backend, OpPopulate, time.Duration(j)*time.Millisecond)
				registry.Record(backend, OpUpdate, time.Duration(j)*time.Millisecond)
			}
		}(i)
	}
	wg.Wait()
	require.Len(t, registry.Snapshot(), 8)
}
