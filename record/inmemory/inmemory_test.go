//
// Tencent is pleased to support the open source community by making convcheck available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// convcheck is licensed under the Apache License Version 2.0.
//
//

package inmemory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convcheck/convcheck/record"
)

func TestStoreAppendOrder(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Append(ctx, &record.Record{ID: fmt.Sprintf("rec-%d", i)}))
	}
	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, rec := range records {
		assert.Equal(t, fmt.Sprintf("rec-%d", i), rec.ID)
	}
}

func TestStoreRejectsNilRecord(t *testing.T) {
	store := NewStore()
	assert.Error(t, store.Append(context.Background(), nil))
}

func TestStoreListReturnsSnapshot(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, &record.Record{ID: "first"}))

	snapshot, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)

	require.NoError(t, store.Append(ctx, &record.Record{ID: "second"}))
	assert.Len(t, snapshot, 1)

	current, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, current, 2)
}

func TestStoreConcurrentAppends(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Append(ctx, &record.Record{ID: fmt.Sprintf("rec-%d", i)})
		}(i)
	}
	wg.Wait()
	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, writers)
}
