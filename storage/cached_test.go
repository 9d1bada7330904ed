package storage

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"cvedex/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore counts lookups reaching the backend.
type countingStore struct {
	*MemoryStore
	vendorLookups atomic.Int32
}

func (c *countingStore) GetVendor(ctx context.Context, id string) (*core.Vendor, error) {
	c.vendorLookups.Add(1)
	return c.MemoryStore.GetVendor(ctx, id)
}

func TestCachedStore_HitsBackendOnce(t *testing.T) {
	backend := &countingStore{MemoryStore: newTestMemoryStore(t)}
	cached := NewCachedStore(backend, 16, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		v, err := cached.GetVendor(ctx, "v1")
		require.NoError(t, err)
		assert.Equal(t, "Microsoft", v.Name)
	}
	assert.Equal(t, int32(1), backend.vendorLookups.Load())
}

func TestCachedStore_DoesNotCacheErrors(t *testing.T) {
	backend := &countingStore{MemoryStore: newTestMemoryStore(t)}
	cached := NewCachedStore(backend, 16, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := cached.GetVendor(ctx, "missing")
		assert.True(t, errors.Is(err, core.ErrNotFound))
	}
	assert.Equal(t, int32(2), backend.vendorLookups.Load())
}

func TestCachedStore_ReturnsCopies(t *testing.T) {
	cached := NewCachedStore(newTestMemoryStore(t), 16, time.Minute)
	ctx := context.Background()

	first, err := cached.GetProduct(ctx, "p1")
	require.NoError(t, err)
	first.Name = "mutated"

	second, err := cached.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Windows 10", second.Name)
}

func TestCachedStore_PassesThroughQueries(t *testing.T) {
	cached := NewCachedStore(newTestMemoryStore(t), 16, time.Minute)

	n, err := cached.CountVulnerabilities(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	v, err := cached.GetVulnerability(context.Background(), "CVE-2022-0001")
	require.NoError(t, err)
	assert.Equal(t, "Windows kernel flaw", v.Description)
}
