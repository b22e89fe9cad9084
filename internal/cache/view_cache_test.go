package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mapstore/store-backend/internal/config"
)

func newTestCache(enabled bool) *ViewCache {
	return NewViewCache(config.CacheConfig{Enabled: enabled, TTLSeconds: 60, CleanupSeconds: 120})
}

func TestInvalidateByPrefix(t *testing.T) {
	vc := newTestCache(true)
	vc.Set(Key("/v1/products?page=1", "id"), &Entry{Status: 200, Body: []byte("a")})
	vc.Set(Key("/v1/products/3", "en"), &Entry{Status: 200, Body: []byte("b")})
	vc.Set(Key("/v1/categories", "id"), &Entry{Status: 200, Body: []byte("c")})
	vc.Set(Key("/v1/admin/orders", "id"), &Entry{Status: 200, Body: []byte("d")})

	removed := vc.Invalidate(PathProducts, PathCategories)
	assert.Equal(t, 3, removed)
	assert.Equal(t, 1, vc.Len())

	entry, ok := vc.Get(Key("/v1/admin/orders", "id"))
	assert.True(t, ok)
	assert.Equal(t, []byte("d"), entry.Body)

	_, ok = vc.Get(Key("/v1/products?page=1", "id"))
	assert.False(t, ok)
}

func TestDisabledCacheStoresNothing(t *testing.T) {
	vc := newTestCache(false)
	vc.Set("k", &Entry{Status: 200})

	_, ok := vc.Get("k")
	assert.False(t, ok)
	assert.Zero(t, vc.Invalidate("k"))
}

func TestNilCacheIsSafe(t *testing.T) {
	var vc *ViewCache
	vc.Set("k", &Entry{})
	_, ok := vc.Get("k")
	assert.False(t, ok)
	assert.Zero(t, vc.Invalidate("/v1"))
}
