// Package cache keeps rendered GET responses for catalog and admin views and
// drops them by path prefix whenever the underlying data changes.
package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/mapstore/store-backend/internal/config"
)

// Paths invalidated by catalog and order mutations.
const (
	PathProducts    = "/v1/products"
	PathCategories  = "/v1/categories"
	PathOrders      = "/v1/orders"
	PathAdminOrders = "/v1/admin/orders"
	PathAdminStats  = "/v1/admin/dashboard"
)

type Entry struct {
	Status      int
	ContentType string
	Body        []byte
}

type ViewCache struct {
	store   *gocache.Cache
	enabled bool
}

func NewViewCache(cfg config.CacheConfig) *ViewCache {
	return &ViewCache{
		store: gocache.New(
			time.Duration(cfg.TTLSeconds)*time.Second,
			time.Duration(cfg.CleanupSeconds)*time.Second,
		),
		enabled: cfg.Enabled,
	}
}

// Key builds the cache key for a request URI in a given language. Keys
// start with the URI so prefix invalidation works on paths.
func Key(requestURI, lang string) string {
	return requestURI + "#" + lang
}

func (v *ViewCache) Enabled() bool {
	return v != nil && v.enabled
}

func (v *ViewCache) Get(key string) (*Entry, bool) {
	if !v.Enabled() {
		return nil, false
	}
	cached, found := v.store.Get(key)
	if !found {
		return nil, false
	}
	entry, ok := cached.(*Entry)
	return entry, ok
}

func (v *ViewCache) Set(key string, entry *Entry) {
	if !v.Enabled() {
		return
	}
	v.store.SetDefault(key, entry)
}

// Invalidate removes every entry whose key starts with one of prefixes and
// returns how many were dropped.
func (v *ViewCache) Invalidate(prefixes ...string) int {
	if !v.Enabled() {
		return 0
	}

	removed := 0
	for key := range v.store.Items() {
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				v.store.Delete(key)
				removed++
				break
			}
		}
	}

	if removed > 0 {
		logrus.WithFields(logrus.Fields{
			"prefixes": prefixes,
			"removed":  removed,
		}).Debug("View cache invalidated")
	}
	return removed
}

func (v *ViewCache) Len() int {
	if v == nil {
		return 0
	}
	return v.store.ItemCount()
}
