package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapstore/store-backend/internal/cache"
	"github.com/mapstore/store-backend/internal/models"
)

func TestNotificationsRefreshDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCategory(t, "streaming", "Streaming")
	netflix := env.seedProduct(t, "Netflix Premium", 35000, "streaming")
	order := env.placeGuestOrder(t, guestInfo(), netflix, 1)

	statsKey := cache.Key(cache.PathAdminStats+"/stats", "en")
	listKey := cache.Key(cache.PathProducts, "en")

	env.viewCache.Set(statsKey, &cache.Entry{Status: 200})
	env.viewCache.Set(listKey, &cache.Entry{Status: 200})
	require.NoError(t, env.notifications.NotifyOrderExpired(ctx, order))
	_, cached := env.viewCache.Get(statsKey)
	assert.False(t, cached, "new notification changes the unread count")
	_, cached = env.viewCache.Get(listKey)
	assert.True(t, cached)

	unread, err := env.notifications.ListAdminNotifications(ctx, true, 0)
	require.NoError(t, err)
	require.Len(t, unread, 2)

	env.viewCache.Set(statsKey, &cache.Entry{Status: 200})
	require.NoError(t, env.notifications.MarkNotificationRead(ctx, unread[0].ID))
	_, cached = env.viewCache.Get(statsKey)
	assert.False(t, cached, "reading a notification changes the unread count")

	unread, err = env.notifications.ListAdminNotifications(ctx, true, 0)
	require.NoError(t, err)
	assert.Len(t, unread, 1)
}

func TestMarkUnknownNotificationKeepsDashboard(t *testing.T) {
	env := newTestEnv(t)
	statsKey := cache.Key(cache.PathAdminStats+"/stats", "en")
	env.viewCache.Set(statsKey, &cache.Entry{Status: 200})

	err := env.notifications.MarkNotificationRead(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	_, cached := env.viewCache.Get(statsKey)
	assert.True(t, cached)
	assert.Zero(t, env.countRows(t, &models.AdminNotification{}))
}
