package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapstore/store-backend/internal/cache"
	"github.com/mapstore/store-backend/internal/models"
	"github.com/mapstore/store-backend/internal/utils"
)

func (e *testEnv) placeGuestOrder(t *testing.T, info *GuestInfoInput, product *models.Product, quantity int) *models.Order {
	t.Helper()
	order, err := e.orders.CreateOrder(context.Background(), &CreateOrderInput{
		GuestInfo:     info,
		PaymentMethod: string(models.PaymentMethodQRIS),
		TotalAmount:   product.Price * int64(quantity),
		Items:         []OrderItemInput{{ProductID: product.ID, Quantity: quantity, PriceAtTime: product.Price}},
	})
	require.NoError(t, err)
	return order
}

func TestUpdateOrderStatusWalksForward(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCategory(t, "streaming", "Streaming")
	netflix := env.seedProduct(t, "Netflix Premium", 35000, "streaming")
	admin := env.seedUser(t, "admin@mapstore.id", models.UserRoleAdmin)
	order := env.placeGuestOrder(t, guestInfo(), netflix, 1)

	statsKey := cache.Key(cache.PathAdminStats+"/stats", "en")
	env.viewCache.Set(statsKey, &cache.Entry{Status: 200})

	change, err := env.admin.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPaid, admin.ID)
	require.NoError(t, err)
	assert.True(t, change.Changed)
	assert.Equal(t, models.OrderStatusPending, change.OldStatus)
	assert.Equal(t, models.OrderStatusPaid, change.Order.Status)

	stored, err := env.admin.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, stored.Status)
	require.NotNil(t, stored.PaidAt)
	assert.True(t, stored.PaidAt.Equal(fixedNow))

	_, cached := env.viewCache.Get(statsKey)
	assert.False(t, cached)

	var audit models.AuditLog
	require.NoError(t, env.db.Where("resource_id = ?", order.ID.String()).First(&audit).Error)
	assert.Equal(t, models.AuditActionUpdateOrderStatus, audit.Action)
	require.NotNil(t, audit.UserID)
	assert.Equal(t, admin.ID, *audit.UserID)
	assert.Equal(t, "pending", audit.OldValues["status"])
	assert.Equal(t, "paid", audit.NewValues["status"])

	paidMails := env.mailer.To("siti@example.com")
	require.Len(t, paidMails, 2, "order placed and payment received")
	assert.Contains(t, paidMails[1].Subject, "Pembayaran diterima")

	for _, next := range []models.OrderStatus{models.OrderStatusProcessing, models.OrderStatusCompleted} {
		_, err := env.admin.UpdateOrderStatus(ctx, order.ID, next, admin.ID)
		require.NoError(t, err)
	}

	stored, err = env.admin.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, stored.Status)
	assert.NotNil(t, stored.CompletedAt)
	assert.Nil(t, stored.CancelledAt)

	// processing is silent, completed sends one more mail
	assert.Len(t, env.mailer.To("siti@example.com"), 3)
}

func TestUpdateOrderStatusSameStatusIsNoop(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCategory(t, "streaming", "Streaming")
	netflix := env.seedProduct(t, "Netflix Premium", 35000, "streaming")
	admin := env.seedUser(t, "admin@mapstore.id", models.UserRoleAdmin)
	order := env.placeGuestOrder(t, guestInfo(), netflix, 1)

	change, err := env.admin.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPending, admin.ID)
	require.NoError(t, err)
	assert.False(t, change.Changed)
	assert.Equal(t, models.OrderStatusPending, change.Order.Status)
	assert.Zero(t, env.countRows(t, &models.AuditLog{}))
}

func TestUpdateOrderStatusConflictsWithConcurrentWriter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCategory(t, "streaming", "Streaming")
	netflix := env.seedProduct(t, "Netflix Premium", 35000, "streaming")
	admin := env.seedUser(t, "admin@mapstore.id", models.UserRoleAdmin)
	order := env.placeGuestOrder(t, guestInfo(), netflix, 1)
	mailsBefore := len(env.mailer.To("siti@example.com"))

	statsKey := cache.Key(cache.PathAdminStats+"/stats", "en")
	env.viewCache.Set(statsKey, &cache.Entry{Status: 200})

	env.beforeNextOrderUpdate(t, setOrderStatus(order.ID, models.OrderStatusCancelled))

	change, err := env.admin.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPaid, admin.ID)
	assert.ErrorIs(t, err, ErrOrderChanged)
	assert.Nil(t, change)

	stored, err := env.admin.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.NotEqual(t, models.OrderStatusPaid, stored.Status)
	assert.Nil(t, stored.PaidAt)

	assert.Zero(t, env.countRows(t, &models.AuditLog{}))
	assert.Len(t, env.mailer.To("siti@example.com"), mailsBefore, "no payment received mail")
	_, cached := env.viewCache.Get(statsKey)
	assert.True(t, cached, "nothing changed, nothing to invalidate")
}

func TestUpdateOrderStatusRejectsInvalidMoves(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCategory(t, "streaming", "Streaming")
	netflix := env.seedProduct(t, "Netflix Premium", 35000, "streaming")
	admin := env.seedUser(t, "admin@mapstore.id", models.UserRoleAdmin)
	order := env.placeGuestOrder(t, guestInfo(), netflix, 1)

	t.Run("skipping a step", func(t *testing.T) {
		_, err := env.admin.UpdateOrderStatus(ctx, order.ID, models.OrderStatusCompleted, admin.ID)

		var transitionErr *models.TransitionError
		require.True(t, errors.As(err, &transitionErr))
		assert.Equal(t, models.OrderStatusPending, transitionErr.From)
		assert.Equal(t, models.OrderStatusCompleted, transitionErr.To)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := env.admin.UpdateOrderStatus(ctx, order.ID, models.OrderStatus("shipped"), admin.ID)
		assert.ErrorIs(t, err, models.ErrUnknownStatus)
	})

	t.Run("leaving a terminal status", func(t *testing.T) {
		_, err := env.admin.UpdateOrderStatus(ctx, order.ID, models.OrderStatusCancelled, admin.ID)
		require.NoError(t, err)

		_, err = env.admin.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPaid, admin.ID)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)

		stored, err := env.admin.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, stored.Status)
		assert.Nil(t, stored.PaidAt)
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := env.admin.UpdateOrderStatus(ctx, admin.ID, models.OrderStatusPaid, admin.ID)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	// only the cancellation went through
	assert.Equal(t, int64(1), env.countRows(t, &models.AuditLog{}))
}

func TestGetDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCategory(t, "streaming", "Streaming")
	netflix := env.seedProduct(t, "Netflix Premium", 35000, "streaming")
	disney := env.seedProduct(t, "Disney+ Hotstar", 40000, "streaming")
	admin := env.seedUser(t, "admin@mapstore.id", models.UserRoleAdmin)

	env.placeGuestOrder(t, guestInfo(), netflix, 2)
	paid := env.placeGuestOrder(t, guestInfo(), disney, 1)
	cancelled := env.placeGuestOrder(t, guestInfo(), netflix, 1)

	_, err := env.admin.UpdateOrderStatus(ctx, paid.ID, models.OrderStatusPaid, admin.ID)
	require.NoError(t, err)
	_, err = env.admin.UpdateOrderStatus(ctx, cancelled.ID, models.OrderStatusCancelled, admin.ID)
	require.NoError(t, err)

	stats, err := env.admin.GetDashboardStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(110000), stats.TotalRevenue)
	assert.Equal(t, "Rp 110.000", stats.TotalRevenueText)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.Equal(t, int64(1), stats.OrdersByStatus[models.OrderStatusPaid])
	assert.Equal(t, int64(1), stats.OrdersByStatus[models.OrderStatusCancelled])
	assert.Equal(t, int64(0), stats.OrdersByStatus[models.OrderStatusCompleted])
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(3), stats.UnreadNotification)
	assert.Len(t, stats.RecentOrders, 3)
}

func TestListOrdersFiltersAndSearches(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCategory(t, "music", "Music")
	spotify := env.seedProduct(t, "Spotify Premium", 25000, "music")
	admin := env.seedUser(t, "admin@mapstore.id", models.UserRoleAdmin)

	env.orders.now = func() time.Time { return fixedNow.Add(-3 * time.Hour) }
	siti := env.placeGuestOrder(t, guestInfo(), spotify, 1)
	env.orders.now = func() time.Time { return fixedNow.Add(-2 * time.Hour) }
	andi := env.placeGuestOrder(t, &GuestInfoInput{Name: "Andi Wijaya", WhatsApp: "081311112222", Email: "andi@example.com"}, spotify, 2)
	env.orders.now = func() time.Time { return fixedNow.Add(-1 * time.Hour) }
	env.placeGuestOrder(t, &GuestInfoInput{Name: "Rina", WhatsApp: "081333334444", Email: "rina@example.com"}, spotify, 1)

	_, err := env.admin.UpdateOrderStatus(ctx, andi.ID, models.OrderStatusPaid, admin.ID)
	require.NoError(t, err)

	all, total, err := env.admin.ListOrders(ctx, AdminOrderFilter{PaginationParams: utils.PaginationParams{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 3)
	assert.Equal(t, siti.ID, all[2].ID, "newest first")

	paid, total, err := env.admin.ListOrders(ctx, AdminOrderFilter{Status: models.OrderStatusPaid})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, paid, 1)
	assert.Equal(t, andi.ID, paid[0].ID)

	byName, _, err := env.admin.ListOrders(ctx, AdminOrderFilter{PaginationParams: utils.PaginationParams{Search: "WIJAYA"}})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, andi.ID, byName[0].ID)

	byID, _, err := env.admin.ListOrders(ctx, AdminOrderFilter{PaginationParams: utils.PaginationParams{Search: siti.ID.String()[:8]}})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, siti.ID, byID[0].ID)

	byEmail, _, err := env.admin.ListOrders(ctx, AdminOrderFilter{PaginationParams: utils.PaginationParams{Search: "rina@"}})
	require.NoError(t, err)
	assert.Len(t, byEmail, 1)
}
