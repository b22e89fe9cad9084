package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mapstore/store-backend/internal/cache"
	"github.com/mapstore/store-backend/internal/cart"
	"github.com/mapstore/store-backend/internal/models"
	"github.com/mapstore/store-backend/internal/utils"
)

func TestCreateOrderStoresSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCategory(t, "streaming", "Streaming")
	netflix := env.seedProduct(t, "Netflix Premium 1 Bulan", 35000, "streaming")
	disney := env.seedProduct(t, "Disney+ Hotstar", 40000, "streaming")

	adminKey := cache.Key(cache.PathAdminOrders, "id")
	env.viewCache.Set(adminKey, &cache.Entry{Status: 200})

	order, err := env.orders.CreateOrder(ctx, &CreateOrderInput{
		GuestInfo:     guestInfo(),
		PaymentMethod: string(models.PaymentMethodQRIS),
		TotalAmount:   110000,
		Items: []OrderItemInput{
			{ProductID: netflix.ID, Quantity: 2, PriceAtTime: 35000},
			{ProductID: disney.ID, Quantity: 1, PriceAtTime: 40000},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, int64(110000), order.TotalAmount)
	assert.True(t, order.CreatedAt.Equal(fixedNow))
	assert.Nil(t, order.PaidAt)
	require.NotNil(t, order.GuestInfo)
	assert.Equal(t, "siti@example.com", order.GuestInfo.Email)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Netflix Premium 1 Bulan", order.Items[0].ProductTitle)
	assert.Equal(t, "streaming", order.Items[0].Category)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, int64(35000), order.Items[0].PriceAtTime)
	assert.Equal(t, order.TotalAmount, order.ItemsTotal())

	_, cached := env.viewCache.Get(adminKey)
	assert.False(t, cached, "admin order views must be invalidated")

	assert.Equal(t, int64(1), env.countRows(t, &models.AdminNotification{}))
	require.Len(t, env.mailer.To("siti@example.com"), 1)
	assert.Contains(t, env.mailer.To("siti@example.com")[0].Body, "https://wa.me/6281234567890?text=")
	assert.Len(t, env.mailer.To("admin@mapstore.id"), 1)
}

func TestCreateOrderRejectsTotalMismatch(t *testing.T) {
	env := newTestEnv(t)
	env.seedCategory(t, "music", "Music")
	spotify := env.seedProduct(t, "Spotify Premium", 25000, "music")

	_, err := env.orders.CreateOrder(context.Background(), &CreateOrderInput{
		GuestInfo:     guestInfo(),
		PaymentMethod: string(models.PaymentMethodBankTransfer),
		TotalAmount:   30000,
		Items:         []OrderItemInput{{ProductID: spotify.ID, Quantity: 1, PriceAtTime: 25000}},
	})

	assert.ErrorIs(t, err, ErrTotalMismatch)
	assert.Zero(t, env.countRows(t, &models.Order{}))
}

func TestCreateOrderRollsBackOnUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	env.seedCategory(t, "music", "Music")
	spotify := env.seedProduct(t, "Spotify Premium", 25000, "music")

	_, err := env.orders.CreateOrder(context.Background(), &CreateOrderInput{
		GuestInfo:     guestInfo(),
		PaymentMethod: string(models.PaymentMethodEWallet),
		TotalAmount:   50000,
		Items: []OrderItemInput{
			{ProductID: spotify.ID, Quantity: 1, PriceAtTime: 25000},
			{ProductID: 9999, Quantity: 1, PriceAtTime: 25000},
		},
	})

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Zero(t, env.countRows(t, &models.Order{}))
	assert.Zero(t, env.countRows(t, &models.OrderItem{}))
	assert.Empty(t, env.mailer.To("admin@mapstore.id"))
}

func TestCreateOrderValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		input *CreateOrderInput
	}{
		{
			name: "guest without contact details",
			input: &CreateOrderInput{
				PaymentMethod: string(models.PaymentMethodQRIS),
				TotalAmount:   35000,
				Items:         []OrderItemInput{{ProductID: 1, Quantity: 1, PriceAtTime: 35000}},
			},
		},
		{
			name: "unknown payment method",
			input: &CreateOrderInput{
				GuestInfo:     guestInfo(),
				PaymentMethod: "Cash",
				TotalAmount:   35000,
				Items:         []OrderItemInput{{ProductID: 1, Quantity: 1, PriceAtTime: 35000}},
			},
		},
		{
			name: "no items",
			input: &CreateOrderInput{
				GuestInfo:     guestInfo(),
				PaymentMethod: string(models.PaymentMethodQRIS),
				TotalAmount:   35000,
			},
		},
		{
			name: "zero quantity",
			input: &CreateOrderInput{
				GuestInfo:     guestInfo(),
				PaymentMethod: string(models.PaymentMethodQRIS),
				TotalAmount:   35000,
				Items:         []OrderItemInput{{ProductID: 1, Quantity: 0, PriceAtTime: 35000}},
			},
		},
		{
			name: "price x quantity past int64",
			input: &CreateOrderInput{
				GuestInfo:     guestInfo(),
				PaymentMethod: string(models.PaymentMethodQRIS),
				TotalAmount:   4,
				Items:         []OrderItemInput{{ProductID: 1, Quantity: 4, PriceAtTime: (1 << 62) + 1}},
			},
		},
		{
			name: "quantity above line cap",
			input: &CreateOrderInput{
				GuestInfo:     guestInfo(),
				PaymentMethod: string(models.PaymentMethodQRIS),
				TotalAmount:   35000000,
				Items:         []OrderItemInput{{ProductID: 1, Quantity: 1000, PriceAtTime: 35000}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.orders.CreateOrder(context.Background(), tt.input)
			require.Error(t, err)

			var validationErrs validator.ValidationErrors
			assert.True(t, errors.As(err, &validationErrs), "expected validation errors, got %v", err)
		})
	}
}

func TestCheckoutPlacesOrderAndClearsCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCategory(t, "design", "Design")
	canva := env.seedProduct(t, "Canva Pro", 45000, "design")

	buyer := env.seedUser(t, "budi@example.com", models.UserRoleCustomer)
	key := cart.UserKey(buyer.ID)
	_, err := env.carts.AddProduct(ctx, key, canva.ID)
	require.NoError(t, err)
	current, err := env.carts.AddProduct(ctx, key, canva.ID)
	require.NoError(t, err)

	order, err := env.orders.Checkout(ctx, current, &CheckoutRequest{
		UserID:        ptrUUID(buyer.ID),
		PaymentMethod: string(models.PaymentMethodQRIS),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(90000), order.TotalAmount)
	assert.True(t, order.BelongsTo(buyer.ID))
	assert.True(t, current.IsEmpty())

	stored, err := env.carts.Load(ctx, key)
	require.NoError(t, err)
	assert.True(t, stored.IsEmpty())

	// Account orders fall back to the profile for contact details.
	assert.Len(t, env.mailer.To("budi@example.com"), 1)
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orders.Checkout(context.Background(), cart.New(cart.GuestKey("abc")), &CheckoutRequest{
		GuestInfo:     guestInfo(),
		PaymentMethod: string(models.PaymentMethodQRIS),
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutKeepsCartWhenOrderFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCategory(t, "design", "Design")
	capcut := env.seedProduct(t, "CapCut Pro", 30000, "design")

	key := cart.GuestKey("0123456789abcdefghijABCDEFGHIJ01")
	current, err := env.carts.AddProduct(ctx, key, capcut.ID)
	require.NoError(t, err)

	_, err = env.orders.Checkout(ctx, current, &CheckoutRequest{
		PaymentMethod: string(models.PaymentMethodQRIS),
	})
	require.Error(t, err)

	assert.Equal(t, 1, current.Count())
	stored, err := env.carts.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Count())
	assert.Zero(t, env.countRows(t, &models.Order{}))
}

func TestOrderPriceIsFrozenAtPurchase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCategory(t, "productivity", "Productivity")
	chatgpt := env.seedProduct(t, "ChatGPT Plus", 150000, "productivity")

	order, err := env.orders.CreateOrder(ctx, &CreateOrderInput{
		GuestInfo:     guestInfo(),
		PaymentMethod: string(models.PaymentMethodQRIS),
		TotalAmount:   150000,
		Items:         []OrderItemInput{{ProductID: chatgpt.ID, Quantity: 1, PriceAtTime: 150000}},
	})
	require.NoError(t, err)

	newPrice := int64(175000)
	newName := "ChatGPT Plus (Shared)"
	_, err = env.products.UpdateProduct(ctx, chatgpt.ID, &UpdateProductRequest{Price: &newPrice, Name: &newName})
	require.NoError(t, err)

	reloaded, err := env.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(150000), reloaded.Items[0].PriceAtTime)
	assert.Equal(t, "ChatGPT Plus", reloaded.Items[0].ProductTitle)
	assert.Equal(t, int64(150000), reloaded.TotalAmount)
}

func TestGetOrderForBuyer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCategory(t, "music", "Music")
	spotify := env.seedProduct(t, "Spotify Premium", 25000, "music")
	owner := env.seedUser(t, "owner@example.com", models.UserRoleCustomer)
	stranger := env.seedUser(t, "stranger@example.com", models.UserRoleCustomer)

	items := []OrderItemInput{{ProductID: spotify.ID, Quantity: 1, PriceAtTime: 25000}}
	guestOrder, err := env.orders.CreateOrder(ctx, &CreateOrderInput{
		GuestInfo: guestInfo(), PaymentMethod: string(models.PaymentMethodQRIS), TotalAmount: 25000, Items: items,
	})
	require.NoError(t, err)
	accountOrder, err := env.orders.CreateOrder(ctx, &CreateOrderInput{
		UserID: ptrUUID(owner.ID), PaymentMethod: string(models.PaymentMethodQRIS), TotalAmount: 25000, Items: items,
	})
	require.NoError(t, err)

	_, err = env.orders.GetOrderForBuyer(ctx, guestOrder.ID, nil, "SITI@example.com")
	assert.NoError(t, err)
	_, err = env.orders.GetOrderForBuyer(ctx, guestOrder.ID, nil, "other@example.com")
	assert.ErrorIs(t, err, ErrOrderForbidden)
	_, err = env.orders.GetOrderForBuyer(ctx, guestOrder.ID, nil, "")
	assert.ErrorIs(t, err, ErrOrderForbidden)

	_, err = env.orders.GetOrderForBuyer(ctx, accountOrder.ID, ptrUUID(owner.ID), "")
	assert.NoError(t, err)
	_, err = env.orders.GetOrderForBuyer(ctx, accountOrder.ID, ptrUUID(stranger.ID), "")
	assert.ErrorIs(t, err, ErrOrderForbidden)
	_, err = env.orders.GetOrderForBuyer(ctx, accountOrder.ID, nil, "owner@example.com")
	assert.ErrorIs(t, err, ErrOrderForbidden)

	_, err = env.orders.GetOrderForBuyer(ctx, uuid.New(), nil, "")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListBuyerOrdersNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCategory(t, "music", "Music")
	spotify := env.seedProduct(t, "Spotify Premium", 25000, "music")
	buyer := env.seedUser(t, "budi@example.com", models.UserRoleCustomer)

	var ids []string
	for i := 0; i < 3; i++ {
		env.orders.now = func() time.Time { return fixedNow.Add(time.Duration(i) * time.Hour) }
		order, err := env.orders.CreateOrder(ctx, &CreateOrderInput{
			UserID:        ptrUUID(buyer.ID),
			PaymentMethod: string(models.PaymentMethodQRIS),
			TotalAmount:   25000,
			Items:         []OrderItemInput{{ProductID: spotify.ID, Quantity: 1, PriceAtTime: 25000}},
		})
		require.NoError(t, err)
		ids = append(ids, order.ID.String())
	}
	// someone else's order stays out of the list
	_, err := env.orders.CreateOrder(ctx, &CreateOrderInput{
		GuestInfo:     guestInfo(),
		PaymentMethod: string(models.PaymentMethodQRIS),
		TotalAmount:   25000,
		Items:         []OrderItemInput{{ProductID: spotify.ID, Quantity: 1, PriceAtTime: 25000}},
	})
	require.NoError(t, err)

	orders, total, err := env.orders.ListBuyerOrders(ctx, buyer.ID, utils.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, orders, 2)
	assert.Equal(t, ids[2], orders[0].ID.String())
	assert.Equal(t, ids[1], orders[1].ID.String())
	assert.Len(t, orders[0].Items, 1)
}

func TestExpireStalePending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCategory(t, "music", "Music")
	spotify := env.seedProduct(t, "Spotify Premium", 25000, "music")

	place := func(at time.Time) *models.Order {
		env.orders.now = func() time.Time { return at }
		order, err := env.orders.CreateOrder(ctx, &CreateOrderInput{
			GuestInfo:     guestInfo(),
			PaymentMethod: string(models.PaymentMethodQRIS),
			TotalAmount:   25000,
			Items:         []OrderItemInput{{ProductID: spotify.ID, Quantity: 1, PriceAtTime: 25000}},
		})
		require.NoError(t, err)
		return order
	}

	stale := place(fixedNow.Add(-25 * time.Hour))
	fresh := place(fixedNow.Add(-2 * time.Hour))
	paid := place(fixedNow.Add(-30 * time.Hour))
	admin := env.seedUser(t, "admin@mapstore.id", models.UserRoleAdmin)
	_, err := env.admin.UpdateOrderStatus(ctx, paid.ID, models.OrderStatusPaid, admin.ID)
	require.NoError(t, err)

	n, err := env.orders.ExpireStalePending(ctx, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	reloaded, err := env.orders.GetOrder(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, reloaded.Status)
	require.NotNil(t, reloaded.CancelledAt)
	assert.Nil(t, reloaded.PaidAt)

	reloaded, err = env.orders.GetOrder(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, reloaded.Status)

	reloaded, err = env.orders.GetOrder(ctx, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, reloaded.Status)

	var expiredNotes int64
	require.NoError(t, env.db.Model(&models.AdminNotification{}).
		Where("type = ?", models.NotificationOrderExpired).Count(&expiredNotes).Error)
	assert.Equal(t, int64(1), expiredNotes)

	// a second sweep finds nothing left to cancel
	n, err = env.orders.ExpireStalePending(ctx, fixedNow)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExpireStalePendingSkipsOrdersPaidMeanwhile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedCategory(t, "music", "Music")
	spotify := env.seedProduct(t, "Spotify Premium", 25000, "music")

	env.orders.now = func() time.Time { return fixedNow.Add(-30 * time.Hour) }
	var stale []*models.Order
	for i := 0; i < 2; i++ {
		order, err := env.orders.CreateOrder(ctx, &CreateOrderInput{
			GuestInfo:     guestInfo(),
			PaymentMethod: string(models.PaymentMethodQRIS),
			TotalAmount:   25000,
			Items:         []OrderItemInput{{ProductID: spotify.ID, Quantity: 1, PriceAtTime: 25000}},
		})
		require.NoError(t, err)
		stale = append(stale, order)
	}

	// an admin confirms both payments after the sweep has read them
	env.beforeNextOrderUpdate(t, func(tx *gorm.DB) error {
		return tx.Exec("UPDATE orders SET status = ? WHERE id IN ?",
			models.OrderStatusPaid, []uuid.UUID{stale[0].ID, stale[1].ID}).Error
	})

	n, err := env.orders.ExpireStalePending(ctx, fixedNow)
	require.NoError(t, err)
	assert.Zero(t, n)

	for _, order := range stale {
		reloaded, err := env.orders.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusPaid, reloaded.Status)
		assert.Nil(t, reloaded.CancelledAt)
	}
	var expiredNotes int64
	require.NoError(t, env.db.Model(&models.AdminNotification{}).
		Where("type = ?", models.NotificationOrderExpired).Count(&expiredNotes).Error)
	assert.Zero(t, expiredNotes)
}
