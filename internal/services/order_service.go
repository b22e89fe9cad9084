// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mapstore/store-backend/internal/cache"
	"github.com/mapstore/store-backend/internal/cart"
	"github.com/mapstore/store-backend/internal/config"
	"github.com/mapstore/store-backend/internal/database"
	"github.com/mapstore/store-backend/internal/models"
	"github.com/mapstore/store-backend/internal/money"
	"github.com/mapstore/store-backend/internal/utils"
)

type OrderService struct {
	db            *gorm.DB
	config        *config.Config
	carts         *CartService
	notifications *NotificationService
	payments      *PaymentService
	viewCache     *cache.ViewCache

	now      func() time.Time
	dispatch func(func())
}

type OrderItemInput struct {
	ProductID   uint  `json:"product_id" validate:"required"`
	Quantity    int   `json:"quantity" validate:"required,min=1,max=999"`
	PriceAtTime int64 `json:"price_at_time" validate:"required,gt=0,max=1000000000"`
}

type GuestInfoInput struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	WhatsApp string `json:"whatsapp" validate:"required,whatsapp"`
	Email    string `json:"email" validate:"required,email"`
}

type CreateOrderInput struct {
	UserID        *uuid.UUID       `json:"-"`
	GuestInfo     *GuestInfoInput  `json:"guest_info,omitempty" validate:"required_without=UserID"`
	PaymentMethod string           `json:"payment_method" validate:"required,payment_method"`
	TotalAmount   int64            `json:"total_amount" validate:"required,gt=0"`
	Items         []OrderItemInput `json:"items" validate:"required,min=1,max=100,dive"`
}

// CheckoutRequest is what the checkout form posts. Items and total come
// from the stored cart, never from the client.
type CheckoutRequest struct {
	UserID        *uuid.UUID      `json:"-"`
	GuestInfo     *GuestInfoInput `json:"guest_info,omitempty"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
}

func NewOrderService(
	db *gorm.DB,
	config *config.Config,
	carts *CartService,
	notifications *NotificationService,
	payments *PaymentService,
	viewCache *cache.ViewCache,
) *OrderService {
	return &OrderService{
		db:            db,
		config:        config,
		carts:         carts,
		notifications: notifications,
		payments:      payments,
		viewCache:     viewCache,
		now:           time.Now,
		dispatch:      func(f func()) { go f() },
	}
}

// CreateOrder stores a pending order with its item snapshot and returns it.
// The declared total must equal the sum of price_at_time x quantity.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*models.Order, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var itemsTotal int64
	for _, item := range input.Items {
		line, err := money.LineTotal(item.PriceAtTime, item.Quantity)
		if err == nil {
			itemsTotal, err = money.Add(itemsTotal, line)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: product %d: %w", ErrTotalMismatch, item.ProductID, err)
		}
	}
	if itemsTotal != input.TotalAmount {
		return nil, fmt.Errorf("%w: declared %d, items sum to %d", ErrTotalMismatch, input.TotalAmount, itemsTotal)
	}

	order := &models.Order{
		ID:            uuid.New(),
		UserID:        input.UserID,
		Status:        models.OrderStatusPending,
		TotalAmount:   input.TotalAmount,
		PaymentMethod: models.PaymentMethod(input.PaymentMethod),
		CreatedAt:     s.now(),
	}
	if input.GuestInfo != nil {
		order.GuestInfo = &models.GuestInfo{
			Name:     strings.TrimSpace(input.GuestInfo.Name),
			WhatsApp: strings.TrimSpace(input.GuestInfo.WhatsApp),
			Email:    strings.ToLower(strings.TrimSpace(input.GuestInfo.Email)),
		}
	}

	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if order.UserID != nil {
			var count int64
			if err := tx.Model(&models.User{}).Where("id = ?", *order.UserID).Count(&count).Error; err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			if count == 0 {
				return ErrUserNotFound
			}
		}

		items, err := snapshotOrderItems(tx, order.ID, input.Items)
		if err != nil {
			return err
		}
		order.Items = items

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateOrders()

	created, err := s.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	link := s.payments.ConfirmationLink(created)
	s.dispatch(func() {
		if err := s.notifications.NotifyOrderPlaced(context.Background(), created, link); err != nil {
			logrus.WithError(err).WithField("order_id", created.ID).Warn("order placed notification failed")
		}
	})

	return created, nil
}

// Checkout places an order for the contents of c and empties the stored
// cart. The cart is kept when the order cannot be created.
func (s *OrderService) Checkout(ctx context.Context, c *cart.Cart, req *CheckoutRequest) (*models.Order, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	draft, err := c.Clone().Snapshot(req.UserID, s.now())
	if err != nil {
		return nil, err
	}

	input := &CreateOrderInput{
		UserID:        req.UserID,
		GuestInfo:     req.GuestInfo,
		PaymentMethod: req.PaymentMethod,
		TotalAmount:   draft.TotalAmount,
		Items:         make([]OrderItemInput, 0, len(draft.Items)),
	}
	for _, item := range draft.Items {
		input.Items = append(input.Items, OrderItemInput{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
		})
	}

	order, err := s.CreateOrder(ctx, input)
	if err != nil {
		return nil, err
	}

	c.Clear()
	if err := s.carts.Clear(ctx, c.Key); err != nil {
		logrus.WithError(err).WithField("cart_key", c.Key).Warn("failed to clear cart after checkout")
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("User").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

// GetOrderForBuyer returns an order only to its owner. Account orders need
// the matching user id; guest orders need the email used at checkout.
func (s *OrderService) GetOrderForBuyer(ctx context.Context, id uuid.UUID, userID *uuid.UUID, email string) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.IsGuest() {
		if userID == nil || !order.BelongsTo(*userID) {
			return nil, ErrOrderForbidden
		}
		return order, nil
	}

	if order.GuestInfo == nil || email == "" || !strings.EqualFold(order.GuestInfo.Email, strings.TrimSpace(email)) {
		return nil, ErrOrderForbidden
	}
	return order, nil
}

func (s *OrderService) ListBuyerOrders(ctx context.Context, userID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	err := utils.ApplyPagination(query, params).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// ExpireStalePending cancels pending orders created before the payment
// window closed and returns how many were cancelled.
func (s *OrderService) ExpireStalePending(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-time.Duration(s.config.Store.PaymentWindowHours) * time.Hour)

	var expired []models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stale []models.Order
		if err := tx.Where("status = ? AND created_at < ?", models.OrderStatusPending, cutoff).
			Preload("Items").Preload("User").
			Find(&stale).Error; err != nil {
			return fmt.Errorf("failed to find stale orders: %w", err)
		}

		for i := range stale {
			order := &stale[i]
			if err := order.TransitionTo(models.OrderStatusCancelled, now); err != nil {
				return err
			}
			result := tx.Model(&models.Order{}).Where("id = ? AND status = ?", order.ID, models.OrderStatusPending).
				Updates(map[string]interface{}{
					"status":       order.Status,
					"cancelled_at": order.CancelledAt,
					"updated_at":   now,
				})
			if result.Error != nil {
				return fmt.Errorf("failed to expire order %s: %w", order.ID, result.Error)
			}
			// paid or cancelled by an admin since the scan
			if result.RowsAffected == 0 {
				continue
			}
			expired = append(expired, *order)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if len(expired) == 0 {
		return 0, nil
	}

	s.invalidateOrders()
	for i := range expired {
		order := &expired[i]
		s.dispatch(func() {
			if err := s.notifications.NotifyOrderExpired(context.Background(), order); err != nil {
				logrus.WithError(err).WithField("order_id", order.ID).Warn("order expired notification failed")
			}
		})
	}
	return len(expired), nil
}

// RunExpiryWorker sweeps stale pending orders every interval until ctx is
// done.
func (s *OrderService) RunExpiryWorker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logrus.WithField("interval", interval.String()).Info("order expiry worker started")
	for {
		select {
		case <-ctx.Done():
			logrus.Info("order expiry worker stopped")
			return
		case <-ticker.C:
			n, err := s.ExpireStalePending(ctx, s.now())
			if err != nil {
				logrus.WithError(err).Error("order expiry sweep failed")
				continue
			}
			if n > 0 {
				logrus.WithField("cancelled", n).Info("expired unpaid orders")
			}
		}
	}
}

func (s *OrderService) invalidateOrders() {
	s.viewCache.Invalidate(cache.PathOrders, cache.PathAdminOrders, cache.PathAdminStats)
}

// snapshotOrderItems copies title, category and colour from the live
// catalog; the price is the one the buyer saw.
func snapshotOrderItems(tx *gorm.DB, orderID uuid.UUID, inputs []OrderItemInput) ([]models.OrderItem, error) {
	ids := make([]uint, 0, len(inputs))
	for _, item := range inputs {
		ids = append(ids, item.ProductID)
	}

	var products []models.Product
	if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	byID := make(map[uint]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]models.OrderItem, 0, len(inputs))
	for _, input := range inputs {
		product, ok := byID[input.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, input.ProductID)
		}
		items = append(items, models.OrderItem{
			OrderID:      orderID,
			ProductID:    product.ID,
			ProductTitle: product.Name,
			Category:     product.CategoryID,
			ImageColor:   product.ImageColor,
			Quantity:     input.Quantity,
			PriceAtTime:  input.PriceAtTime,
		})
	}
	return items, nil
}
