// internal/services/admin_service.go
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
	"github.com/mapstore/store-backend/internal/models"
	"github.com/mapstore/store-backend/internal/money"
	"github.com/mapstore/store-backend/internal/utils"
)

const recentOrdersLimit = 5

type AdminService struct {
	db                  *gorm.DB
	notificationService *NotificationService
	viewCache           *cache.ViewCache

	now      func() time.Time
	dispatch func(func())
}

type AdminDashboardStats struct {
	TotalRevenue       int64                        `json:"total_revenue"`
	TotalRevenueText   string                       `json:"total_revenue_text"`
	TotalOrders        int64                        `json:"total_orders"`
	PendingOrders      int64                        `json:"pending_orders"`
	TotalProducts      int64                        `json:"total_products"`
	OrdersByStatus     map[models.OrderStatus]int64 `json:"orders_by_status"`
	RecentOrders       []models.Order               `json:"recent_orders"`
	UnreadNotification int64                        `json:"unread_notifications"`
}

type AdminOrderFilter struct {
	utils.PaginationParams
	Status models.OrderStatus `json:"status,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,order_status"`
}

// StatusChange records what UpdateOrderStatus did.
type StatusChange struct {
	Order     *models.Order      `json:"order"`
	OldStatus models.OrderStatus `json:"old_status"`
	Changed   bool               `json:"changed"`
}

func NewAdminService(db *gorm.DB, notificationService *NotificationService, viewCache *cache.ViewCache) *AdminService {
	return &AdminService{
		db:                  db,
		notificationService: notificationService,
		viewCache:           viewCache,
		now:                 time.Now,
		dispatch:            func(f func()) { go f() },
	}
}

// Dashboard Statistics
func (s *AdminService) GetDashboardStats(ctx context.Context) (*AdminDashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &AdminDashboardStats{OrdersByStatus: make(map[models.OrderStatus]int64, len(models.OrderStatuses))}

	if err := db.Model(&models.Order{}).
		Where("status <> ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	stats.TotalRevenueText = money.Format(stats.TotalRevenue)

	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	if err := db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	for _, status := range models.OrderStatuses {
		stats.OrdersByStatus[status] = 0
	}
	for _, row := range rows {
		stats.OrdersByStatus[row.Status] = row.Count
		stats.TotalOrders += row.Count
	}
	stats.PendingOrders = stats.OrdersByStatus[models.OrderStatusPending]

	if err := db.Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	if err := db.Model(&models.AdminNotification{}).
		Where("status = ?", models.NotificationUnread).
		Count(&stats.UnreadNotification).Error; err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	if err := db.Preload("Items").
		Order("created_at DESC").
		Limit(recentOrdersLimit).
		Find(&stats.RecentOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}

	return stats, nil
}

// Order Management
func (s *AdminService) ListOrders(ctx context.Context, filter AdminOrderFilter) ([]models.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		term := "%" + search + "%"
		query = query.Where(
			"LOWER(CAST(id AS TEXT)) LIKE ? OR LOWER(guest_info->>'name') LIKE ? OR LOWER(guest_info->>'email') LIKE ?",
			term, term, term,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	err := utils.ApplyPagination(query, filter.PaginationParams).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("User").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

func (s *AdminService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
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

// UpdateOrderStatus applies a guarded status change and records who made
// it. Setting the current status again changes nothing and writes no audit
// row.
func (s *AdminService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus, adminID uuid.UUID) (*StatusChange, error) {
	var change StatusChange

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").Preload("User").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		change.OldStatus = order.Status
		now := s.now()
		if err := order.TransitionTo(status, now); err != nil {
			return err
		}
		change.Order = &order
		if order.Status == change.OldStatus {
			return nil
		}
		change.Changed = true

		result := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, change.OldStatus).
			Updates(map[string]interface{}{
				"status":       order.Status,
				"paid_at":      order.PaidAt,
				"completed_at": order.CompletedAt,
				"cancelled_at": order.CancelledAt,
				"updated_at":   now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update order status: %w", result.Error)
		}
		// the status moved between our read and this write
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: order %s is no longer %s", ErrOrderChanged, order.ID, change.OldStatus)
		}
		order.UpdatedAt = now

		if err := tx.Create(models.NewOrderStatusAudit(adminID, order.ID, change.OldStatus, order.Status)).Error; err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !change.Changed {
		return &change, nil
	}

	s.viewCache.Invalidate(cache.PathOrders, cache.PathAdminOrders, cache.PathAdminStats)

	if change.Order.Status == models.OrderStatusPaid || change.Order.Status == models.OrderStatusCompleted {
		order := change.Order
		s.dispatch(func() {
			if err := s.notificationService.NotifyOrderStatusChanged(context.Background(), order); err != nil {
				logrus.WithError(err).WithField("order_id", order.ID).Warn("order status notification failed")
			}
		})
	}

	return &change, nil
}
