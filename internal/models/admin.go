// internal/models/admin.go
package models

import (
	"time"

	"github.com/google/uuid"
)

const AuditActionUpdateOrderStatus = "UPDATE_ORDER_STATUS"

// AuditLog records one admin mutation. Rows written by the request
// middleware carry the raw request; rows written by services carry the
// before and after values.
type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   string     `json:"resource_id" gorm:"size:64;index"`
	OldValues    JSONB      `json:"old_values" gorm:"type:jsonb"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`

	// Relationships
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func NewOrderStatusAudit(adminID, orderID uuid.UUID, from, to OrderStatus) *AuditLog {
	return &AuditLog{
		UserID:       &adminID,
		Action:       AuditActionUpdateOrderStatus,
		ResourceType: "order",
		ResourceID:   orderID.String(),
		OldValues:    JSONB{"status": string(from)},
		NewValues:    JSONB{"status": string(to)},
	}
}

type NotificationType string

const (
	NotificationNewOrder     NotificationType = "new_order"
	NotificationOrderExpired NotificationType = "order_expired"
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityMedium NotificationPriority = "medium"
)

type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "unread"
	NotificationRead   NotificationStatus = "read"
)

// AdminNotification is an entry in the admin inbox. Every notification the
// store raises today is about an order.
type AdminNotification struct {
	BaseModel
	Type     NotificationType     `json:"type" gorm:"type:varchar(50);not null;index"`
	Title    string               `json:"title" gorm:"size:255;not null"`
	Message  string               `json:"message" gorm:"type:text;not null"`
	Priority NotificationPriority `json:"priority" gorm:"type:varchar(20);default:'medium';index"`
	Status   NotificationStatus   `json:"status" gorm:"type:varchar(20);default:'unread';index"`
	OrderID  *uuid.UUID           `json:"order_id,omitempty" gorm:"type:uuid;index"`
	ReadAt   *time.Time           `json:"read_at"`
}

func newOrderNotification(kind NotificationType, priority NotificationPriority, order *Order, title, message string) *AdminNotification {
	id := order.ID
	return &AdminNotification{
		Type:     kind,
		Title:    title,
		Message:  message,
		Priority: priority,
		Status:   NotificationUnread,
		OrderID:  &id,
	}
}

func NewOrderPlacedNotification(order *Order, title, message string) *AdminNotification {
	return newOrderNotification(NotificationNewOrder, NotificationPriorityMedium, order, title, message)
}

func NewOrderExpiredNotification(order *Order, title, message string) *AdminNotification {
	return newOrderNotification(NotificationOrderExpired, NotificationPriorityLow, order, title, message)
}
