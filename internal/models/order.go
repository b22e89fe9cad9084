// internal/models/order.go
package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// position along the forward path; cancelled is off the path.
var orderStatusStep = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusPaid:       1,
	OrderStatusProcessing: 2,
	OrderStatusCompleted:  3,
}

var (
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrUnknownStatus     = errors.New("unknown order status")
)

// TransitionError reports a rejected status change. It matches
// ErrInvalidTransition with errors.Is.
type TransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

func (s OrderStatus) IsValid() bool {
	if s == OrderStatusCancelled {
		return true
	}
	_, ok := orderStatusStep[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo allows one step forward along
// pending -> paid -> processing -> completed, or cancellation from any
// non-terminal status.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.IsValid() || !next.IsValid() || s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return orderStatusStep[next] == orderStatusStep[s]+1
}

type GuestInfo struct {
	Name     string `json:"name"`
	WhatsApp string `json:"whatsapp"`
	Email    string `json:"email"`
}

type Order struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        *uuid.UUID    `json:"user_id,omitempty" gorm:"type:uuid;index"`
	GuestInfo     *GuestInfo    `json:"guest_info,omitempty" gorm:"type:jsonb;serializer:json"`
	Status        OrderStatus   `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	TotalAmount   int64         `json:"total_amount" gorm:"not null"`
	PaymentMethod PaymentMethod `json:"payment_method" gorm:"size:50"`
	CreatedAt     time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time     `json:"updated_at"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty"`

	// Relationships
	User  *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	OrderID      uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID    uint      `json:"product_id" gorm:"not null;index"`
	ProductTitle string    `json:"product_title" gorm:"size:255"`
	Category     string    `json:"category" gorm:"size:50"`
	ImageColor   string    `json:"image_color" gorm:"size:100"`
	Quantity     int       `json:"quantity" gorm:"not null"`
	PriceAtTime  int64     `json:"price_at_time" gorm:"not null"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	return nil
}

func (i OrderItem) Subtotal() int64 {
	return i.PriceAtTime * int64(i.Quantity)
}

// ItemsTotal is the sum of price-at-time x quantity over the snapshot lines.
func (o *Order) ItemsTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

func (o *Order) IsGuest() bool {
	return o.UserID == nil
}

func (o *Order) BelongsTo(userID uuid.UUID) bool {
	return o.UserID != nil && *o.UserID == userID
}

// Contact returns the buyer's name, email and WhatsApp, preferring the
// details typed at checkout over the account profile.
func (o *Order) Contact() GuestInfo {
	var c GuestInfo
	if o.User != nil {
		c = o.User.Contact()
	}
	if o.GuestInfo != nil {
		if o.GuestInfo.Name != "" {
			c.Name = o.GuestInfo.Name
		}
		if o.GuestInfo.Email != "" {
			c.Email = o.GuestInfo.Email
		}
		if o.GuestInfo.WhatsApp != "" {
			c.WhatsApp = o.GuestInfo.WhatsApp
		}
	}
	return c
}

// TransitionTo moves the order to next if the state machine allows it and
// stamps the matching timestamp. Re-applying the current status is a no-op.
func (o *Order) TransitionTo(next OrderStatus, now time.Time) error {
	if !next.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, next)
	}

	current := o.Status
	if current == "" {
		current = OrderStatusPending
	}
	if current == next {
		return nil
	}
	if !current.CanTransitionTo(next) {
		return &TransitionError{From: current, To: next}
	}

	o.Status = next
	switch next {
	case OrderStatusPaid:
		o.PaidAt = &now
	case OrderStatusCompleted:
		o.CompletedAt = &now
	case OrderStatusCancelled:
		o.CancelledAt = &now
	}
	return nil
}
