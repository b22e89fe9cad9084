// internal/services/errors.go
package services

import "errors"

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderForbidden       = errors.New("order belongs to another buyer")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrTotalMismatch        = errors.New("order total does not match its items")
	ErrOrderChanged         = errors.New("order status changed concurrently")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user with this email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAdminAccount         = errors.New("admin accounts cannot be deleted")
	ErrAccountHasOpenOrders = errors.New("account has orders still in progress")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidUpload        = errors.New("invalid upload")
)
