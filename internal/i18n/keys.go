// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess       = "success"
	KeyError         = "error"
	KeyInternalError = "internal_error"
	KeyRateLimited   = "rate_limited"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// User
	KeyUserNotFound        = "user.not_found"
	KeyUserProfileUpdated  = "user.profile_updated"
	KeyUserPasswordChanged = "user.password_changed"
	KeyUserAccountDeleted  = "user.account_deleted"
	KeyUserOpenOrders      = "user.open_orders"
	KeyUserAdminProtected  = "user.admin_protected"

	// Catalog
	KeyProductCreated   = "product.created"
	KeyProductUpdated   = "product.updated"
	KeyProductDeleted   = "product.deleted"
	KeyProductNotFound  = "product.not_found"
	KeyCategoryNotFound = "category.not_found"

	// Cart
	KeyCartItemAdded    = "cart.item_added"
	KeyCartItemRemoved  = "cart.item_removed"
	KeyCartCleared      = "cart.cleared"
	KeyCartEmpty        = "cart.empty"
	KeyCartTokenMissing = "cart.token_missing"
	KeyCartInvalidPrice = "cart.invalid_price"
	KeyCartMerged       = "cart.merged"

	// Orders
	KeyOrderCreated       = "order.created"
	KeyOrderNotFound      = "order.not_found"
	KeyOrderTotalMismatch = "order.total_mismatch"
	KeyOrderStatusUpdated = "order.status_updated"
	KeyOrderInvalidStatus = "order.invalid_transition"
	KeyOrderForbidden     = "order.forbidden"
	KeyOrderChanged       = "order.changed"

	// Payments
	KeyPaymentMethodRequired = "payment.method_required"
	KeyPaymentWindow         = "payment.window"

	// Admin
	KeyAdminAccessDenied    = "admin.access_denied"
	KeyNotificationRead     = "notification.marked_read"
	KeyNotificationNotFound = "notification.not_found"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"
)
