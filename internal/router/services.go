// internal/router/services.go
package router

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mapstore/store-backend/internal/cache"
	"github.com/mapstore/store-backend/internal/config"
	"github.com/mapstore/store-backend/internal/services"
)

// Services is the wired service graph shared by the router and background
// workers.
type Services struct {
	ViewCache    *cache.ViewCache
	Storage      *services.StorageService
	Notification *services.NotificationService
	Auth         *services.AuthService
	User         *services.UserService
	Product      *services.ProductService
	Cart         *services.CartService
	Payment      *services.PaymentService
	Order        *services.OrderService
	Admin        *services.AdminService
}

func NewServices(db *gorm.DB, cfg *config.Config) (*Services, error) {
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return NewServicesWithStorage(db, cfg, storageService), nil
}

func NewServicesWithStorage(db *gorm.DB, cfg *config.Config, storageService *services.StorageService) *Services {
	viewCache := cache.NewViewCache(cfg.Cache)
	notificationService := services.NewNotificationService(db, cfg, services.NewMailer(cfg.Email), viewCache)
	productService := services.NewProductService(db, viewCache, storageService)
	cartService := services.NewCartService(db, productService)
	paymentService := services.NewPaymentService(cfg)

	return &Services{
		ViewCache:    viewCache,
		Storage:      storageService,
		Notification: notificationService,
		Auth:         services.NewAuthService(db, cfg),
		User:         services.NewUserService(db),
		Product:      productService,
		Cart:         cartService,
		Payment:      paymentService,
		Order:        services.NewOrderService(db, cfg, cartService, notificationService, paymentService, viewCache),
		Admin:        services.NewAdminService(db, notificationService, viewCache),
	}
}
