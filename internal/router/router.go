// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mapstore/store-backend/internal/config"
	"github.com/mapstore/store-backend/internal/handlers"
	"github.com/mapstore/store-backend/internal/middleware"
	"github.com/mapstore/store-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, svc *Services) *gin.Engine {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(svc.Auth, svc.Cart)
	userHandler := handlers.NewUserHandler(svc.User)
	productHandler := handlers.NewProductHandler(svc.Product)
	cartHandler := handlers.NewCartHandler(svc.Cart)
	orderHandler := handlers.NewOrderHandler(svc.Order, svc.Cart, svc.Payment)
	paymentHandler := handlers.NewPaymentHandler(svc.Payment, svc.Order)
	adminHandler := handlers.NewAdminHandler(svc.Admin, svc.Notification)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	limits := middleware.NewRateLimits(cfg.RateLimit)
	cached := middleware.CacheResponse(svc.ViewCache)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend))
	r.Use(middleware.I18nMiddleware())
	r.Use(limits.General.Middleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Locally stored product images
	if dir := svc.Storage.LocalDir(); dir != "" {
		r.Static("/uploads", dir)
	}

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(limits.Auth.Middleware())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// User routes
		users := v1.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.PUT("/profile", userHandler.UpdateProfile)
			users.PUT("/password", limits.Auth.Middleware(), userHandler.ChangePassword)
			users.DELETE("/account", userHandler.DeleteAccount)
		}

		// Catalog routes
		products := v1.Group("/products")
		products.Use(cached)
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/:id", productHandler.GetProduct)
		}
		v1.GET("/categories", cached, productHandler.GetCategories)

		// Payment routes
		v1.GET("/payment/instructions", paymentHandler.GetInstructions)

		// Cart routes
		v1.POST("/cart/token", cartHandler.IssueToken)
		cartRoutes := v1.Group("/cart")
		cartRoutes.Use(middleware.OptionalAuth(), middleware.CartIdentity())
		{
			cartRoutes.GET("", cartHandler.GetCart)
			cartRoutes.DELETE("", cartHandler.Clear)
			cartRoutes.POST("/items", cartHandler.AddItem)
			cartRoutes.PUT("/items/:product_id", cartHandler.SetQuantity)
			cartRoutes.DELETE("/items/:product_id", cartHandler.RemoveItem)
		}
		v1.POST("/cart/merge", middleware.AuthRequired(), cartHandler.Merge)

		// Checkout and orders
		v1.POST("/checkout",
			limits.Checkout.Middleware(),
			middleware.OptionalAuth(),
			middleware.CartIdentity(),
			orderHandler.Checkout,
		)

		orders := v1.Group("/orders")
		{
			orders.POST("", limits.Checkout.Middleware(), middleware.OptionalAuth(), orderHandler.CreateOrder)
			orders.GET("", middleware.AuthRequired(), orderHandler.ListOrders)
			orders.GET("/:id", middleware.OptionalAuth(), orderHandler.GetOrder)
			orders.GET("/:id/confirmation", middleware.OptionalAuth(), paymentHandler.GetConfirmationLink)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		admin.Use(middleware.AuditLogMiddleware(db))
		{
			admin.GET("/dashboard/stats", cached, adminHandler.GetDashboardStats)

			admin.GET("/orders", cached, adminHandler.GetOrders)
			admin.GET("/orders/:id", cached, adminHandler.GetOrder)
			admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)

			admin.POST("/products", productHandler.CreateProduct)
			admin.PUT("/products/:id", productHandler.UpdateProduct)
			admin.DELETE("/products/:id", productHandler.DeleteProduct)
			admin.POST("/products/:id/image", limits.Upload.Middleware(), productHandler.UploadProductImage)

			admin.GET("/notifications", adminHandler.GetNotifications)
			admin.PUT("/notifications/:id/read", adminHandler.MarkNotificationRead)
		}
	}

	return r
}
