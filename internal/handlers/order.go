// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mapstore/store-backend/internal/i18n"
	"github.com/mapstore/store-backend/internal/middleware"
	"github.com/mapstore/store-backend/internal/services"
	"github.com/mapstore/store-backend/internal/utils"
)

type OrderHandler struct {
	orderService   *services.OrderService
	cartService    *services.CartService
	paymentService *services.PaymentService
}

func NewOrderHandler(orderService *services.OrderService, cartService *services.CartService, paymentService *services.PaymentService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		cartService:    cartService,
		paymentService: paymentService,
	}
}

// POST /v1/checkout places an order for the caller's stored cart.
func (h *OrderHandler) Checkout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}
	if userID, ok := utils.GetUserUUIDFromContext(c); ok {
		req.UserID = &userID
	}

	current, err := h.cartService.Load(c.Request.Context(), middleware.GetCartKey(c))
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := h.orderService.Checkout(c.Request.Context(), current, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyOrderCreated),
		"order_id": order.ID,
		"order":    order,
		"payment":  h.paymentService.OrderPayment(order),
	})
}

// POST /v1/orders creates an order from an explicit item list. The total
// must match the items.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var input services.CreateOrderInput
	if !decodeJSON(c, &input) {
		return
	}
	if userID, ok := utils.GetUserUUIDFromContext(c); ok {
		input.UserID = &userID
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyOrderCreated),
		"order_id": order.ID,
		"order":    order,
		"payment":  h.paymentService.OrderPayment(order),
	})
}

// GET /v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	orders, total, err := h.orderService.ListBuyerOrders(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(orders, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /v1/orders/:id
//
// Signed-in buyers see their own orders; guests pass ?email= with the
// address used at checkout.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var userID *uuid.UUID
	if parsed, ok := utils.GetUserUUIDFromContext(c); ok {
		userID = &parsed
	}

	order, err := h.orderService.GetOrderForBuyer(c.Request.Context(), id, userID, c.Query("email"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"order":   order,
		"payment": h.paymentService.OrderPayment(order),
	})
}
