// internal/handlers/payment.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mapstore/store-backend/internal/i18n"
	"github.com/mapstore/store-backend/internal/services"
	"github.com/mapstore/store-backend/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	orderService   *services.OrderService
}

func NewPaymentHandler(paymentService *services.PaymentService, orderService *services.OrderService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		orderService:   orderService,
	}
}

// GET /v1/payment/instructions
func (h *PaymentHandler) GetInstructions(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	instructions := h.paymentService.Instructions()

	utils.SuccessResponse(c, gin.H{
		"instructions": instructions,
		"notice":       i18n.T(lang, i18n.KeyPaymentWindow, instructions.PaymentWindowHours),
	})
}

// GET /v1/orders/:id/confirmation returns the WhatsApp link the buyer uses
// to tell the store they have paid.
func (h *PaymentHandler) GetConfirmationLink(c *gin.Context) {
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
		"order_id":          order.ID,
		"confirmation_link": h.paymentService.ConfirmationLink(order),
		"message":           h.paymentService.ConfirmationMessage(order),
	})
}
