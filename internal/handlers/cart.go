// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mapstore/store-backend/internal/cart"
	"github.com/mapstore/store-backend/internal/i18n"
	"github.com/mapstore/store-backend/internal/middleware"
	"github.com/mapstore/store-backend/internal/services"
	"github.com/mapstore/store-backend/internal/utils"
)

type CartHandler struct {
	cartService *services.CartService
}

type addCartItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=999"`
}

type mergeCartRequest struct {
	Token string `json:"token" validate:"required,len=32,alphanum"`
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) respondCart(c *gin.Context, current *cart.Cart, message string) {
	view, err := services.NewCartView(current)
	if err != nil {
		respondError(c, err)
		return
	}

	payload := gin.H{"cart": view}
	if message != "" {
		payload["message"] = message
	}
	utils.SuccessResponse(c, payload)
}

// POST /v1/cart/token issues a guest cart token for X-Cart-Token.
func (h *CartHandler) IssueToken(c *gin.Context) {
	token, err := utils.GenerateCartToken()
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"token":  token,
		"header": middleware.CartTokenHeader,
	})
}

// GET /v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	current, err := h.cartService.Load(c.Request.Context(), middleware.GetCartKey(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondCart(c, current, "")
}

// POST /v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req addCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	current, err := h.cartService.AddProduct(c.Request.Context(), middleware.GetCartKey(c), req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondCart(c, current, i18n.T(lang, i18n.KeyCartItemAdded))
}

// PUT /v1/cart/items/:product_id
func (h *CartHandler) SetQuantity(c *gin.Context) {
	productID, ok := parseUintParam(c, "product_id")
	if !ok {
		return
	}

	var req setQuantityRequest
	if !bindJSON(c, &req) {
		return
	}

	current, err := h.cartService.SetQuantity(c.Request.Context(), middleware.GetCartKey(c), productID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondCart(c, current, "")
}

// DELETE /v1/cart/items/:product_id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	productID, ok := parseUintParam(c, "product_id")
	if !ok {
		return
	}

	current, err := h.cartService.RemoveItem(c.Request.Context(), middleware.GetCartKey(c), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondCart(c, current, i18n.T(lang, i18n.KeyCartItemRemoved))
}

// DELETE /v1/cart
func (h *CartHandler) Clear(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	key := middleware.GetCartKey(c)

	if err := h.cartService.Clear(c.Request.Context(), key); err != nil {
		respondError(c, err)
		return
	}
	h.respondCart(c, cart.New(key), i18n.T(lang, i18n.KeyCartCleared))
}

// POST /v1/cart/merge folds a guest cart into the signed-in buyer's cart.
func (h *CartHandler) Merge(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req mergeCartRequest
	if !bindJSON(c, &req) {
		return
	}

	merged, err := h.cartService.Merge(c.Request.Context(), cart.GuestKey(req.Token), cart.UserKey(userID))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondCart(c, merged, i18n.T(lang, i18n.KeyCartMerged))
}
