// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mapstore/store-backend/internal/cart"
	"github.com/mapstore/store-backend/internal/i18n"
	"github.com/mapstore/store-backend/internal/middleware"
	"github.com/mapstore/store-backend/internal/services"
	"github.com/mapstore/store-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
	cartService *services.CartService
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func NewAuthHandler(authService *services.AuthService, cartService *services.CartService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cartService: cartService,
	}
}

func authPayload(resp *services.AuthResponse) gin.H {
	return gin.H{
		"user":          resp.User,
		"token":         resp.AccessToken,
		"refresh_token": resp.RefreshToken,
		"token_type":    resp.TokenType,
		"expires_in":    resp.ExpiresIn,
	}
}

// POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.adoptGuestCart(c, authResponse)

	payload := authPayload(authResponse)
	payload["message"] = i18n.T(lang, i18n.KeyAuthRegisterSuccess)
	utils.CreatedResponse(c, payload)
}

// POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.adoptGuestCart(c, authResponse)

	payload := authPayload(authResponse)
	payload["message"] = i18n.T(lang, i18n.KeyAuthLoginSuccess)
	utils.SuccessResponse(c, payload)
}

// POST /v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req refreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	authResponse, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
		return
	}

	utils.SuccessResponse(c, authPayload(authResponse))
}

// GET /v1/auth/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user": user,
	})
}

// adoptGuestCart folds the caller's guest cart into their account cart when
// the request still carries a cart token. A failed merge never fails login.
func (h *AuthHandler) adoptGuestCart(c *gin.Context, resp *services.AuthResponse) {
	token := c.GetHeader(middleware.CartTokenHeader)
	if !utils.IsCartToken(token) {
		return
	}

	if _, err := h.cartService.Merge(c.Request.Context(), cart.GuestKey(token), cart.UserKey(resp.User.ID)); err != nil {
		logrus.WithError(err).WithField("user_id", resp.User.ID).Warn("failed to merge guest cart on login")
	}
}
