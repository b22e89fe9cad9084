// internal/middleware/cart.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/mapstore/store-backend/internal/cart"
	"github.com/mapstore/store-backend/internal/i18n"
	"github.com/mapstore/store-backend/internal/utils"
)

const CartTokenHeader = "X-Cart-Token"

// CartIdentity resolves which cart the request works on. Signed-in buyers
// use their account cart; guests must send the token issued by
// POST /v1/cart/token.
func CartIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := utils.GetUserUUIDFromContext(c); ok {
			c.Set(utils.ContextKeyCartKey, cart.UserKey(userID))
			c.Next()
			return
		}

		token := c.GetHeader(CartTokenHeader)
		if !utils.IsCartToken(token) {
			lang := utils.GetLangFromContext(c)
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCartTokenMissing), nil)
			c.Abort()
			return
		}

		c.Set(utils.ContextKeyCartKey, cart.GuestKey(token))
		c.Next()
	}
}

func GetCartKey(c *gin.Context) string {
	return utils.GetCartKeyFromContext(c)
}
