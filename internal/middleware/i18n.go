// internal/middleware/i18n.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/mapstore/store-backend/internal/i18n"
	"github.com/mapstore/store-backend/internal/utils"
)

// I18nMiddleware picks the response language. ?lang= wins over
// Accept-Language so links shared over WhatsApp keep their language.
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if lang == "" {
			lang = c.GetHeader("Accept-Language")
		}
		lang = i18n.Resolve(lang)

		c.Set(utils.ContextKeyLang, lang)
		c.Header("Content-Language", lang)
		c.Writer.Header().Add("Vary", "Accept-Language")
		c.Next()
	}
}
