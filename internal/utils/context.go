// internal/utils/context.go
package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mapstore/store-backend/internal/i18n"
)

// Keys set on the gin context by the middleware chain.
const (
	ContextKeyLang    = "lang"
	ContextKeyUserID  = "user_id"
	ContextKeyEmail   = "email"
	ContextKeyRole    = "role"
	ContextKeyCartKey = "cart_key"
)

func contextString(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok && str != ""
}

func GetLangFromContext(c *gin.Context) string {
	if lang, ok := contextString(c, ContextKeyLang); ok {
		return lang
	}
	return i18n.DefaultLanguage()
}

func GetUserIDFromContext(c *gin.Context) (string, bool) {
	return contextString(c, ContextKeyUserID)
}

// GetUserUUIDFromContext returns the authenticated buyer, or false for
// guests and malformed claims.
func GetUserUUIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return uuid.Nil, false
	}
	parsed, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, false
	}
	return parsed, true
}

func GetUserRoleFromContext(c *gin.Context) (string, bool) {
	return contextString(c, ContextKeyRole)
}

func GetCartKeyFromContext(c *gin.Context) string {
	key, _ := contextString(c, ContextKeyCartKey)
	return key
}
