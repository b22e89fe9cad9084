// internal/middleware/cache.go
package middleware

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mapstore/store-backend/internal/cache"
	"github.com/mapstore/store-backend/internal/utils"
)

// CacheResponse serves GET requests from vc and stores successful
// responses for the next caller. Entries are keyed by URI and language.
func CacheResponse(vc *cache.ViewCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !vc.Enabled() || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cache.Key(c.Request.URL.RequestURI(), utils.GetLangFromContext(c))
		if entry, ok := vc.Get(key); ok {
			c.Header("X-Cache", "HIT")
			c.Data(entry.Status, entry.ContentType, entry.Body)
			c.Abort()
			return
		}

		blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw
		c.Header("X-Cache", "MISS")

		c.Next()

		if blw.Status() == http.StatusOK {
			vc.Set(key, &cache.Entry{
				Status:      blw.Status(),
				ContentType: blw.Header().Get("Content-Type"),
				Body:        blw.body.Bytes(),
			})
		}
	}
}
