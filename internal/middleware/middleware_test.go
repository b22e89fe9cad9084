package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mapstore/store-backend/internal/cart"
	"github.com/mapstore/store-backend/internal/utils"
)

func TestI18nMiddlewarePrefersQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(I18nMiddleware())
	r.GET("/lang", func(c *gin.Context) { c.String(http.StatusOK, utils.GetLangFromContext(c)) })

	req := httptest.NewRequest(http.MethodGet, "/lang?lang=en", nil)
	req.Header.Set("Accept-Language", "id-ID,id;q=0.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "en", w.Body.String())
	assert.Equal(t, "en", w.Header().Get("Content-Language"))
}

func TestCartIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	token, err := utils.GenerateCartToken()
	assert.NoError(t, err)

	tests := []struct {
		name     string
		userID   string
		token    string
		wantCode int
		wantKey  string
	}{
		{"signed in", userID.String(), "", http.StatusOK, cart.UserKey(userID)},
		{"signed in ignores token", userID.String(), token, http.StatusOK, cart.UserKey(userID)},
		{"guest", "", token, http.StatusOK, cart.GuestKey(token)},
		{"guest without token", "", "", http.StatusBadRequest, ""},
		{"guest with bad token", "", "not-a-token", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tt.userID != "" {
					c.Set(utils.ContextKeyUserID, tt.userID)
				}
			}, CartIdentity())
			r.GET("/v1/cart", func(c *gin.Context) { c.String(http.StatusOK, GetCartKey(c)) })

			req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
			if tt.token != "" {
				req.Header.Set(CartTokenHeader, tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantKey, w.Body.String())
			}
		})
	}
}

func TestAdminRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for role, want := range map[string]int{"admin": http.StatusOK, "customer": http.StatusForbidden, "": http.StatusForbidden} {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if role != "" {
				c.Set(utils.ContextKeyRole, role)
			}
		}, AdminRequired())
		r.GET("/v1/admin/dashboard", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/admin/dashboard", nil))
		assert.Equal(t, want, w.Code, "role %q", role)
	}
}
