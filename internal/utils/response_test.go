package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapstore/store-backend/internal/i18n"
)

func respondWith(t *testing.T, lang string, send func(c *gin.Context)) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/v1/products", nil)
	if lang != "" {
		c.Set(ContextKeyLang, lang)
	}
	send(c)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestPaginatedResponseCarriesPageInBodyAndHeaders(t *testing.T) {
	result := CreatePaginationResult([]string{"netflix", "spotify"}, 41, PaginationParams{Page: 2, Limit: 20})
	w, body := respondWith(t, "", func(c *gin.Context) { PaginatedResponse(c, result) })

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "41", w.Header().Get("X-Total-Count"))
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "error")

	page := body["meta"].(map[string]interface{})["pagination"].(map[string]interface{})
	assert.Equal(t, float64(41), page["total"])
	assert.Equal(t, float64(3), page["total_pages"])
	assert.Equal(t, float64(2), page["page"])
}

func TestErrorHelpersFallBackToCatalogText(t *testing.T) {
	w, body := respondWith(t, "en", TooManyRequestsResponse)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body, "data")

	failure := body["error"].(map[string]interface{})
	assert.Equal(t, string(CodeRateLimited), failure["code"])
	assert.Equal(t, i18n.T("en", i18n.KeyRateLimited), failure["message"])

	_, body = respondWith(t, "en", func(c *gin.Context) { ConflictResponse(c, "stock changed") })
	assert.Equal(t, "stock changed", body["error"].(map[string]interface{})["message"])
}

func TestValidationErrorResponseListsFields(t *testing.T) {
	fields := []ValidationError{{Field: "email", Message: "email is required"}}
	w, body := respondWith(t, "", func(c *gin.Context) { ValidationErrorResponse(c, fields) })

	assert.Equal(t, http.StatusBadRequest, w.Code)
	failure := body["error"].(map[string]interface{})
	assert.Equal(t, string(CodeValidation), failure["code"])
	assert.Len(t, failure["details"], 1)
}
