package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name  string
		query string
		want  PaginationParams
	}{
		{"defaults", "", PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}},
		{"explicit", "page=3&limit=5&sort=price&order=ASC&category=music&search=+spotify+",
			PaginationParams{Page: 3, Limit: 5, Sort: "price", Order: "asc", Category: "music", Search: "spotify"}},
		{"limit too large", "limit=500", PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}},
		{"garbage", "page=-2&order=sideways", PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/v1/products?"+tt.query, nil)
			assert.Equal(t, tt.want, GetPaginationParams(c))
		})
	}
}

func TestCreatePaginationResult(t *testing.T) {
	result := CreatePaginationResult([]int{1, 2}, 41, PaginationParams{Page: 2, Limit: 20})
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 2, result.Page)

	empty := CreatePaginationResult(nil, 0, PaginationParams{})
	assert.Equal(t, 0, empty.TotalPages)
	assert.Equal(t, 20, empty.Limit)
}
