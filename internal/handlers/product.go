// internal/handlers/product.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mapstore/store-backend/internal/i18n"
	"github.com/mapstore/store-backend/internal/models"
	"github.com/mapstore/store-backend/internal/services"
	"github.com/mapstore/store-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// GET /v1/products
//
// ?grouped=true returns the catalog page layout: every matching product
// bucketed by category id, without pagination.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.ProductSearchParams{
		PaginationParams: params,
	}
	if bestSeller, err := strconv.ParseBool(c.Query("best_seller")); err == nil {
		searchParams.BestSellerOnly = bestSeller
	}

	if grouped, _ := strconv.ParseBool(c.Query("grouped")); grouped {
		searchParams.Page = 1
		searchParams.Limit = 100

		products, _, err := h.productService.ListProducts(c.Request.Context(), searchParams)
		if err != nil {
			respondError(c, err)
			return
		}

		byCategory := make(map[string][]services.ProductView)
		for category, list := range services.GroupByCategory(products) {
			byCategory[category] = services.NewProductViews(list)
		}
		utils.SuccessResponse(c, gin.H{
			"categories": byCategory,
		})
		return
	}

	products, total, err := h.productService.ListProducts(c.Request.Context(), searchParams)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(services.NewProductViews(products), total, params)
	utils.PaginatedResponse(c, result)
}

// GET /v1/products/:id accepts a numeric id or a slug.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	ref := c.Param("id")

	var product *models.Product
	var err error
	if id, parseErr := strconv.ParseUint(ref, 10, 64); parseErr == nil {
		product, err = h.productService.GetProduct(c.Request.Context(), uint(id))
	} else {
		product, err = h.productService.GetProductBySlug(c.Request.Context(), ref)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": services.NewProductView(product),
	})
}

// GET /v1/categories
func (h *ProductHandler) GetCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"categories": categories,
	})
}

// POST /v1/admin/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": services.NewProductView(product),
	})
}

// PUT /v1/admin/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": services.NewProductView(product),
	})
}

// DELETE /v1/admin/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeleted),
	})
}

// POST /v1/admin/products/:id/image (multipart field "image")
func (h *ProductHandler) UploadProductImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}
	defer file.Close()

	product, err := h.productService.UploadProductImage(c.Request.Context(), id, file, header)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"product": services.NewProductView(product),
	})
}
