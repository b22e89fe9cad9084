// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mapstore/store-backend/internal/cache"
	"github.com/mapstore/store-backend/internal/models"
	"github.com/mapstore/store-backend/internal/money"
	"github.com/mapstore/store-backend/internal/utils"
)

type ProductService struct {
	db             *gorm.DB
	viewCache      *cache.ViewCache
	storageService *StorageService
}

type CreateProductRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=255"`
	Description   string   `json:"description,omitempty"`
	Price         int64    `json:"price" validate:"required,gt=0"`
	OriginalPrice *int64   `json:"original_price,omitempty" validate:"omitempty,gt=0"`
	Stock         int      `json:"stock" validate:"min=0"`
	CategoryID    string   `json:"category_id" validate:"required"`
	IsBestSeller  bool     `json:"is_best_seller"`
	Features      []string `json:"features,omitempty" validate:"omitempty,dive,required,max=255"`
	ImageColor    string   `json:"image_color,omitempty" validate:"max=100"`
	Image         string   `json:"image,omitempty" validate:"max=500"`
}

// UpdateProductRequest is a partial update: nil fields are left alone.
type UpdateProductRequest struct {
	Name               *string  `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Description        *string  `json:"description,omitempty"`
	Price              *int64   `json:"price,omitempty" validate:"omitempty,gt=0"`
	OriginalPrice      *int64   `json:"original_price,omitempty" validate:"omitempty,gt=0"`
	ClearOriginalPrice bool     `json:"clear_original_price,omitempty"`
	Stock              *int     `json:"stock,omitempty" validate:"omitempty,min=0"`
	CategoryID         *string  `json:"category_id,omitempty"`
	IsBestSeller       *bool    `json:"is_best_seller,omitempty"`
	Features           []string `json:"features,omitempty" validate:"omitempty,dive,required,max=255"`
	ImageColor         *string  `json:"image_color,omitempty" validate:"omitempty,max=100"`
	Image              *string  `json:"image,omitempty" validate:"omitempty,max=500"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	BestSellerOnly bool `json:"best_seller_only,omitempty"`
}

// ProductView is the storefront shape of a product: prices as display
// strings plus the raw amounts and the computed discount.
type ProductView struct {
	ID                  uint     `json:"id"`
	Title               string   `json:"title"`
	Slug                string   `json:"slug"`
	Description         string   `json:"description,omitempty"`
	Price               string   `json:"price"`
	PriceAmount         int64    `json:"price_amount"`
	OriginalPrice       string   `json:"original_price,omitempty"`
	OriginalPriceAmount *int64   `json:"original_price_amount,omitempty"`
	DiscountPercent     *int     `json:"discount_percent,omitempty"`
	Category            string   `json:"category"`
	CategoryName        string   `json:"category_name,omitempty"`
	Features            []string `json:"features"`
	ImageColor          string   `json:"image_color"`
	Image               string   `json:"image"`
	IsBestSeller        bool     `json:"is_best_seller"`
	Stock               int      `json:"stock"`
}

func NewProductView(p *models.Product) ProductView {
	view := ProductView{
		ID:                  p.ID,
		Title:               p.Name,
		Slug:                p.Slug,
		Description:         p.Description,
		Price:               money.Format(p.Price),
		PriceAmount:         p.Price,
		OriginalPriceAmount: p.OriginalPrice,
		Category:            p.CategoryID,
		Features:            p.Features,
		ImageColor:          p.ImageColor,
		Image:               p.Image,
		IsBestSeller:        p.IsBestSeller,
		Stock:               p.Stock,
	}
	if view.Features == nil {
		view.Features = []string{}
	}
	if p.Category != nil {
		view.CategoryName = p.Category.Name
	}
	if p.OriginalPrice != nil {
		view.OriginalPrice = money.Format(*p.OriginalPrice)
		if pct, ok := money.DiscountPercent(*p.OriginalPrice, p.Price); ok {
			view.DiscountPercent = &pct
		}
	}
	return view
}

func NewProductViews(products []models.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, NewProductView(&products[i]))
	}
	return views
}

func NewProductService(db *gorm.DB, viewCache *cache.ViewCache, storageService *StorageService) *ProductService {
	return &ProductService{
		db:             db,
		viewCache:      viewCache,
		storageService: storageService,
	}
}

// GET /products: best sellers first, then newest.
func (s *ProductService) ListProducts(ctx context.Context, params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})

	if params.Category != "" {
		query = query.Where("category_id = ?", params.Category)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", searchTerm)
	}

	if params.BestSellerOnly {
		query = query.Where("is_best_seller = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query = query.Preload("Category").Order("is_best_seller DESC")
	allowedSortFields := []string{"created_at", "price", "name"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = query.Order("id ASC")
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// GroupByCategory buckets products by category id, keeping their order.
func GroupByCategory(products []models.Product) map[string][]models.Product {
	grouped := make(map[string][]models.Product)
	for _, p := range products {
		grouped[p.CategoryID] = append(grouped[p.CategoryID], p)
	}
	return grouped
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Preload("Category").Where("slug = ?", slug).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product := &models.Product{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Stock:         req.Stock,
		CategoryID:    req.CategoryID,
		IsBestSeller:  req.IsBestSeller,
		Features:      req.Features,
		ImageColor:    req.ImageColor,
		Image:         req.Image,
	}
	if product.Image == "" {
		product.Image = models.DefaultProductImage
	}
	if product.Features == nil {
		product.Features = []string{}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCategory(tx, product.CategoryID); err != nil {
			return err
		}

		slug, err := uniqueSlug(tx, models.Slugify(product.Name), 0)
		if err != nil {
			return err
		}
		product.Slug = slug

		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCatalog()
	return s.GetProduct(ctx, product.ID)
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uint, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if req.Name != nil && strings.TrimSpace(*req.Name) != product.Name {
			product.Name = strings.TrimSpace(*req.Name)
			slug, err := uniqueSlug(tx, models.Slugify(product.Name), product.ID)
			if err != nil {
				return err
			}
			product.Slug = slug
		}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.Price != nil {
			product.Price = *req.Price
		}
		if req.ClearOriginalPrice {
			product.OriginalPrice = nil
		} else if req.OriginalPrice != nil {
			product.OriginalPrice = req.OriginalPrice
		}
		if req.Stock != nil {
			product.Stock = *req.Stock
		}
		if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
			if err := ensureCategory(tx, *req.CategoryID); err != nil {
				return err
			}
			product.CategoryID = *req.CategoryID
		}
		if req.IsBestSeller != nil {
			product.IsBestSeller = *req.IsBestSeller
		}
		if req.Features != nil {
			product.Features = req.Features
		}
		if req.ImageColor != nil {
			product.ImageColor = *req.ImageColor
		}
		if req.Image != nil {
			product.Image = *req.Image
		}

		if err := tx.Omit(clause.Associations).Save(&product).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCatalog()
	return s.GetProduct(ctx, id)
}

// DeleteProduct soft-deletes so order lines that reference it still resolve.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	s.invalidateCatalog()
	return nil
}

// UploadProductImage stores the image, points the product at it and removes
// the image it replaced.
func (s *ProductService) UploadProductImage(ctx context.Context, id uint, file multipart.File, header *multipart.FileHeader) (*models.Product, error) {
	previous, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := s.storageService.UploadFile(ctx, file, header, ProductImageOptions())
	if err != nil {
		return nil, err
	}

	image := result.URL
	updated, err := s.UpdateProduct(ctx, id, &UpdateProductRequest{Image: &image})
	if err != nil {
		// nothing points at the new upload yet
		if delErr := s.storageService.DeleteFile(ctx, result.Key); delErr != nil {
			logrus.WithError(delErr).WithField("key", result.Key).Warn("failed to remove orphaned product image")
		}
		return nil, err
	}

	if key, ok := s.storageService.KeyFromURL(previous.Image); ok {
		if err := s.storageService.DeleteFile(ctx, key); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("failed to remove replaced product image")
		}
	}
	return updated, nil
}

func (s *ProductService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *ProductService) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (s *ProductService) invalidateCatalog() {
	s.viewCache.Invalidate(cache.PathProducts, cache.PathCategories, cache.PathAdminStats)
}

func ensureCategory(tx *gorm.DB, categoryID string) error {
	var count int64
	if err := tx.Model(&models.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, categoryID)
	}
	return nil
}

// uniqueSlug returns base, or base-2, base-3, ... when taken by another
// product. Soft-deleted rows still hold their slug.
func uniqueSlug(tx *gorm.DB, base string, selfID uint) (string, error) {
	if base == "" {
		base = "product"
	}
	slug := base
	for n := 2; ; n++ {
		var count int64
		query := tx.Unscoped().Model(&models.Product{}).Where("slug = ?", slug)
		if selfID != 0 {
			query = query.Where("id <> ?", selfID)
		}
		if err := query.Count(&count).Error; err != nil {
			return "", fmt.Errorf("database error: %w", err)
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}
