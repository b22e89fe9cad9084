// internal/services/cart_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mapstore/store-backend/internal/cart"
	"github.com/mapstore/store-backend/internal/models"
	"github.com/mapstore/store-backend/internal/money"
)

// CartService persists whole carts, one row per cart key. Every mutation
// rewrites the row, and the last writer wins.
type CartService struct {
	db       *gorm.DB
	products *ProductService
}

type CartLineView struct {
	Product  models.ProductSnapshot `json:"product"`
	Quantity int                    `json:"quantity"`
	Subtotal string                 `json:"subtotal"`
}

type CartView struct {
	Items       []CartLineView `json:"items"`
	Count       int            `json:"count"`
	Total       string         `json:"total"`
	TotalAmount int64          `json:"total_amount"`
}

func NewCartView(c *cart.Cart) (*CartView, error) {
	total, err := c.Total()
	if err != nil {
		return nil, err
	}

	view := &CartView{
		Items:       make([]CartLineView, 0, len(c.Items)),
		Count:       c.Count(),
		Total:       money.Format(total),
		TotalAmount: total,
	}
	for _, item := range c.Items {
		price, _ := money.Parse(item.Product.Price)
		view.Items = append(view.Items, CartLineView{
			Product:  item.Product,
			Quantity: item.Quantity,
			Subtotal: money.Format(price * int64(item.Quantity)),
		})
	}
	return view, nil
}

func NewCartService(db *gorm.DB, products *ProductService) *CartService {
	return &CartService{db: db, products: products}
}

// Load returns the stored cart for key, or an empty one if none exists.
func (s *CartService) Load(ctx context.Context, key string) (*cart.Cart, error) {
	return loadCart(s.db.WithContext(ctx), key)
}

func (s *CartService) Save(ctx context.Context, c *cart.Cart) error {
	return saveCart(s.db.WithContext(ctx), c)
}

func (s *CartService) AddProduct(ctx context.Context, key string, productID uint) (*cart.Cart, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := c.AddItem(product.Snapshot()); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CartService) SetQuantity(ctx context.Context, key string, productID uint, quantity int) (*cart.Cart, error) {
	c, err := s.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	c.SetQuantity(productID, quantity)
	if err := s.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CartService) RemoveItem(ctx context.Context, key string, productID uint) (*cart.Cart, error) {
	c, err := s.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	c.RemoveItem(productID)
	if err := s.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CartService) Clear(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&models.CartRecord{}, "cart_key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Merge folds the guest cart into the user's cart after login and removes
// the guest cart.
func (s *CartService) Merge(ctx context.Context, guestKey, userKey string) (*cart.Cart, error) {
	var merged *cart.Cart
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guest, err := loadCart(tx, guestKey)
		if err != nil {
			return err
		}
		user, err := loadCart(tx, userKey)
		if err != nil {
			return err
		}

		guest.MergeInto(user)
		if err := saveCart(tx, user); err != nil {
			return err
		}
		if err := tx.Delete(&models.CartRecord{}, "cart_key = ?", guestKey).Error; err != nil {
			return fmt.Errorf("failed to drop guest cart: %w", err)
		}
		merged = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

func loadCart(db *gorm.DB, key string) (*cart.Cart, error) {
	var record models.CartRecord
	if err := db.Where("cart_key = ?", key).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cart.New(key), nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart.FromRecord(&record), nil
}

func saveCart(db *gorm.DB, c *cart.Cart) error {
	record := c.Record()
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
	}).Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
