// internal/models/product.go
package models

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mapstore/store-backend/internal/money"
)

type Category struct {
	ID          string `json:"id" gorm:"size:50;primaryKey"`
	Name        string `json:"name" gorm:"size:100;not null"`
	Slug        string `json:"slug" gorm:"size:100;uniqueIndex;not null"`
	Icon        string `json:"icon" gorm:"size:50"`
	Description string `json:"description" gorm:"type:text"`

	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

type Product struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"size:255;not null"`
	Slug          string         `json:"slug" gorm:"size:255;uniqueIndex;not null"`
	Description   string         `json:"description" gorm:"type:text"`
	Price         int64          `json:"price" gorm:"not null"`
	OriginalPrice *int64         `json:"original_price"`
	Stock         int            `json:"stock" gorm:"default:0"`
	CategoryID    string         `json:"category_id" gorm:"size:50;index"`
	IsBestSeller  bool           `json:"is_best_seller" gorm:"default:false;index"`
	Features      []string       `json:"features" gorm:"type:jsonb;serializer:json"`
	ImageColor    string         `json:"image_color" gorm:"size:100"`
	Image         string         `json:"image" gorm:"size:500"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

const DefaultProductImage = "/products/default.png"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	slugStrip     = regexp.MustCompile(`[^a-z0-9-]`)
)

// Slugify lowercases name, turns whitespace runs into dashes and drops
// everything else that is not [a-z0-9-].
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = whitespaceRun.ReplaceAllString(slug, "-")
	return slugStrip.ReplaceAllString(slug, "")
}

// ProductSnapshot is the copy of a product held by a cart line. It is a
// historical record: later catalog edits never reach it.
type ProductSnapshot struct {
	ID            uint     `json:"id"`
	Title         string   `json:"title"`
	Price         string   `json:"price"`
	OriginalPrice string   `json:"original_price,omitempty"`
	Category      string   `json:"category"`
	Features      []string `json:"features"`
	ImageColor    string   `json:"image_color"`
	IsBestSeller  bool     `json:"is_best_seller"`
	Image         string   `json:"image,omitempty"`
}

func (p *Product) Snapshot() ProductSnapshot {
	snap := ProductSnapshot{
		ID:           p.ID,
		Title:        p.Name,
		Price:        money.Format(p.Price),
		Category:     p.CategoryID,
		Features:     append([]string(nil), p.Features...),
		ImageColor:   p.ImageColor,
		IsBestSeller: p.IsBestSeller,
		Image:        p.Image,
	}
	if p.OriginalPrice != nil {
		snap.OriginalPrice = money.Format(*p.OriginalPrice)
	}
	return snap
}
