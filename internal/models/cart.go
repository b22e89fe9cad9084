// internal/models/cart.go
package models

import "time"

type CartItem struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
}

// CartRecord stores a whole cart under one key, rewritten on every mutation.
type CartRecord struct {
	Key       string     `json:"key" gorm:"column:cart_key;size:100;primaryKey"`
	Items     []CartItem `json:"items" gorm:"type:jsonb;serializer:json"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (CartRecord) TableName() string {
	return "carts"
}
