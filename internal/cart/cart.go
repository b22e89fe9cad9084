// Package cart holds the in-memory shopping cart. A cart line carries a
// snapshot of the product taken when it was added, so later catalog edits
// never change what the buyer saw.
package cart

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mapstore/store-backend/internal/models"
	"github.com/mapstore/store-backend/internal/money"
)

const (
	userKeyPrefix  = "user:"
	guestKeyPrefix = "guest:"
)

// MaxQuantity caps a single cart line. Order items are held to the same
// limit.
const MaxQuantity = 999

type Item = models.CartItem

type Cart struct {
	Key   string `json:"key"`
	Items []Item `json:"items"`
}

func New(key string) *Cart {
	return &Cart{Key: key, Items: []Item{}}
}

func FromRecord(record *models.CartRecord) *Cart {
	c := New(record.Key)
	c.Items = append(c.Items, record.Items...)
	return c
}

func (c *Cart) Record() *models.CartRecord {
	return &models.CartRecord{Key: c.Key, Items: append([]Item{}, c.Items...)}
}

// Clone copies c so the copy can be snapshotted without touching c.
func (c *Cart) Clone() *Cart {
	return &Cart{Key: c.Key, Items: append([]Item{}, c.Items...)}
}

func UserKey(userID uuid.UUID) string {
	return userKeyPrefix + userID.String()
}

func GuestKey(token string) string {
	return guestKeyPrefix + token
}

func (c *Cart) indexOf(productID uint) int {
	for i, item := range c.Items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

// AddItem increments the line for p or appends a new line with quantity 1.
// Stock is not checked.
func (c *Cart) AddItem(p models.ProductSnapshot) error {
	if _, err := money.Parse(p.Price); err != nil {
		return fmt.Errorf("product %d has unusable price %q: %w", p.ID, p.Price, err)
	}

	if i := c.indexOf(p.ID); i >= 0 {
		if c.Items[i].Quantity < MaxQuantity {
			c.Items[i].Quantity++
		}
		return nil
	}
	c.Items = append(c.Items, Item{Product: p, Quantity: 1})
	return nil
}

func (c *Cart) RemoveItem(productID uint) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// SetQuantity replaces the quantity of an existing line. A quantity of zero
// or less removes it; unknown product ids are ignored.
func (c *Cart) SetQuantity(productID uint, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	if i := c.indexOf(productID); i >= 0 {
		c.Items[i].Quantity = min(quantity, MaxQuantity)
	}
}

func (c *Cart) Clear() {
	c.Items = []Item{}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Total() (int64, error) {
	var total int64
	for _, item := range c.Items {
		price, err := money.Parse(item.Product.Price)
		if err != nil {
			return 0, fmt.Errorf("cart line %d: %w", item.Product.ID, err)
		}
		line, err := money.LineTotal(price, item.Quantity)
		if err == nil {
			total, err = money.Add(total, line)
		}
		if err != nil {
			return 0, fmt.Errorf("cart line %d: %w", item.Product.ID, err)
		}
	}
	return total, nil
}

func (c *Cart) Count() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// MergeInto adds every line of c to dst, summing quantities of shared
// products, and empties c.
func (c *Cart) MergeInto(dst *Cart) {
	for _, item := range c.Items {
		if i := dst.indexOf(item.Product.ID); i >= 0 {
			dst.Items[i].Quantity = min(dst.Items[i].Quantity+item.Quantity, MaxQuantity)
			continue
		}
		dst.Items = append(dst.Items, item)
	}
	c.Clear()
}

// Snapshot turns the cart into a pending order for buyerID (nil for a
// guest) and empties the cart. On error the cart is left as it was.
func (c *Cart) Snapshot(buyerID *uuid.UUID, now time.Time) (*models.Order, error) {
	total, err := c.Total()
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:          uuid.New(),
		UserID:      buyerID,
		Status:      models.OrderStatusPending,
		TotalAmount: total,
		CreatedAt:   now,
		Items:       make([]models.OrderItem, 0, len(c.Items)),
	}
	for _, item := range c.Items {
		price, _ := money.Parse(item.Product.Price)
		order.Items = append(order.Items, models.OrderItem{
			OrderID:      order.ID,
			ProductID:    item.Product.ID,
			ProductTitle: item.Product.Title,
			Category:     item.Product.Category,
			ImageColor:   item.Product.ImageColor,
			Quantity:     item.Quantity,
			PriceAtTime:  price,
		})
	}

	c.Clear()
	return order, nil
}
