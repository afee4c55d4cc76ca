package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the single per-user basket. Checkout empties it; it is never deleted.
type Cart struct {
	ID        uint       `gorm:"primaryKey"                                    json:"id"`
	UserID    uint       `gorm:"not null;uniqueIndex"                          json:"user_id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TotalItems is the sum of quantities across the cart's lines.
func (c Cart) TotalItems() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// TotalPrice is Σ quantity × current product price. Items must be loaded
// with their Product.
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.TotalPrice())
	}
	return total
}

// CartItem is one (cart, product) line; quantity is always at least 1.
type CartItem struct {
	ID        uint      `gorm:"primaryKey"                                       json:"id"`
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_product" json:"cart_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_product" json:"product_id"`
	Product   Product   `gorm:"constraint:OnDelete:CASCADE"                      json:"product"`
	Quantity  int       `gorm:"not null;check:quantity >= 1"                     json:"quantity"`
	AddedAt   time.Time `gorm:"autoCreateTime"                                   json:"added_at"`
}

func (i CartItem) TotalPrice() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
