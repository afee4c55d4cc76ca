package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. The storefront only ever writes OrderPending; the rest
// are set by fulfillment tooling.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Order is the immutable record of a completed checkout.
type Order struct {
	ID              uint            `gorm:"primaryKey"                      json:"id"`
	UserID          uint            `gorm:"not null;index"                  json:"user_id"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null"     json:"total_amount"`
	FirstName       string          `gorm:"size:50;not null"                json:"first_name"`
	LastName        string          `gorm:"size:50;not null"                json:"last_name"`
	Email           string          `gorm:"size:254;not null"               json:"email"`
	Phone           string          `gorm:"size:15;not null"                json:"phone"`
	ShippingAddress string          `gorm:"type:text;not null"              json:"shipping_address"`
	Status          string          `gorm:"size:20;not null;default:pending" json:"status"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt       time.Time       `gorm:"index"                           json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem copies product id, name, quantity and the unit price at the
// moment of purchase. It does not reference the live product row.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey"                  json:"id"`
	OrderID     uint            `gorm:"not null;index"              json:"order_id"`
	ProductID   uint            `gorm:"not null;index"              json:"product_id"`
	ProductName string          `gorm:"size:200;not null"           json:"product_name"`
	Quantity    int             `gorm:"not null"                    json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

func (i OrderItem) TotalPrice() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
