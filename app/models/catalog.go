package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products; every product belongs to exactly one.
type Category struct {
	ID          uint      `gorm:"primaryKey"                     json:"id"`
	Name        string    `gorm:"size:100;not null"              json:"name"`
	Slug        string    `gorm:"size:100;not null;uniqueIndex"  json:"slug"`
	Description string    `gorm:"type:text"                      json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// URL is the category's filtered product listing.
func (c Category) URL() string { return "/products/?category=" + c.Slug }

// Product is a sellable item. StockQuantity only ever decreases through
// order placement and never drops below zero.
type Product struct {
	ID            uint            `gorm:"primaryKey"                                 json:"id"`
	Name          string          `gorm:"size:200;not null;index"                    json:"name"`
	Slug          string          `gorm:"size:200;not null;uniqueIndex"              json:"slug"`
	Description   string          `gorm:"type:text"                                  json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"                json:"price"`
	StockQuantity int             `gorm:"not null;check:stock_quantity >= 0"         json:"stock_quantity"`
	IsActive      bool            `gorm:"not null;index"                             json:"is_active"`
	CategoryID    uint            `gorm:"not null;index"                             json:"category_id"`
	Category      *Category       `gorm:"constraint:OnDelete:RESTRICT"               json:"category,omitempty"`
	Image         string          `gorm:"size:255"                                   json:"image,omitempty"`
	CreatedAt     time.Time       `gorm:"index"                                      json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (p Product) InStock() bool { return p.StockQuantity > 0 }

// URL is the canonical detail page path.
func (p Product) URL() string { return "/products/" + p.Slug + "/" }
