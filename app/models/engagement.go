package models

import "time"

// Wishlist is one saved (user, product) pair.
type Wishlist struct {
	ID        uint      `gorm:"primaryKey"                                           json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlists_user_product"      json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_wishlists_user_product"      json:"product_id"`
	Product   Product   `gorm:"constraint:OnDelete:CASCADE"                          json:"product"`
	AddedAt   time.Time `gorm:"autoCreateTime;index"                                 json:"added_at"`
}

// Review is a customer's single rating of a product.
type Review struct {
	ID        uint      `gorm:"primaryKey"                                               json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_user_product"            json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_reviews_user_product;index"      json:"product_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE"                              json:"user,omitempty"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5"               json:"rating"`
	Comment   string    `gorm:"type:text;not null"                                       json:"comment"`
	CreatedAt time.Time `gorm:"index"                                                    json:"created_at"`
}
