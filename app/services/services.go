// Package services holds the storefront's business rules. Services take a
// *gorm.DB, compose repositories and return sentinel errors from errors.go
// that controllers translate into responses.
package services

import "gorm.io/gorm"

// Services bundles every service bound to one database handle.
type Services struct {
	Catalog  *CatalogService
	Cart     *CartService
	Checkout *CheckoutService
	Orders   *OrderService
	Wishlist *WishlistService
	Reviews  *ReviewService
	Accounts *AccountService
	Images   *ImageService
}

func New(db *gorm.DB) *Services {
	return &Services{
		Catalog:  NewCatalogService(db),
		Cart:     NewCartService(db),
		Checkout: NewCheckoutService(db),
		Orders:   NewOrderService(db),
		Wishlist: NewWishlistService(db),
		Reviews:  NewReviewService(db),
		Accounts: NewAccountService(db),
		Images:   NewImageService(db),
	}
}
