package services

import (
	"context"

	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/app/repositories"
	"gorm.io/gorm"
)

// WishlistService keeps the set of products a user has saved.
type WishlistService struct {
	wishlists *repositories.WishlistRepository
	products  *repositories.ProductRepository
}

func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{
		wishlists: repositories.NewWishlistRepository(db),
		products:  repositories.NewProductRepository(db),
	}
}

// Add saves productID for the user. Saving it twice is not an error;
// created reports whether a row was inserted.
func (s *WishlistService) Add(ctx context.Context, userID, productID uint) (models.Product, bool, error) {
	p, err := s.products.FindActiveByID(ctx, productID)
	if err != nil {
		return p, false, notFound(err)
	}
	_, created, err := s.wishlists.FirstOrCreate(ctx, userID, p.ID)
	return p, created, err
}

// Remove drops productID from the user's wishlist, ErrNotInWishlist when
// it was never there.
func (s *WishlistService) Remove(ctx context.Context, userID, productID uint) (models.Product, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return p, notFound(err)
	}
	n, err := s.wishlists.Delete(ctx, userID, p.ID)
	if err != nil {
		return p, err
	}
	if n == 0 {
		return p, ErrNotInWishlist
	}
	return p, nil
}

// List returns the user's wishlist, newest first.
func (s *WishlistService) List(ctx context.Context, userID uint) ([]models.Wishlist, error) {
	return s.wishlists.List(ctx, userID)
}
