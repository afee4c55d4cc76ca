package repositories

import (
	"context"
	"database/sql"

	"github.com/shashiranjanraj/electrostore/app/models"
	"gorm.io/gorm"
)

// ─── Wishlist ─────────────────────────────────────────────────────────────────

type WishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// FirstOrCreate returns the (user, product) row and whether it was inserted.
func (r *WishlistRepository) FirstOrCreate(ctx context.Context, userID, productID uint) (models.Wishlist, bool, error) {
	db := r.db.WithContext(ctx)

	var w models.Wishlist
	err := db.Where("user_id = ? AND product_id = ?", userID, productID).First(&w).Error
	if err == nil {
		return w, false, nil
	}
	if !IsNotFound(err) {
		return w, false, err
	}

	w = models.Wishlist{UserID: userID, ProductID: productID}
	if err := db.Omit("Product").Create(&w).Error; err != nil {
		var existing models.Wishlist
		if again := db.Where("user_id = ? AND product_id = ?", userID, productID).First(&existing).Error; again == nil {
			return existing, false, nil
		}
		return w, false, err
	}
	return w, true, nil
}

// Delete removes the pair and returns how many rows went away (0 or 1).
func (r *WishlistRepository) Delete(ctx context.Context, userID, productID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.Wishlist{})
	return res.RowsAffected, res.Error
}

func (r *WishlistRepository) Exists(ctx context.Context, userID, productID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Wishlist{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&n).Error
	return n > 0, err
}

// List returns the user's saved products, newest first.
func (r *WishlistRepository) List(ctx context.Context, userID uint) ([]models.Wishlist, error) {
	var out []models.Wishlist
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("added_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// ─── Reviews ──────────────────────────────────────────────────────────────────

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Exists(ctx context.Context, userID, productID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&n).Error
	return n > 0, err
}

func (r *ReviewRepository) Create(ctx context.Context, rev *models.Review) error {
	return r.db.WithContext(ctx).Omit("User").Create(rev).Error
}

// ForProduct lists a product's reviews newest first, with author.
func (r *ReviewRepository) ForProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	var out []models.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

// Average is the mean rating, nil when the product has no reviews.
func (r *ReviewRepository) Average(ctx context.Context, productID uint) (*float64, error) {
	var avg sql.NullFloat64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("AVG(rating * 1.0)").
		Where("product_id = ?", productID).
		Scan(&avg).Error
	if err != nil || !avg.Valid {
		return nil, err
	}
	v := avg.Float64
	return &v, nil
}
