package repositories

import (
	"context"

	"github.com/shashiranjanraj/electrostore/app/models"
	"gorm.io/gorm"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) WithTx(tx *gorm.DB) *CartRepository {
	return &CartRepository{db: tx}
}

// GetOrCreate returns the user's cart, creating it on first use. A racing
// insert that loses on the unique user_id index falls back to the winner's row.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID uint) (models.Cart, bool, error) {
	db := r.db.WithContext(ctx)

	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return cart, false, nil
	}
	if !IsNotFound(err) {
		return cart, false, err
	}

	cart = models.Cart{UserID: userID}
	if err := db.Create(&cart).Error; err != nil {
		var existing models.Cart
		if again := db.Where("user_id = ?", userID).First(&existing).Error; again == nil {
			return existing, false, nil
		}
		return cart, false, err
	}
	return cart, true, nil
}

func (r *CartRepository) withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id ASC") }).
		Preload("Items.Product")
}

// Load returns the user's cart with items (insertion order) and products.
func (r *CartRepository) Load(ctx context.Context, userID uint) (models.Cart, error) {
	var cart models.Cart
	err := r.withItems(r.db.WithContext(ctx)).Where("user_id = ?", userID).First(&cart).Error
	return cart, err
}

// FindItem returns itemID only if it belongs to userID's cart.
func (r *CartRepository) FindItem(ctx context.Context, userID, itemID uint) (models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error
	return item, err
}

func (r *CartRepository) FindItemByProduct(ctx context.Context, cartID, productID uint) (models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	return item, err
}

func (r *CartRepository) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Omit("Product").Create(item).Error
}

// IncrementItem adds one to the line only while quantity < ceiling.
func (r *CartRepository) IncrementItem(ctx context.Context, itemID uint, ceiling int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND quantity < ?", itemID, ceiling).
		UpdateColumn("quantity", gorm.Expr("quantity + 1"))
	return res.RowsAffected == 1, res.Error
}

func (r *CartRepository) SetQuantity(ctx context.Context, itemID uint, qty int) error {
	return r.db.WithContext(ctx).Model(&models.CartItem{}).Where("id = ?", itemID).UpdateColumn("quantity", qty).Error
}

func (r *CartRepository) DeleteItem(ctx context.Context, itemID uint) error {
	return r.db.WithContext(ctx).Delete(&models.CartItem{}, itemID).Error
}

// Clear removes every line of the cart; the cart row stays.
func (r *CartRepository) Clear(ctx context.Context, cartID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// TotalItems is Σ quantity for the user's cart; 0 when no cart exists.
func (r *CartRepository) TotalItems(ctx context.Context, userID uint) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Select("COALESCE(SUM(cart_items.quantity), 0)").
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ?", userID).
		Scan(&total).Error
	return total, err
}
