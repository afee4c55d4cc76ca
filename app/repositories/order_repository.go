package repositories

import (
	"context"

	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/pkg/orm"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

// Create inserts the order header only; items are added with AddItem.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Create(o).Error
}

func (r *OrderRepository) AddItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// History pages the user's orders, newest first.
func (r *OrderRepository) History(ctx context.Context, userID uint, page, perPage int) (orm.Page[models.Order], error) {
	q := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)
	return orm.Paginate[models.Order](ctx, q, "created_at DESC, id DESC", page, perPage, withOrderItems)
}

// FindForUser loads an order with its items only if userID owns it.
func (r *OrderRepository) FindForUser(ctx context.Context, userID, orderID uint) (models.Order, error) {
	var o models.Order
	err := withOrderItems(r.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&o).Error
	return o, err
}

// FindByID loads an order with its items regardless of owner. Background
// jobs use it; request handlers must use FindForUser.
func (r *OrderRepository) FindByID(ctx context.Context, orderID uint) (models.Order, error) {
	var o models.Order
	err := withOrderItems(r.db.WithContext(ctx)).First(&o, orderID).Error
	return o, err
}

func (r *OrderRepository) Count(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func withOrderItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") })
}
