package repositories

import (
	"context"

	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/pkg/orm"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sort keys accepted by the product listing.
const (
	SortName      = "name"
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortNewest    = "newest"
)

var sortOrders = map[string]string{
	SortName:      "products.name ASC, products.id ASC",
	SortPriceLow:  "products.price ASC, products.id ASC",
	SortPriceHigh: "products.price DESC, products.id ASC",
	SortNewest:    "products.created_at DESC, products.id DESC",
}

// NormalizeSort maps unknown sort keys to SortName.
func NormalizeSort(s string) string {
	if _, ok := sortOrders[s]; ok {
		return s
	}
	return SortName
}

// ProductQuery is a resolved listing filter. Zero values mean "no filter".
type ProductQuery struct {
	CategoryID uint
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       string
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

func (r *ProductRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Product{}).Where("products.is_active = ?", true)
}

func (r *ProductRepository) withCategory(db *gorm.DB) *gorm.DB {
	return db.Preload("Category")
}

// FindByID returns any product, active or not.
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return p, err
}

// FindActiveByID returns an active product.
func (r *ProductRepository) FindActiveByID(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := r.active(ctx).Where("products.id = ?", id).First(&p).Error
	return p, err
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error
	return p, err
}

func (r *ProductRepository) FindActiveBySlug(ctx context.Context, slug string) (models.Product, error) {
	var p models.Product
	err := r.withCategory(r.active(ctx)).Where("products.slug = ?", slug).First(&p).Error
	return p, err
}

// Paginate runs a listing query over active products.
func (r *ProductRepository) Paginate(ctx context.Context, q ProductQuery, page, perPage int) (orm.Page[models.Product], error) {
	db := r.active(ctx)

	if q.CategoryID != 0 {
		db = db.Where("products.category_id = ?", q.CategoryID)
	}
	if q.Search != "" {
		pattern := containsPattern(q.Search)
		db = db.Where("(LOWER(products.name) LIKE ? ESCAPE '!' OR LOWER(products.description) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	if q.MinPrice != nil {
		db = db.Where("products.price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		db = db.Where("products.price <= ?", *q.MaxPrice)
	}

	return orm.Paginate[models.Product](ctx, db, sortOrders[NormalizeSort(q.Sort)], page, perPage, r.withCategory)
}

// Search is the typeahead query: name or description contains term.
func (r *ProductRepository) Search(ctx context.Context, term string, limit int) ([]models.Product, error) {
	pattern := containsPattern(term)
	var out []models.Product
	err := r.active(ctx).
		Where("(LOWER(products.name) LIKE ? ESCAPE '!' OR LOWER(products.description) LIKE ? ESCAPE '!')", pattern, pattern).
		Order("products.name ASC, products.id ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// Featured returns the first n active products in catalogue order.
func (r *ProductRepository) Featured(ctx context.Context, n int) ([]models.Product, error) {
	var out []models.Product
	err := r.withCategory(r.active(ctx)).Order("products.id ASC").Limit(n).Find(&out).Error
	return out, err
}

// Latest returns the n most recently added active products.
func (r *ProductRepository) Latest(ctx context.Context, n int) ([]models.Product, error) {
	var out []models.Product
	err := r.withCategory(r.active(ctx)).Order("products.created_at DESC, products.id DESC").Limit(n).Find(&out).Error
	return out, err
}

// Related returns up to n other active products from p's category.
func (r *ProductRepository) Related(ctx context.Context, p models.Product, n int) ([]models.Product, error) {
	var out []models.Product
	err := r.active(ctx).
		Where("products.category_id = ? AND products.id <> ?", p.CategoryID, p.ID).
		Order("products.id ASC").
		Limit(n).
		Find(&out).Error
	return out, err
}

// DecrementStock subtracts qty only if that much stock remains. ok is false
// when the row did not qualify, leaving stock untouched.
func (r *ProductRepository) DecrementStock(ctx context.Context, id uint, qty int) (ok bool, err error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// LowStock lists active products with at most threshold units left, lowest
// stock first.
func (r *ProductRepository) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	var out []models.Product
	err := r.active(ctx).
		Where("products.stock_quantity <= ?", threshold).
		Order("products.stock_quantity ASC, products.id ASC").
		Find(&out).Error
	return out, err
}

func (r *ProductRepository) SetImage(ctx context.Context, id uint, path string) error {
	return r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("image", path).Error
}

// ─── Categories ───────────────────────────────────────────────────────────────

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (models.Category, error) {
	var c models.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error
	return c, err
}

// All returns categories by name; limit <= 0 means no limit.
func (r *CategoryRepository) All(ctx context.Context, limit int) ([]models.Category, error) {
	var out []models.Category
	q := r.db.WithContext(ctx).Order("name ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}
