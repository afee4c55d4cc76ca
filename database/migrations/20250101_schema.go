package migrations

import (
	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20250101000000_create_users_tables", &CreateUsersTables{})
	migration.Register("20250101000001_create_catalog_tables", &CreateCatalogTables{})
	migration.Register("20250101000002_create_cart_tables", &CreateCartTables{})
	migration.Register("20250101000003_create_order_tables", &CreateOrderTables{})
	migration.Register("20250101000004_create_wishlists_and_reviews", &CreateEngagementTables{})
}

// -------- users, user_profiles --------

type CreateUsersTables struct{}

func (m *CreateUsersTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.UserProfile{})
}

func (m *CreateUsersTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.UserProfile{}, &models.User{})
}

// -------- categories, products --------

type CreateCatalogTables struct{}

func (m *CreateCatalogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Product{})
}

func (m *CreateCatalogTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Product{}, &models.Category{})
}

// -------- carts, cart_items --------

type CreateCartTables struct{}

func (m *CreateCartTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Cart{}, &models.CartItem{})
}

func (m *CreateCartTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.CartItem{}, &models.Cart{})
}

// -------- orders, order_items --------

type CreateOrderTables struct{}

func (m *CreateOrderTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrderTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.OrderItem{}, &models.Order{})
}

// -------- wishlists, reviews --------

type CreateEngagementTables struct{}

func (m *CreateEngagementTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Wishlist{}, &models.Review{})
}

func (m *CreateEngagementTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Review{}, &models.Wishlist{})
}
