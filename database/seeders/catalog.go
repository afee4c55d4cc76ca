package seeders

import (
	"context"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/electrostore/app/models"
)

func init() {
	Register("catalog", SeedCatalog)
}

type seedProduct struct {
	name, description, price string
	stock                    int
}

var catalog = []struct {
	name, description string
	products          []seedProduct
}{
	{"Smartphones", "Unlocked phones from every major brand.", []seedProduct{
		{"Pixel 9 Pro", "6.3\" OLED, Tensor G4, 128 GB.", "999.00", 25},
		{"Galaxy S24", "6.2\" AMOLED, Snapdragon 8 Gen 3, 256 GB.", "859.99", 40},
		{"iPhone 15", "6.1\" Super Retina XDR, A16 Bionic, 128 GB.", "799.00", 30},
		{"Nothing Phone (2a)", "6.7\" AMOLED, Glyph interface.", "349.00", 3},
	}},
	{"Laptops", "Ultrabooks, workstations and gaming laptops.", []seedProduct{
		{"MacBook Air 13 M3", "8-core CPU, 16 GB RAM, 512 GB SSD.", "1299.00", 12},
		{"ThinkPad X1 Carbon Gen 12", "14\" 2.8K OLED, Core Ultra 7.", "1849.50", 6},
		{"ROG Zephyrus G14", "Ryzen 9, RTX 4070, 14\" 120 Hz.", "1599.99", 4},
	}},
	{"Audio", "Headphones, earbuds and speakers.", []seedProduct{
		{"Sony WH-1000XM5", "Noise-cancelling over-ear headphones.", "399.99", 50},
		{"AirPods Pro (2nd gen)", "Active noise cancellation, USB-C case.", "249.00", 60},
		{"JBL Flip 6", "Portable waterproof speaker.", "129.95", 0},
	}},
	{"Accessories", "Chargers, cables and cases.", []seedProduct{
		{"USB-C 65W GaN Charger", "Two USB-C ports, foldable plug.", "45.00", 120},
		{"Braided USB-C Cable 2m", "100W, USB 3.2 Gen 2.", "19.99", 300},
		{"MagSafe Leather Case", "For iPhone 15.", "59.00", 35},
	}},
	{"Wearables", "Smartwatches and fitness trackers.", []seedProduct{
		{"Apple Watch Series 9", "45 mm aluminium, GPS.", "429.00", 18},
		{"Garmin Forerunner 265", "AMOLED running watch.", "449.99", 9},
	}},
	{"Cameras", "Mirrorless bodies, lenses and action cameras.", []seedProduct{
		{"Sony a7 IV", "33 MP full-frame mirrorless body.", "2498.00", 5},
		{"GoPro HERO12 Black", "5.3K60 action camera.", "399.00", 22},
	}},
}

// SeedCatalog inserts the demo categories and products, keyed by slug.
func SeedCatalog(ctx context.Context, db *gorm.DB) error {
	for _, c := range catalog {
		cat := models.Category{Slug: slug.Make(c.name)}
		if err := db.WithContext(ctx).
			Where(models.Category{Slug: cat.Slug}).
			Attrs(models.Category{Name: c.name, Description: c.description}).
			FirstOrCreate(&cat).Error; err != nil {
			return err
		}

		for _, p := range c.products {
			row := models.Product{Slug: slug.Make(p.name)}
			if err := db.WithContext(ctx).
				Where(models.Product{Slug: row.Slug}).
				Attrs(models.Product{
					Name:          p.name,
					Description:   p.description,
					Price:         decimal.RequireFromString(p.price),
					StockQuantity: p.stock,
					IsActive:      true,
					CategoryID:    cat.ID,
				}).
				FirstOrCreate(&row).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
