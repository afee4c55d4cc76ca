package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/app/repositories"
	"github.com/shashiranjanraj/electrostore/pkg/orm"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ProductsPerPage = 12
	SearchLimit     = 10
	SearchMinLength = 2

	featuredCount     = 8
	homeCategoryCount = 6
	latestCount       = 4
	relatedCount      = 4

	// CatalogCachePrefix namespaces every cached catalog read. Stock changes
	// flush the whole prefix.
	CatalogCachePrefix = "catalog:"
	catalogCacheTTL    = 5 * time.Minute
)

// ProductFilter is the raw listing query as received from the client.
type ProductFilter struct {
	Category string `form:"category" json:"category"`
	Search   string `form:"search"   json:"search"`
	MinPrice string `form:"min_price" json:"min_price"`
	MaxPrice string `form:"max_price" json:"max_price"`
	Sort     string `form:"sort"     json:"sort"`
	Page     int    `form:"page"     json:"page"`
}

// Listing is a resolved product listing page.
type Listing struct {
	Products orm.Page[models.Product] `json:"products"`
	Category *models.Category         `json:"category,omitempty"`
	Filter   ProductFilter            `json:"filter"`
}

// Home is the landing page content.
type Home struct {
	Featured   []models.Product  `json:"featured_products"`
	Categories []models.Category `json:"categories"`
	Latest     []models.Product  `json:"latest_products"`
}

// Detail is everything shown on a product page.
type Detail struct {
	Product         models.Product   `json:"product"`
	Reviews         []models.Review  `json:"reviews"`
	AvgRating       *float64         `json:"avg_rating"`
	InWishlist      bool             `json:"in_wishlist"`
	UserHasReviewed bool             `json:"user_has_reviewed"`
	Related         []models.Product `json:"related_products"`
}

// CatalogService answers read-only catalog queries over active products.
type CatalogService struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
	reviews    *repositories.ReviewRepository
	wishlists  *repositories.WishlistRepository
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{
		products:   repositories.NewProductRepository(db),
		categories: repositories.NewCategoryRepository(db),
		reviews:    repositories.NewReviewRepository(db),
		wishlists:  repositories.NewWishlistRepository(db),
	}
}

// List filters, sorts and paginates active products. An unknown category
// slug is ErrNotFound; unparseable price bounds are ignored.
func (s *CatalogService) List(ctx context.Context, f ProductFilter) (Listing, error) {
	f.Sort = repositories.NormalizeSort(f.Sort)
	f.Search = strings.TrimSpace(f.Search)

	q := repositories.ProductQuery{Search: f.Search, Sort: f.Sort}
	out := Listing{Filter: f}

	if f.Category != "" {
		cat, err := s.categories.FindBySlug(ctx, f.Category)
		if err != nil {
			return out, notFound(err)
		}
		q.CategoryID = cat.ID
		out.Category = &cat
	}
	q.MinPrice = parsePrice(f.MinPrice)
	q.MaxPrice = parsePrice(f.MaxPrice)

	page, err := s.products.Paginate(ctx, q, f.Page, ProductsPerPage)
	if err != nil {
		return out, err
	}
	out.Products = page
	out.Filter.Page = page.Page
	return out, nil
}

func parsePrice(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

// Search is the typeahead lookup. Queries shorter than two characters
// return no results without touching the database.
func (s *CatalogService) Search(ctx context.Context, q string) ([]models.Product, error) {
	if utf8.RuneCountInString(q) < SearchMinLength {
		return []models.Product{}, nil
	}
	return s.products.Search(ctx, q, SearchLimit)
}

// Home returns featured and latest products plus a slice of categories.
func (s *CatalogService) Home(ctx context.Context) (Home, error) {
	return orm.Cached(ctx, CatalogCachePrefix+"home", catalogCacheTTL, func() (Home, error) {
		var h Home
		var err error
		if h.Featured, err = s.products.Featured(ctx, featuredCount); err != nil {
			return h, err
		}
		if h.Categories, err = s.categories.All(ctx, homeCategoryCount); err != nil {
			return h, err
		}
		if h.Latest, err = s.products.Latest(ctx, latestCount); err != nil {
			return h, err
		}
		return h, nil
	})
}

// Categories lists every category by name.
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return orm.Cached(ctx, CatalogCachePrefix+"categories", catalogCacheTTL, func() ([]models.Category, error) {
		return s.categories.All(ctx, 0)
	})
}

// Detail loads an active product by slug. userID 0 is an anonymous viewer.
func (s *CatalogService) Detail(ctx context.Context, slug string, userID uint) (Detail, error) {
	var d Detail

	p, err := s.products.FindActiveBySlug(ctx, slug)
	if err != nil {
		return d, notFound(err)
	}
	d.Product = p

	if d.Reviews, err = s.reviews.ForProduct(ctx, p.ID); err != nil {
		return d, err
	}
	if d.AvgRating, err = s.reviews.Average(ctx, p.ID); err != nil {
		return d, err
	}
	if d.Related, err = s.products.Related(ctx, p, relatedCount); err != nil {
		return d, err
	}

	if userID != 0 {
		if d.InWishlist, err = s.wishlists.Exists(ctx, userID, p.ID); err != nil {
			return d, err
		}
		for _, r := range d.Reviews {
			if r.UserID == userID {
				d.UserHasReviewed = true
				break
			}
		}
	}
	return d, nil
}

// ActiveBySlug resolves a product for pages that only need its id.
func (s *CatalogService) ActiveBySlug(ctx context.Context, slug string) (models.Product, error) {
	p, err := s.products.FindActiveBySlug(ctx, slug)
	return p, notFound(err)
}
