package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/electrostore/app/resources"
	"github.com/shashiranjanraj/electrostore/app/services"
	"github.com/shashiranjanraj/electrostore/pkg/bind"
	"github.com/shashiranjanraj/electrostore/pkg/ctx"
	"github.com/shashiranjanraj/electrostore/pkg/resource"
	"github.com/shashiranjanraj/electrostore/pkg/session"
)

type CatalogController struct{ base }

func NewCatalogController(svc *services.Services) *CatalogController {
	return &CatalogController{base{svc: svc}}
}

// Home → GET /
func (h *CatalogController) Home(c *ctx.Context) {
	home, err := h.svc.Catalog.Home(c.Context())
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	h.page(c, resource.Map{
		"featured_products": resource.Many(home.Featured, resources.ProductSummary),
		"categories":        resource.Many(home.Categories, resources.Category),
		"latest_products":   resource.Many(home.Latest, resources.ProductSummary),
	})
}

// Index → GET /products/?category=&search=&min_price=&max_price=&sort=&page=
func (h *CatalogController) Index(c *ctx.Context) {
	var f services.ProductFilter
	bind.Query(c.R, &f)

	listing, err := h.svc.Catalog.List(c.Context(), f)
	if err != nil {
		h.fail(c, err, "/products/")
		return
	}
	categories, err := h.svc.Catalog.Categories(c.Context())
	if err != nil {
		h.fail(c, err, "/products/")
		return
	}

	h.page(c, resource.Map{
		"products":         resource.Paged(listing.Products, resources.ProductSummary),
		"categories":       resource.Many(categories, resources.Category),
		"current_category": resource.Optional(listing.Category, resources.Category),
		"search_query":     listing.Filter.Search,
		"min_price":        listing.Filter.MinPrice,
		"max_price":        listing.Filter.MaxPrice,
		"sort_by":          listing.Filter.Sort,
	})
}

// Show → GET /products/{slug}/
func (h *CatalogController) Show(c *ctx.Context) {
	d, err := h.svc.Catalog.Detail(c.Context(), c.Param("slug"), c.UserID())
	if err != nil {
		h.fail(c, err, "/products/")
		return
	}
	h.page(c, resource.Map{
		"product":           resources.Product(d.Product),
		"reviews":           resource.Many(d.Reviews, resources.Review),
		"avg_rating":        d.AvgRating,
		"in_wishlist":       d.InWishlist,
		"user_has_reviewed": d.UserHasReviewed,
		"related_products":  resource.Many(d.Related, resources.ProductSummary),
	})
}

// Review → POST /products/{slug}/
func (h *CatalogController) Review(c *ctx.Context) {
	p, err := h.svc.Catalog.ActiveBySlug(c.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err, "/products/")
		return
	}

	var in services.ReviewInput
	if _, err := c.ShouldBind(&in); err != nil {
		c.Error(http.StatusBadRequest, "Invalid data")
		return
	}

	rev, err := h.svc.Reviews.Submit(c.Context(), c.UserID(), p.ID, in)
	if err != nil {
		h.fail(c, err, p.URL())
		return
	}
	h.reply(c, true, session.LevelSuccess, "Your review has been added!", p.URL(), resource.Map{
		"review": resources.Review(rev),
	})
}

// Search → GET /search/?q=
func (h *CatalogController) Search(c *ctx.Context) {
	products, err := h.svc.Catalog.Search(c.Context(), c.Query("q"))
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	c.JSON(http.StatusOK, resource.Map{"results": resource.Many(products, resources.SearchResult)})
}
