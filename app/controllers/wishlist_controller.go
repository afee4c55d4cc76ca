package controllers

import (
	"errors"

	"github.com/shashiranjanraj/electrostore/app/resources"
	"github.com/shashiranjanraj/electrostore/app/services"
	"github.com/shashiranjanraj/electrostore/pkg/ctx"
	"github.com/shashiranjanraj/electrostore/pkg/resource"
	"github.com/shashiranjanraj/electrostore/pkg/session"
)

type WishlistController struct{ base }

func NewWishlistController(svc *services.Services) *WishlistController {
	return &WishlistController{base{svc: svc}}
}

// Index → GET /wishlist/
func (h *WishlistController) Index(c *ctx.Context) {
	items, err := h.svc.Wishlist.List(c.Context(), c.UserID())
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	h.page(c, resource.Map{"wishlist_items": resource.Many(items, resources.Wishlist)})
}

// Add → POST /wishlist/add/{product_id}/
func (h *WishlistController) Add(c *ctx.Context) {
	id, ok := c.ParamUint("product_id")
	if !ok {
		c.NotFound()
		return
	}

	p, created, err := h.svc.Wishlist.Add(c.Context(), c.UserID(), id)
	if err != nil {
		h.fail(c, err, "/wishlist/")
		return
	}

	if created {
		h.reply(c, true, session.LevelSuccess, p.Name+" added to wishlist!", p.URL(), resource.Map{"action": "added"})
		return
	}
	h.reply(c, false, session.LevelInfo, "Product already in wishlist", p.URL(), resource.Map{"action": "exists"})
}

// Remove → POST /wishlist/remove/{product_id}/
func (h *WishlistController) Remove(c *ctx.Context) {
	id, ok := c.ParamUint("product_id")
	if !ok {
		c.NotFound()
		return
	}

	p, err := h.svc.Wishlist.Remove(c.Context(), c.UserID(), id)
	if errors.Is(err, services.ErrNotInWishlist) {
		h.reply(c, false, session.LevelError, userMessage(err), "/wishlist/", resource.Map{"action": "missing"})
		return
	}
	if err != nil {
		h.fail(c, err, "/wishlist/")
		return
	}
	h.reply(c, true, session.LevelSuccess, p.Name+" removed from wishlist!", "/wishlist/", resource.Map{"action": "removed"})
}
