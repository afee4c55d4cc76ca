// Package controllers adapts HTTP requests to the services. Page endpoints
// return their view model in the JSON envelope; mutations answer script
// callers with {success,message} and browsers with a flash plus redirect.
package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/shashiranjanraj/electrostore/app/services"
	"github.com/shashiranjanraj/electrostore/pkg/ctx"
	"github.com/shashiranjanraj/electrostore/pkg/logger"
	"github.com/shashiranjanraj/electrostore/pkg/resource"
	"github.com/shashiranjanraj/electrostore/pkg/session"
	"github.com/shopspring/decimal"
)

// PageMeta rides along with every page view model.
type PageMeta struct {
	Authenticated bool              `json:"authenticated"`
	CartTotal     int               `json:"cart_total"`
	Messages      []session.Message `json:"messages"`
}

type base struct {
	svc *services.Services
}

// page renders data with the cart badge and pending flash messages.
func (b base) page(c *ctx.Context, data any) {
	meta := PageMeta{Messages: c.Session().Flashes()}
	if meta.Messages == nil {
		meta.Messages = []session.Message{}
	}
	if uid := c.UserID(); uid != 0 {
		meta.Authenticated = true
		n, err := b.svc.Cart.TotalItems(c.Context(), uid)
		if err != nil {
			logger.WithCtx(c.Context()).Warn("cart badge lookup failed", "error", err)
		}
		meta.CartTotal = n
	}
	c.Page(data, meta)
}

// reply finishes a mutation. Script callers get {success,message,...extra};
// browsers get the message flashed and a redirect to next.
func (b base) reply(c *ctx.Context, ok bool, level, message, next string, extra resource.Map) {
	if c.WantsJSON() {
		body := resource.Map{"success": ok, "message": message}
		for k, v := range extra {
			body[k] = v
		}
		c.JSON(http.StatusOK, body)
		return
	}
	c.Flash(level, message)
	c.Redirect(next)
}

// fail maps a service error to a response. Rule violations go through
// reply; anything unexpected is logged and becomes a 500.
func (b base) fail(c *ctx.Context, err error, next string) {
	if ve, ok := services.IsValidation(err); ok {
		c.ValidationError(ve.Fields)
		return
	}
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.NotFound()
	case services.IsBusinessRule(err):
		b.reply(c, false, session.LevelError, userMessage(err), next, nil)
	default:
		logger.WithCtx(c.Context()).Error("request failed", "path", c.Path(), "ip", c.ClientIP(), "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}

var messages = map[error]string{
	services.ErrOutOfStock:         "This product is out of stock.",
	services.ErrStockLimitReached:  "Cannot add more items. Stock limit reached.",
	services.ErrInsufficientStock:  "Not enough stock available",
	services.ErrEmptyCart:          "Your cart is empty!",
	services.ErrDuplicateReview:    "You have already reviewed this product.",
	services.ErrNotInWishlist:      "Product not in wishlist",
	services.ErrInvalidCredentials: "Please enter a correct username and password.",
}

// userMessage is the display text for a rule violation. Wrapped errors
// keep their detail, e.g. the product that ran out of stock.
func userMessage(err error) string {
	if m, ok := messages[err]; ok {
		return m
	}
	s := err.Error()
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// money renders a decimal as a JSON number with two places, which the
// storefront script formats with toFixed.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// safeNext accepts only same-site relative paths as a post-login target.
func safeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}
