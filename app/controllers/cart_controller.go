package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/electrostore/app/resources"
	"github.com/shashiranjanraj/electrostore/app/services"
	"github.com/shashiranjanraj/electrostore/pkg/bind"
	"github.com/shashiranjanraj/electrostore/pkg/ctx"
	"github.com/shashiranjanraj/electrostore/pkg/resource"
	"github.com/shashiranjanraj/electrostore/pkg/session"
)

type CartController struct{ base }

func NewCartController(svc *services.Services) *CartController {
	return &CartController{base{svc: svc}}
}

// Show → GET /cart/
func (h *CartController) Show(c *ctx.Context) {
	cart, err := h.svc.Cart.Cart(c.Context(), c.UserID())
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	h.page(c, resource.Map{"cart": resources.Cart(cart)})
}

// Add → POST /cart/add/{product_id}/
func (h *CartController) Add(c *ctx.Context) {
	id, ok := c.ParamUint("product_id")
	if !ok {
		c.NotFound()
		return
	}

	res, err := h.svc.Cart.AddItem(c.Context(), c.UserID(), id)
	if err != nil {
		next := "/products/"
		if res.Product.ID != 0 {
			next = res.Product.URL()
		}
		h.fail(c, err, next)
		return
	}

	h.reply(c, true, session.LevelSuccess, res.Product.Name+" added to cart!", res.Product.URL(), resource.Map{
		"cart_total": res.CartTotalItems,
	})
}

// Update → POST /cart/update/{item_id}/ with {"quantity": n}. Always JSON.
func (h *CartController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("item_id")
	if !ok {
		c.NotFound()
		return
	}

	qty, err := quantityFrom(c.R)
	if err != nil {
		c.JSON(http.StatusOK, resource.Map{"success": false, "message": "Invalid data"})
		return
	}

	res, err := h.svc.Cart.SetItemQuantity(c.Context(), c.UserID(), id, qty)
	switch {
	case err == nil:
	case services.IsBusinessRule(err):
		c.JSON(http.StatusOK, resource.Map{"success": false, "message": userMessage(err)})
		return
	default:
		h.fail(c, err, "/cart/")
		return
	}

	if res.Removed {
		c.JSON(http.StatusOK, resource.Map{"success": true, "message": "Item removed from cart"})
		return
	}
	c.JSON(http.StatusOK, resource.Map{
		"success":    true,
		"message":    "Cart updated",
		"item_total": money(res.ItemTotal),
		"cart_total": money(res.CartTotal),
	})
}

// Remove → POST /cart/remove/{item_id}/
func (h *CartController) Remove(c *ctx.Context) {
	id, ok := c.ParamUint("item_id")
	if !ok {
		c.NotFound()
		return
	}

	name, err := h.svc.Cart.RemoveItem(c.Context(), c.UserID(), id)
	if err != nil {
		h.fail(c, err, "/cart/")
		return
	}
	h.reply(c, true, session.LevelSuccess, name+" removed from cart", "/cart/", nil)
}

// quantityFrom reads "quantity" from a JSON body or a form. A missing value
// means 1; numbers may arrive as JSON numbers or numeric strings.
func quantityFrom(r *http.Request) (int, error) {
	if !bind.IsJSON(r) {
		if err := r.ParseForm(); err != nil {
			return 0, err
		}
		raw := strings.TrimSpace(r.PostFormValue("quantity"))
		if raw == "" {
			return 1, nil
		}
		return strconv.Atoi(raw)
	}

	var body map[string]interface{}
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<16))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return 0, err
	}

	switch v := body["quantity"].(type) {
	case nil:
		return 1, nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return clampInt(n), nil
		}
		f, err := v.Float64()
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, fmt.Errorf("quantity %q is not a number", v)
		}
		return clampInt(int64(f)), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	}
	return 0, fmt.Errorf("quantity has unsupported type %T", body["quantity"])
}

func clampInt(n int64) int {
	switch {
	case n > math.MaxInt32:
		return math.MaxInt32
	case n < math.MinInt32:
		return math.MinInt32
	}
	return int(n)
}
