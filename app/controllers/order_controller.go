package controllers

import (
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/electrostore/app/resources"
	"github.com/shashiranjanraj/electrostore/app/services"
	"github.com/shashiranjanraj/electrostore/pkg/ctx"
	"github.com/shashiranjanraj/electrostore/pkg/orm"
	"github.com/shashiranjanraj/electrostore/pkg/resource"
	"github.com/shashiranjanraj/electrostore/pkg/session"
)

type OrderController struct{ base }

func NewOrderController(svc *services.Services) *OrderController {
	return &OrderController{base{svc: svc}}
}

// Checkout → GET /checkout/
func (h *OrderController) Checkout(c *ctx.Context) {
	cart, err := h.svc.Cart.Cart(c.Context(), c.UserID())
	if err != nil {
		h.fail(c, err, "/cart/")
		return
	}
	if len(cart.Items) == 0 {
		h.fail(c, services.ErrEmptyCart, "/cart/")
		return
	}

	form, err := h.svc.Checkout.Defaults(c.Context(), c.UserID())
	if err != nil {
		h.fail(c, err, "/cart/")
		return
	}
	h.page(c, resource.Map{"cart": resources.Cart(cart), "form": form})
}

// PlaceOrder → POST /checkout/
func (h *OrderController) PlaceOrder(c *ctx.Context) {
	var in services.CheckoutInput
	if _, err := c.ShouldBind(&in); err != nil {
		c.Error(http.StatusBadRequest, "Invalid data")
		return
	}

	order, err := h.svc.Checkout.PlaceOrder(c.Context(), c.UserID(), in)
	if err != nil {
		h.fail(c, err, "/cart/")
		return
	}

	next := fmt.Sprintf("/orders/%d/", order.ID)
	msg := fmt.Sprintf("Order #%d placed successfully!", order.ID)
	if c.WantsJSON() {
		c.Created(resource.Map{
			"success":  true,
			"message":  msg,
			"order":    resources.Order(*order),
			"redirect": next,
		})
		return
	}
	c.Flash(session.LevelSuccess, msg)
	c.Redirect(next)
}

// History → GET /orders/?page=
func (h *OrderController) History(c *ctx.Context) {
	page, err := h.svc.Orders.History(c.Context(), c.UserID(), orm.ParsePage(c.Query("page")))
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	h.page(c, resource.Map{"orders": resource.Paged(page, resources.Order)})
}

// Show → GET /orders/{order_id}/
func (h *OrderController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("order_id")
	if !ok {
		c.NotFound()
		return
	}
	order, err := h.svc.Orders.Detail(c.Context(), c.UserID(), id)
	if err != nil {
		h.fail(c, err, "/orders/")
		return
	}
	h.page(c, resource.Map{"order": resources.Order(order)})
}
