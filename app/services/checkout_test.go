package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/app/services"
	"github.com/shashiranjanraj/electrostore/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestCheckout_PlacesOrder(t *testing.T) {
	f := newFixture(t)
	u := f.user("alice")
	a := f.product("Phone", "10.00", 5)
	b := f.product("Cable", "5.00", 3)
	f.fill(u.ID, a.ID, 2)
	f.fill(u.ID, b.ID, 1)

	var fired *models.Order
	event.Listen(services.EventOrderPlaced, func(_ context.Context, payload interface{}) {
		fired = payload.(*models.Order)
	})

	order, err := f.svc.Checkout.PlaceOrder(f.ctx, u.ID, validCheckout())
	require.NoError(t, err)
	assert.Equal(t, "25.00", order.TotalAmount.StringFixed(2))
	assert.Equal(t, models.OrderPending, order.Status)
	require.NotNil(t, fired)
	assert.Equal(t, order.ID, fired.ID)

	assert.Equal(t, 3, f.stock(a.ID))
	assert.Equal(t, 2, f.stock(b.ID))

	n, err := f.svc.Cart.TotalItems(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	saved, err := f.svc.Orders.Detail(f.ctx, u.ID, order.ID)
	require.NoError(t, err)
	require.Len(t, saved.Items, 2)
	assert.Equal(t, "Phone", saved.Items[0].ProductName)
	assert.Equal(t, 2, saved.Items[0].Quantity)
	assert.Equal(t, "10.00", saved.Items[0].Price.StringFixed(2))
	assert.Equal(t, "25.00", saved.TotalAmount.StringFixed(2))
}

func TestCheckout_SnapshotSurvivesPriceChange(t *testing.T) {
	f := newFixture(t)
	u := f.user("alice")
	p := f.product("Phone", "10.00", 5)
	f.fill(u.ID, p.ID, 1)

	order, err := f.svc.Checkout.PlaceOrder(f.ctx, u.ID, validCheckout())
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&models.Product{}).Where("id = ?", p.ID).
		Updates(map[string]interface{}{"price": "99.00", "name": "Renamed"}).Error)

	saved, err := f.svc.Orders.Detail(f.ctx, u.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Phone", saved.Items[0].ProductName)
	assert.Equal(t, "10.00", saved.Items[0].Price.StringFixed(2))
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture(t)
	u := f.user("alice")

	_, err := f.svc.Checkout.PlaceOrder(f.ctx, u.ID, validCheckout())
	assert.ErrorIs(t, err, services.ErrEmptyCart)

	_, _, err = f.svc.Cart.GetOrCreate(f.ctx, u.ID)
	require.NoError(t, err)
	_, err = f.svc.Checkout.PlaceOrder(f.ctx, u.ID, validCheckout())
	assert.ErrorIs(t, err, services.ErrEmptyCart)

	var orders int64
	f.db.Model(&models.Order{}).Count(&orders)
	assert.Zero(t, orders)
}

func TestCheckout_InvalidInput(t *testing.T) {
	f := newFixture(t)
	u := f.user("alice")
	p := f.product("Phone", "10.00", 5)
	f.fill(u.ID, p.ID, 1)

	in := validCheckout()
	in.Email = "not-an-email"
	in.Phone = ""

	_, err := f.svc.Checkout.PlaceOrder(f.ctx, u.ID, in)
	ve, ok := services.IsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "phone")
	assert.Equal(t, 5, f.stock(p.ID))
}

func TestCheckout_PhoneIsFreeFormUpTo15(t *testing.T) {
	f := newFixture(t)
	u := f.user("alice")
	p := f.product("Phone", "10.00", 5)
	f.fill(u.ID, p.ID, 1)

	in := validCheckout()
	in.Phone = "0161 555-12 x34"
	require.Len(t, in.Phone, 15)

	in.Phone += "5"
	_, err := f.svc.Checkout.PlaceOrder(f.ctx, u.ID, in)
	ve, ok := services.IsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Contains(t, ve.Fields, "phone")
	assert.Equal(t, 5, f.stock(p.ID))

	in.Phone = "0161 555-12 x34"
	order, err := f.svc.Checkout.PlaceOrder(f.ctx, u.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "0161 555-12 x34", order.Phone)
	assert.Equal(t, 4, f.stock(p.ID))
}

func TestCheckout_StaleStockRollsBack(t *testing.T) {
	f := newFixture(t)
	u := f.user("alice")
	a := f.product("Phone", "10.00", 5)
	b := f.product("Cable", "5.00", 3)
	f.fill(u.ID, a.ID, 1)
	f.fill(u.ID, b.ID, 3)

	// someone else bought the cables after they were added
	require.NoError(t, f.db.Model(&models.Product{}).Where("id = ?", b.ID).Update("stock_quantity", 1).Error)

	_, err := f.svc.Checkout.PlaceOrder(f.ctx, u.ID, validCheckout())
	require.ErrorIs(t, err, services.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Cable")

	assert.Equal(t, 5, f.stock(a.ID))
	assert.Equal(t, 1, f.stock(b.ID))

	var orders, items int64
	f.db.Model(&models.Order{}).Count(&orders)
	f.db.Model(&models.OrderItem{}).Count(&items)
	assert.Zero(t, orders)
	assert.Zero(t, items)

	n, err := f.svc.Cart.TotalItems(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestCheckout_ConcurrentNeverOversells(t *testing.T) {
	f := newFixture(t)
	p := f.product("Limited", "100.00", 5)

	const buyers = 4
	users := make([]models.User, buyers)
	for i := range users {
		users[i] = f.user(fmt.Sprintf("buyer%d", i))
		f.fill(users[i].ID, p.ID, 2)
	}

	var placed, rejected atomic.Int32
	var g errgroup.Group
	for _, u := range users {
		g.Go(func() error {
			_, err := f.svc.Checkout.PlaceOrder(f.ctx, u.ID, validCheckout())
			switch {
			case err == nil:
				placed.Add(1)
			case errors.Is(err, services.ErrInsufficientStock):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 2, placed.Load())
	assert.EqualValues(t, buyers-2, rejected.Load())
	assert.Equal(t, 1, f.stock(p.ID))
}

func TestCheckout_Defaults(t *testing.T) {
	f := newFixture(t)
	u := f.user("alice")
	require.NoError(t, f.db.Create(&models.UserProfile{UserID: u.ID, PhoneNumber: "555-0100", Address: "1 Main St"}).Error)

	in, err := f.svc.Checkout.Defaults(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test", in.FirstName)
	assert.Equal(t, "alice@example.com", in.Email)
	assert.Equal(t, "555-0100", in.Phone)
	assert.Equal(t, "1 Main St", in.ShippingAddress)
}

func TestOrders_HistoryAndOwnership(t *testing.T) {
	f := newFixture(t)
	alice := f.user("alice")
	bob := f.user("bob")
	p := f.product("Phone", "1.00", 50)

	var last *models.Order
	for i := 0; i < 12; i++ {
		f.fill(alice.ID, p.ID, 1)
		o, err := f.svc.Checkout.PlaceOrder(f.ctx, alice.ID, validCheckout())
		require.NoError(t, err)
		last = o
	}

	page, err := f.svc.Orders.History(f.ctx, alice.ID, 1)
	require.NoError(t, err)
	assert.Len(t, page.Items, services.OrdersPerPage)
	assert.EqualValues(t, 12, page.Total)
	assert.Equal(t, last.ID, page.Items[0].ID)
	assert.True(t, page.HasNext)

	n, err := f.svc.Orders.Count(f.ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 12, n)
	n, err = f.svc.Orders.Count(f.ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	page, err = f.svc.Orders.History(f.ctx, alice.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Items, 2)

	_, err = f.svc.Orders.Detail(f.ctx, bob.ID, last.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
