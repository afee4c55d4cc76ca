package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/app/repositories"
	"github.com/shashiranjanraj/electrostore/pkg/event"
	"github.com/shashiranjanraj/electrostore/pkg/logger"
	"github.com/shashiranjanraj/electrostore/pkg/metrics"
	"github.com/shashiranjanraj/electrostore/pkg/orm"
	"github.com/shashiranjanraj/electrostore/pkg/validate"
	"gorm.io/gorm"
)

// EventOrderPlaced fires after a checkout commits, with the *models.Order
// (items loaded) as payload.
const EventOrderPlaced = "order.placed"

// CheckoutInput is the contact and shipping form.
type CheckoutInput struct {
	FirstName       string `form:"first_name"       json:"first_name"       validate:"required,max=50"`
	LastName        string `form:"last_name"        json:"last_name"        validate:"required,max=50"`
	Email           string `form:"email"            json:"email"            validate:"required,email,max=254"`
	Phone           string `form:"phone"            json:"phone"            validate:"required,max=15"`
	ShippingAddress string `form:"shipping_address" json:"shipping_address" validate:"required"`
}

func (in *CheckoutInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.ShippingAddress = strings.TrimSpace(in.ShippingAddress)
}

// CheckoutService turns a cart into an order.
type CheckoutService struct {
	db       *gorm.DB
	carts    *repositories.CartRepository
	products *repositories.ProductRepository
	orders   *repositories.OrderRepository
	users    *repositories.UserRepository
}

func NewCheckoutService(db *gorm.DB) *CheckoutService {
	return &CheckoutService{
		db:       db,
		carts:    repositories.NewCartRepository(db),
		products: repositories.NewProductRepository(db),
		orders:   repositories.NewOrderRepository(db),
		users:    repositories.NewUserRepository(db),
	}
}

// Defaults prefills the checkout form from the account and its profile.
func (s *CheckoutService) Defaults(ctx context.Context, userID uint) (CheckoutInput, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return CheckoutInput{}, notFound(err)
	}
	in := CheckoutInput{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
	if u.Profile != nil {
		in.Phone = u.Profile.PhoneNumber
		in.ShippingAddress = u.Profile.Address
	}
	return in, nil
}

// PlaceOrder creates an order from the user's cart in one transaction:
// the order row, one item per cart line at the current price, a
// conditional stock decrement per line, then the cart is emptied. If any
// line no longer has enough stock nothing is written and the error wraps
// ErrInsufficientStock with the product name.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uint, in CheckoutInput) (*models.Order, error) {
	in.normalize()

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		products := s.products.WithTx(tx)
		orders := s.orders.WithTx(tx)

		cart, err := carts.Load(ctx, userID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return ErrEmptyCart
			}
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		if errs := validate.Struct(in); validate.HasErrors(errs) {
			return invalid(errs)
		}

		o := &models.Order{
			UserID:          userID,
			TotalAmount:     cart.TotalPrice(),
			FirstName:       in.FirstName,
			LastName:        in.LastName,
			Email:           in.Email,
			Phone:           in.Phone,
			ShippingAddress: in.ShippingAddress,
			Status:          models.OrderPending,
		}
		if err := orders.Create(ctx, o); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, ci := range cart.Items {
			item := models.OrderItem{
				OrderID:     o.ID,
				ProductID:   ci.ProductID,
				ProductName: ci.Product.Name,
				Quantity:    ci.Quantity,
				Price:       ci.Product.Price,
			}
			if err := orders.AddItem(ctx, &item); err != nil {
				return fmt.Errorf("add order item: %w", err)
			}

			ok, err := products.DecrementStock(ctx, ci.ProductID, ci.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if !ok {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, ci.Product.Name)
			}
			o.Items = append(o.Items, item)
		}

		if _, err := carts.Clear(ctx, cart.ID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		order = o
		return nil
	})
	if err != nil {
		metrics.CheckoutFailures.WithLabelValues(failureReason(err)).Inc()
		if !IsBusinessRule(err) {
			if _, ok := IsValidation(err); !ok {
				logger.WithCtx(ctx).Error("checkout failed", "user_id", userID, "error", err)
			}
		}
		return nil, err
	}

	event.Fire(ctx, EventOrderPlaced, order)
	return order, nil
}

func failureReason(err error) string {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.As(err, &ve):
		return "validation"
	}
	return "error"
}

// OrderService reads a customer's order history.
type OrderService struct {
	orders *repositories.OrderRepository
}

const OrdersPerPage = 10

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{orders: repositories.NewOrderRepository(db)}
}

// History pages the user's orders newest first.
func (s *OrderService) History(ctx context.Context, userID uint, page int) (orm.Page[models.Order], error) {
	return s.orders.History(ctx, userID, page, OrdersPerPage)
}

// Count is how many orders the user has placed.
func (s *OrderService) Count(ctx context.Context, userID uint) (int64, error) {
	return s.orders.Count(ctx, userID)
}

// Detail returns one of the user's orders; other users' orders are ErrNotFound.
func (s *OrderService) Detail(ctx context.Context, userID, orderID uint) (models.Order, error) {
	o, err := s.orders.FindForUser(ctx, userID, orderID)
	return o, notFound(err)
}
