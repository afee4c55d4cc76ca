package services

import (
	"context"

	"github.com/shashiranjanraj/electrostore/app/models"
	"github.com/shashiranjanraj/electrostore/app/repositories"
	"github.com/shashiranjanraj/electrostore/pkg/logger"
	"github.com/shashiranjanraj/electrostore/pkg/metrics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AddResult is the outcome of adding a product to the cart.
type AddResult struct {
	Product        models.Product
	CartTotalItems int
	Created        bool
}

// QuantityResult is the outcome of a quantity change. ItemTotal is zero
// when the line was removed.
type QuantityResult struct {
	Removed   bool
	ItemTotal decimal.Decimal
	CartTotal decimal.Decimal
}

// CartService manages the per-user shopping cart.
type CartService struct {
	carts    *repositories.CartRepository
	products *repositories.ProductRepository
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{
		carts:    repositories.NewCartRepository(db),
		products: repositories.NewProductRepository(db),
	}
}

// GetOrCreate returns the user's cart, creating it on first access.
func (s *CartService) GetOrCreate(ctx context.Context, userID uint) (models.Cart, bool, error) {
	return s.carts.GetOrCreate(ctx, userID)
}

// Cart returns the user's cart with items and products loaded.
func (s *CartService) Cart(ctx context.Context, userID uint) (models.Cart, error) {
	if _, _, err := s.carts.GetOrCreate(ctx, userID); err != nil {
		return models.Cart{}, err
	}
	return s.carts.Load(ctx, userID)
}

// TotalItems is the cart badge count; zero for users without a cart.
func (s *CartService) TotalItems(ctx context.Context, userID uint) (int, error) {
	if userID == 0 {
		return 0, nil
	}
	return s.carts.TotalItems(ctx, userID)
}

// AddItem puts one unit of productID in the cart. A product with no stock
// is ErrOutOfStock; a line already at the stock level is
// ErrStockLimitReached and nothing changes.
func (s *CartService) AddItem(ctx context.Context, userID, productID uint) (AddResult, error) {
	var res AddResult

	p, err := s.products.FindActiveByID(ctx, productID)
	if err != nil {
		return res, notFound(err)
	}
	res.Product = p

	if !p.InStock() {
		countCart("add", "out_of_stock")
		return res, ErrOutOfStock
	}

	cart, _, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return res, err
	}

	item, err := s.carts.FindItemByProduct(ctx, cart.ID, p.ID)
	switch {
	case err == nil:
		if err := s.increment(ctx, item.ID, p.StockQuantity); err != nil {
			return res, err
		}
	case repositories.IsNotFound(err):
		item = models.CartItem{CartID: cart.ID, ProductID: p.ID, Quantity: 1}
		if cerr := s.carts.CreateItem(ctx, &item); cerr != nil {
			// lost a race against a concurrent add of the same product
			existing, ferr := s.carts.FindItemByProduct(ctx, cart.ID, p.ID)
			if ferr != nil {
				return res, cerr
			}
			if err := s.increment(ctx, existing.ID, p.StockQuantity); err != nil {
				return res, err
			}
		} else {
			res.Created = true
		}
	default:
		return res, err
	}

	if res.CartTotalItems, err = s.carts.TotalItems(ctx, userID); err != nil {
		return res, err
	}
	countCart("add", "ok")
	logger.WithCtx(ctx).Debug("cart item added", "product_id", p.ID, "cart_total", res.CartTotalItems)
	return res, nil
}

func (s *CartService) increment(ctx context.Context, itemID uint, stock int) error {
	ok, err := s.carts.IncrementItem(ctx, itemID, stock)
	if err != nil {
		return err
	}
	if !ok {
		countCart("add", "stock_limit")
		return ErrStockLimitReached
	}
	return nil
}

// SetItemQuantity sets a line's quantity. qty <= 0 deletes the line; a
// quantity above current stock is ErrInsufficientStock and the line is kept.
func (s *CartService) SetItemQuantity(ctx context.Context, userID, itemID uint, qty int) (QuantityResult, error) {
	var res QuantityResult

	item, err := s.carts.FindItem(ctx, userID, itemID)
	if err != nil {
		return res, notFound(err)
	}

	switch {
	case qty <= 0:
		if err := s.carts.DeleteItem(ctx, item.ID); err != nil {
			return res, err
		}
		res.Removed = true
	case qty > item.Product.StockQuantity:
		countCart("update", "insufficient_stock")
		return res, ErrInsufficientStock
	default:
		if err := s.carts.SetQuantity(ctx, item.ID, qty); err != nil {
			return res, err
		}
		item.Quantity = qty
		res.ItemTotal = item.TotalPrice()
	}

	cart, err := s.carts.Load(ctx, userID)
	if err != nil {
		return res, err
	}
	res.CartTotal = cart.TotalPrice()
	countCart("update", "ok")
	return res, nil
}

// RemoveItem deletes a line from the caller's cart and returns the
// product's name.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) (string, error) {
	item, err := s.carts.FindItem(ctx, userID, itemID)
	if err != nil {
		return "", notFound(err)
	}
	if err := s.carts.DeleteItem(ctx, item.ID); err != nil {
		return "", err
	}
	countCart("remove", "ok")
	return item.Product.Name, nil
}

func countCart(op, result string) {
	metrics.CartOperations.WithLabelValues(op, result).Inc()
}
