package services

import (
	"errors"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// Business rule violations. Controllers map these to a flash message or a
// {success:false,message} body; none of them is a server fault.
var (
	ErrNotFound           = errors.New("not found")
	ErrOutOfStock         = errors.New("this product is out of stock")
	ErrStockLimitReached  = errors.New("cannot add more items, stock limit reached")
	ErrInsufficientStock  = errors.New("not enough stock available")
	ErrEmptyCart          = errors.New("your cart is empty")
	ErrDuplicateReview    = errors.New("you have already reviewed this product")
	ErrNotInWishlist      = errors.New("product not in wishlist")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError carries field-level messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

func invalid(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

// IsValidation unwraps err into a *ValidationError.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// IsBusinessRule reports whether err is a user-facing rule violation.
func IsBusinessRule(err error) bool {
	return errIs(err,
		ErrOutOfStock, ErrStockLimitReached, ErrInsufficientStock,
		ErrEmptyCart, ErrDuplicateReview, ErrNotInWishlist, ErrInvalidCredentials,
	)
}

func errIs(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// notFound folds gorm's record-not-found into ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
