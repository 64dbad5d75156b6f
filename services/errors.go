package services

import (
	"errors"
	"fmt"
)

var (
	ErrCartNotFound       = errors.New("cart not found")
	ErrCartItemNotFound   = errors.New("item not found in your cart")
	ErrProductNotFound    = errors.New("product not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmptyCart          = errors.New("your cart is empty")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidProduct     = errors.New("price must be between 0 and 9999999999.99 with at most two decimals, and stock between 0 and 2147483647")
	ErrForbidden          = errors.New("you may only delete your own account")
	ErrNameTaken          = errors.New("name already registered")
	ErrInvalidRole        = errors.New("role cannot be self-registered")
	ErrInvalidCredentials = errors.New("invalid name or password")
)

// InsufficientStockError names the first product whose stock cannot cover
// the requested quantity.
type InsufficientStockError struct {
	Product string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s", e.Product)
}
