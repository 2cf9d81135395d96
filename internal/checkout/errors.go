package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

	// ErrConflict is returned when commit retries are exhausted because
	// of concurrent checkouts touching the same products.
	ErrConflict = errors.New("checkout conflicted with a concurrent purchase, please retry")
)

type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d no longer exists", e.ProductID)
}

type InsufficientStockError struct {
	ProductID int64
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s. Available: %d, Requested: %d",
		e.Name, e.Available, e.Requested)
}
