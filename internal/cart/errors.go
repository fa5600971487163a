package cart

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrOutOfStock rejects adding a product whose stock is exhausted.
var ErrOutOfStock = errors.New("product out of stock")

// InsufficientStockError rejects a quantity that would exceed the stock
// ceiling snapshotted on the line.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: only %d available", e.Available)
}
