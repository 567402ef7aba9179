// Package domain holds the cart state and its pure transitions. Nothing here
// performs I/O; persistence lives in the repository and service packages.
package domain

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/catalog/pkg/response"
	inErrors "github.com/Alturino/storefront/internal/errors"
)

// MaxQuantity is advertised to views as the per-line quantity ceiling. It is
// not enforced by AddItem.
const MaxQuantity = 10

type Line struct {
	ID       int              `json:"id"`
	Product  response.Product `json:"product"`
	Quantity int              `json:"quantity"`
}

type Cart struct {
	Items     []Line          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

func (c Cart) MarshalZerologObject(e *zerolog.Event) {
	e.Int("lines", len(c.Items)).Int("itemCount", c.ItemCount).Str("total", c.Total.String())
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Quantity returns the quantity of the line for productID, or 0.
func (c Cart) Quantity(productID int) int {
	for _, line := range c.Items {
		if line.ID == productID {
			return line.Quantity
		}
	}
	return 0
}

// Clone returns a cart whose line slice does not alias c.
func (c Cart) Clone() Cart {
	items := make([]Line, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items, Total: c.Total, ItemCount: c.ItemCount}
}

func CalculateTotal(items []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range items {
		total = total.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

func CalculateItemCount(items []Line) int {
	count := 0
	for _, line := range items {
		count += line.Quantity
	}
	return count
}

func newCart(items []Line) Cart {
	if items == nil {
		items = []Line{}
	}
	return Cart{
		Items:     items,
		Total:     CalculateTotal(items),
		ItemCount: CalculateItemCount(items),
	}
}

func Empty() Cart {
	return newCart(nil)
}

// Normalize checks that every line has a positive quantity and a unique
// product id, and recomputes the derived scalars.
func Normalize(cart Cart) (Cart, error) {
	seen := make(map[int]struct{}, len(cart.Items))
	items := make([]Line, 0, len(cart.Items))
	count := 0
	for _, line := range cart.Items {
		if line.Quantity < 1 {
			return Cart{}, fmt.Errorf("productId=%d quantity=%d: %w", line.ID, line.Quantity, inErrors.ErrCorruptState)
		}
		if count > math.MaxInt-line.Quantity {
			return Cart{}, fmt.Errorf("itemCount overflows at productId=%d: %w", line.ID, inErrors.ErrCorruptState)
		}
		count += line.Quantity
		if line.ID != line.Product.ID {
			return Cart{}, fmt.Errorf("line id=%d does not match productId=%d: %w", line.ID, line.Product.ID, inErrors.ErrCorruptState)
		}
		if _, ok := seen[line.ID]; ok {
			return Cart{}, fmt.Errorf("duplicate productId=%d: %w", line.ID, inErrors.ErrCorruptState)
		}
		if line.Product.Price.IsNegative() {
			return Cart{}, fmt.Errorf("productId=%d has negative price: %w", line.ID, inErrors.ErrCorruptState)
		}
		seen[line.ID] = struct{}{}
		items = append(items, line)
	}
	return newCart(items), nil
}
