package domain

import (
	"fmt"
	"math"

	"github.com/Alturino/storefront/catalog/pkg/response"
	inErrors "github.com/Alturino/storefront/internal/errors"
)

// Command is a cart mutation understood by Apply.
type Command interface {
	Name() string
}

type AddItem struct {
	Product  response.Product
	Quantity int
}

type RemoveItem struct {
	ProductID int
}

// UpdateQuantity with a quantity of zero or less removes the line.
type UpdateQuantity struct {
	ProductID int
	Quantity  int
}

type Clear struct{}

func (AddItem) Name() string        { return "add_item" }
func (RemoveItem) Name() string     { return "remove_item" }
func (UpdateQuantity) Name() string { return "update_quantity" }
func (Clear) Name() string          { return "clear" }

// Apply returns the cart that results from running cmd against cart. The
// input cart is never modified.
func Apply(cart Cart, cmd Command) (Cart, error) {
	switch cmd := cmd.(type) {
	case AddItem:
		if cmd.Quantity < 1 {
			return cart, fmt.Errorf("productId=%d quantity=%d: %w", cmd.Product.ID, cmd.Quantity, inErrors.ErrInvalidQuantity)
		}
		if count := CalculateItemCount(cart.Items); count > math.MaxInt-cmd.Quantity {
			return cart, fmt.Errorf("productId=%d quantity=%d itemCount=%d: %w", cmd.Product.ID, cmd.Quantity, count, inErrors.ErrQuantityTooLarge)
		}
		items := make([]Line, 0, len(cart.Items)+1)
		merged := false
		for _, line := range cart.Items {
			if line.ID == cmd.Product.ID {
				line.Quantity += cmd.Quantity
				merged = true
			}
			items = append(items, line)
		}
		if !merged {
			items = append(items, Line{ID: cmd.Product.ID, Product: cmd.Product, Quantity: cmd.Quantity})
		}
		return newCart(items), nil
	case RemoveItem:
		return newCart(without(cart.Items, cmd.ProductID)), nil
	case UpdateQuantity:
		if cmd.Quantity <= 0 {
			return newCart(without(cart.Items, cmd.ProductID)), nil
		}
		others := CalculateItemCount(without(cart.Items, cmd.ProductID))
		if cart.Quantity(cmd.ProductID) > 0 && others > math.MaxInt-cmd.Quantity {
			return cart, fmt.Errorf("productId=%d quantity=%d itemCount=%d: %w", cmd.ProductID, cmd.Quantity, others, inErrors.ErrQuantityTooLarge)
		}
		items := make([]Line, 0, len(cart.Items))
		for _, line := range cart.Items {
			if line.ID == cmd.ProductID {
				line.Quantity = cmd.Quantity
			}
			items = append(items, line)
		}
		return newCart(items), nil
	case Clear:
		return Empty(), nil
	default:
		return cart, fmt.Errorf("unknown cart command %T", cmd)
	}
}

func without(items []Line, productID int) []Line {
	kept := make([]Line, 0, len(items))
	for _, line := range items {
		if line.ID != productID {
			kept = append(kept, line)
		}
	}
	return kept
}
