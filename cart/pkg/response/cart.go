package response

import (
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/cart/domain"
	"github.com/Alturino/storefront/internal/format"
)

type CartItem struct {
	ProductID         int             `json:"productId"`
	Title             string          `json:"title"`
	Category          string          `json:"category"`
	Image             string          `json:"image"`
	Price             decimal.Decimal `json:"price"`
	FormattedPrice    string          `json:"formattedPrice"`
	Quantity          int             `json:"quantity"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	FormattedSubtotal string          `json:"formattedSubtotal"`
}

type Cart struct {
	Items          []CartItem      `json:"items"`
	Total          decimal.Decimal `json:"total"`
	FormattedTotal string          `json:"formattedTotal"`
	ItemCount      int             `json:"itemCount"`
	MaxQuantity    int             `json:"maxQuantity"`
}

func NewCart(cart domain.Cart) Cart {
	items := make([]CartItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		subtotal := line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, CartItem{
			ProductID:         line.ID,
			Title:             line.Product.Title,
			Category:          format.Capitalize(line.Product.Category),
			Image:             line.Product.Image,
			Price:             line.Product.Price,
			FormattedPrice:    format.FormatPrice(line.Product.Price),
			Quantity:          line.Quantity,
			Subtotal:          subtotal,
			FormattedSubtotal: format.FormatPrice(subtotal),
		})
	}
	return Cart{
		Items:          items,
		Total:          cart.Total,
		FormattedTotal: format.FormatPrice(cart.Total),
		ItemCount:      cart.ItemCount,
		MaxQuantity:    domain.MaxQuantity,
	}
}
