package response

import (
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/internal/format"
)

const (
	CARD_TITLE_LENGTH       = 60
	CARD_DESCRIPTION_LENGTH = 80
)

// ProductCard is a product as shown in the catalog listing.
type ProductCard struct {
	ID             int             `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Image          string          `json:"image"`
	Price          decimal.Decimal `json:"price"`
	FormattedPrice string          `json:"formattedPrice"`
	Rating         Rating          `json:"rating"`
}

func NewProductCard(p Product) ProductCard {
	return ProductCard{
		ID:             p.ID,
		Title:          format.Truncate(p.Title, CARD_TITLE_LENGTH),
		Description:    format.Truncate(p.Description, CARD_DESCRIPTION_LENGTH),
		Category:       format.Capitalize(p.Category),
		Image:          p.Image,
		Price:          p.Price,
		FormattedPrice: format.FormatPrice(p.Price),
		Rating:         p.Rating,
	}
}

func NewProductCards(products []Product) []ProductCard {
	cards := make([]ProductCard, 0, len(products))
	for _, product := range products {
		cards = append(cards, NewProductCard(product))
	}
	return cards
}

type ProductDetail struct {
	Product
	FormattedPrice string `json:"formattedPrice"`
	InCart         int    `json:"inCart"`
	MaxQuantity    int    `json:"maxQuantity"`
}
