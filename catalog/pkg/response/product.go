package response

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      Rating          `json:"rating"`
}

func (p Product) MarshalZerologObject(e *zerolog.Event) {
	e.Int("id", p.ID).Str("title", p.Title).Str("price", p.Price.String())
}
