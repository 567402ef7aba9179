package response

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
)

type Order struct {
	OrderNumber    string          `json:"orderNumber"`
	Total          decimal.Decimal `json:"total"`
	FormattedTotal string          `json:"formattedTotal"`
	ItemCount      int             `json:"itemCount"`
	PlacedAt       time.Time       `json:"placedAt"`
	FormattedDate  string          `json:"formattedDate"`
}

func (o Order) MarshalZerologObject(e *zerolog.Event) {
	e.Str("orderNumber", o.OrderNumber).Str("total", o.Total.String()).Int("itemCount", o.ItemCount)
}

// Checkout is the outcome of one submission. Errors is set when the form was
// sent back to idle; Order is set once completed.
type Checkout struct {
	State  State             `json:"state"`
	Errors map[string]string `json:"errors,omitempty"`
	Order  *Order            `json:"order,omitempty"`
}
