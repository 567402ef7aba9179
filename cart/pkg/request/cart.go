package request

// AddCartItem adds quantity of a catalog product. A missing quantity means 1.
type AddCartItem struct {
	ProductId int `validate:"required,gt=0"  json:"productId"`
	Quantity  int `validate:"omitempty,gte=1" json:"quantity"`
}

func (a AddCartItem) QuantityOrDefault() int {
	if a.Quantity == 0 {
		return 1
	}
	return a.Quantity
}

// UpdateCartItem replaces a line's quantity. Zero or less removes the line.
type UpdateCartItem struct {
	Quantity *int `validate:"required" json:"quantity"`
}
