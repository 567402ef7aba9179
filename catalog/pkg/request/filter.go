package request

// ProductFilter narrows the catalog listing. Empty fields do not filter.
type ProductFilter struct {
	Category string `json:"category" validate:"max=100"`
	Search   string `json:"search"   validate:"max=200"`
}
