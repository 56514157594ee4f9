package transport

// MaterialResponse is one catalog entry as exposed over HTTP.
type MaterialResponse struct {
	Name         string  `json:"name"`
	PricePerArea float64 `json:"pricePerM2"`
}

// MaterialListResponse lists the catalog in declaration order.
type MaterialListResponse struct {
	Items    []MaterialResponse `json:"items"`
	Currency string             `json:"currency"`
}

// PriceRequest is the query for an exact-name price lookup.
type PriceRequest struct {
	Material string `form:"material" validate:"required,max=80"`
}
