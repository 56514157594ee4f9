package transport

// EstimateRequest carries one utterance to interpret, as typed or transcribed.
type EstimateRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

// EstimateResponse mirrors what the call flow would have understood.
// Absent fields are omitted rather than zeroed.
type EstimateResponse struct {
	Material           *string  `json:"material,omitempty"`
	PricePerArea       *float64 `json:"pricePerM2,omitempty"`
	Mode               string   `json:"mode,omitempty"`
	AreaSquareMeters   *float64 `json:"areaM2,omitempty"`
	WidthCentimeters   *float64 `json:"widthCm,omitempty"`
	LengthLinearMeters *float64 `json:"lengthMl,omitempty"`
	EstimateRON        *int64   `json:"estimateRon,omitempty"`
	Complete           bool     `json:"complete"`
	Missing            string   `json:"missing,omitempty"`
}
