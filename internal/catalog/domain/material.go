// Package domain holds the catalog's value types shared with other modules.
package domain

import "strings"

// Material is one sellable stone and its rate per square meter, in RON.
type Material struct {
	Name         string  `json:"name" yaml:"name" validate:"required,max=80,material_name"`
	PricePerArea float64 `json:"price_per_m2" yaml:"price_per_m2" validate:"gt=0"`
}

// CanonicalName trims, lowercases and collapses internal whitespace.
func CanonicalName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
