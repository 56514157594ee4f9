// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "RO"

// NormalizeE164 formats a phone number to E.164. If parsing fails, it returns the trimmed input.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}

// Mask hides all but the last three digits, for logs.
func Mask(input string) string {
	normalized := NormalizeE164(input)
	if len(normalized) <= 3 {
		return strings.Repeat("*", len(normalized))
	}
	return strings.Repeat("*", len(normalized)-3) + normalized[len(normalized)-3:]
}
