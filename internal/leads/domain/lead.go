// Package domain holds the lead record captured from a completed call.
package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Work types written to the sheet.
const (
	WorkTypeUnknown = "necunoscut"
	WorkTypeSill    = "glaf"
)

// DefaultNote marks leads created without a human in the loop.
const DefaultNote = "Lead draft automat din apel."

// Lead is one captured estimate. JSON keys match the columns of the sales sheet.
type Lead struct {
	ID                 uuid.UUID `json:"id"`
	Source             string    `json:"sursa"`
	WorkType           string    `json:"tip_lucrare"`
	Material           string    `json:"material"`
	AreaSquareMeters   float64   `json:"suprafata_m2"`
	WidthCentimeters   *float64  `json:"latime_cm,omitempty"`
	LengthLinearMeters *float64  `json:"lungime_ml,omitempty"`
	Estimate           int64     `json:"estimare_ron"`
	Note               string    `json:"observatii"`
	Provider           string    `json:"furnizor"`
	CallID             string    `json:"id_apel"`
	CallerPhone        string    `json:"telefon,omitempty"`
	Utterance          string    `json:"transcriere,omitempty"`
	CreatedAt          time.Time `json:"creat_la"`
}

// Summary renders the short text read back to the caller and sent on WhatsApp.
func (l Lead) Summary() string {
	return fmt.Sprintf("MARMURFIT: %s, %s m², estimare orientativa %d lei (fara transport si operatii speciale). Avans minim 50%%.",
		l.Material, FormatArea(l.AreaSquareMeters), l.Estimate)
}

// DedupeKey identifies a lead per call so provider retries do not double-post.
func (l Lead) DedupeKey() string {
	if l.CallID == "" {
		return ""
	}
	return l.Provider + ":" + l.CallID
}

// FormatArea prints an area with at most two decimals and a decimal comma.
func FormatArea(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return strings.ReplaceAll(s, ".", ",")
}
