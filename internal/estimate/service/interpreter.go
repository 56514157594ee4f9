// Package service turns one transcribed caller utterance into a material,
// a measurement and a rough price.
package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"marmurfit_voicebot/internal/catalog/domain"
	"marmurfit_voicebot/platform/textnorm"
)

// KnowledgeBase is the read-only catalog the interpreter consults.
type KnowledgeBase interface {
	// ScanOrder lists materials in the order substring detection tries them.
	ScanOrder() []domain.Material
	// PriceFor resolves a canonical material name to its rate.
	PriceFor(materialName string) (float64, bool)
}

// MeasurementMode records which rule produced the area.
type MeasurementMode string

const (
	ModeNone MeasurementMode = ""
	// ModeSill is width in centimeters times length in linear meters.
	ModeSill MeasurementMode = "sill"
	// ModeArea is a total area spoken directly in square meters.
	ModeArea MeasurementMode = "area"
)

// Missing names the field a follow-up prompt should ask for.
type Missing string

const (
	MissingNone        Missing = ""
	MissingMaterial    Missing = "material"
	MissingMeasurement Missing = "measurement"
)

// numberPattern accepts "40", "2.5", "2,5" and "2." (as spoken "doi virgulă").
var numberPattern = regexp.MustCompile(`[0-9]+[.,]?[0-9]*`)

// Marker phrases are matched as substrings of both the lowercased and the
// diacritic-folded utterance.
var (
	centimeterMarkers  = []string{"cm", "centimetri", "centimetru"}
	linearMeterMarkers = []string{"ml", "metri liniari", "metru liniar"}
	squareMeterMarkers = []string{"m2", "m²", "metri patrati", "metri pătrați", "metru patrat", "metru pătrat"}
)

// Result is what one utterance yielded. Nil pointers mean "not found".
type Result struct {
	Utterance          string
	Material           *domain.Material
	Mode               MeasurementMode
	AreaSquareMeters   *float64
	WidthCentimeters   *float64
	LengthLinearMeters *float64
	Estimate           *int64
}

// Complete reports whether both material and area resolved.
func (r Result) Complete() bool {
	return r.Material != nil && r.AreaSquareMeters != nil
}

// Missing returns the first unresolved field, material before measurement.
func (r Result) Missing() Missing {
	switch {
	case r.Material == nil:
		return MissingMaterial
	case r.AreaSquareMeters == nil:
		return MissingMeasurement
	default:
		return MissingNone
	}
}

type scanEntry struct {
	material domain.Material
	folded   string
}

// Interpreter is stateless once built and safe for concurrent use.
type Interpreter struct {
	kb   KnowledgeBase
	scan []scanEntry
}

// NewInterpreter snapshots the knowledge base scan order.
func NewInterpreter(kb KnowledgeBase) *Interpreter {
	materials := kb.ScanOrder()
	scan := make([]scanEntry, len(materials))
	for i, m := range materials {
		scan[i] = scanEntry{material: m, folded: textnorm.Fold(m.Name)}
	}
	return &Interpreter{kb: kb, scan: scan}
}

// Interpret parses one utterance. It never fails; unresolved fields stay nil.
func (i *Interpreter) Interpret(utterance string) Result {
	lower := textnorm.Lower(utterance)
	folded := textnorm.Fold(lower)

	res := Result{Utterance: utterance}
	res.Material = i.detectMaterial(folded)
	i.measure(&res, lower, folded)

	if res.Material != nil && res.AreaSquareMeters != nil {
		if rate, ok := i.kb.PriceFor(res.Material.Name); ok {
			total := *res.AreaSquareMeters * rate
			if !priceable(total) {
				// Misheard digits; ask for the measurement again.
				res.clearMeasurement()
				return res
			}
			est := RoundEstimate(total)
			res.Estimate = &est
		}
	}
	return res
}

// MaxEstimate bounds a quotable estimate, in RON. Larger products come from
// misrecognised numbers and are treated as no measurement.
const MaxEstimate = 100_000_000

func priceable(total float64) bool {
	return !math.IsNaN(total) && !math.IsInf(total, 0) && total >= 0 && total <= MaxEstimate
}

func (r *Result) clearMeasurement() {
	r.Mode = ModeNone
	r.AreaSquareMeters = nil
	r.WidthCentimeters = nil
	r.LengthLinearMeters = nil
	r.Estimate = nil
}

// RoundEstimate rounds to the nearest whole RON, halves away from zero.
// Callers keep v within MaxEstimate.
func RoundEstimate(v float64) int64 {
	return int64(math.Round(v))
}

func (i *Interpreter) detectMaterial(folded string) *domain.Material {
	for _, entry := range i.scan {
		if strings.Contains(folded, entry.folded) {
			m := entry.material
			return &m
		}
	}
	return nil
}

func (i *Interpreter) measure(res *Result, lower, folded string) {
	nums := extractNumbers(lower)

	if hasMarker(lower, folded, centimeterMarkers) && hasMarker(lower, folded, linearMeterMarkers) && len(nums) >= 2 {
		width, length := nums[0], nums[1]
		area := (width / 100.0) * length
		if area > 0 {
			res.Mode = ModeSill
			res.WidthCentimeters = &width
			res.LengthLinearMeters = &length
			res.AreaSquareMeters = &area
			return
		}
	}

	if hasMarker(lower, folded, squareMeterMarkers) && len(nums) >= 1 {
		area := nums[0]
		if area > 0 {
			res.Mode = ModeArea
			res.AreaSquareMeters = &area
		}
	}
}

// extractNumbers returns every numeric token in order, comma read as a
// decimal point. Tokens that overflow float64 are skipped.
func extractNumbers(text string) []float64 {
	tokens := numberPattern.FindAllString(text, -1)
	nums := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		v, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", "."), 64)
		if err != nil || math.IsInf(v, 0) {
			continue
		}
		nums = append(nums, v)
	}
	return nums
}

func hasMarker(lower, folded string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(lower, m) || strings.Contains(folded, m) {
			return true
		}
	}
	return false
}
