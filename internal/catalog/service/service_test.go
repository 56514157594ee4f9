package service

import (
	"errors"
	"testing"

	"marmurfit_voicebot/internal/catalog/domain"
	"marmurfit_voicebot/internal/catalog/repository"
	"marmurfit_voicebot/platform/apperr"
	"marmurfit_voicebot/platform/logger"
	"marmurfit_voicebot/platform/validator"
)

func sampleEntries() []domain.Material {
	return []domain.Material{
		{Name: "gri", PricePerArea: 350},
		{Name: "marmura alba cu dungi gri", PricePerArea: 550},
		{Name: "marmura bej", PricePerArea: 480},
		{Name: "gri antracit", PricePerArea: 420},
		{Name: "negru galaxy", PricePerArea: 750},
		{Name: "negru absolut", PricePerArea: 700},
		{Name: "steel black", PricePerArea: 650},
	}
}

func TestPriceForIsExactAndCaseInsensitive(t *testing.T) {
	c, err := New(sampleEntries(), validator.New())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if price, ok := c.PriceFor("  GRI "); !ok || price != 350 {
		t.Fatalf("expected 350 for GRI, got %v %v", price, ok)
	}
	if price, ok := c.PriceFor("Steel Black"); !ok || price != 650 {
		t.Fatalf("expected 650 for steel black, got %v %v", price, ok)
	}
	if _, ok := c.PriceFor("gri deschis"); ok {
		t.Fatalf("expected no partial match")
	}
	if _, ok := c.PriceFor("steel"); ok {
		t.Fatalf("expected no substring match")
	}
}

func TestScanOrderPutsLongerNamesFirst(t *testing.T) {
	c, err := New(sampleEntries(), validator.New())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	order := c.ScanOrder()
	pos := map[string]int{}
	for i, m := range order {
		pos[m.Name] = i
	}
	if pos["gri antracit"] > pos["gri"] {
		t.Fatalf("gri antracit must be scanned before gri: %v", order)
	}
	if pos["marmura alba cu dungi gri"] != 0 {
		t.Fatalf("longest name must be scanned first: %v", order)
	}
	// negru galaxy and gri antracit share a length; declaration order holds.
	if pos["gri antracit"] > pos["negru galaxy"] {
		t.Fatalf("equal-length names must keep declaration order: %v", order)
	}
	if got := c.Names()[0]; got != "gri" {
		t.Fatalf("Names must keep declaration order, got first %q", got)
	}
}

func TestNewCanonicalisesNames(t *testing.T) {
	c, err := New([]domain.Material{{Name: "  Steel   Black ", PricePerArea: 650}}, validator.New())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if c.Names()[0] != "steel black" {
		t.Fatalf("expected canonical name, got %q", c.Names()[0])
	}
}

func TestNewRejectsBadCatalogs(t *testing.T) {
	cases := map[string][]domain.Material{
		"empty":          nil,
		"zero price":     {{Name: "gri", PricePerArea: 0}},
		"negative price": {{Name: "gri", PricePerArea: -1}},
		"blank name":     {{Name: "   ", PricePerArea: 10}},
		"duplicate":      {{Name: "gri", PricePerArea: 1}, {Name: "GRI", PricePerArea: 2}},
		"diacritic twin": {{Name: "marmură", PricePerArea: 1}, {Name: "marmura", PricePerArea: 2}},
	}

	for name, entries := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := New(entries, validator.New()); !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

type stubRepo struct {
	doc repository.Document
	err error
}

func (s stubRepo) Load() (repository.Document, error) { return s.doc, s.err }

func TestLoadPropagatesRepositoryErrors(t *testing.T) {
	want := errors.New("disk gone")
	if _, err := Load(stubRepo{err: want}, validator.New(), logger.Nop()); !errors.Is(err, want) {
		t.Fatalf("expected repository error, got %v", err)
	}

	c, err := Load(stubRepo{doc: repository.Document{Materials: sampleEntries()}}, validator.New(), logger.Nop())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(c.Materials()) != 7 {
		t.Fatalf("expected 7 materials, got %d", len(c.Materials()))
	}
}
