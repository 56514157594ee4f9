// Package service holds the in-memory material catalog.
package service

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"marmurfit_voicebot/internal/catalog/domain"
	"marmurfit_voicebot/internal/catalog/repository"
	"marmurfit_voicebot/platform/apperr"
	"marmurfit_voicebot/platform/logger"
	"marmurfit_voicebot/platform/textnorm"
	"marmurfit_voicebot/platform/validator"
)

// Catalog is the immutable knowledge base. It is safe for concurrent use
// because nothing mutates it after New returns.
type Catalog struct {
	declared []domain.Material
	scan     []domain.Material
	byName   map[string]domain.Material
}

// New validates entries and builds the catalog. Names are canonicalised
// (trimmed, lowercased, single-spaced) before validation.
func New(entries []domain.Material, val *validator.Validator) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, apperr.Validation("catalog has no materials").WithOp("catalog.New")
	}

	c := &Catalog{
		declared: make([]domain.Material, 0, len(entries)),
		byName:   make(map[string]domain.Material, len(entries)),
	}
	folded := make(map[string]string, len(entries))

	for i, entry := range entries {
		entry.Name = domain.CanonicalName(entry.Name)
		if err := val.Struct(entry); err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, fmt.Sprintf("material #%d (%q) is invalid", i+1, entry.Name), err).WithOp("catalog.New")
		}
		if _, dup := c.byName[entry.Name]; dup {
			return nil, apperr.Validation(fmt.Sprintf("material %q is declared twice", entry.Name)).WithOp("catalog.New")
		}
		key := textnorm.Fold(entry.Name)
		if other, clash := folded[key]; clash {
			return nil, apperr.Validation(fmt.Sprintf("materials %q and %q differ only by diacritics", other, entry.Name)).WithOp("catalog.New")
		}
		folded[key] = entry.Name
		c.byName[entry.Name] = entry
		c.declared = append(c.declared, entry)
	}

	// Longest names first, so "gri antracit" is tried before "gri".
	// Equal lengths keep declaration order.
	c.scan = make([]domain.Material, len(c.declared))
	copy(c.scan, c.declared)
	sort.SliceStable(c.scan, func(i, j int) bool {
		return utf8.RuneCountInString(c.scan[i].Name) > utf8.RuneCountInString(c.scan[j].Name)
	})

	return c, nil
}

// Load reads the catalog through repo and builds it. Any failure here must
// stop the process before calls are served.
func Load(repo repository.Repository, val *validator.Validator, log *logger.Logger) (*Catalog, error) {
	doc, err := repo.Load()
	if err != nil {
		return nil, err
	}
	c, err := New(doc.Materials, val)
	if err != nil {
		return nil, err
	}
	log.Info("catalog loaded", "materials", len(c.declared), "names", strings.Join(c.Names(), ", "))
	return c, nil
}

// PriceFor returns the rate for an exact (trimmed, case-insensitive) name.
func (c *Catalog) PriceFor(materialName string) (float64, bool) {
	m, ok := c.byName[strings.ToLower(strings.TrimSpace(materialName))]
	if !ok {
		return 0, false
	}
	return m.PricePerArea, true
}

// Lookup returns the entry for an exact (trimmed, case-insensitive) name.
func (c *Catalog) Lookup(materialName string) (domain.Material, bool) {
	m, ok := c.byName[strings.ToLower(strings.TrimSpace(materialName))]
	return m, ok
}

// Materials returns entries in declaration order.
func (c *Catalog) Materials() []domain.Material {
	out := make([]domain.Material, len(c.declared))
	copy(out, c.declared)
	return out
}

// ScanOrder returns entries in the order substring detection must try them.
func (c *Catalog) ScanOrder() []domain.Material {
	out := make([]domain.Material, len(c.scan))
	copy(out, c.scan)
	return out
}

// Names returns material names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.declared))
	for i, m := range c.declared {
		names[i] = m.Name
	}
	return names
}
