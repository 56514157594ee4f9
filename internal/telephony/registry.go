package telephony

import (
	"sort"

	"marmurfit_voicebot/platform/apperr"
)

// Registry resolves a provider path segment to its dialect.
type Registry struct {
	dialects map[string]Dialect
}

// NewRegistry registers every supported provider with the same speech settings.
func NewRegistry(speech Speech) *Registry {
	r := &Registry{dialects: make(map[string]Dialect)}
	r.Register(NewTwilio(speech))
	r.Register(NewPlivo(speech))
	return r
}

// Register adds or replaces a dialect.
func (r *Registry) Register(d Dialect) {
	r.dialects[d.Name()] = d
}

// Lookup returns the dialect for provider or a not-found error.
func (r *Registry) Lookup(provider string) (Dialect, error) {
	d, ok := r.dialects[provider]
	if !ok {
		return nil, apperr.NotFound("unknown telephony provider").WithOp("telephony.Lookup")
	}
	return d, nil
}

// Providers lists registered provider names, sorted.
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.dialects))
	for name := range r.dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
