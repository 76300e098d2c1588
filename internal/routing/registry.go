// Package routing maps classified segments to an extraction strategy.
package routing

import (
	"fmt"
	"sort"
	"strings"

	"docroute/internal/domain"
)

// Registry records which platforms have a rule-based extractor available downstream.
// Populate it before the router starts serving; it is read-only afterwards.
type Registry struct {
	available map[domain.Platform]bool
}

// NewRegistry creates a Registry with the given platforms marked available.
func NewRegistry(platforms ...domain.Platform) *Registry {
	r := &Registry{available: make(map[domain.Platform]bool)}
	for _, p := range platforms {
		r.Register(p)
	}
	return r
}

// ParseRegistry builds a Registry from a comma-separated label list such as "META,GOOGLE".
// Legacy aliases are accepted; UNKNOWN and unrecognised labels are rejected.
func ParseRegistry(list string) (*Registry, error) {
	r := NewRegistry()
	for _, raw := range strings.Split(list, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		p := domain.ParsePlatform(raw)
		if !p.IsKnown() {
			return nil, fmt.Errorf("rule-based platform %q: %w", raw, domain.ErrInvalidRequest)
		}
		r.Register(p)
	}
	return r, nil
}

// Register marks p as having a rule-based extractor. UNKNOWN is ignored.
func (r *Registry) Register(p domain.Platform) {
	if p.IsKnown() {
		r.available[p] = true
	}
}

// Has reports whether p has a rule-based extractor.
func (r *Registry) Has(p domain.Platform) bool {
	return r.available[p]
}

// Platforms returns the available platforms in canonical order.
func (r *Registry) Platforms() []domain.Platform {
	out := make([]domain.Platform, 0, len(r.available))
	for p := range r.available {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return order(out[i]) < order(out[j]) })
	return out
}

func order(p domain.Platform) int {
	for i, known := range domain.Platforms {
		if known == p {
			return i
		}
	}
	return len(domain.Platforms)
}
