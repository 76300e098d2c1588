package routing

import "docroute/internal/domain"

// Router turns a label into a RouteDecision. It never invokes an extractor.
type Router struct {
	registry       *Registry
	useProfileHint bool
}

// NewRouter creates a Router. With useProfileHint set, an UNKNOWN classification falls back
// to the segment's majority platform hint.
func NewRouter(registry *Registry, useProfileHint bool) *Router {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Router{registry: registry, useProfileHint: useProfileHint}
}

// Route returns RULE_BASED exactly when the registry has label.
func (r *Router) Route(label domain.Platform) domain.RouteDecision {
	if !label.Valid() {
		label = domain.PlatformUnknown
	}
	target := domain.RouteAIFallback
	if r.registry.Has(label) {
		target = domain.RouteRuleBased
	}
	return domain.RouteDecision{
		Target:      target,
		Label:       label,
		Route:       domain.RouteNameFor(label),
		LabelSource: domain.LabelSourceClassifier,
	}
}

// RouteSegment resolves the label for seg from its classification and routes it.
func (r *Router) RouteSegment(seg *domain.Segment, res domain.ClassificationResult) domain.RouteDecision {
	label, source := res.Label, domain.LabelSourceClassifier
	if label == domain.PlatformUnknown && r.useProfileHint && seg != nil && seg.Profile.PlatformHint.IsKnown() {
		label, source = seg.Profile.PlatformHint, domain.LabelSourceProfileHint
	}
	d := r.Route(label)
	d.LabelSource = source
	return d
}
