package routing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docroute/internal/domain"
	"docroute/internal/routing"
)

func TestRoute(t *testing.T) {
	r := routing.NewRouter(routing.NewRegistry(domain.PlatformMeta, domain.PlatformGoogle), true)

	for _, p := range domain.Platforms {
		t.Run(string(p), func(t *testing.T) {
			d := r.Route(p)
			assert.Equal(t, p, d.Label)
			assert.Equal(t, domain.RouteNameFor(p), d.Route)
			assert.Equal(t, domain.LabelSourceClassifier, d.LabelSource)
			if p == domain.PlatformMeta || p == domain.PlatformGoogle {
				assert.Equal(t, domain.RouteRuleBased, d.Target)
			} else {
				assert.Equal(t, domain.RouteAIFallback, d.Target)
			}
		})
	}
}

func TestRoute_InvalidLabel(t *testing.T) {
	r := routing.NewRouter(nil, false)
	d := r.Route(domain.Platform("AMAZON"))
	assert.Equal(t, domain.PlatformUnknown, d.Label)
	assert.Equal(t, domain.RouteAIFallback, d.Target)
	assert.Equal(t, domain.RouteNameGeneric, d.Route)
}

func TestRouteSegment(t *testing.T) {
	seg := &domain.Segment{Profile: domain.SegmentProfile{PlatformHint: domain.PlatformMeta}}
	unknown := domain.ClassificationResult{Label: domain.PlatformUnknown}
	reg := routing.NewRegistry(domain.PlatformMeta)

	t.Run("classifier label wins", func(t *testing.T) {
		d := routing.NewRouter(reg, true).RouteSegment(seg, domain.ClassificationResult{Label: domain.PlatformShopee})
		assert.Equal(t, domain.PlatformShopee, d.Label)
		assert.Equal(t, domain.RouteAIFallback, d.Target)
		assert.Equal(t, domain.RouteNameMarketplace, d.Route)
		assert.Equal(t, domain.LabelSourceClassifier, d.LabelSource)
	})

	t.Run("unknown falls back to profile hint", func(t *testing.T) {
		d := routing.NewRouter(reg, true).RouteSegment(seg, unknown)
		assert.Equal(t, domain.PlatformMeta, d.Label)
		assert.Equal(t, domain.RouteRuleBased, d.Target)
		assert.Equal(t, domain.LabelSourceProfileHint, d.LabelSource)
	})

	t.Run("fallback disabled", func(t *testing.T) {
		d := routing.NewRouter(reg, false).RouteSegment(seg, unknown)
		assert.Equal(t, domain.PlatformUnknown, d.Label)
		assert.Equal(t, domain.RouteAIFallback, d.Target)
	})

	t.Run("unknown hint stays unknown", func(t *testing.T) {
		d := routing.NewRouter(reg, true).RouteSegment(&domain.Segment{Profile: domain.SegmentProfile{PlatformHint: domain.PlatformUnknown}}, unknown)
		assert.Equal(t, domain.PlatformUnknown, d.Label)
		assert.Equal(t, domain.LabelSourceClassifier, d.LabelSource)
	})
}

func TestParseRegistry(t *testing.T) {
	reg, err := routing.ParseRegistry(" google, facebook ,,SPX")
	require.NoError(t, err)
	assert.Equal(t, []domain.Platform{domain.PlatformMeta, domain.PlatformGoogle, domain.PlatformSPX}, reg.Platforms())
	assert.False(t, reg.Has(domain.PlatformShopee))

	_, err = routing.ParseRegistry("META,AMAZON")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	reg, err = routing.ParseRegistry("")
	require.NoError(t, err)
	assert.Empty(t, reg.Platforms())
}

func TestRegistry_IgnoresUnknown(t *testing.T) {
	reg := routing.NewRegistry(domain.PlatformUnknown)
	assert.False(t, reg.Has(domain.PlatformUnknown))
}
