package bootstrap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docroute/internal/bootstrap"
	"docroute/internal/config"
	"docroute/internal/domain"
	"docroute/internal/observability/logging"
)

func baseConfig() *config.Config {
	return &config.Config{
		Analysis: config.AnalysisConfig{MaxPages: 10, ClientTaxIDs: []string{"0105563022918"}},
		Routing:  config.RoutingConfig{RuleBased: "META,GOOGLE", UseProfileHint: true},
		Metrics:  config.MetricsConfig{Enabled: true, Namespace: "test", Service: "boot"},
	}
}

func TestNew(t *testing.T) {
	app, err := bootstrap.New(baseConfig(), logging.Discard())
	require.NoError(t, err)

	assert.NotNil(t, app.Metrics)
	assert.Equal(t, 10, app.Analyzer.MaxPages())
	assert.Equal(t, domain.RouteRuleBased, app.Analyzer.Route(domain.PlatformGoogle).Target)

	res, err := app.Service.Classify(context.Background(), "Meta Platforms Ireland Limited receipt", "")
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformMeta, res.Label)
}

func TestNew_Errors(t *testing.T) {
	t.Run("missing rule file", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Rules.Path = "/nonexistent/rules.yaml"
		_, err := bootstrap.New(cfg, logging.Discard())
		assert.ErrorContains(t, err, "load rule set")
	})

	t.Run("bad registry", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Routing.RuleBased = "META,AMAZON"
		_, err := bootstrap.New(cfg, logging.Discard())
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("metrics disabled", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Metrics.Enabled = false
		app, err := bootstrap.New(cfg, logging.Discard())
		require.NoError(t, err)
		assert.Nil(t, app.Metrics)
	})
}
