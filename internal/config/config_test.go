package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docroute/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 60, cfg.Analysis.MaxPages)
	assert.Equal(t, []string{"0105563022918", "0105561071873", "0105565027615"}, cfg.Analysis.ClientTaxIDs)
	assert.Equal(t, "META,GOOGLE", cfg.Routing.RuleBased)
	assert.True(t, cfg.Routing.UseProfileHint)
	assert.Equal(t, 100, cfg.PDF.MinBytes)
	assert.Empty(t, cfg.Rules.Path)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DOCROUTE_ANALYSIS_MAX_PAGES", "12")
	t.Setenv("DOCROUTE_ANALYSIS_CLIENT_TAX_IDS", " 1111111111111 ,, 2222222222222")
	t.Setenv("DOCROUTE_ROUTING_USE_PROFILE_HINT", "false")
	t.Setenv("DOCROUTE_RULES_PATH", "/etc/docroute/rules.yaml")
	t.Setenv("DOCROUTE_LOG_FORMAT", "text")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Analysis.MaxPages)
	assert.Equal(t, []string{"1111111111111", "2222222222222"}, cfg.Analysis.ClientTaxIDs)
	assert.False(t, cfg.Routing.UseProfileHint)
	assert.Equal(t, "/etc/docroute/rules.yaml", cfg.Rules.Path)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DOCROUTE_SERVER_PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}
