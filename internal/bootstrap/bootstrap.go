// Package bootstrap assembles the analysis stack from configuration for the server and the CLI.
package bootstrap

import (
	"fmt"
	"log/slog"

	"docroute/internal/analyzer"
	"docroute/internal/config"
	"docroute/internal/observability/metrics"
	"docroute/internal/pdftext"
	"docroute/internal/routing"
	"docroute/internal/rules"
	"docroute/internal/service"
)

// App holds the wired components.
type App struct {
	Config   *config.Config
	Rules    *rules.RuleSet
	Analyzer *analyzer.Analyzer
	Metrics  *metrics.Metrics
	Service  service.AnalysisService
}

// New loads the rule set, builds the analyzer and wraps it in the analysis service.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	rs, err := rules.Load(cfg.Rules.Path)
	if err != nil {
		return nil, fmt.Errorf("load rule set: %w", err)
	}

	registry, err := routing.ParseRegistry(cfg.Routing.RuleBased)
	if err != nil {
		return nil, fmt.Errorf("parse routing registry: %w", err)
	}

	an, err := analyzer.New(analyzer.Options{
		Rules:          rs,
		ClientTaxIDs:   cfg.Analysis.ClientTaxIDs,
		MaxPages:       cfg.Analysis.MaxPages,
		Registry:       registry,
		UseProfileHint: cfg.Routing.UseProfileHint,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build analyzer: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace, cfg.Metrics.Service)
	}

	svc := service.NewAnalysisService(an, pdftext.New(cfg.PDF.MinBytes, logger), m, logger)

	logger.Info("bootstrap.ready",
		"rules_version", rs.Version,
		"rules_path", cfg.Rules.Path,
		"rule_based", registry.Platforms(),
		"max_pages", an.MaxPages(),
		"metrics", m != nil,
	)

	return &App{
		Config:   cfg,
		Rules:    rs,
		Analyzer: an,
		Metrics:  m,
		Service:  svc,
	}, nil
}
