// Package analyzer wires the profiler, segment builder, classifier and router into one
// document analysis pipeline.
package analyzer

import (
	"fmt"
	"log/slog"

	"docroute/internal/classifier"
	"docroute/internal/domain"
	"docroute/internal/profile"
	"docroute/internal/routing"
	"docroute/internal/rules"
	"docroute/internal/segment"
	"docroute/internal/signal"
)

// DefaultMaxPages is the page cap used when Options.MaxPages is not set.
const DefaultMaxPages = 60

// Options configures an Analyzer.
type Options struct {
	Rules          *rules.RuleSet
	ClientTaxIDs   []string
	MaxPages       int
	Registry       *routing.Registry
	UseProfileHint bool
	Logger         *slog.Logger
}

// Analyzer runs the full pipeline. It holds only immutable configuration and is safe for
// concurrent use.
type Analyzer struct {
	profiler   *profile.Profiler
	builder    *segment.Builder
	classifier *classifier.Classifier
	router     *routing.Router
	maxPages   int
	logger     *slog.Logger
}

// New builds an Analyzer. A nil rule set selects the embedded default.
func New(opts Options) (*Analyzer, error) {
	rs := opts.Rules
	if rs == nil {
		rs = rules.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	ext, err := signal.NewExtractor(rs, opts.ClientTaxIDs)
	if err != nil {
		return nil, fmt.Errorf("building signal extractor: %w", err)
	}
	cls, err := classifier.New(rs, opts.ClientTaxIDs)
	if err != nil {
		return nil, fmt.Errorf("building classifier: %w", err)
	}

	return &Analyzer{
		profiler:   profile.New(rs, ext),
		builder:    segment.NewBuilder(rs),
		classifier: cls,
		router:     routing.NewRouter(opts.Registry, opts.UseProfileHint),
		maxPages:   maxPages,
		logger:     logger,
	}, nil
}

// MaxPages returns the configured page cap.
func (a *Analyzer) MaxPages() int {
	return a.maxPages
}

// Analyze profiles and segments the ordered page texts of one document. It never fails:
// an empty page list yields an Analysis with Error set and no pages or segments. The result
// depends only on pages and filename; ID is left for the caller to assign.
func (a *Analyzer) Analyze(pages []string, filename string) *domain.Analysis {
	out := &domain.Analysis{
		Filename: filename,
		Pages:    []domain.PageProfile{},
		Segments: []domain.Segment{},
	}
	if len(pages) == 0 {
		out.Error = domain.ErrEmptyInput.Error()
		a.logger.Warn("analysis.empty", "filename", filename)
		return out
	}
	if len(pages) > a.maxPages {
		a.logger.Warn("analysis.truncated", "filename", filename, "pages", len(pages), "max_pages", a.maxPages)
		pages = pages[:a.maxPages]
		out.Truncated = true
	}

	profiles := make([]domain.PageProfile, len(pages))
	for i, text := range pages {
		res := a.profiler.Profile(i, text, filename)
		if res.Fault != nil {
			out.DegradedPages = append(out.DegradedPages, i)
			a.logger.Warn("analysis.page_degraded", "filename", filename, "page", i, "error", res.Fault)
		}
		profiles[i] = res.Profile
	}

	out.Pages = profiles
	out.TotalPages = len(profiles)
	out.Segments = a.builder.Build(profiles, pages)

	a.logger.Info("analysis.complete",
		"filename", filename,
		"pages", out.TotalPages,
		"segments", len(out.Segments),
	)
	return out
}

// AnalyzeText analyzes text as a single-page document, producing at most one segment.
func (a *Analyzer) AnalyzeText(text, filename string) *domain.Analysis {
	return a.Analyze([]string{text}, filename)
}

// Classify labels a piece of text.
func (a *Analyzer) Classify(text, filename string) domain.ClassificationResult {
	res := a.classifier.Classify(text, filename)
	if res.Degraded {
		a.logger.Warn("classify.degraded", "filename", filename)
	}
	return res
}

// Route returns the routing decision for a label.
func (a *Analyzer) Route(label domain.Platform) domain.RouteDecision {
	return a.router.Route(label)
}

// Plan classifies and routes every segment of analysis.
func (a *Analyzer) Plan(analysis *domain.Analysis) *domain.RoutingPlan {
	plan := &domain.RoutingPlan{Analysis: analysis, Segments: []domain.RoutedSegment{}}
	if analysis == nil {
		return plan
	}
	for i := range analysis.Segments {
		seg := &analysis.Segments[i]
		res := a.Classify(seg.MergedText, analysis.Filename)
		decision := a.router.RouteSegment(seg, res)
		plan.Segments = append(plan.Segments, domain.RoutedSegment{
			SegmentIndex:   seg.Profile.SegmentIndex,
			PageIndices:    seg.PageIndices,
			Classification: res,
			Decision:       decision,
		})
		a.logger.Debug("plan.segment",
			"filename", analysis.Filename,
			"segment", seg.Profile.SegmentIndex,
			"label", decision.Label,
			"target", decision.Target,
			"label_source", decision.LabelSource,
		)
	}
	return plan
}

// PlanPages analyzes pages and plans the result.
func (a *Analyzer) PlanPages(pages []string, filename string) *domain.RoutingPlan {
	return a.Plan(a.Analyze(pages, filename))
}
