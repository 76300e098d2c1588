package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"docroute/internal/analyzer"
	"docroute/internal/domain"
	"docroute/internal/observability/metrics"
	"docroute/internal/port"
	"docroute/internal/report"
)

// AnalyzeInput is the DTO for analyzing pre-extracted page texts.
type AnalyzeInput struct {
	Filename string
	Pages    []string
}

// AnalysisService segments, classifies, routes and exports documents.
type AnalysisService interface {
	Analyze(ctx context.Context, input *AnalyzeInput) (*domain.Analysis, error)
	AnalyzePDF(ctx context.Context, filename string, data []byte) (*domain.Analysis, error)
	Classify(ctx context.Context, text, filename string) (domain.ClassificationResult, error)
	Plan(ctx context.Context, input *AnalyzeInput) (*domain.RoutingPlan, error)
	PlanPDF(ctx context.Context, filename string, data []byte) (*domain.RoutingPlan, error)
	Export(ctx context.Context, w io.Writer, format domain.ExportFormat, plans []*domain.RoutingPlan) error
}

type analysisService struct {
	analyzer *analyzer.Analyzer
	pages    port.PageSource
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewAnalysisService creates an AnalysisService. pages and m may be nil; without a page
// source AnalyzePDF fails with domain.ErrPageSourceUnavailable.
func NewAnalysisService(an *analyzer.Analyzer, pages port.PageSource, m *metrics.Metrics, logger *slog.Logger) AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &analysisService{analyzer: an, pages: pages, metrics: m, logger: logger}
}

func (s *analysisService) Analyze(ctx context.Context, input *AnalyzeInput) (*domain.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, fmt.Errorf("analyze: %w", domain.ErrInvalidRequest)
	}
	start := time.Now()
	a := s.analyze(input.Pages, input.Filename)
	s.recordAnalysis("pages", a, time.Since(start))
	return a, nil
}

// AnalyzePDF extracts page texts from data and analyzes them. When the bytes are not a
// readable PDF it returns the failed Analysis (Error set, no pages) together with the
// wrapped domain error, so callers can report either.
func (s *analysisService) AnalyzePDF(ctx context.Context, filename string, data []byte) (*domain.Analysis, error) {
	if s.pages == nil {
		return nil, domain.ErrPageSourceUnavailable
	}
	start := time.Now()

	// One page past the cap lets the analyzer mark the result as truncated.
	texts, err := s.pages.PageTexts(ctx, data, s.analyzer.MaxPages()+1)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		a := failedAnalysis(filename, err)
		s.logger.Warn("analysis.pdf_failed", "analysis_id", a.ID, "filename", filename, "error", err)
		s.recordAnalysis("pdf", a, time.Since(start))
		return a, fmt.Errorf("analyzing %s: %w", filename, err)
	}
	if len(texts) == 0 {
		a := failedAnalysis(filename, domain.ErrNoTextExtracted)
		s.logger.Warn("analysis.no_text", "analysis_id", a.ID, "filename", filename)
		s.recordAnalysis("pdf", a, time.Since(start))
		return a, fmt.Errorf("analyzing %s: %w", filename, domain.ErrNoTextExtracted)
	}

	a := s.analyze(texts, filename)
	s.recordAnalysis("pdf", a, time.Since(start))
	return a, nil
}

func (s *analysisService) Classify(ctx context.Context, text, filename string) (domain.ClassificationResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ClassificationResult{}, err
	}
	res := s.analyzer.Classify(text, filename)
	if s.metrics != nil {
		s.metrics.RecordClassification(res)
	}
	return res, nil
}

func (s *analysisService) Plan(ctx context.Context, input *AnalyzeInput) (*domain.RoutingPlan, error) {
	a, err := s.Analyze(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.plan(a), nil
}

func (s *analysisService) PlanPDF(ctx context.Context, filename string, data []byte) (*domain.RoutingPlan, error) {
	a, err := s.AnalyzePDF(ctx, filename, data)
	if a == nil {
		return nil, err
	}
	return s.plan(a), err
}

func (s *analysisService) Export(ctx context.Context, w io.Writer, format domain.ExportFormat, plans []*domain.RoutingPlan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := report.Write(w, format, plans); err != nil {
		if errors.Is(err, domain.ErrUnsupportedExportFormat) {
			return err
		}
		return fmt.Errorf("writing %s report: %w", format, err)
	}
	s.logger.Info("export.complete", "format", format, "documents", len(plans))
	return nil
}

// analyze runs the pipeline and stamps the result with a fresh analysis id.
func (s *analysisService) analyze(pages []string, filename string) *domain.Analysis {
	a := s.analyzer.Analyze(pages, filename)
	a.ID = uuid.New()
	s.logger.Debug("analysis.assigned", "analysis_id", a.ID, "filename", filename, "segments", len(a.Segments))
	return a
}

func (s *analysisService) plan(a *domain.Analysis) *domain.RoutingPlan {
	p := s.analyzer.Plan(a)
	if s.metrics != nil {
		for i := range p.Segments {
			s.metrics.RecordClassification(p.Segments[i].Classification)
			s.metrics.RecordRoute(p.Segments[i].Decision)
		}
	}
	return p
}

func (s *analysisService) recordAnalysis(source string, a *domain.Analysis, d time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordAnalysis(source, a, d)
	}
}

func failedAnalysis(filename string, err error) *domain.Analysis {
	return &domain.Analysis{
		ID:       uuid.New(),
		Filename: filename,
		Pages:    []domain.PageProfile{},
		Segments: []domain.Segment{},
		Error:    err.Error(),
	}
}
