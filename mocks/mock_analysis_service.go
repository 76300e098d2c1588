package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"docroute/internal/domain"
	"docroute/internal/service"
)

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, input *service.AnalyzeInput) (*domain.Analysis, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analysis), args.Error(1)
}

func (m *MockAnalysisService) AnalyzePDF(ctx context.Context, filename string, data []byte) (*domain.Analysis, error) {
	args := m.Called(ctx, filename, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analysis), args.Error(1)
}

func (m *MockAnalysisService) Classify(ctx context.Context, text, filename string) (domain.ClassificationResult, error) {
	args := m.Called(ctx, text, filename)
	return args.Get(0).(domain.ClassificationResult), args.Error(1)
}

func (m *MockAnalysisService) Plan(ctx context.Context, input *service.AnalyzeInput) (*domain.RoutingPlan, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RoutingPlan), args.Error(1)
}

func (m *MockAnalysisService) PlanPDF(ctx context.Context, filename string, data []byte) (*domain.RoutingPlan, error) {
	args := m.Called(ctx, filename, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RoutingPlan), args.Error(1)
}

func (m *MockAnalysisService) Export(ctx context.Context, w io.Writer, format domain.ExportFormat, plans []*domain.RoutingPlan) error {
	args := m.Called(ctx, w, format, plans)
	return args.Error(0)
}
