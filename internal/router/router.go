package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"docroute/internal/handler"
	"docroute/internal/middleware"
	"docroute/internal/observability/metrics"
)

// Setup configures the Gin engine with all routes and middleware. m may be nil to disable
// the /metrics endpoint and request instrumentation.
func Setup(
	analysisH *handler.AnalysisHandler,
	healthH *handler.HealthHandler,
	m *metrics.Metrics,
	allowedOrigins []string,
	logger *slog.Logger,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))
	if m != nil {
		r.Use(middleware.Metrics(m))
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	v1.POST("/analyze", analysisH.Analyze)
	v1.POST("/analyze/pdf", analysisH.AnalyzePDF)
	v1.POST("/classify", analysisH.Classify)
	v1.POST("/plan", analysisH.Plan)
	v1.POST("/plan/pdf", analysisH.PlanPDF)
	v1.POST("/export", analysisH.Export)

	return r
}
