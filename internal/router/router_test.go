package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docroute/internal/analyzer"
	"docroute/internal/domain"
	"docroute/internal/handler"
	"docroute/internal/observability/logging"
	"docroute/internal/observability/metrics"
	"docroute/internal/pdftext"
	"docroute/internal/router"
	"docroute/internal/routing"
	"docroute/internal/service"
)

func newEngine(t *testing.T) (*gin.Engine, *metrics.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logging.Discard()

	an, err := analyzer.New(analyzer.Options{
		Registry:       routing.NewRegistry(domain.PlatformMeta, domain.PlatformGoogle),
		UseProfileHint: true,
		Logger:         logger,
	})
	require.NoError(t, err)

	m := metrics.New("test", "api")
	svc := service.NewAnalysisService(an, pdftext.New(0, logger), m, logger)
	health := handler.NewHealthHandler(map[string]handler.ReadinessCheck{
		"analyzer": func(context.Context) error { return nil },
	})
	return router.Setup(handler.NewAnalysisHandler(svc, 5), health, m, []string{"http://localhost:3000"}, logger), m
}

func post(t *testing.T, r http.Handler, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPlanEndToEnd(t *testing.T) {
	r, _ := newEngine(t)

	w := post(t, r, "/api/v1/plan", handler.AnalyzeRequest{
		Filename: "batch.pdf",
		Pages: []string{
			"Meta Platforms Ireland Limited\nReceipt for Ads\nTransaction ID: 123456789012-345678901234",
			"Shopee (Thailand) Co., Ltd.\nTax Invoice\nTIV-AB12345\nTotal 100.00",
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var resp struct {
		Success bool               `json:"success"`
		Data    domain.RoutingPlan `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data.Segments, 2)
	assert.Equal(t, domain.RouteRuleBased, resp.Data.Segments[0].Decision.Target)
	assert.Equal(t, domain.PlatformShopee, resp.Data.Segments[1].Decision.Label)
	assert.Equal(t, domain.RouteAIFallback, resp.Data.Segments[1].Decision.Target)
}

func TestAnalyzeEmptyPages(t *testing.T) {
	r, _ := newEngine(t)

	w := post(t, r, "/api/v1/analyze", handler.AnalyzeRequest{Filename: "none.pdf"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data domain.Analysis `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.ErrEmptyInput.Error(), resp.Data.Error)
	assert.Empty(t, resp.Data.Segments)
}

func TestAnalyzePDF_RejectsNonPDF(t *testing.T) {
	r, _ := newEngine(t)

	var body bytes.Buffer
	body.WriteString("--b\r\nContent-Disposition: form-data; name=\"file\"; filename=\"x.pdf\"\r\nContent-Type: application/pdf\r\n\r\n")
	body.Write(bytes.Repeat([]byte("not a pdf "), 20))
	body.WriteString("\r\n--b--\r\n")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/pdf", &body)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=b")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_PDF")
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := newEngine(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	post(t, r, "/api/v1/classify", handler.ClassifyRequest{Text: "Google Ads payment V1234567890123456"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `test_http_requests_total{method="POST",path="/api/v1/classify",service="api",status="200"} 1`)
	assert.Contains(t, w.Body.String(), "test_classifier_results_total")
}
