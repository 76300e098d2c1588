package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docroute/internal/domain"
	"docroute/internal/report"
	"docroute/internal/service"
)

// AnalyzeRequest is the JSON body for analyze and plan.
type AnalyzeRequest struct {
	Filename string   `json:"filename"`
	Pages    []string `json:"pages"`
}

// ClassifyRequest is the JSON body for classify.
type ClassifyRequest struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
}

// ExportRequest is the JSON body for export.
type ExportRequest struct {
	Documents []AnalyzeRequest `json:"documents" binding:"required,min=1"`
}

// AnalysisHandler serves the analysis API.
type AnalysisHandler struct {
	svc         service.AnalysisService
	maxUploadMB int64
}

// NewAnalysisHandler creates a new AnalysisHandler. maxUploadMB bounds PDF uploads.
func NewAnalysisHandler(svc service.AnalysisService, maxUploadMB int64) *AnalysisHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 25
	}
	return &AnalysisHandler{svc: svc, maxUploadMB: maxUploadMB}
}

// Analyze handles POST /api/v1/analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	a, err := h.svc.Analyze(c.Request.Context(), toInput(&req))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, a)
}

// AnalyzePDF handles POST /api/v1/analyze/pdf (multipart field "file").
func (h *AnalysisHandler) AnalyzePDF(c *gin.Context) {
	filename, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	a, err := h.svc.AnalyzePDF(c.Request.Context(), filename, data)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, a)
}

// Classify handles POST /api/v1/classify
func (h *AnalysisHandler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	res, err := h.svc.Classify(c.Request.Context(), req.Text, req.Filename)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}

// Plan handles POST /api/v1/plan
func (h *AnalysisHandler) Plan(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	plan, err := h.svc.Plan(c.Request.Context(), toInput(&req))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, plan)
}

// PlanPDF handles POST /api/v1/plan/pdf (multipart field "file").
func (h *AnalysisHandler) PlanPDF(c *gin.Context) {
	filename, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	plan, err := h.svc.PlanPDF(c.Request.Context(), filename, data)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, plan)
}

// Export handles POST /api/v1/export?format=csv|xlsx
func (h *AnalysisHandler) Export(c *gin.Context) {
	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	ctx := c.Request.Context()
	plans := make([]*domain.RoutingPlan, 0, len(req.Documents))
	for i := range req.Documents {
		plan, err := h.svc.Plan(ctx, toInput(&req.Documents[i]))
		if err != nil {
			HandleError(c, err)
			return
		}
		plans = append(plans, plan)
	}

	// Render into a buffer so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := h.svc.Export(ctx, &buf, format, plans); err != nil {
		HandleError(c, err)
		return
	}

	name := report.BuildFilename(req.Documents[0].Filename, format, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, domain.ExportContentTypes[format], buf.Bytes())
}

func (h *AnalysisHandler) readUpload(c *gin.Context) (filename string, data []byte, ok bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadMB<<20)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return "", nil, false
	}
	defer func() { _ = file.Close() }()

	data, err = io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size")
		return "", nil, false
	}
	return header.Filename, data, true
}

func toInput(req *AnalyzeRequest) *service.AnalyzeInput {
	return &service.AnalyzeInput{Filename: req.Filename, Pages: req.Pages}
}
