package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"docroute/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "INVALID_REQUEST", "invalid request"
	case errors.Is(err, domain.ErrEmptyInput):
		return http.StatusBadRequest, "EMPTY_INPUT", "no pages to analyze"
	case errors.Is(err, domain.ErrEmptyPDF):
		return http.StatusBadRequest, "EMPTY_PDF", "uploaded file is empty"
	case errors.Is(err, domain.ErrPDFTooSmall):
		return http.StatusBadRequest, "PDF_TOO_SMALL", "uploaded file is too small to be a PDF"
	case errors.Is(err, domain.ErrNotPDF):
		return http.StatusBadRequest, "NOT_PDF", "uploaded file is not a PDF"
	case errors.Is(err, domain.ErrPDFExtractionFailed):
		return http.StatusUnprocessableEntity, "PDF_EXTRACTION_FAILED", "PDF text extraction failed"
	case errors.Is(err, domain.ErrNoTextExtracted):
		return http.StatusUnprocessableEntity, "NO_TEXT_EXTRACTED", "no text extracted (scanned or empty PDF)"
	case errors.Is(err, domain.ErrUnsupportedExportFormat):
		return http.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported export format; allowed: csv, xlsx"
	case errors.Is(err, domain.ErrPageSourceUnavailable):
		return http.StatusServiceUnavailable, "PDF_UNAVAILABLE", "PDF extraction is not configured"
	case errors.Is(err, domain.ErrInvalidRuleSet):
		return http.StatusInternalServerError, "INVALID_RULE_SET", "rule set is invalid"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		slog.Error("http.internal_error", "request_id", requestID, "error", err)
	}
	RespondError(c, status, code, msg)
}
