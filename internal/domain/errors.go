package domain

import "errors"

var (
	ErrEmptyInput              = errors.New("no pages to analyze")
	ErrEmptyPDF                = errors.New("empty PDF bytes")
	ErrPDFTooSmall             = errors.New("PDF too small")
	ErrNotPDF                  = errors.New("not a valid PDF file (missing %PDF header)")
	ErrPageSourceUnavailable   = errors.New("PDF page source not configured")
	ErrPDFExtractionFailed     = errors.New("PDF text extraction failed")
	ErrNoTextExtracted         = errors.New("no text extracted (scanned or empty PDF)")
	ErrInvalidRuleSet          = errors.New("invalid rule set")
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
	ErrInvalidRequest          = errors.New("invalid request")
)
