// Package pdftext extracts per-page plain text from PDF bytes.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/ledongthuc/pdf"

	"docroute/internal/domain"
)

// DefaultMinBytes is the smallest payload accepted as a PDF.
const DefaultMinBytes = 100

var pdfMagic = []byte("%PDF")

// Source reads page texts with ledongthuc/pdf.
type Source struct {
	minBytes int
	logger   *slog.Logger
}

// New creates a Source. minBytes <= 0 selects DefaultMinBytes; a nil logger selects the default.
func New(minBytes int, logger *slog.Logger) *Source {
	if minBytes <= 0 {
		minBytes = DefaultMinBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{minBytes: minBytes, logger: logger}
}

// Validate checks that data looks like a PDF before any parsing is attempted.
func (s *Source) Validate(data []byte) error {
	switch {
	case len(data) == 0:
		return domain.ErrEmptyPDF
	case len(data) < s.minBytes:
		return fmt.Errorf("%w: %d bytes", domain.ErrPDFTooSmall, len(data))
	case !bytes.HasPrefix(data, pdfMagic):
		return domain.ErrNotPDF
	}
	return nil
}

// PageTexts returns up to maxPages page texts in order. A page that fails to read keeps an
// empty placeholder so page indices stay aligned with the document. maxPages <= 0 reads all.
func (s *Source) PageTexts(ctx context.Context, data []byte, maxPages int) ([]string, error) {
	if err := s.Validate(data); err != nil {
		return nil, err
	}

	r, err := openReader(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPDFExtractionFailed, err)
	}

	total := r.NumPage()
	n := total
	if maxPages > 0 && n > maxPages {
		s.logger.Info("pdf.page_limit", "pages", total, "max_pages", maxPages)
		n = maxPages
	}

	texts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := pageText(r, i)
		if err != nil {
			s.logger.Warn("pdf.page_failed", "page", i-1, "error", err)
			text = ""
		}
		s.logger.Debug("pdf.page_extracted", "page", i-1, "chars", len(text))
		texts = append(texts, text)
	}
	return texts, nil
}

// openReader guards against malformed cross-reference tables that make the parser panic.
func openReader(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, fmt.Errorf("parse: %v", rec)
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

func pageText(r *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("page %d: %v", num, rec)
		}
	}()
	p := r.Page(num)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}
