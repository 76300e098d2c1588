package report

import (
	"encoding/csv"
	"io"

	"docroute/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter wraps csv.Writer for exporting routed segments.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the segment header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(segmentColumns)
}

// WritePlan writes one row per routed segment of plan.
func (w *CSVWriter) WritePlan(plan *domain.RoutingPlan) error {
	for _, row := range segmentRows(plan) {
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}
