package report

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"docroute/internal/domain"
)

// ParseFormat validates a format query value. An empty value selects CSV.
func ParseFormat(s string) (domain.ExportFormat, error) {
	switch f := domain.ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return domain.ExportFormatCSV, nil
	case domain.ExportFormatCSV, domain.ExportFormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedExportFormat, s)
	}
}

// Write renders plans in format to w.
func Write(w io.Writer, format domain.ExportFormat, plans []*domain.RoutingPlan) error {
	switch format {
	case domain.ExportFormatCSV:
		return writeCSV(w, plans)
	case domain.ExportFormatXLSX:
		return WriteXLSX(w, plans)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedExportFormat, format)
	}
}

func writeCSV(w io.Writer, plans []*domain.RoutingPlan) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := NewCSVWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	for _, plan := range plans {
		if err := cw.WritePlan(plan); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a document name for use in Content-Disposition.
func SanitizeFilename(name string) string {
	name = strings.TrimSuffix(name, ".pdf")
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "routing"
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.{format}.
func BuildFilename(name string, format domain.ExportFormat, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), now.Format("2006-01-02"), format)
}
