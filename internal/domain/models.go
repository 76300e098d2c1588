package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// PageProfile is the signal fingerprint of a single input page.
type PageProfile struct {
	PageIndex       int      `json:"page_index"`
	TextLength      int      `json:"text_length"`
	PlatformHint    Platform `json:"platform_hint"`
	DocKind         DocKind  `json:"doc_kind"`
	TaxID           string   `json:"tax_id"`
	SellerID        string   `json:"seller_id"`
	TransactionID   string   `json:"transaction_id"`
	InvoiceNo       string   `json:"invoice_no"`
	PageNumberInDoc int      `json:"page_number_in_doc"`
	PageCountInDoc  int      `json:"page_count_in_doc"`
	Keywords        []string `json:"keywords"`
}

// MinimalPageProfile returns the UNKNOWN/GENERIC profile used when a page cannot be profiled.
func MinimalPageProfile(pageIndex, textLength int) PageProfile {
	return PageProfile{
		PageIndex:    pageIndex,
		TextLength:   textLength,
		PlatformHint: PlatformUnknown,
		DocKind:      DocKindGeneric,
		Keywords:     []string{},
	}
}

// SegmentProfile summarises a contiguous run of pages judged to be one document.
type SegmentProfile struct {
	SegmentIndex     int      `json:"segment_index"`
	PageIndices      []int    `json:"page_indices"`
	MergedTextLength int      `json:"merged_text_length"`
	PlatformHint     Platform `json:"platform_hint"`
	DocKind          DocKind  `json:"doc_kind"`
	TaxID            string   `json:"tax_id"`
	SellerID         string   `json:"seller_id"`
	TransactionID    string   `json:"transaction_id"`
	InvoiceNo        string   `json:"invoice_no"`
	Reasons          []string `json:"reasons"`
}

// Segment wraps a SegmentProfile with the merged page text.
type Segment struct {
	Profile     SegmentProfile `json:"profile"`
	MergedText  string         `json:"merged_text"`
	PageIndices []int          `json:"page_indices"`
}

// Analysis is the full result of segmenting one document.
// Error is set only when analysis could not begin; Pages and Segments are then empty.
type Analysis struct {
	ID            uuid.UUID     `json:"id"`
	Filename      string        `json:"filename"`
	TotalPages    int           `json:"total_pages"`
	Pages         []PageProfile `json:"pages"`
	Segments      []Segment     `json:"segments"`
	Error         string        `json:"error,omitempty"`
	Truncated     bool          `json:"truncated,omitempty"`
	DegradedPages []int         `json:"degraded_pages,omitempty"`
}

// Failed reports whether the analysis could not begin.
func (a *Analysis) Failed() bool {
	return a.Error != ""
}

// Summary returns a one-line description such as "3 pages, 2 segments (META, SHOPEE)".
func (a *Analysis) Summary() string {
	if a == nil || len(a.Segments) == 0 {
		return "No analysis available"
	}
	seen := make(map[string]bool)
	var labels []string
	for i := range a.Segments {
		p := string(a.Segments[i].Profile.PlatformHint)
		if !seen[p] {
			seen[p] = true
			labels = append(labels, p)
		}
	}
	sort.Strings(labels)
	return fmt.Sprintf("%d pages, %d segments (%s)", a.TotalPages, len(a.Segments), strings.Join(labels, ", "))
}

// ClassificationResult is the classifier output for one segment.
type ClassificationResult struct {
	Label    Platform         `json:"label"`
	Scores   map[Platform]int `json:"scores"`
	FastPath string           `json:"fast_path,omitempty"`
	Degraded bool             `json:"degraded,omitempty"`
}

// RouteDecision is the router output for one segment.
type RouteDecision struct {
	Target      RouteTarget `json:"target"`
	Label       Platform    `json:"label"`
	Route       RouteName   `json:"route"`
	LabelSource LabelSource `json:"label_source"`
}

// RoutedSegment pairs a segment with its classification and routing decision.
type RoutedSegment struct {
	SegmentIndex   int                  `json:"segment_index"`
	PageIndices    []int                `json:"page_indices"`
	Classification ClassificationResult `json:"classification"`
	Decision       RouteDecision        `json:"decision"`
}

// RoutingPlan is an analysis plus one routing decision per segment.
type RoutingPlan struct {
	Analysis *Analysis       `json:"analysis"`
	Segments []RoutedSegment `json:"segments"`
}
