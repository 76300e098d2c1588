// Package report renders routing plans as CSV or XLSX for accounting review.
package report

import (
	"strconv"
	"strings"

	"docroute/internal/domain"
)

// segmentColumns defines the segment table header row.
var segmentColumns = []string{
	"Analysis ID",
	"Filename",
	"Segment",
	"Pages",
	"Platform Hint",
	"Doc Kind",
	"Tax ID",
	"Seller ID",
	"Transaction ID",
	"Invoice No",
	"Label",
	"Label Source",
	"Fast Path",
	"Target",
	"Route",
	"Vendor",
	"VAT Rate",
	"Expense Group",
	"Text Length",
	"Reasons",
}

// pageColumns defines the page table header row.
var pageColumns = []string{
	"Analysis ID",
	"Filename",
	"Page",
	"Platform Hint",
	"Doc Kind",
	"Tax ID",
	"Seller ID",
	"Transaction ID",
	"Invoice No",
	"Page X",
	"Page Y",
	"Text Length",
	"Keywords",
}

// SegmentColumns returns a copy of the segment header row.
func SegmentColumns() []string {
	return append([]string(nil), segmentColumns...)
}

// PageColumns returns a copy of the page header row.
func PageColumns() []string {
	return append([]string(nil), pageColumns...)
}

// segmentRows flattens a plan into one row per segment. Failed analyses yield a single
// row carrying the error in the Reasons column so nothing disappears from the report.
func segmentRows(plan *domain.RoutingPlan) [][]string {
	if plan == nil || plan.Analysis == nil {
		return nil
	}
	a := plan.Analysis
	if a.Failed() {
		row := make([]string, len(segmentColumns))
		row[0] = a.ID.String()
		row[1] = a.Filename
		row[19] = "error: " + a.Error
		return [][]string{row}
	}

	rows := make([][]string, 0, len(plan.Segments))
	for i := range plan.Segments {
		rs := &plan.Segments[i]
		var sp domain.SegmentProfile
		if rs.SegmentIndex < len(a.Segments) {
			sp = a.Segments[rs.SegmentIndex].Profile
		}
		info := rs.Decision.Label.Info()

		row := make([]string, len(segmentColumns))
		row[0] = a.ID.String()
		row[1] = a.Filename
		row[2] = strconv.Itoa(rs.SegmentIndex)
		row[3] = formatPages(rs.PageIndices)
		row[4] = string(sp.PlatformHint)
		row[5] = string(sp.DocKind)
		row[6] = sp.TaxID
		row[7] = sp.SellerID
		row[8] = sp.TransactionID
		row[9] = sp.InvoiceNo
		row[10] = string(rs.Decision.Label)
		row[11] = string(rs.Decision.LabelSource)
		row[12] = rs.Classification.FastPath
		row[13] = string(rs.Decision.Target)
		row[14] = string(rs.Decision.Route)
		row[15] = info.Vendor
		row[16] = info.VATRate
		row[17] = info.Group
		row[18] = strconv.Itoa(sp.MergedTextLength)
		row[19] = strings.Join(sp.Reasons, "; ")
		rows = append(rows, row)
	}
	return rows
}

func pageRows(a *domain.Analysis) [][]string {
	if a == nil {
		return nil
	}
	rows := make([][]string, 0, len(a.Pages))
	for i := range a.Pages {
		p := &a.Pages[i]
		rows = append(rows, []string{
			a.ID.String(),
			a.Filename,
			strconv.Itoa(p.PageIndex),
			string(p.PlatformHint),
			string(p.DocKind),
			p.TaxID,
			p.SellerID,
			p.TransactionID,
			p.InvoiceNo,
			formatOptional(p.PageNumberInDoc),
			formatOptional(p.PageCountInDoc),
			strconv.Itoa(p.TextLength),
			strings.Join(p.Keywords, ", "),
		})
	}
	return rows
}

// formatPages renders page indices 1-based as a compact range list, e.g. "1-3, 5".
func formatPages(indices []int) string {
	if len(indices) == 0 {
		return ""
	}
	var parts []string
	start, prev := indices[0], indices[0]
	flush := func() {
		if start == prev {
			parts = append(parts, strconv.Itoa(start+1))
		} else {
			parts = append(parts, strconv.Itoa(start+1)+"-"+strconv.Itoa(prev+1))
		}
	}
	for _, idx := range indices[1:] {
		if idx == prev+1 {
			prev = idx
			continue
		}
		flush()
		start, prev = idx, idx
	}
	flush()
	return strings.Join(parts, ", ")
}

func formatOptional(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
