// Package segment partitions an ordered run of page profiles into contiguous segments.
package segment

import (
	"fmt"
	"strings"

	"docroute/internal/domain"
	"docroute/internal/rules"
	"docroute/internal/textnorm"
)

// PageSeparator joins page texts inside a segment.
const PageSeparator = "\n\n"

// Builder runs the break rules over adjacent page pairs.
// It holds only configuration and is safe for concurrent use.
type Builder struct {
	breaks      []BreakRule
	blankLen    int
	maxSegments int
}

// NewBuilder creates a Builder with the default break rules of rs.
func NewBuilder(rs *rules.RuleSet) *Builder {
	return NewBuilderWithRules(rs.Segment, DefaultBreakRules(rs.Segment))
}

// NewBuilderWithRules creates a Builder with an explicit break rule list, checked in order.
func NewBuilderWithRules(sr rules.SegmentRules, breaks []BreakRule) *Builder {
	return &Builder{
		breaks:      breaks,
		blankLen:    sr.BlankPageLen,
		maxSegments: sr.MaxSegments,
	}
}

// Build partitions pages into segments. texts[i] is the raw text of profiles[i]; a missing
// text is treated as empty. Zero pages yield zero segments.
func (b *Builder) Build(profiles []domain.PageProfile, texts []string) (segments []domain.Segment) {
	if len(profiles) == 0 {
		return []domain.Segment{}
	}
	defer func() {
		if r := recover(); r != nil {
			segments = []domain.Segment{fallbackSegment(profiles, texts, r)}
		}
	}()

	pages := make([]Page, len(profiles))
	for i := range profiles {
		pages[i] = Page{Profile: profiles[i], Text: textAt(texts, i)}
	}

	segments = make([]domain.Segment, 0, 4)
	start := 0
	openReason := ""
	for i := 1; i < len(pages); i++ {
		reason, brk := b.shouldBreak(&pages[i-1], &pages[i])
		if !brk {
			continue
		}
		segments = append(segments, Merge(len(segments), pages[start:i], openReason))
		start = i
		openReason = reason
		// maxSegments bounds closed segments; the rest of the pages form the trailing one.
		if b.maxSegments > 0 && len(segments) >= b.maxSegments {
			break
		}
	}
	segments = append(segments, Merge(len(segments), pages[start:], openReason))
	return segments
}

func (b *Builder) shouldBreak(prev, cur *Page) (string, bool) {
	if cur.Profile.TextLength <= b.blankLen && prev.Profile.TextLength > b.blankLen {
		return "", false
	}
	for _, rule := range b.breaks {
		if reason, ok := rule.Check(prev, cur); ok {
			return reason, true
		}
	}
	return "", false
}

// Merge builds one segment from a contiguous run of pages. splitReason, when set, is the
// reason the previous segment was closed.
func Merge(index int, pages []Page, splitReason string) domain.Segment {
	profiles := make([]domain.PageProfile, len(pages))
	indices := make([]int, len(pages))
	texts := make([]string, len(pages))
	for i := range pages {
		profiles[i] = pages[i].Profile
		indices[i] = pages[i].Profile.PageIndex
		texts[i] = pages[i].Text
	}
	merged := strings.Join(texts, PageSeparator)

	platform, platformCounts := VotePlatform(profiles)
	kind, kindCounts := VoteDocKind(profiles)

	sp := domain.SegmentProfile{
		SegmentIndex:     index,
		PageIndices:      indices,
		MergedTextLength: textnorm.Length(strings.TrimSpace(merged)),
		PlatformHint:     platform,
		DocKind:          kind,
		Reasons: []string{
			fmt.Sprintf("platform=%s counts=%s", platform, FormatCounts(platformCounts)),
			fmt.Sprintf("doc_kind=%s counts=%s", kind, FormatCounts(kindCounts)),
		},
	}
	for i := range profiles {
		p := &profiles[i]
		sp.TaxID = firstNonEmpty(sp.TaxID, p.TaxID)
		sp.SellerID = firstNonEmpty(sp.SellerID, p.SellerID)
		sp.TransactionID = firstNonEmpty(sp.TransactionID, p.TransactionID)
		sp.InvoiceNo = firstNonEmpty(sp.InvoiceNo, p.InvoiceNo)
	}
	if splitReason != "" {
		sp.Reasons = append(sp.Reasons, "split_reason="+splitReason)
	}

	return domain.Segment{
		Profile:     sp,
		MergedText:  merged,
		PageIndices: append([]int(nil), indices...),
	}
}

func fallbackSegment(profiles []domain.PageProfile, texts []string, cause any) domain.Segment {
	indices := make([]int, len(profiles))
	parts := make([]string, len(profiles))
	for i := range profiles {
		indices[i] = profiles[i].PageIndex
		parts[i] = textAt(texts, i)
	}
	merged := strings.Join(parts, PageSeparator)
	return domain.Segment{
		Profile: domain.SegmentProfile{
			PageIndices:      indices,
			MergedTextLength: textnorm.Length(strings.TrimSpace(merged)),
			PlatformHint:     domain.PlatformUnknown,
			DocKind:          domain.DocKindGeneric,
			Reasons:          []string{fmt.Sprintf("error: %v", cause)},
		},
		MergedText:  merged,
		PageIndices: append([]int(nil), indices...),
	}
}

func textAt(texts []string, i int) string {
	if i < len(texts) {
		return texts[i]
	}
	return ""
}

func firstNonEmpty(have, candidate string) string {
	if have != "" {
		return have
	}
	return candidate
}
