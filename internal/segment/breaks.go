package segment

import (
	"fmt"
	"regexp"
	"strings"

	"docroute/internal/domain"
	"docroute/internal/rules"
)

// Page is one page as seen by the break rules.
type Page struct {
	Profile domain.PageProfile
	Text    string
}

// BreakRule decides whether cur opens a new segment after prev.
type BreakRule interface {
	RuleKey() string
	Check(prev, cur *Page) (reason string, brk bool)
}

// DefaultBreakRules returns the break rules of sr in priority order. Optional rules are
// included only when enabled.
func DefaultBreakRules(sr rules.SegmentRules) []BreakRule {
	out := []BreakRule{
		docKindChange{floor: sr.NoiseFloor},
		platformChange{floor: sr.NoiseFloor},
		stableIDChange{floor: sr.NoiseFloor, fields: sr.StableIdentifiers},
		taxIDChange{},
		pageReset{floor: sr.NoiseFloor},
		sellerIDChange{floor: sr.NoiseFloor},
	}
	if sr.HeaderSignature.Enabled {
		out = append(out, headerChange{cfg: sr.HeaderSignature})
	}
	if sr.BoundaryMarkers.Enabled {
		out = append(out, boundaryMarker{cfg: sr.BoundaryMarkers, sig: sr.HeaderSignature, floor: sr.NoiseFloor})
	}
	return out
}

type docKindChange struct{ floor int }

func (docKindChange) RuleKey() string { return "doc_kind_change" }

func (r docKindChange) Check(prev, cur *Page) (string, bool) {
	a, b := prev.Profile.DocKind, cur.Profile.DocKind
	if a == b || a == domain.DocKindGeneric || b == domain.DocKindGeneric || cur.Profile.TextLength <= r.floor {
		return "", false
	}
	return fmt.Sprintf("doc_kind change: %s -> %s", a, b), true
}

type platformChange struct{ floor int }

func (platformChange) RuleKey() string { return "platform_change" }

func (r platformChange) Check(prev, cur *Page) (string, bool) {
	a, b := prev.Profile.PlatformHint, cur.Profile.PlatformHint
	if a == b || a == domain.PlatformUnknown || b == domain.PlatformUnknown || cur.Profile.TextLength <= r.floor {
		return "", false
	}
	return fmt.Sprintf("platform change: %s -> %s", a, b), true
}

type stableIDChange struct {
	floor  int
	fields map[string][]string
}

func (stableIDChange) RuleKey() string { return "stable_id_change" }

func (r stableIDChange) Check(prev, cur *Page) (string, bool) {
	platform := cur.Profile.PlatformHint
	if prev.Profile.PlatformHint != platform || cur.Profile.TextLength <= r.floor {
		return "", false
	}
	for _, field := range r.fields[string(platform)] {
		a, b := identifier(&prev.Profile, field), identifier(&cur.Profile, field)
		if a != "" && b != "" && a != b {
			return fmt.Sprintf("%s %s change: %s -> %s", strings.ToLower(string(platform)), field, a, b), true
		}
	}
	return "", false
}

func identifier(p *domain.PageProfile, field string) string {
	switch field {
	case rules.FieldTransactionID:
		return p.TransactionID
	case rules.FieldInvoiceNo:
		return p.InvoiceNo
	}
	return ""
}

type taxIDChange struct{}

func (taxIDChange) RuleKey() string { return "tax_id_change" }

func (taxIDChange) Check(prev, cur *Page) (string, bool) {
	a, b := prev.Profile.TaxID, cur.Profile.TaxID
	if a == "" || b == "" || a == b {
		return "", false
	}
	return fmt.Sprintf("tax_id change: %s -> %s", a, b), true
}

type pageReset struct{ floor int }

func (pageReset) RuleKey() string { return "page_reset" }

func (r pageReset) Check(prev, cur *Page) (string, bool) {
	a, b := prev.Profile.PageNumberInDoc, cur.Profile.PageNumberInDoc
	if a == 0 || b != 1 || a == 1 {
		return "", false
	}
	if prev.Profile.TextLength <= r.floor || cur.Profile.TextLength <= r.floor {
		return "", false
	}
	return fmt.Sprintf("page reset: prev page_x=%d, cur page_x=1", a), true
}

type sellerIDChange struct{ floor int }

func (sellerIDChange) RuleKey() string { return "seller_id_change" }

func (r sellerIDChange) Check(prev, cur *Page) (string, bool) {
	a, b := prev.Profile.SellerID, cur.Profile.SellerID
	if a == "" || b == "" || a == b || cur.Profile.TextLength <= r.floor {
		return "", false
	}
	return fmt.Sprintf("seller_id change: %s -> %s", a, b), true
}

type headerChange struct{ cfg rules.HeaderSignatureRule }

func (headerChange) RuleKey() string { return "header_change" }

func (r headerChange) Check(prev, cur *Page) (string, bool) {
	if !unknownish(&prev.Profile) || !unknownish(&cur.Profile) {
		return "", false
	}
	if prev.Profile.TextLength < r.cfg.MinTextLen || cur.Profile.TextLength < r.cfg.MinTextLen {
		return "", false
	}
	a := HeaderSignature(prev.Text, r.cfg.Lines, r.cfg.MaxTokens)
	b := HeaderSignature(cur.Text, r.cfg.Lines, r.cfg.MaxTokens)
	if len(a) == 0 || len(b) == 0 {
		return "", false
	}
	sim := Jaccard(a, b)
	if sim > r.cfg.MaxSimilarity {
		return "", false
	}
	return fmt.Sprintf("header change: similarity=%.2f", sim), true
}

func unknownish(p *domain.PageProfile) bool {
	return p.PlatformHint == domain.PlatformUnknown || p.DocKind == domain.DocKindGeneric
}

type boundaryMarker struct {
	cfg   rules.BoundaryMarkerRule
	sig   rules.HeaderSignatureRule
	floor int
}

func (boundaryMarker) RuleKey() string { return "boundary_marker" }

func (r boundaryMarker) Check(prev, cur *Page) (string, bool) {
	if cur.Profile.TextLength <= r.floor {
		return "", false
	}
	// A previous page that opens with any marker is itself a title page, so the
	// current one continues its document.
	if firstMarker(head(prev.Text, r.cfg.HeadChars), r.cfg.Markers) != "" {
		return "", false
	}
	m := firstMarker(head(cur.Text, r.cfg.HeadChars), r.cfg.Markers)
	if m == "" {
		return "", false
	}
	a := HeaderSignature(prev.Text, r.sig.Lines, r.sig.MaxTokens)
	b := HeaderSignature(cur.Text, r.sig.Lines, r.sig.MaxTokens)
	if len(a) == 0 || len(b) == 0 {
		return fmt.Sprintf("boundary marker: %s", m), true
	}
	if sim := Jaccard(a, b); sim < r.cfg.MaxSimilarity {
		return fmt.Sprintf("boundary marker: %s similarity=%.2f", m, sim), true
	}
	return "", false
}

func firstMarker(lowerHead string, markers []string) string {
	for _, m := range markers {
		m = strings.ToLower(m)
		if m != "" && strings.Contains(lowerHead, m) {
			return m
		}
	}
	return ""
}

func head(text string, n int) string {
	lower := strings.ToLower(text)
	r := []rune(lower)
	if n > 0 && len(r) > n {
		return string(r[:n])
	}
	return lower
}

var (
	digitRun  = regexp.MustCompile(`\d{3,}`)
	wordToken = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+`)
)

// HeaderSignature returns the token set of the first lines non-empty lines of text, with
// long digit runs removed so per-document numbers do not count. Only the first maxTokens
// tokens, repeats included, contribute.
func HeaderSignature(text string, lines, maxTokens int) map[string]bool {
	var picked []string
	for _, line := range strings.Split(text, "\n") {
		if lines > 0 && len(picked) >= lines {
			break
		}
		if line = strings.TrimSpace(line); line != "" {
			picked = append(picked, line)
		}
	}
	joined := digitRun.ReplaceAllString(strings.ToLower(strings.Join(picked, " ")), " ")

	toks := wordToken.FindAllString(joined, -1)
	if maxTokens > 0 && len(toks) > maxTokens {
		toks = toks[:maxTokens]
	}
	out := make(map[string]bool, len(toks))
	for _, tok := range toks {
		out[tok] = true
	}
	return out
}

// Jaccard returns |a∩b| / |a∪b|, or 0 when both are empty.
func Jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if b[k] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
