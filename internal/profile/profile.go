// Package profile builds the per-page signal fingerprint used by the segment builder.
package profile

import (
	"fmt"
	"path"
	"strings"

	"docroute/internal/domain"
	"docroute/internal/rules"
	"docroute/internal/signal"
	"docroute/internal/textnorm"
)

// Result is a page profile plus the fault that degraded it, if any.
// A degraded profile is the minimal UNKNOWN/GENERIC profile.
type Result struct {
	Profile domain.PageProfile
	Fault   error
}

// Profiler determines platform hint, doc kind and identifiers for single pages.
// It is stateless and safe for concurrent use.
type Profiler struct {
	rules     rules.ProfileRules
	extractor *signal.Extractor
	keywords  map[domain.Platform][]string
	blankLen  int
}

// New creates a Profiler over the profile section of rs.
func New(rs *rules.RuleSet, extractor *signal.Extractor) *Profiler {
	p := &Profiler{
		rules:     rs.Profile,
		extractor: extractor,
		keywords:  make(map[domain.Platform][]string, len(rs.Profile.Keywords)),
		blankLen:  rs.Segment.BlankPageLen,
	}
	for label, list := range rs.Profile.Keywords {
		lowered := make([]string, 0, len(list))
		for _, k := range list {
			lowered = append(lowered, strings.ToLower(k))
		}
		p.keywords[domain.Platform(label)] = lowered
	}
	return p
}

// Profile fingerprints one page. It never fails: a fault while profiling yields the
// minimal profile and is reported in Result.Fault. Blank pages always get the minimal
// profile, whatever the filename suggests.
func (p *Profiler) Profile(pageIndex int, text, filename string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Profile: domain.MinimalPageProfile(pageIndex, textnorm.Length(text)),
				Fault:   fmt.Errorf("profiling page %d: %v", pageIndex, r),
			}
		}
	}()

	t := textnorm.Normalize(text)
	if textnorm.IsBlank(t, p.blankLen) {
		return Result{Profile: domain.MinimalPageProfile(pageIndex, textnorm.Length(t))}
	}
	hint := p.DetectPlatform(t, filename)
	sig := p.extractor.Extract(t, hint)

	return Result{Profile: domain.PageProfile{
		PageIndex:       pageIndex,
		TextLength:      textnorm.Length(t),
		PlatformHint:    hint,
		DocKind:         p.DocKind(hint, t),
		TaxID:           sig.TaxID,
		SellerID:        sig.SellerID,
		TransactionID:   sig.TransactionID,
		InvoiceNo:       sig.InvoiceNo,
		PageNumberInDoc: sig.PageNumber,
		PageCountInDoc:  sig.PageCount,
		Keywords:        sig.Keywords,
	}}
}

// DetectPlatform returns the platform hint for a page. Decisive filename hints win outright;
// content checks run next in configured order; other filename hints are used last.
func (p *Profiler) DetectPlatform(text, filename string) domain.Platform {
	fromName, decisive := p.filenameHint(filename)
	if decisive {
		return fromName
	}

	lower := strings.ToLower(text)
	for _, check := range p.rules.ContentOrder {
		label := domain.Platform(check.Platform)
		hit := containsAny(lower, p.keywords[label])
		if !hit {
			for _, name := range check.Patterns {
				if p.extractor.Match(name, text) {
					hit = true
					break
				}
			}
		}
		if hit && check.RequireTaxID && !p.extractor.HasTaxID(text) {
			hit = false
		}
		if hit {
			return label
		}
	}

	if fromName != "" {
		return fromName
	}
	return domain.PlatformUnknown
}

// DocKind refines a platform hint using the configured phrase checks.
func (p *Profiler) DocKind(platform domain.Platform, text string) domain.DocKind {
	rule, ok := p.rules.DocKinds[string(platform)]
	if !ok {
		return domain.DocKindGeneric
	}
	lower := strings.ToLower(text)
	for _, ref := range rule.Refinements {
		if containsAny(lower, ref.AnyOf) {
			return domain.DocKind(ref.Kind)
		}
	}
	return domain.DocKind(rule.Default)
}

func (p *Profiler) filenameHint(filename string) (domain.Platform, bool) {
	name := BaseName(filename)
	if name == "" {
		return "", false
	}
	for _, h := range p.rules.FilenameHints {
		if containsAny(name, h.Contains) || hasAnyPrefix(name, h.Prefixes) {
			return domain.Platform(h.Platform), h.Decisive
		}
	}
	return "", false
}

// BaseName returns the lowercased final path element of filename, accepting either
// separator.
func BaseName(filename string) string {
	name := strings.TrimSpace(strings.ReplaceAll(filename, `\`, "/"))
	if name == "" {
		return ""
	}
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	return strings.ToLower(name)
}

func containsAny(lower string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, pre := range prefixes {
		if pre != "" && strings.HasPrefix(s, strings.ToLower(pre)) {
			return true
		}
	}
	return false
}
