package rules

import (
	"fmt"
	"regexp"
	"sort"

	"docroute/internal/domain"
)

// Validate checks cross references the schema cannot express: patterns compile, chains
// name defined patterns and every label belongs to the closed platform set.
func (rs *RuleSet) Validate() error {
	v := &problems{}

	if rs.Version < 1 {
		v.add("version must be at least 1")
	}
	rs.validateSignals(v)
	rs.validateProfile(v)
	rs.validateSegment(v)
	rs.validateClassifier(v)

	if len(v.list) > 0 {
		return &ValidationError{Problems: v.list}
	}
	return nil
}

type problems struct {
	list []string
}

func (p *problems) add(format string, args ...any) {
	p.list = append(p.list, fmt.Sprintf(format, args...))
}

func (p *problems) pattern(where, expr string) {
	if _, err := regexp.Compile(expr); err != nil {
		p.add("%s: %v", where, err)
	}
}

func (p *problems) platform(where, label string) {
	if !domain.Platform(label).Valid() {
		p.add("%s: unknown platform %q", where, label)
	}
}

func (rs *RuleSet) validateSignals(v *problems) {
	s := rs.Signals
	for _, name := range []string{PatternTaxID, PatternSellerID, PatternPageXOfY} {
		if _, ok := s.Patterns[name]; !ok {
			v.add("signals.patterns: missing %q", name)
		}
	}
	names := make([]string, 0, len(s.Patterns))
	for name := range s.Patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v.pattern("signals.patterns."+name, s.Patterns[name])
	}

	checkChain := func(field string, chain IdentifierChain) {
		for _, name := range chain.Default {
			if _, ok := s.Patterns[name]; !ok {
				v.add("signals.%s.default: undefined pattern %q", field, name)
			}
		}
		for label, list := range chain.ByPlatform {
			v.platform("signals."+field+".by_platform", label)
			for _, name := range list {
				if _, ok := s.Patterns[name]; !ok {
					v.add("signals.%s.by_platform.%s: undefined pattern %q", field, label, name)
				}
			}
		}
	}
	checkChain(FieldTransactionID, s.TransactionID)
	checkChain(FieldInvoiceNo, s.InvoiceNo)
}

func (rs *RuleSet) validateProfile(v *problems) {
	p := rs.Profile
	for i, h := range p.FilenameHints {
		v.platform(fmt.Sprintf("profile.filename_hints[%d]", i), h.Platform)
		if len(h.Contains) == 0 && len(h.Prefixes) == 0 {
			v.add("profile.filename_hints[%d]: needs contains or prefixes", i)
		}
	}
	for i, c := range p.ContentOrder {
		where := fmt.Sprintf("profile.content_order[%d]", i)
		v.platform(where, c.Platform)
		for _, name := range c.Patterns {
			if _, ok := rs.Signals.Patterns[name]; !ok {
				v.add("%s: undefined pattern %q", where, name)
			}
		}
	}
	for _, label := range p.KeywordOrder {
		v.platform("profile.keyword_order", label)
	}
	for label := range p.Keywords {
		v.platform("profile.keywords", label)
	}
	for label, rule := range p.DocKinds {
		v.platform("profile.doc_kinds", label)
		if !domain.DocKind(rule.Default).Valid() {
			v.add("profile.doc_kinds.%s: unknown doc kind %q", label, rule.Default)
		}
		for _, ref := range rule.Refinements {
			if !domain.DocKind(ref.Kind).Valid() {
				v.add("profile.doc_kinds.%s: unknown doc kind %q", label, ref.Kind)
			}
		}
	}
}

func (rs *RuleSet) validateSegment(v *problems) {
	s := rs.Segment
	if s.MaxSegments < 1 {
		v.add("segment.max_segments must be at least 1")
	}
	for label, fields := range s.StableIdentifiers {
		v.platform("segment.stable_identifiers", label)
		for _, f := range fields {
			if f != FieldTransactionID && f != FieldInvoiceNo {
				v.add("segment.stable_identifiers.%s: unknown field %q", label, f)
			}
		}
	}
}

func (rs *RuleSet) validateClassifier(v *problems) {
	c := rs.Classifier
	v.pattern("classifier.tax_id_pattern", c.TaxIDPattern)
	if c.MaxTextLen > 0 && c.HeadLen+c.TailLen > c.MaxTextLen {
		v.add("classifier: head_len + tail_len exceeds max_text_len")
	}

	for i, fp := range c.FastPaths {
		where := fmt.Sprintf("classifier.fast_paths[%d]", i)
		v.platform(where, fp.Platform)
		if len(fp.Patterns) == 0 && len(fp.Literals) == 0 {
			v.add("%s: needs patterns or literals", where)
		}
		for _, expr := range fp.Patterns {
			v.pattern(where, expr)
		}
	}

	seen := make(map[string]bool)
	for i, ps := range c.Platforms {
		where := fmt.Sprintf("classifier.platforms[%d]", i)
		v.platform(where, ps.Platform)
		if ps.Platform == string(domain.PlatformUnknown) {
			v.add("%s: UNKNOWN is not scored", where)
		}
		if seen[ps.Platform] {
			v.add("%s: duplicate platform %s", where, ps.Platform)
		}
		seen[ps.Platform] = true
		for j, sig := range ps.Signals {
			switch {
			case sig.Pattern != "" && sig.Literal != "":
				v.add("%s.signals[%d]: pattern and literal are exclusive", where, j)
			case sig.Pattern == "" && sig.Literal == "":
				v.add("%s.signals[%d]: needs pattern or literal", where, j)
			case sig.Pattern != "":
				v.pattern(fmt.Sprintf("%s.signals[%d]", where, j), sig.Pattern)
			}
		}
	}

	if c.Penalty.Platform != "" {
		v.platform("classifier.penalty", c.Penalty.Platform)
		for i, tier := range c.Penalty.Tiers {
			for _, label := range tier.When {
				v.platform(fmt.Sprintf("classifier.penalty.tiers[%d]", i), label)
			}
		}
	}
}
