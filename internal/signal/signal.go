// Package signal pulls identity signals out of a single page of text.
package signal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"docroute/internal/domain"
	"docroute/internal/rules"
)

// Signals is the bundle of identifiers found on one page. Absent values are empty or zero.
type Signals struct {
	TaxID         string
	SellerID      string
	TransactionID string
	InvoiceNo     string
	PageNumber    int
	PageCount     int
	Keywords      []string
}

// Extractor runs the configured patterns. It holds no per-call state and is safe for
// concurrent use.
type Extractor struct {
	patterns      map[string]*regexp.Regexp
	transactionID rules.IdentifierChain
	invoiceNo     rules.IdentifierChain
	clientTaxIDs  map[string]bool
	keywords      []string
	maxKeywords   int
}

// NewExtractor compiles the signal patterns of rs. Tax ids listed in clientTaxIDs are
// never reported.
func NewExtractor(rs *rules.RuleSet, clientTaxIDs []string) (*Extractor, error) {
	e := &Extractor{
		patterns:      make(map[string]*regexp.Regexp, len(rs.Signals.Patterns)),
		transactionID: rs.Signals.TransactionID,
		invoiceNo:     rs.Signals.InvoiceNo,
		clientTaxIDs:  make(map[string]bool, len(clientTaxIDs)),
		maxKeywords:   rs.Signals.MaxKeywords,
	}
	for name, expr := range rs.Signals.Patterns {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compiling signal pattern %s: %w", name, err)
		}
		e.patterns[name] = re
	}
	for _, id := range clientTaxIDs {
		if id = strings.TrimSpace(id); id != "" {
			e.clientTaxIDs[id] = true
		}
	}
	for _, label := range rs.Profile.KeywordOrder {
		for _, k := range rs.Profile.Keywords[label] {
			e.keywords = append(e.keywords, strings.ToLower(k))
		}
	}
	return e, nil
}

// Extract returns every signal found in text. platform selects the identifier preference
// chains; pass UNKNOWN when no hint is available.
func (e *Extractor) Extract(text string, platform domain.Platform) Signals {
	page, count := e.PageXOfY(text)
	return Signals{
		TaxID:         e.TaxID(text),
		SellerID:      e.first(text, []string{rules.PatternSellerID}),
		TransactionID: e.first(text, e.transactionID.For(platform)),
		InvoiceNo:     e.first(text, e.invoiceNo.For(platform)),
		PageNumber:    page,
		PageCount:     count,
		Keywords:      e.Keywords(text),
	}
}

// TaxID returns the first 13-digit id in text that is not a client tax id.
func (e *Extractor) TaxID(text string) string {
	re := e.patterns[rules.PatternTaxID]
	if re == nil {
		return ""
	}
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		id := group(m)
		if id != "" && !e.clientTaxIDs[id] {
			return id
		}
	}
	return ""
}

// HasTaxID reports whether text contains any 13-digit id, client ids included.
func (e *Extractor) HasTaxID(text string) bool {
	re := e.patterns[rules.PatternTaxID]
	return re != nil && re.MatchString(text)
}

// Match reports whether the named pattern matches text.
func (e *Extractor) Match(name, text string) bool {
	re := e.patterns[name]
	return re != nil && re.MatchString(text)
}

// PageXOfY parses a "Page X of Y" header. Both values are zero when absent.
func (e *Extractor) PageXOfY(text string) (int, int) {
	re := e.patterns[rules.PatternPageXOfY]
	if re == nil {
		return 0, 0
	}
	m := re.FindStringSubmatch(text)
	if len(m) < 3 {
		return 0, 0
	}
	x, errX := strconv.Atoi(m[1])
	y, errY := strconv.Atoi(m[2])
	if errX != nil || errY != nil {
		return 0, 0
	}
	return x, y
}

// Keywords returns the configured keywords found in text, unique, in configuration order
// and capped.
func (e *Extractor) Keywords(text string) []string {
	out := []string{}
	if text == "" {
		return out
	}
	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	for _, k := range e.keywords {
		if e.maxKeywords > 0 && len(out) >= e.maxKeywords {
			break
		}
		if seen[k] || !strings.Contains(lower, k) {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func (e *Extractor) first(text string, chain []string) string {
	for _, name := range chain {
		re := e.patterns[name]
		if re == nil {
			continue
		}
		if m := re.FindStringSubmatch(text); m != nil {
			if v := stripSpace(group(m)); v != "" {
				return v
			}
		}
	}
	return ""
}

// group returns the first capture group, or the whole match when the pattern has none.
func group(m []string) string {
	if len(m) > 1 {
		return m[1]
	}
	return m[0]
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
