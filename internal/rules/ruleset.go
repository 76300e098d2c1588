// Package rules holds the immutable rule set shared by the profiler, segment builder and
// classifier: keyword lists, patterns, bonuses and thresholds.
package rules

import "docroute/internal/domain"

// Signal pattern names every rule set must define.
const (
	PatternTaxID    = "tax_id"
	PatternSellerID = "seller_id"
	PatternPageXOfY = "page_x_of_y"
)

// Identifier fields a platform can declare as stable per document.
const (
	FieldTransactionID = "transaction_id"
	FieldInvoiceNo     = "invoice_no"
)

// RuleSet is the full configuration of the segmentation and classification engine.
// Treat a loaded RuleSet as read-only.
type RuleSet struct {
	Version    int             `yaml:"version" json:"version"`
	Signals    SignalRules     `yaml:"signals" json:"signals"`
	Profile    ProfileRules    `yaml:"profile" json:"profile"`
	Segment    SegmentRules    `yaml:"segment" json:"segment"`
	Classifier ClassifierRules `yaml:"classifier" json:"classifier"`
}

// SignalRules configures identifier extraction.
type SignalRules struct {
	MaxKeywords   int               `yaml:"max_keywords" json:"max_keywords"`
	Patterns      map[string]string `yaml:"patterns" json:"patterns"`
	TransactionID IdentifierChain   `yaml:"transaction_id" json:"transaction_id"`
	InvoiceNo     IdentifierChain   `yaml:"invoice_no" json:"invoice_no"`
}

// IdentifierChain lists pattern names tried in order; the first match wins.
type IdentifierChain struct {
	Default    []string            `yaml:"default" json:"default"`
	ByPlatform map[string][]string `yaml:"by_platform,omitempty" json:"by_platform,omitempty"`
}

// For returns the chain for p, or the default chain.
func (c IdentifierChain) For(p domain.Platform) []string {
	if chain, ok := c.ByPlatform[string(p)]; ok {
		return chain
	}
	return c.Default
}

// ProfileRules configures per-page platform hints and doc kinds.
type ProfileRules struct {
	FilenameHints []FilenameHint         `yaml:"filename_hints" json:"filename_hints"`
	ContentOrder  []ContentCheck         `yaml:"content_order" json:"content_order"`
	KeywordOrder  []string               `yaml:"keyword_order" json:"keyword_order"`
	Keywords      map[string][]string    `yaml:"keywords" json:"keywords"`
	DocKinds      map[string]DocKindRule `yaml:"doc_kinds" json:"doc_kinds"`
}

// FilenameHint maps filename substrings or prefixes to a platform.
// Decisive hints are returned without consulting page content.
type FilenameHint struct {
	Platform string   `yaml:"platform" json:"platform"`
	Contains []string `yaml:"contains" json:"contains"`
	Prefixes []string `yaml:"prefixes,omitempty" json:"prefixes,omitempty"`
	Decisive bool     `yaml:"decisive,omitempty" json:"decisive,omitempty"`
}

// ContentCheck is one step of the content keyword pass.
type ContentCheck struct {
	Platform     string   `yaml:"platform" json:"platform"`
	RequireTaxID bool     `yaml:"require_tax_id,omitempty" json:"require_tax_id,omitempty"`
	Patterns     []string `yaml:"patterns,omitempty" json:"patterns,omitempty"`
}

// DocKindRule refines a platform hint into a doc kind.
type DocKindRule struct {
	Refinements []DocKindRefinement `yaml:"refinements,omitempty" json:"refinements,omitempty"`
	Default     string              `yaml:"default" json:"default"`
}

// DocKindRefinement selects Kind when any phrase appears in the page.
type DocKindRefinement struct {
	Kind  string   `yaml:"kind" json:"kind"`
	AnyOf []string `yaml:"any_of" json:"any_of"`
}

// SegmentRules configures the break rules.
type SegmentRules struct {
	NoiseFloor        int                 `yaml:"noise_floor" json:"noise_floor"`
	BlankPageLen      int                 `yaml:"blank_page_len" json:"blank_page_len"`
	MaxSegments       int                 `yaml:"max_segments" json:"max_segments"`
	StableIdentifiers map[string][]string `yaml:"stable_identifiers" json:"stable_identifiers"`
	HeaderSignature   HeaderSignatureRule `yaml:"header_signature" json:"header_signature"`
	BoundaryMarkers   BoundaryMarkerRule  `yaml:"boundary_markers" json:"boundary_markers"`
}

// HeaderSignatureRule breaks ambiguous pages whose opening lines share few tokens.
type HeaderSignatureRule struct {
	Enabled       bool    `yaml:"enabled" json:"enabled"`
	Lines         int     `yaml:"lines" json:"lines"`
	MaxTokens     int     `yaml:"max_tokens" json:"max_tokens"`
	MinTextLen    int     `yaml:"min_text_len" json:"min_text_len"`
	MaxSimilarity float64 `yaml:"max_similarity" json:"max_similarity"`
}

// BoundaryMarkerRule breaks when a title marker opens the current page but not the previous one.
type BoundaryMarkerRule struct {
	Enabled       bool     `yaml:"enabled" json:"enabled"`
	HeadChars     int      `yaml:"head_chars" json:"head_chars"`
	MaxSimilarity float64  `yaml:"max_similarity" json:"max_similarity"`
	Markers       []string `yaml:"markers" json:"markers"`
}

// ClassifierRules configures fast paths and weighted scoring.
type ClassifierRules struct {
	MaxTextLen       int               `yaml:"max_text_len" json:"max_text_len"`
	HeadLen          int               `yaml:"head_len" json:"head_len"`
	TailLen          int               `yaml:"tail_len" json:"tail_len"`
	FallbackMinScore int               `yaml:"fallback_min_score" json:"fallback_min_score"`
	TaxIDPattern     string            `yaml:"tax_id_pattern" json:"tax_id_pattern"`
	InvoicePhrases   []string          `yaml:"invoice_phrases" json:"invoice_phrases"`
	FastPaths        []FastPath        `yaml:"fast_paths" json:"fast_paths"`
	Penalty          Penalty           `yaml:"penalty" json:"penalty"`
	Platforms        []PlatformScoring `yaml:"platforms" json:"platforms"`
}

// FastPath is a near-unique identifier that decides the label outright.
type FastPath struct {
	Name     string   `yaml:"name" json:"name"`
	Platform string   `yaml:"platform" json:"platform"`
	Patterns []string `yaml:"patterns,omitempty" json:"patterns,omitempty"`
	Literals []string `yaml:"literals,omitempty" json:"literals,omitempty"`
}

// Penalty scales one platform's score down when others are strong.
// The first tier that matches applies.
type Penalty struct {
	Platform string        `yaml:"platform" json:"platform"`
	Tiers    []PenaltyTier `yaml:"tiers" json:"tiers"`
}

// PenaltyTier applies Percent when any platform in When scores at least MinScore.
type PenaltyTier struct {
	When     []string `yaml:"when" json:"when"`
	MinScore int      `yaml:"min_score" json:"min_score"`
	Percent  int      `yaml:"percent" json:"percent"`
}

// PlatformScoring holds the weights for one platform.
type PlatformScoring struct {
	Platform         string           `yaml:"platform" json:"platform"`
	Threshold        int              `yaml:"threshold" json:"threshold"`
	FilenameBonus    int              `yaml:"filename_bonus,omitempty" json:"filename_bonus,omitempty"`
	FilenameHints    []string         `yaml:"filename_hints,omitempty" json:"filename_hints,omitempty"`
	Signals          []WeightedSignal `yaml:"signals,omitempty" json:"signals,omitempty"`
	StrongBonus      int              `yaml:"strong_bonus,omitempty" json:"strong_bonus,omitempty"`
	StrongPhrases    []string         `yaml:"strong_phrases,omitempty" json:"strong_phrases,omitempty"`
	WeakBonus        int              `yaml:"weak_bonus,omitempty" json:"weak_bonus,omitempty"`
	WeakPhrases      []string         `yaml:"weak_phrases,omitempty" json:"weak_phrases,omitempty"`
	VendorTaxIDBonus int              `yaml:"vendor_tax_id_bonus,omitempty" json:"vendor_tax_id_bonus,omitempty"`
	Context          []ContextBonus   `yaml:"context,omitempty" json:"context,omitempty"`
}

// WeightedSignal adds Bonus when Pattern (or Literal) matches the text or, unless TextOnly,
// the filename.
type WeightedSignal struct {
	Pattern  string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Literal  string `yaml:"literal,omitempty" json:"literal,omitempty"`
	Bonus    int    `yaml:"bonus" json:"bonus"`
	TextOnly bool   `yaml:"text_only,omitempty" json:"text_only,omitempty"`
}

// ContextBonus adds Bonus when Literal appears in the text together with any context phrase
// in the text or filename.
type ContextBonus struct {
	Literal     string   `yaml:"literal" json:"literal"`
	TextAny     []string `yaml:"text_any,omitempty" json:"text_any,omitempty"`
	FilenameAny []string `yaml:"filename_any,omitempty" json:"filename_any,omitempty"`
	Bonus       int      `yaml:"bonus" json:"bonus"`
}
