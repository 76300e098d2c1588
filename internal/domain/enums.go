package domain

import "strings"

// Platform identifies the document family a page or segment belongs to.
// The set is closed.
type Platform string

const (
	PlatformMeta    Platform = "META"
	PlatformGoogle  Platform = "GOOGLE"
	PlatformShopee  Platform = "SHOPEE"
	PlatformLazada  Platform = "LAZADA"
	PlatformTikTok  Platform = "TIKTOK"
	PlatformSPX     Platform = "SPX"
	PlatformThaiTax Platform = "THAI_TAX"
	PlatformUnknown Platform = "UNKNOWN"
)

// Platforms lists every label in canonical order.
var Platforms = []Platform{
	PlatformMeta,
	PlatformGoogle,
	PlatformShopee,
	PlatformLazada,
	PlatformTikTok,
	PlatformSPX,
	PlatformThaiTax,
	PlatformUnknown,
}

// ScoredPlatforms lists the labels the classifier assigns a score to.
var ScoredPlatforms = Platforms[:len(Platforms)-1]

// Valid reports whether p is a member of the closed platform set.
func (p Platform) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// IsKnown reports whether p is a valid label other than UNKNOWN.
func (p Platform) IsKnown() bool {
	return p != PlatformUnknown && p.Valid()
}

// platformAliases maps legacy and loose spellings to labels.
var platformAliases = map[string]Platform{
	"meta":        PlatformMeta,
	"facebook":    PlatformMeta,
	"fb":          PlatformMeta,
	"instagram":   PlatformMeta,
	"ig":          PlatformMeta,
	"meta_ads":    PlatformMeta,
	"ads_meta":    PlatformMeta,
	"google":      PlatformGoogle,
	"google_ads":  PlatformGoogle,
	"ads_google":  PlatformGoogle,
	"adwords":     PlatformGoogle,
	"shopee":      PlatformShopee,
	"lazada":      PlatformLazada,
	"tiktok":      PlatformTikTok,
	"tiktok_shop": PlatformTikTok,
	"spx":         PlatformSPX,
	"thai_tax":    PlatformThaiTax,
	"tax_invoice": PlatformThaiTax,
	"other":       PlatformUnknown,
	"unknown":     PlatformUnknown,
	"generic":     PlatformUnknown,
}

// ParsePlatform normalises a label or a legacy alias. Unrecognised input maps to UNKNOWN.
func ParsePlatform(s string) Platform {
	key := strings.ToLower(strings.TrimSpace(s))
	if p, ok := platformAliases[key]; ok {
		return p
	}
	if p := Platform(strings.ToUpper(key)); p.Valid() {
		return p
	}
	return PlatformUnknown
}

// DocKind refines a platform hint, e.g. receipt vs. generic document.
type DocKind string

const (
	DocKindGeneric         DocKind = "GENERIC"
	DocKindMetaReceipt     DocKind = "META_RECEIPT"
	DocKindMetaDoc         DocKind = "META_DOC"
	DocKindGooglePayment   DocKind = "GOOGLE_PAYMENT"
	DocKindGoogleDoc       DocKind = "GOOGLE_DOC"
	DocKindSPXWaybill      DocKind = "SPX_WAYBILL"
	DocKindSPXDoc          DocKind = "SPX_DOC"
	DocKindThaiTaxInvoice  DocKind = "THAI_TAX_INVOICE"
	DocKindThaiReceipt     DocKind = "THAI_RECEIPT"
	DocKindThaiTaxDoc      DocKind = "THAI_TAX_DOC"
	DocKindMarketplaceBill DocKind = "MARKETPLACE_BILL"
)

var docKinds = map[DocKind]bool{
	DocKindGeneric: true, DocKindMetaReceipt: true, DocKindMetaDoc: true,
	DocKindGooglePayment: true, DocKindGoogleDoc: true, DocKindSPXWaybill: true,
	DocKindSPXDoc: true, DocKindThaiTaxInvoice: true, DocKindThaiReceipt: true,
	DocKindThaiTaxDoc: true, DocKindMarketplaceBill: true,
}

// Valid reports whether k is a known doc kind.
func (k DocKind) Valid() bool {
	return docKinds[k]
}

// RouteTarget is the extraction strategy chosen for a segment.
type RouteTarget string

const (
	RouteRuleBased  RouteTarget = "RULE_BASED"
	RouteAIFallback RouteTarget = "AI_FALLBACK"
)

// RouteName groups platforms by the downstream extraction family.
type RouteName string

const (
	RouteNameMetaAds     RouteName = "meta_ads"
	RouteNameGoogleAds   RouteName = "google_ads"
	RouteNameMarketplace RouteName = "marketplace"
	RouteNameTaxInvoice  RouteName = "tax_invoice"
	RouteNameGeneric     RouteName = "generic"
)

// LabelSource records where a routing label came from.
type LabelSource string

const (
	LabelSourceClassifier  LabelSource = "classifier"
	LabelSourceProfileHint LabelSource = "profile_hint"
)

// ExportFormat is a report output format.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ExportContentTypes maps report formats to their MIME type.
var ExportContentTypes = map[ExportFormat]string{
	ExportFormatCSV:  "text/csv; charset=utf-8",
	ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}
