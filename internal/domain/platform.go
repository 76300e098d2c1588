package domain

// PlatformInfo is the accounting metadata attached to a platform label.
type PlatformInfo struct {
	Vendor    string `json:"vendor"`
	VATRate   string `json:"vat_rate"`
	PriceType string `json:"price_type"`
	Group     string `json:"group"`
}

var platformInfo = map[Platform]PlatformInfo{
	PlatformMeta:    {Vendor: "Meta Platforms Ireland", VATRate: "NO", PriceType: "3", Group: "Advertising Expense"},
	PlatformGoogle:  {Vendor: "Google Asia Pacific", VATRate: "NO", PriceType: "3", Group: "Advertising Expense"},
	PlatformShopee:  {Vendor: "Shopee", VATRate: "7%", PriceType: "1", Group: "Marketplace Expense"},
	PlatformLazada:  {Vendor: "Lazada", VATRate: "7%", PriceType: "1", Group: "Marketplace Expense"},
	PlatformTikTok:  {Vendor: "TikTok", VATRate: "7%", PriceType: "1", Group: "Marketplace Expense"},
	PlatformSPX:     {Vendor: "Shopee Express", VATRate: "7%", PriceType: "1", Group: "Delivery/Logistics Expense"},
	PlatformThaiTax: {Vendor: "", VATRate: "7%", PriceType: "1", Group: "General Expense"},
	PlatformUnknown: {Vendor: "Other", VATRate: "7%", PriceType: "1", Group: "Other Expense"},
}

// Info returns the accounting metadata for p, falling back to UNKNOWN's.
func (p Platform) Info() PlatformInfo {
	if info, ok := platformInfo[p]; ok {
		return info
	}
	return platformInfo[PlatformUnknown]
}

// RouteNameFor maps a label to its downstream extraction family.
func RouteNameFor(p Platform) RouteName {
	switch p {
	case PlatformMeta:
		return RouteNameMetaAds
	case PlatformGoogle:
		return RouteNameGoogleAds
	case PlatformShopee, PlatformLazada, PlatformTikTok, PlatformSPX:
		return RouteNameMarketplace
	case PlatformThaiTax:
		return RouteNameTaxInvoice
	default:
		return RouteNameGeneric
	}
}
