package profile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docroute/internal/domain"
	"docroute/internal/profile"
	"docroute/internal/rules"
	"docroute/internal/signal"
)

func newProfiler(t *testing.T) *profile.Profiler {
	t.Helper()
	rs := rules.Default()
	ext, err := signal.NewExtractor(rs, []string{"0105563022918"})
	require.NoError(t, err)
	return profile.New(rs, ext)
}

func TestDetectPlatform(t *testing.T) {
	p := newProfiler(t)

	tests := []struct {
		name     string
		text     string
		filename string
		want     domain.Platform
	}{
		{"decisive filename beats content", "Shopee order summary", "Meta_Receipt_2024.pdf", domain.PlatformMeta},
		{"google filename", "", "invoices/google-ads-jan.pdf", domain.PlatformGoogle},
		{"meta content", "Meta Platforms Ireland Limited", "", domain.PlatformMeta},
		{"thai tax needs 13 digit id", "ใบกำกับภาษี\nเลขประจำตัวผู้เสียภาษี 1234567890123", "", domain.PlatformThaiTax},
		{"thai tax without id falls through", "ใบกำกับภาษี สาขา สำนักงานใหญ่", "", domain.PlatformUnknown},
		{"spx before shopee", "Shopee Express waybill", "", domain.PlatformSPX},
		{"shopee", "Shopee (Thailand) Co., Ltd.", "", domain.PlatformShopee},
		{"lazada", "Lazada invoice", "", domain.PlatformLazada},
		{"tiktok", "TikTok Shop statement", "", domain.PlatformTikTok},
		{"content overrides non-decisive filename", "Lazada statement", "shopee_batch.pdf", domain.PlatformLazada},
		{"non-decisive filename used last", "plain text page", "shopee_batch.pdf", domain.PlatformShopee},
		{"lazada filename prefix", "plain text page", `C:\scans\laz_0412.pdf`, domain.PlatformLazada},
		{"nothing matches", "plain text page", "scan_001.pdf", domain.PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.DetectPlatform(tt.text, tt.filename))
		})
	}
}

func TestDocKind(t *testing.T) {
	p := newProfiler(t)

	assert.Equal(t, domain.DocKindMetaReceipt, p.DocKind(domain.PlatformMeta, "Transaction ID: 1"))
	assert.Equal(t, domain.DocKindMetaDoc, p.DocKind(domain.PlatformMeta, "campaign summary"))
	assert.Equal(t, domain.DocKindGooglePayment, p.DocKind(domain.PlatformGoogle, "Payment Receipt"))
	assert.Equal(t, domain.DocKindSPXWaybill, p.DocKind(domain.PlatformSPX, "tracking no"))
	assert.Equal(t, domain.DocKindThaiTaxInvoice, p.DocKind(domain.PlatformThaiTax, "ใบกำกับภาษีเต็มรูป"))
	assert.Equal(t, domain.DocKindThaiReceipt, p.DocKind(domain.PlatformThaiTax, "ใบเสร็จรับเงิน"))
	assert.Equal(t, domain.DocKindMarketplaceBill, p.DocKind(domain.PlatformTikTok, "anything"))
	assert.Equal(t, domain.DocKindGeneric, p.DocKind(domain.PlatformUnknown, "receipt"))
}

func TestProfile_FullPage(t *testing.T) {
	p := newProfiler(t)
	text := "Meta Platforms Ireland\nReceipt\nTransaction ID: 123456789012-345678901234\n" +
		"Buyer tax 0105563022918\nPage 1 of 2"

	res := p.Profile(3, text, "")
	require.NoError(t, res.Fault)

	got := res.Profile
	assert.Equal(t, 3, got.PageIndex)
	assert.Equal(t, domain.PlatformMeta, got.PlatformHint)
	assert.Equal(t, domain.DocKindMetaReceipt, got.DocKind)
	assert.Equal(t, "", got.TaxID)
	assert.Equal(t, "123456789012-345678901234", got.TransactionID)
	assert.Equal(t, 1, got.PageNumberInDoc)
	assert.Equal(t, 2, got.PageCountInDoc)
	assert.Contains(t, got.Keywords, "meta platforms ireland")
	assert.Positive(t, got.TextLength)
}

func TestProfile_EmptyPage(t *testing.T) {
	p := newProfiler(t)

	res := p.Profile(0, "", "")
	require.NoError(t, res.Fault)
	assert.Equal(t, domain.MinimalPageProfile(0, 0), res.Profile)
}

func TestProfile_BlankPageIgnoresFilename(t *testing.T) {
	p := newProfiler(t)

	for _, name := range []string{"meta_receipts.pdf", "shopee_batch.pdf"} {
		t.Run(name, func(t *testing.T) {
			res := p.Profile(4, " \n\t ", name)
			require.NoError(t, res.Fault)
			assert.Equal(t, domain.MinimalPageProfile(4, 0), res.Profile)

			res = p.Profile(5, "abc", name)
			assert.Equal(t, domain.MinimalPageProfile(5, 3), res.Profile)
		})
	}
}

func TestProfile_FaultDegradesOnlyThatPage(t *testing.T) {
	text := "Shopee (Thailand) Co., Ltd.\nTax Invoice"
	broken := profile.New(rules.Default(), nil)

	res := broken.Profile(2, text, "shopee_batch.pdf")
	require.Error(t, res.Fault)
	assert.Contains(t, res.Fault.Error(), "profiling page 2")
	assert.Equal(t, domain.MinimalPageProfile(2, len([]rune(text))), res.Profile)

	healthy := newProfiler(t).Profile(2, text, "shopee_batch.pdf")
	require.NoError(t, healthy.Fault)
	assert.Equal(t, domain.PlatformShopee, healthy.Profile.PlatformHint)
}

func TestProfile_Deterministic(t *testing.T) {
	p := newProfiler(t)
	text := "Shopee Express\nInvoice No: SPX-000123\nสาขา 00001"
	assert.Equal(t, p.Profile(1, text, "batch.pdf"), p.Profile(1, text, "batch.pdf"))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "report.pdf", profile.BaseName(`C:\Users\x\Report.PDF`))
	assert.Equal(t, "a.pdf", profile.BaseName("/tmp/dir/a.pdf"))
	assert.Equal(t, "", profile.BaseName("  "))
}
