package classifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docroute/internal/classifier"
	"docroute/internal/domain"
	"docroute/internal/rules"
)

var clientTaxIDs = []string{"0105563022918", "0105561071873", "0105565027615"}

func newClassifier(t *testing.T, rs *rules.RuleSet) *classifier.Classifier {
	t.Helper()
	if rs == nil {
		rs = rules.Default()
	}
	c, err := classifier.New(rs, clientTaxIDs)
	require.NoError(t, err)
	return c
}

func TestClassify_FastPaths(t *testing.T) {
	c := newClassifier(t, nil)

	tests := []struct {
		name     string
		text     string
		filename string
		label    domain.Platform
		fastPath string
	}{
		{"meta receipt code", "Receipt RCMETA-2024-000123", "", domain.PlatformMeta, "meta_receipt_code"},
		{"meta ireland", "Meta Platforms Ireland Ltd.", "", domain.PlatformMeta, "meta_platforms_ireland"},
		{"google payment code", "Payment W123456789012345678", "", domain.PlatformGoogle, "google_payment_code"},
		{"google asia pacific", "Google Asia Pacific Pte. Ltd.", "", domain.PlatformGoogle, "google_asia_pacific"},
		{"spx code", "RCSPX123456 shopee shopee", "", domain.PlatformSPX, "spx_receipt_code"},
		{"spx literal in filename", "", "batch_rcspx.pdf", domain.PlatformSPX, "spx_receipt_code"},
		{"lazada", "THMPTI 1234567890123", "", domain.PlatformLazada, "lazada_thmpti"},
		{"tiktok", "Order TTSTH2024-991", "", domain.PlatformTikTok, "tiktok_ttsth"},
		{"earlier fast path wins", "TTSTH2024 issued by Meta Platforms Ireland", "", domain.PlatformMeta, "meta_platforms_ireland"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text, tt.filename)
			assert.Equal(t, tt.label, got.Label)
			assert.Equal(t, tt.fastPath, got.FastPath)
			assert.Empty(t, got.Scores)
			assert.False(t, got.Degraded)
		})
	}
}

func TestClassify_SPXBeatsShopee(t *testing.T) {
	c := newClassifier(t, nil)

	got := c.Classify("Shopee Express SPX waybill\nshopee TIV-ABC123", "spx_batch.pdf")

	assert.Equal(t, domain.PlatformSPX, got.Label)
	assert.Empty(t, got.FastPath)
	assert.GreaterOrEqual(t, got.Scores[domain.PlatformShopee], 34)
	assert.GreaterOrEqual(t, got.Scores[domain.PlatformSPX], 45)
}

func TestClassify_WeightedScoring(t *testing.T) {
	c := newClassifier(t, nil)

	tests := []struct {
		name     string
		text     string
		filename string
		want     domain.Platform
	}{
		{"filename only", "", "Facebook-Ads-Jan.pdf", domain.PlatformMeta},
		{"lazada threshold", "Lazada seller center statement", "lazada_march.pdf", domain.PlatformLazada},
		{"shopee fallback above minimum", "shopee", "", domain.PlatformShopee},
		{"thai tax invoice", "ใบกำกับภาษี\nเลขประจำตัวผู้เสียภาษี 1234567890123\nสาขา 00001", "", domain.PlatformThaiTax},
		{"nothing recognisable", "hello world, nothing to see", "scan_001.pdf", domain.PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text, tt.filename)
			assert.Equal(t, tt.want, got.Label)
			assert.Len(t, got.Scores, len(domain.ScoredPlatforms))
		})
	}
}

func TestClassify_ShopeeFallbackScore(t *testing.T) {
	c := newClassifier(t, nil)
	got := c.Classify("shopee", "")
	assert.Equal(t, 32, got.Scores[domain.PlatformShopee])
}

func TestScore_ThaiTaxPenalty(t *testing.T) {
	c := newClassifier(t, nil)

	scores := c.Score("facebook ใบกำกับภาษี 1234567890123", "")

	assert.Equal(t, 100, scores[domain.PlatformMeta])
	assert.Equal(t, 33, scores[domain.PlatformThaiTax])
}

func TestScore_ShopeeTRSContext(t *testing.T) {
	c := newClassifier(t, nil)

	withCtx := c.Score("trs 000123", "shopee_jan.pdf")
	without := c.Score("trs 000123", "jan.pdf")

	assert.Equal(t, 24+18, withCtx[domain.PlatformShopee])
	assert.Equal(t, 0, without[domain.PlatformShopee])
}

func TestClassify_InvoiceVocabularyWithVendorTaxID(t *testing.T) {
	rs := *rules.Default()
	rs.Classifier.FallbackMinScore = 1000
	rs.Classifier.Platforms = append([]rules.PlatformScoring(nil), rs.Classifier.Platforms...)
	for i := range rs.Classifier.Platforms {
		rs.Classifier.Platforms[i].Threshold = 1000
	}
	c := newClassifier(t, &rs)

	assert.Equal(t, domain.PlatformThaiTax, c.Classify("invoice from vendor 1234567890123", "").Label)
	assert.Equal(t, domain.PlatformUnknown, c.Classify("invoice to client 0105563022918", "").Label)
	assert.Equal(t, 55, rules.Default().Classifier.Platforms[0].Threshold)
}

func TestClassify_EmptyInput(t *testing.T) {
	c := newClassifier(t, nil)

	got := c.Classify("", "")
	assert.Equal(t, domain.PlatformUnknown, got.Label)
	assert.False(t, got.Degraded)
	for _, p := range domain.ScoredPlatforms {
		assert.Equal(t, 0, got.Scores[p])
	}

	got = c.Classify(" \n\t ", "")
	assert.Equal(t, domain.PlatformUnknown, got.Label)
}

func TestClassify_Deterministic(t *testing.T) {
	c := newClassifier(t, nil)
	text := "Lazada invoice\nseller center\nTIV-AA1234 shopee"
	assert.Equal(t, c.Classify(text, "x.pdf"), c.Classify(text, "x.pdf"))
}

func TestNew_BadPattern(t *testing.T) {
	rs := *rules.Default()
	rs.Classifier.TaxIDPattern = "(("
	_, err := classifier.New(&rs, nil)
	require.Error(t, err)
}

func TestClassify_FaultDegrades(t *testing.T) {
	// A Classifier not built by New has no compiled tables and faults while scoring.
	var c classifier.Classifier

	got := c.Classify("Shopee (Thailand) Co., Ltd. tax invoice 1234567890123", "shopee.pdf")

	assert.True(t, got.Degraded)
	assert.Equal(t, domain.PlatformUnknown, got.Label)
	assert.Empty(t, got.FastPath)
	require.Len(t, got.Scores, len(domain.ScoredPlatforms))
	for _, p := range domain.ScoredPlatforms {
		assert.Equal(t, 0, got.Scores[p])
	}
}
