package rules_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docroute/internal/domain"
	"docroute/internal/rules"
)

func TestDefault_IsValid(t *testing.T) {
	rs := rules.Default()
	require.NotNil(t, rs)
	require.NoError(t, rs.Validate())

	assert.Equal(t, 1, rs.Version)
	assert.Equal(t, 30, rs.Segment.NoiseFloor)
	assert.Equal(t, 60, rs.Segment.MaxSegments)
	assert.Equal(t, 28, rs.Classifier.FallbackMinScore)
	assert.False(t, rs.Segment.HeaderSignature.Enabled)
	assert.False(t, rs.Segment.BoundaryMarkers.Enabled)
}

func TestDefault_PlatformPriorityOrder(t *testing.T) {
	var got []string
	for _, p := range rules.Default().Classifier.Platforms {
		got = append(got, p.Platform)
	}
	assert.Equal(t, []string{"META", "GOOGLE", "SPX", "LAZADA", "TIKTOK", "SHOPEE", "THAI_TAX"}, got)
}

func TestDefault_SameInstance(t *testing.T) {
	assert.Same(t, rules.Default(), rules.Default())
}

func TestIdentifierChain_For(t *testing.T) {
	chain := rules.Default().Signals.TransactionID
	assert.Equal(t, []string{"meta_transaction_id", "meta_reference_no", "transaction_generic"}, chain.For(domain.PlatformMeta))
	assert.Equal(t, []string{"transaction_generic"}, chain.For(domain.PlatformShopee))
}

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	rs, err := rules.Load("")
	require.NoError(t, err)
	assert.Same(t, rules.Default(), rs)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, rules.DefaultYAML(), 0o600))

	rs, err := rules.Load(path)
	require.NoError(t, err)
	assert.Equal(t, rules.Default().Classifier.Platforms, rs.Classifier.Platforms)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := rules.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading rule set")
}

func TestParse_SchemaViolation(t *testing.T) {
	doc := strings.Replace(string(rules.DefaultYAML()), "platform: META\n      threshold: 55", "platform: FACEBOOK\n      threshold: 55", 1)

	_, err := rules.Parse([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidRuleSet)
}

func TestParse_EmptyDocument(t *testing.T) {
	_, err := rules.Parse([]byte(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidRuleSet)
}

func TestParse_UnknownField(t *testing.T) {
	doc := strings.Replace(string(rules.DefaultYAML()), "  noise_floor: 30\n", "  noise_floor: 30\n  noise_ceiling: 9\n", 1)

	_, err := rules.Parse([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidRuleSet)
}

func TestParse_BadRegex(t *testing.T) {
	doc := strings.Replace(string(rules.DefaultYAML()), `seller_id: '(?i)`, `seller_id: '(?i)((`, 1)

	_, err := rules.Parse([]byte(doc))
	require.Error(t, err)
	var verr *rules.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Problems[0], "signals.patterns.seller_id")
}

func TestValidate_CrossReferences(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(rs *rules.RuleSet)
		want   string
	}{
		{
			name: "undefined chain pattern",
			mutate: func(rs *rules.RuleSet) {
				rs.Signals.InvoiceNo.Default = []string{"missing_pattern"}
			},
			want: `undefined pattern "missing_pattern"`,
		},
		{
			name: "unknown doc kind",
			mutate: func(rs *rules.RuleSet) {
				rs.Profile.DocKinds = map[string]rules.DocKindRule{"META": {Default: "META_THING"}}
			},
			want: `unknown doc kind "META_THING"`,
		},
		{
			name: "unknown stable field",
			mutate: func(rs *rules.RuleSet) {
				rs.Segment.StableIdentifiers = map[string][]string{"META": {"order_no"}}
			},
			want: `unknown field "order_no"`,
		},
		{
			name: "duplicate scored platform",
			mutate: func(rs *rules.RuleSet) {
				rs.Classifier.Platforms = append(rs.Classifier.Platforms, rules.PlatformScoring{Platform: "META", Threshold: 1})
			},
			want: "duplicate platform META",
		},
		{
			name: "exclusive signal fields",
			mutate: func(rs *rules.RuleSet) {
				rs.Classifier.Platforms = []rules.PlatformScoring{{
					Platform: "META",
					Signals:  []rules.WeightedSignal{{Pattern: "meta", Literal: "meta", Bonus: 1}},
				}}
			},
			want: "pattern and literal are exclusive",
		},
		{
			name: "missing required pattern",
			mutate: func(rs *rules.RuleSet) {
				delete(rs.Signals.Patterns, rules.PatternPageXOfY)
			},
			want: `missing "page_x_of_y"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := rules.Parse(rules.DefaultYAML())
			require.NoError(t, err)
			tt.mutate(rs)

			err = rs.Validate()
			require.Error(t, err)
			var verr *rules.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, strings.Join(verr.Problems, "\n"), tt.want)
		})
	}
}
