package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyloop/storyloop-server/internal/domain"
)

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine(Options{})
	assert.InDelta(t, DefaultBinScoreCap, e.binScoreCap, 0.001)
	assert.InDelta(t, DefaultReviewThreshold, e.reviewThreshold, 0.001)
}

func TestClassifyCombinesAgeAndBin(t *testing.T) {
	e := NewEngine(Options{})
	meta := domain.BookMetadata{
		Title:       "Robot Friends",
		HasAgeRange: true,
		AgeRangeMin: 6,
		AgeRangeMax: 8,
	}
	rules := []domain.KeywordRule{
		binRule(domain.BinStem, "robot", domain.RuleSourceTitle, 2, 0),
	}

	got := e.Classify(meta, rules, nil)

	assert.Equal(t, domain.AgeTierFledge, got.SuggestedAgeTier)
	assert.Equal(t, domain.BinStem, got.SuggestedBin)
	// age 0.95 * 0.45 + bin 0.2 * 0.55
	assert.InDelta(t, 0.5375, got.Confidence, 0.001)
	assert.True(t, got.NeedsReview)
	assert.Equal(t, EngineVersion, got.EngineVersion)
	assert.Contains(t, got.Reason, "overlaps")
	assert.Contains(t, got.Reason, "scored")
}

func TestClassifyStrongSignalsAutoApprove(t *testing.T) {
	e := NewEngine(Options{})
	meta := domain.BookMetadata{
		Title:       "Robot Friends",
		HasAgeRange: true,
		AgeRangeMin: 6,
		AgeRangeMax: 8,
	}
	rules := []domain.KeywordRule{
		binRule(domain.BinStem, "robot", domain.RuleSourceTitle, 15, 0),
	}

	got := e.Classify(meta, rules, nil)

	// age 0.95 * 0.45 + bin (15*3+2)/40=1(capped) * 0.55 = 0.9775
	assert.InDelta(t, 0.9775, got.Confidence, 0.001)
	assert.False(t, got.NeedsReview)
}

func TestClassifyNoSignalsNeedsReview(t *testing.T) {
	e := NewEngine(Options{})
	got := e.Classify(domain.BookMetadata{Title: "Mystery Item"}, nil, nil)

	assert.Equal(t, domain.AgeTierFledge, got.SuggestedAgeTier)
	assert.Empty(t, got.SuggestedBin)
	assert.True(t, got.NeedsReview)
	// age 0.45 * 0.45 + bin 0 * 0.55
	assert.InDelta(t, 0.2025, got.Confidence, 0.001)
}

func TestCombinedGate(t *testing.T) {
	tests := []struct {
		name       string
		age, bin   float64
		wantCombined float64
		wantReview bool
	}{
		{"both strong", 0.9, 0.8, 0.845, false},
		{"just under threshold", 0.6, 0.68, 0.644, true},
		{"just over threshold", 0.7, 0.62, 0.656, false},
		{"zero", 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			combined, review := CombinedGate(tt.age, tt.bin, DefaultReviewThreshold)
			assert.InDelta(t, tt.wantCombined, combined, 0.001)
			assert.Equal(t, tt.wantReview, review)
		})
	}
}

func TestQuickTier(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		summary string
		want    domain.AgeTier
	}{
		{"chapter book", "My First Chapter Book", "", domain.AgeTierSoar},
		{"middle grade summary", "Lost at Sea", "a middle grade adventure", domain.AgeTierSoar},
		{"learning title", "Learn About Volcanoes", "", domain.AgeTierFledge},
		{"board book", "Baby's First Zoo", "a board book for toddlers", domain.AgeTierHatch},
		{"no signal defaults", "The Quiet Pond", "", domain.AgeTierNest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuickTier(tt.title, tt.summary))
		})
	}
}

func TestDefaultRuleTables(t *testing.T) {
	binRules := DefaultKeywordRules()
	require.NotEmpty(t, binRules)
	for i, r := range binRules {
		assert.True(t, r.Bin.Valid(), "rule %d has invalid bin %q", i, r.Bin)
		assert.True(t, r.Active)
		assert.Equal(t, i, r.Position)
		assert.Positive(t, r.Weight)
	}

	topicRules := DefaultTopicRules()
	require.NotEmpty(t, topicRules)
	for i, r := range topicRules {
		assert.NotEmpty(t, r.Topic)
		assert.Equal(t, i, r.Position)
	}

	for _, o := range DefaultOverrides() {
		assert.True(t, o.Active)
		if o.Kind == domain.OverrideClassic {
			assert.NotEmpty(t, o.TitlePattern)
		}
	}
}
