package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyloop/storyloop-server/internal/domain"
)

func TestScoreAgeTierExplicitRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		wantTier domain.AgeTier
		wantConf float64
	}{
		{"exact fledge band", 6, 8, domain.AgeTierFledge, 0.95},
		{"exact hatch band", 0, 2, domain.AgeTierHatch, 0.95},
		{"wide range leans oldest overlap", 3, 12, domain.AgeTierSoar, 0.74},
		{"single age", 4, 4, domain.AgeTierNest, 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := domain.BookMetadata{
				HasAgeRange: true,
				AgeRangeMin: tt.min,
				AgeRangeMax: tt.max,
			}
			got := ScoreAgeTier(meta)
			assert.Equal(t, tt.wantTier, got.Tier)
			assert.InDelta(t, tt.wantConf, got.Confidence, 0.001)
		})
	}
}

func TestScoreAgeTierTieBreakIsDeterministic(t *testing.T) {
	// 4-7 overlaps NEST (4-5) and FLEDGE (6-7) equally; the younger tier is
	// declared first and must win every time.
	meta := domain.BookMetadata{HasAgeRange: true, AgeRangeMin: 4, AgeRangeMax: 7}
	for range 50 {
		got := ScoreAgeTier(meta)
		require.Equal(t, domain.AgeTierNest, got.Tier)
	}
}

func TestScoreAgeTierReadingAgeText(t *testing.T) {
	tests := []struct {
		name       string
		readingAge string
		wantTier   domain.AgeTier
	}{
		{"dash range", "Ages 4-8", domain.AgeTierFledge},
		{"to range", "4 to 8 years", domain.AgeTierFledge},
		{"single age", "age 6", domain.AgeTierFledge},
		{"toddler range", "Ages 0-2", domain.AgeTierHatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreAgeTier(domain.BookMetadata{ReadingAge: tt.readingAge})
			assert.Equal(t, tt.wantTier, got.Tier)
		})
	}
}

func TestScoreAgeTierFormatHints(t *testing.T) {
	tests := []struct {
		name     string
		meta     domain.BookMetadata
		wantTier domain.AgeTier
		wantConf float64
	}{
		{"board book format", domain.BookMetadata{Format: "Board Book"}, domain.AgeTierHatch, 0.72},
		{"picture book in title", domain.BookMetadata{Title: "A Picture Book of Bears"}, domain.AgeTierNest, 0.70},
		{"chapter hint", domain.BookMetadata{Format: "Chapter Book"}, domain.AgeTierFledge, 0.72},
		{"graphic novel", domain.BookMetadata{Format: "Graphic Novel"}, domain.AgeTierFledge, 0.66},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreAgeTier(tt.meta)
			assert.Equal(t, tt.wantTier, got.Tier)
			assert.InDelta(t, tt.wantConf, got.Confidence, 0.001)
		})
	}
}

func TestScoreAgeTierDefault(t *testing.T) {
	got := ScoreAgeTier(domain.BookMetadata{Title: "An Unremarkable Story"})
	assert.Equal(t, domain.AgeTierFledge, got.Tier)
	assert.InDelta(t, 0.45, got.Confidence, 0.001)
	assert.Equal(t, "defaulted due to limited age metadata", got.Reason)
}

func TestScoreAgeTierMalformedRangeFallsThrough(t *testing.T) {
	// min > max is rejected, the format hint takes over.
	meta := domain.BookMetadata{
		HasAgeRange: true,
		AgeRangeMin: 9,
		AgeRangeMax: 5,
		Format:      "Board Book",
	}
	got := ScoreAgeTier(meta)
	assert.Equal(t, domain.AgeTierHatch, got.Tier)
	assert.InDelta(t, 0.72, got.Confidence, 0.001)
}

func TestParseReadingAge(t *testing.T) {
	tests := []struct {
		raw      string
		min, max int
		ok       bool
	}{
		{"Ages 4-8", 4, 8, true},
		{"4 to 8 years", 4, 8, true},
		{"age 6", 6, 6, true},
		{"", 0, 0, false},
		{"for young readers", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			min, max, ok := parseReadingAge(tt.raw)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.min, min)
				assert.Equal(t, tt.max, max)
			}
		})
	}
}
