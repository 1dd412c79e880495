package classify

import (
	"strings"

	"github.com/storyloop/storyloop-server/internal/domain"
	"github.com/storyloop/storyloop-server/internal/normalize"
)

// overrideConfidence is the fixed confidence assigned when an override
// bypasses scoring. Overrides are human-curated, so they skip review.
const overrideConfidence = 0.9

// overrideFallbackTier is used when a classic override forces a bin but
// neither it nor an age override names a tier. Classics skew toward the
// picture-book band.
const overrideFallbackTier = domain.AgeTierNest

// ResolveOverride consults the override tables before any scoring runs.
//
// Lookup order: an exact-ISBN age override first, then a classic override
// matched by exact ISBN or case-insensitive title-substring pattern. A classic
// override that forces a bin short-circuits classification entirely and the
// returned result is final. An age override alone returns only the forced
// tier; the caller still scores the bin.
func ResolveOverride(isbn, title string, overrides []domain.Override) (*domain.ClassificationResult, domain.AgeTier) {
	normISBN, _ := normalize.ISBN(isbn)
	normTitle := normalize.Text(title)

	var forcedTier domain.AgeTier
	for _, o := range overrides {
		if o.Active && o.Kind == domain.OverrideAge && o.ISBN != "" && o.ISBN == normISBN {
			forcedTier = o.ForcedAgeTier
			break
		}
	}

	for _, o := range overrides {
		if !o.Active || o.Kind != domain.OverrideClassic {
			continue
		}
		if !matchesClassic(o, normISBN, normTitle) {
			continue
		}
		if o.ForcedBin == "" {
			continue
		}

		tier := o.ForcedAgeTier
		if tier == "" {
			tier = forcedTier
		}
		if tier == "" {
			tier = overrideFallbackTier
		}

		return &domain.ClassificationResult{
			SuggestedAgeTier: tier,
			SuggestedBin:     o.ForcedBin,
			Confidence:       overrideConfidence,
			Reason:           "matched classic override rule",
			NeedsReview:      false,
			EngineVersion:    EngineVersion,
		}, ""
	}

	return nil, forcedTier
}

// matchesClassic reports whether a classic override matches the book.
func matchesClassic(o domain.Override, normISBN, normTitle string) bool {
	if o.ISBN != "" && o.ISBN == normISBN {
		return true
	}
	if o.TitlePattern != "" && normTitle != "" {
		return strings.Contains(normTitle, normalize.Text(o.TitlePattern))
	}
	return false
}
