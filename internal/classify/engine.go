// Package classify implements the deterministic intake triage engine: weighted
// keyword scoring of book metadata into an age tier, a storage bin, and a
// topic tag, each with a confidence value and a review gate.
//
// The engine is a rule engine, not a learned model. Every suggestion carries a
// human-readable reason, and low-certainty suggestions are routed to operator
// review instead of being silently accepted.
package classify

import (
	"github.com/storyloop/storyloop-server/internal/domain"
)

// EngineVersion is stamped on every ClassificationResult so stored suggestions
// can be traced back to the rule tables and weights that produced them.
const EngineVersion = "triage-1"

// Engine scores book metadata against the keyword rule tables.
// Safe for concurrent use; all state is read-only configuration.
type Engine struct {
	binScoreCap     float64 // normalization cap for bin scores
	reviewThreshold float64 // combined confidence below this needs review
}

// Options tunes the engine. Zero values fall back to the calibrated defaults.
type Options struct {
	// BinScoreCap normalizes bin scores into a confidence. This is an
	// empirical cap tuned to typical rule-table totals, not a derived
	// maximum; recalibrate it when keyword weights change.
	BinScoreCap float64
	// ReviewThreshold is the combined-confidence floor for auto-approval.
	ReviewThreshold float64
}

// Calibrated defaults.
const (
	DefaultBinScoreCap     = 40.0
	DefaultReviewThreshold = 0.65
)

// NewEngine creates an engine with the given options.
func NewEngine(opts Options) *Engine {
	if opts.BinScoreCap <= 0 {
		opts.BinScoreCap = DefaultBinScoreCap
	}
	if opts.ReviewThreshold <= 0 {
		opts.ReviewThreshold = DefaultReviewThreshold
	}
	return &Engine{
		binScoreCap:     opts.BinScoreCap,
		reviewThreshold: opts.ReviewThreshold,
	}
}

// Classify scores one book against the active rule set and returns a bin/tier
// suggestion. Overrides are consulted first and bypass scoring entirely.
// Classify never fails: missing metadata degrades confidence, it does not
// produce errors.
func (e *Engine) Classify(meta domain.BookMetadata, rules []domain.KeywordRule, overrides []domain.Override) domain.ClassificationResult {
	if res, forcedTier := ResolveOverride(meta.ISBN, meta.Title, overrides); res != nil {
		return *res
	} else if forcedTier != "" {
		// An age override without a classic bin rule forces the tier but
		// still scores the bin.
		binScores := ScoreBins(meta, rules, e.binScoreCap)
		return e.combine(ageScore{Tier: forcedTier, Confidence: overrideConfidence, Reason: "matched age override rule"}, binScores)
	}

	age := ScoreAgeTier(meta)
	binScores := ScoreBins(meta, rules, e.binScoreCap)
	return e.combine(age, binScores)
}

// combine folds the age and bin sub-scores into one gated result.
func (e *Engine) combine(age ageScore, bins BinScores) domain.ClassificationResult {
	combined, needsReview := CombinedGate(age.Confidence, bins.Confidence, e.reviewThreshold)

	reason := age.Reason
	if bins.Reason != "" {
		reason += "; " + bins.Reason
	}

	return domain.ClassificationResult{
		SuggestedAgeTier: age.Tier,
		SuggestedBin:     bins.Top,
		Confidence:       combined,
		Reason:           reason,
		NeedsReview:      needsReview,
		EngineVersion:    EngineVersion,
	}
}

// SuggestTopic runs the independent topic scorer and its rule-based gate.
func (e *Engine) SuggestTopic(meta domain.BookMetadata, rules []domain.TopicRule) domain.TopicSuggestion {
	return ScoreTopics(meta, rules)
}

// clamp01 clamps v into [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clamp clamps v into [lo,hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
