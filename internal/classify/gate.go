package classify

import (
	"github.com/storyloop/storyloop-server/internal/domain"
)

// The two review gates below are deliberately distinct strategies: the
// combined threshold gates bin/tier classification on a [0,1] scale, while
// the rule-based gate inspects raw topic scores on a 0-100 scale. Operators
// rely on their separate trigger behavior; do not merge them.

// Sub-score weights for the combined classification confidence.
const (
	ageConfidenceWeight = 0.45
	binConfidenceWeight = 0.55
)

// CombinedGate folds the age and bin confidences into one overall confidence
// and decides whether the suggestion needs human review.
func CombinedGate(ageConfidence, binConfidence, reviewThreshold float64) (combined float64, needsReview bool) {
	combined = clamp01(ageConfidence*ageConfidenceWeight + binConfidence*binConfidenceWeight)
	return combined, combined < reviewThreshold
}

// Topic gate thresholds.
const (
	topicMinConfidence = 60.0 // 0-100 scale
	topicMinTotal      = 10.0
	topicMinWinnerPct  = 0.30
	topicMinGapPct     = 0.15
)

// TopicGate applies five independent review rules to a topic suggestion.
// Any triggered rule forces review; each contributes its own reason.
func TopicGate(s domain.TopicSuggestion) (domain.ReviewAction, []string) {
	var reasons []string

	if s.TotalScore == 0 {
		// Deliberate short-circuit: a zero total would trip every other rule
		// (and divide two of them by zero), all saying the same thing. One
		// reason keeps the review queue readable; the action is review
		// either way.
		reasons = append(reasons, "no keyword matches found")
	} else {
		if s.Confidence < topicMinConfidence {
			reasons = append(reasons, "low confidence")
		}
		if s.TotalScore < topicMinTotal {
			reasons = append(reasons, "weak signal")
		}
		if s.WinnerScore/s.TotalScore < topicMinWinnerPct {
			reasons = append(reasons, "winner too weak")
		}
		if (s.WinnerScore-s.RunnerUpScore)/s.TotalScore < topicMinGapPct {
			reasons = append(reasons, "too close")
		}
	}

	if len(reasons) > 0 {
		return domain.ActionRequireReview, reasons
	}
	return domain.ActionAutoApprove, nil
}
