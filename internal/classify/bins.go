package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/storyloop/storyloop-server/internal/domain"
	"github.com/storyloop/storyloop-server/internal/normalize"
)

// exactPhraseBonus is added when a keyword matches as a whole token rather
// than merely as a substring.
const exactPhraseBonus = 2.0

// BinScore is one bin's aggregate keyword score.
type BinScore struct {
	Bin   domain.Bin `json:"bin"`
	Score float64    `json:"score"`
}

// BinScores is the ranked outcome of scoring one book against the keyword
// rule table.
type BinScores struct {
	// Ranked is sorted by score descending. Exact ties keep rule insertion
	// order, so callers must not rely on a specific winner among ties.
	Ranked     []BinScore `json:"ranked"`
	Top        domain.Bin `json:"top"`
	Confidence float64    `json:"confidence"` // [0,1], top score over the cap
	Reason     string     `json:"reason"`
}

// ScoreBins scores a book's text fields against the weighted keyword rules.
//
// Each active rule reads one source field (title, subject, or summary) with a
// fixed per-field multiplier. A substring match contributes weight*multiplier;
// a whole-token match adds a further fixed bonus. Confidence is the top bin's
// score normalized by scoreCap, an empirical cap rather than a theoretical
// maximum.
func ScoreBins(meta domain.BookMetadata, rules []domain.KeywordRule, scoreCap float64) BinScores {
	title := normalize.JoinFields(meta.Title, meta.Subtitle)
	subjects := normalize.Text(meta.Subjects)
	summary := normalize.Text(meta.Summary)

	totals := make(map[domain.Bin]float64)
	firstSeen := make(map[domain.Bin]int) // rule position of each bin's first match

	for _, rule := range rules {
		if !rule.Active || rule.Keyword == "" {
			continue
		}

		var text string
		switch rule.Source {
		case domain.RuleSourceTitle:
			text = title
		case domain.RuleSourceSubject:
			text = subjects
		case domain.RuleSourceSummary:
			text = summary
		default:
			continue
		}

		keyword := normalize.Text(rule.Keyword)
		if keyword == "" || !strings.Contains(text, keyword) {
			continue
		}

		score := rule.Weight * rule.Source.Multiplier()
		if normalize.HasToken(text, keyword) {
			score += exactPhraseBonus
		}

		if _, seen := totals[rule.Bin]; !seen {
			firstSeen[rule.Bin] = rule.Position
		}
		totals[rule.Bin] += score
	}

	if len(totals) == 0 {
		return BinScores{Reason: "no bin keywords matched"}
	}

	ranked := make([]BinScore, 0, len(totals))
	for bin, score := range totals {
		ranked = append(ranked, BinScore{Bin: bin, Score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score == ranked[j].Score {
			return firstSeen[ranked[i].Bin] < firstSeen[ranked[j].Bin]
		}
		return ranked[i].Score > ranked[j].Score
	})

	top := ranked[0]
	return BinScores{
		Ranked:     ranked,
		Top:        top.Bin,
		Confidence: clamp01(top.Score / scoreCap),
		Reason:     fmt.Sprintf("bin %s scored %.1f across %d bins", top.Bin, top.Score, len(ranked)),
	}
}
