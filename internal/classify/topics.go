package classify

import (
	"sort"
	"strings"

	"github.com/storyloop/storyloop-server/internal/domain"
	"github.com/storyloop/storyloop-server/internal/normalize"
)

// Topic scorer field weights. The topic taxonomy evolved separately from the
// bin table and weighs fields differently; the two scorers are intentionally
// not unified.
const (
	topicTitleWeight       = 5.0
	topicSubtitleWeight    = 3.0
	topicSubjectsWeight    = 4.0
	topicDescriptionWeight = 1.0
)

// Base points per keyword class.
const (
	topicPrimaryPoints   = 3.0
	topicSecondaryPoints = 1.0
	multiWordBonusFactor = 2.0 // multi-word primary keywords are strong signals
)

// ScoreTopics scores a book against the topic keyword taxonomy and applies
// the rule-based topic review gate.
//
// Confidence lands on a 0-100 scale built from three signals: how much the
// winner beats the runner-up, the winner's share of the total, and the gap
// between first and second place as a share of the total.
func ScoreTopics(meta domain.BookMetadata, rules []domain.TopicRule) domain.TopicSuggestion {
	fields := []struct {
		text   string
		weight float64
	}{
		{normalize.Text(meta.Title), topicTitleWeight},
		{normalize.Text(meta.Subtitle), topicSubtitleWeight},
		{normalize.Text(meta.Subjects), topicSubjectsWeight},
		{normalize.Text(meta.Summary), topicDescriptionWeight},
	}

	totals := make(map[string]float64)
	firstSeen := make(map[string]int)

	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		keyword := normalize.Text(rule.Keyword)
		if keyword == "" {
			continue
		}

		base := topicSecondaryPoints
		if rule.Class == domain.TopicPrimary {
			base = topicPrimaryPoints
			if strings.Contains(keyword, " ") {
				base *= multiWordBonusFactor
			}
		}

		for _, field := range fields {
			if field.text == "" || !strings.Contains(field.text, keyword) {
				continue
			}
			if _, seen := totals[rule.Topic]; !seen {
				firstSeen[rule.Topic] = rule.Position
			}
			totals[rule.Topic] += base * field.weight
		}
	}

	var total float64
	ranked := make([]string, 0, len(totals))
	for topic, score := range totals {
		ranked = append(ranked, topic)
		total += score
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if totals[ranked[i]] == totals[ranked[j]] {
			return firstSeen[ranked[i]] < firstSeen[ranked[j]]
		}
		return totals[ranked[i]] > totals[ranked[j]]
	})

	suggestion := domain.TopicSuggestion{TotalScore: total}
	if len(ranked) > 0 {
		suggestion.Topic = ranked[0]
		suggestion.WinnerScore = totals[ranked[0]]
	}
	if len(ranked) > 1 {
		suggestion.RunnerUpScore = totals[ranked[1]]
	}

	suggestion.Confidence = topicConfidence(suggestion.WinnerScore, suggestion.RunnerUpScore, total)
	suggestion.Action, suggestion.Reasons = TopicGate(suggestion)
	return suggestion
}

// topicConfidence computes the 0-100 topic confidence from the winner score,
// runner-up score, and total score. A zero total means zero confidence.
func topicConfidence(winner, runnerUp, total float64) float64 {
	if total == 0 {
		return 0
	}
	howMuchBetter := winner / (runnerUp + 1)
	percentOfTotal := winner / total
	gap := (winner - runnerUp) / total
	return clamp(howMuchBetter*20+percentOfTotal*40+gap*40, 0, 100)
}
