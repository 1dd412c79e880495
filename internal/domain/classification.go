package domain

// ReviewAction is the review-gate outcome attached to a suggestion.
type ReviewAction string

// Review-gate outcomes.
const (
	ActionAutoApprove   ReviewAction = "AUTO_APPROVE"
	ActionRequireReview ReviewAction = "REQUIRE_REVIEW"
)

// BookMetadata is the normalized collaborator-boundary shape for book
// metadata, whether fetched by ISBN or supplied by a caller.
type BookMetadata struct {
	ISBN        string `json:"isbn,omitempty"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Author      string `json:"author,omitempty"`
	Subjects    string `json:"subjects,omitempty"`
	Summary     string `json:"summary,omitempty"`
	ReadingAge  string `json:"reading_age,omitempty"` // free text, e.g. "ages 4-8"
	Format      string `json:"format,omitempty"`      // e.g. "board book", "picture book"
	CoverURL    string `json:"cover_url,omitempty"`
	AgeRangeMin int    `json:"age_range_min,omitempty"`
	AgeRangeMax int    `json:"age_range_max,omitempty"`
	HasAgeRange bool   `json:"has_age_range,omitempty"`
}

// ClassificationResult is the classifier's suggestion for one book.
// Produced fresh per call; never persisted by the classifier itself.
type ClassificationResult struct {
	SuggestedAgeTier AgeTier `json:"suggested_age_tier"`
	SuggestedBin     Bin     `json:"suggested_bin"`
	Confidence       float64 `json:"confidence"` // [0,1]
	Reason           string  `json:"reason"`
	NeedsReview      bool    `json:"needs_review"`
	EngineVersion    string  `json:"engine_version"`
}

// TopicSuggestion is the topic scorer's outcome for one book. Its confidence
// lives on a 0-100 scale and its review gate is rule-based; it is deliberately
// a different mechanism from ClassificationResult's threshold gate.
type TopicSuggestion struct {
	Topic         string       `json:"topic"`
	WinnerScore   float64      `json:"winner_score"`
	RunnerUpScore float64      `json:"runner_up_score"`
	TotalScore    float64      `json:"total_score"`
	Confidence    float64      `json:"confidence"` // [0,100]
	Action        ReviewAction `json:"action"`
	Reasons       []string     `json:"reasons,omitempty"`
}
