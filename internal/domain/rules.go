package domain

// RuleSource selects which text field a keyword rule scores against.
// Each source carries a fixed multiplier applied to the rule weight.
type RuleSource string

// Keyword rule sources.
const (
	RuleSourceTitle   RuleSource = "title"
	RuleSourceSubject RuleSource = "subject"
	RuleSourceSummary RuleSource = "summary"
)

// Multiplier returns the fixed per-field multiplier for this source.
func (s RuleSource) Multiplier() float64 {
	switch s {
	case RuleSourceTitle:
		return 3
	case RuleSourceSubject:
		return 2
	case RuleSourceSummary:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is a known rule source.
func (s RuleSource) Valid() bool {
	return s.Multiplier() > 0
}

// KeywordRule is one weighted keyword mapping used by the bin scorer.
// Rules are immutable reference data; Position preserves insertion order,
// which is the tie-break for equal top scores.
type KeywordRule struct {
	Record
	Bin      Bin        `json:"bin"`
	Keyword  string     `json:"keyword"` // stored normalized
	Source   RuleSource `json:"source"`
	Weight   float64    `json:"weight"`
	Position int        `json:"position"`
	Active   bool       `json:"active"`
}

// TopicClass distinguishes primary from secondary topic keywords.
type TopicClass string

// Topic keyword classes. Primary keywords score 3 base points,
// secondary score 1; multi-word primaries score double.
const (
	TopicPrimary   TopicClass = "primary"
	TopicSecondary TopicClass = "secondary"
)

// TopicRule is one keyword mapping used by the topic scorer. Topics tag books
// thematically and are independent of physical bin placement.
type TopicRule struct {
	Record
	Topic    string     `json:"topic"`
	Keyword  string     `json:"keyword"` // stored normalized
	Class    TopicClass `json:"class"`
	Position int        `json:"position"`
	Active   bool       `json:"active"`
}

// OverrideKind distinguishes the two override tables.
type OverrideKind string

// Override kinds. Age overrides force a tier by exact ISBN; classic overrides
// force a bin (and optionally a tier) by exact ISBN or title pattern.
const (
	OverrideAge     OverrideKind = "age"
	OverrideClassic OverrideKind = "classic"
)

// Override is a manually curated rule that bypasses scoring for known
// exceptional titles. Looked up before any scorer runs.
type Override struct {
	Record
	Kind          OverrideKind `json:"kind"`
	ISBN          string       `json:"isbn,omitempty"`          // exact match, normalized
	TitlePattern  string       `json:"title_pattern,omitempty"` // case-insensitive substring
	ForcedAgeTier AgeTier      `json:"forced_age_tier,omitempty"`
	ForcedBin     Bin          `json:"forced_bin,omitempty"`
	Active        bool         `json:"active"`
}
