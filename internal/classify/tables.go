package classify

import (
	"github.com/storyloop/storyloop-server/internal/domain"
)

// Default rule tables, seeded into the store on first boot. These are
// declarative, versioned data: the scoring algorithms never reference a
// specific keyword, so the tables can be tuned without touching the engine.
// Row order matters — it is the tie-break for equal scores.

// keywordSeed is a compact literal form for the default bin rules.
type keywordSeed struct {
	bin     domain.Bin
	keyword string
	source  domain.RuleSource
	weight  float64
}

var defaultKeywordSeeds = []keywordSeed{
	// Picture books
	{domain.BinPicture, "picture book", domain.RuleSourceTitle, 4},
	{domain.BinPicture, "picture book", domain.RuleSourceSubject, 3},
	{domain.BinPicture, "bedtime", domain.RuleSourceSummary, 2},
	{domain.BinPicture, "rhyme", domain.RuleSourceSummary, 2},
	{domain.BinPicture, "illustrated", domain.RuleSourceSummary, 1.5},

	// Early readers
	{domain.BinEarly, "early reader", domain.RuleSourceSubject, 4},
	{domain.BinEarly, "learn to read", domain.RuleSourceSummary, 3},
	{domain.BinEarly, "first words", domain.RuleSourceTitle, 3},
	{domain.BinEarly, "phonics", domain.RuleSourceSubject, 3},

	// Chapter books
	{domain.BinChapter, "chapter book", domain.RuleSourceSubject, 4},
	{domain.BinChapter, "chapter", domain.RuleSourceTitle, 2},
	{domain.BinChapter, "series", domain.RuleSourceSummary, 1},

	// Middle grade
	{domain.BinMiddle, "middle grade", domain.RuleSourceSubject, 4},
	{domain.BinMiddle, "novel", domain.RuleSourceSummary, 2},
	{domain.BinMiddle, "adventure", domain.RuleSourceSummary, 1.5},
	{domain.BinMiddle, "fantasy", domain.RuleSourceSubject, 2},

	// Nonfiction
	{domain.BinNonfic, "nonfiction", domain.RuleSourceSubject, 4},
	{domain.BinNonfic, "biography", domain.RuleSourceSubject, 3},
	{domain.BinNonfic, "history", domain.RuleSourceSubject, 2.5},
	{domain.BinNonfic, "atlas", domain.RuleSourceTitle, 3},

	// Animals, nature, everyday life
	{domain.BinLife, "animals", domain.RuleSourceSubject, 3},
	{domain.BinLife, "zoo", domain.RuleSourceTitle, 2.5},
	{domain.BinLife, "nature", domain.RuleSourceSubject, 2.5},
	{domain.BinLife, "farm", domain.RuleSourceSummary, 2},
	{domain.BinLife, "family", domain.RuleSourceSummary, 1.5},

	// Classics
	{domain.BinClassics, "classic", domain.RuleSourceSubject, 4},
	{domain.BinClassics, "treasury", domain.RuleSourceTitle, 3},

	// STEM
	{domain.BinStem, "science", domain.RuleSourceSubject, 3},
	{domain.BinStem, "math", domain.RuleSourceSubject, 3},
	{domain.BinStem, "space", domain.RuleSourceTitle, 2.5},
	{domain.BinStem, "robot", domain.RuleSourceTitle, 2.5},
	{domain.BinStem, "experiment", domain.RuleSourceSummary, 2},
}

// DefaultKeywordRules returns the seed bin rule table. IDs and timestamps are
// assigned by the store at seed time; Position reflects row order here.
func DefaultKeywordRules() []domain.KeywordRule {
	rules := make([]domain.KeywordRule, len(defaultKeywordSeeds))
	for i, s := range defaultKeywordSeeds {
		rules[i] = domain.KeywordRule{
			Bin:      s.bin,
			Keyword:  s.keyword,
			Source:   s.source,
			Weight:   s.weight,
			Position: i,
			Active:   true,
		}
	}
	return rules
}

// topicSeed is a compact literal form for the default topic rules.
type topicSeed struct {
	topic   string
	keyword string
	class   domain.TopicClass
}

var defaultTopicSeeds = []topicSeed{
	{"animals", "animals", domain.TopicPrimary},
	{"animals", "dinosaur", domain.TopicPrimary},
	{"animals", "pet", domain.TopicSecondary},
	{"animals", "dog", domain.TopicSecondary},
	{"animals", "cat", domain.TopicSecondary},

	{"science", "solar system", domain.TopicPrimary},
	{"science", "science", domain.TopicPrimary},
	{"science", "experiment", domain.TopicSecondary},
	{"science", "nature", domain.TopicSecondary},

	{"friendship", "best friend", domain.TopicPrimary},
	{"friendship", "friendship", domain.TopicPrimary},
	{"friendship", "kindness", domain.TopicSecondary},

	{"adventure", "treasure hunt", domain.TopicPrimary},
	{"adventure", "adventure", domain.TopicPrimary},
	{"adventure", "quest", domain.TopicSecondary},

	{"bedtime", "good night", domain.TopicPrimary},
	{"bedtime", "bedtime", domain.TopicPrimary},
	{"bedtime", "sleep", domain.TopicSecondary},
}

// DefaultTopicRules returns the seed topic rule table.
func DefaultTopicRules() []domain.TopicRule {
	rules := make([]domain.TopicRule, len(defaultTopicSeeds))
	for i, s := range defaultTopicSeeds {
		rules[i] = domain.TopicRule{
			Topic:    s.topic,
			Keyword:  s.keyword,
			Class:    s.class,
			Position: i,
			Active:   true,
		}
	}
	return rules
}

// DefaultOverrides returns the seed override table: a handful of well-known
// classics whose scoring would otherwise be unreliable.
func DefaultOverrides() []domain.Override {
	return []domain.Override{
		{Kind: domain.OverrideClassic, TitlePattern: "goodnight moon", ForcedBin: domain.BinClassics, ForcedAgeTier: domain.AgeTierHatch, Active: true},
		{Kind: domain.OverrideClassic, TitlePattern: "where the wild things are", ForcedBin: domain.BinClassics, ForcedAgeTier: domain.AgeTierNest, Active: true},
		{Kind: domain.OverrideClassic, TitlePattern: "charlotte's web", ForcedBin: domain.BinClassics, ForcedAgeTier: domain.AgeTierFledge, Active: true},
		{Kind: domain.OverrideAge, ISBN: "9780064400558", ForcedAgeTier: domain.AgeTierSoar, Active: true},
	}
}
