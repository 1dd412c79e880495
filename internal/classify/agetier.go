package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/storyloop/storyloop-server/internal/domain"
	"github.com/storyloop/storyloop-server/internal/normalize"
)

// ageScore is the age scorer's intermediate result.
type ageScore struct {
	Tier       domain.AgeTier
	Confidence float64
	Reason     string
}

// Reading-age text patterns, tried in order: "4-8", "4 to 8", "age 6".
var (
	rangeDashPattern = regexp.MustCompile(`(\d{1,2})\s*-\s*(\d{1,2})`)
	rangeToPattern   = regexp.MustCompile(`(\d{1,2})\s+to\s+(\d{1,2})`)
	singleAgePattern = regexp.MustCompile(`age\s+(\d{1,2})`)
)

// Format hints mapped directly to tiers when no age range is available.
// Declared order is match order.
var formatHints = []struct {
	hint       string
	tier       domain.AgeTier
	confidence float64
}{
	{"board", domain.AgeTierHatch, 0.72},
	{"picture", domain.AgeTierNest, 0.70},
	{"chapter", domain.AgeTierFledge, 0.72},
	{"graphic", domain.AgeTierFledge, 0.66},
}

// ScoreAgeTier maps book metadata to an age tier with a confidence value.
//
// Resolution order: explicit numeric range, parsed reading-age text, format
// hint, then a low-confidence default. Malformed ranges (min > max) fall
// through to the next step rather than erroring.
func ScoreAgeTier(meta domain.BookMetadata) ageScore {
	if meta.HasAgeRange {
		if score, ok := scoreAgeRange(meta.AgeRangeMin, meta.AgeRangeMax); ok {
			return score
		}
	}

	if min, max, ok := parseReadingAge(meta.ReadingAge); ok {
		if score, ok := scoreAgeRange(min, max); ok {
			return score
		}
	}

	haystack := normalize.JoinFields(meta.Format, meta.Title, meta.Subtitle)
	for _, fh := range formatHints {
		if strings.Contains(haystack, fh.hint) {
			return ageScore{
				Tier:       fh.tier,
				Confidence: fh.confidence,
				Reason:     "matched format hint " + strconv.Quote(fh.hint),
			}
		}
	}

	return ageScore{
		Tier:       domain.AgeTierFledge,
		Confidence: 0.45,
		Reason:     "defaulted due to limited age metadata",
	}
}

// scoreAgeRange picks the tier with the highest overlap ratio against the
// candidate range. Ties resolve to the tier table's declared order (first max
// wins). Returns ok=false for malformed ranges.
func scoreAgeRange(min, max int) (ageScore, bool) {
	if min > max || min < 0 {
		return ageScore{}, false
	}

	candSpan := max - min + 1
	if candSpan < 1 {
		candSpan = 1
	}

	var best domain.AgeTierSpec
	bestRatio := -1.0
	for _, spec := range domain.AgeTierSpecs() {
		overlap := minInt(max, spec.MaxAge) - maxInt(min, spec.MinAge) + 1
		if overlap < 0 {
			overlap = 0
		}
		ratio := float64(overlap) / float64(candSpan)
		if ratio > bestRatio {
			bestRatio = ratio
			best = spec
		}
	}

	return ageScore{
		Tier:       best.Tier,
		Confidence: clamp01(0.6 + bestRatio*0.35),
		Reason:     "age range " + strconv.Itoa(min) + "-" + strconv.Itoa(max) + " overlaps " + best.Label,
	}, true
}

// parseReadingAge extracts a numeric range from free-text reading-age strings
// such as "Ages 4-8", "4 to 8 years", or "age 6".
func parseReadingAge(raw string) (min, max int, ok bool) {
	text := normalize.Text(raw)
	if text == "" {
		return 0, 0, false
	}

	if m := rangeDashPattern.FindStringSubmatch(text); m != nil {
		return atoiPair(m[1], m[2])
	}
	if m := rangeToPattern.FindStringSubmatch(text); m != nil {
		return atoiPair(m[1], m[2])
	}
	if m := singleAgePattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, 0, false
		}
		return n, n, true
	}

	return 0, 0, false
}

func atoiPair(a, b string) (int, int, bool) {
	min, err1 := strconv.Atoi(a)
	max, err2 := strconv.Atoi(b)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return min, max, true
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
