package classify

import (
	"strings"

	"github.com/storyloop/storyloop-server/internal/domain"
	"github.com/storyloop/storyloop-server/internal/normalize"
)

// Scan-time tier heuristic keywords, checked oldest-first. These are coarse
// defaults for the scan workflow; the full engine refines them when the
// operator requests a classification preview.
var tierHeuristics = []struct {
	keywords []string
	tier     domain.AgeTier
}{
	{[]string{"chapter", "middle grade"}, domain.AgeTierSoar},
	{[]string{"learn", "science", "history"}, domain.AgeTierFledge},
	{[]string{"board book", "toddler", "baby"}, domain.AgeTierHatch},
}

// QuickTier is the lightweight age-tier heuristic applied at scan time.
// It matches keywords against the normalized title and summary; books with no
// signal land in the second tier, the service's most common band.
func QuickTier(title, summary string) domain.AgeTier {
	haystack := normalize.JoinFields(title, summary)
	for _, h := range tierHeuristics {
		for _, kw := range h.keywords {
			if strings.Contains(haystack, kw) {
				return h.tier
			}
		}
	}
	return domain.AgeTierNest
}
