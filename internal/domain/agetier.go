package domain

// AgeTier is one of four fixed reader-age bands used for physical shelving.
// The constant values double as SKU prefixes (e.g. "BN-HATCH-0001").
type AgeTier string

// The four tiers, youngest to oldest. The enumeration is fixed; tiers are
// never created or destroyed at runtime.
const (
	AgeTierHatch  AgeTier = "HATCH"  // 0-2, board books
	AgeTierNest   AgeTier = "NEST"   // 3-5, picture books
	AgeTierFledge AgeTier = "FLEDGE" // 6-8, early readers and chapter books
	AgeTierSoar   AgeTier = "SOAR"   // 9-12, middle grade
)

// AgeTierSpec describes a tier's inclusive age range.
type AgeTierSpec struct {
	Tier   AgeTier `json:"tier"`
	Label  string  `json:"label"`
	MinAge int     `json:"min_age"`
	MaxAge int     `json:"max_age"`
}

// ageTierSpecs is the declared tier order. Overlap-ratio ties resolve to the
// first entry here, so the order is part of the classification contract.
var ageTierSpecs = []AgeTierSpec{
	{Tier: AgeTierHatch, Label: "Ages 0-2", MinAge: 0, MaxAge: 2},
	{Tier: AgeTierNest, Label: "Ages 3-5", MinAge: 3, MaxAge: 5},
	{Tier: AgeTierFledge, Label: "Ages 6-8", MinAge: 6, MaxAge: 8},
	{Tier: AgeTierSoar, Label: "Ages 9-12", MinAge: 9, MaxAge: 12},
}

// AgeTierSpecs returns all tier specs in declared (youngest-first) order.
// The returned slice is shared; callers must not modify it.
func AgeTierSpecs() []AgeTierSpec {
	return ageTierSpecs
}

// Spec returns the spec for this tier.
func (t AgeTier) Spec() (AgeTierSpec, bool) {
	for _, spec := range ageTierSpecs {
		if spec.Tier == t {
			return spec, true
		}
	}
	return AgeTierSpec{}, false
}

// Valid reports whether t is one of the four known tiers.
func (t AgeTier) Valid() bool {
	_, ok := t.Spec()
	return ok
}

// SkuPrefix returns the tier's SKU prefix segment.
func (t AgeTier) SkuPrefix() string {
	return string(t)
}

// YoungestTier returns the first tier in declared order.
func YoungestTier() AgeTier { return ageTierSpecs[0].Tier }

// OldestTier returns the last tier in declared order.
func OldestTier() AgeTier { return ageTierSpecs[len(ageTierSpecs)-1].Tier }
