package share

// ImportPlan says what to do with each recipe of an inbound package.
type ImportPlan struct {
	// Existing maps sender IDs to local recipes with the same fingerprint.
	Existing map[int64]int64
	// Aliases maps sender IDs to an earlier identical recipe in the package.
	Aliases map[int64]int64
	// New lists the sender IDs to insert, in package order.
	New []int64
}

// PlanImport checks the recipes of p against existing, a map from
// fingerprint to local recipe ID.
func PlanImport(p *Package, existing map[string]int64) ImportPlan {
	plan := ImportPlan{
		Existing: make(map[int64]int64),
		Aliases:  make(map[int64]int64),
	}
	firstSeen := make(map[string]int64)
	for _, r := range p.Recipes {
		fp := Fingerprint(r)
		if localID, ok := existing[fp]; ok {
			plan.Existing[r.ID] = localID
			continue
		}
		if first, ok := firstSeen[fp]; ok {
			plan.Aliases[r.ID] = first
			continue
		}
		firstSeen[fp] = r.ID
		plan.New = append(plan.New, r.ID)
	}
	return plan
}

// Duplicates is the number of package recipes that will not be inserted.
func (pl ImportPlan) Duplicates() int {
	return len(pl.Existing) + len(pl.Aliases)
}

// Mapping combines the plan with the local IDs assigned to inserted recipes
// into a full sender-to-local ID mapping.
func (pl ImportPlan) Mapping(inserted map[int64]int64) map[int64]int64 {
	m := make(map[int64]int64, len(pl.Existing)+len(pl.Aliases)+len(inserted))
	for from, to := range pl.Existing {
		m[from] = to
	}
	for from, to := range inserted {
		m[from] = to
	}
	for from, first := range pl.Aliases {
		if to, ok := m[first]; ok {
			m[from] = to
		}
	}
	return m
}

// RemapIDs translates sender IDs to local IDs. IDs without a mapping are
// dropped.
func RemapIDs(ids []int64, mapping map[int64]int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if local, ok := mapping[id]; ok {
			out = append(out, local)
		}
	}
	return out
}
