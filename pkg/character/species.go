package character

// speciesRule is one rung of the resolution ladder. Rules are evaluated in
// order and later rules assume every earlier match was false.
type speciesRule struct {
	name    string
	match   func(in Input, id Identity) bool
	resolve func(in Input, r Rand) Resolved
}

var (
	otherOtherPool = []Resolved{ResolvedCreature, ResolvedRobot, ResolvedDrone, ResolvedMutant, ResolvedMutant}
	otherPool      = []Resolved{ResolvedCyborg, ResolvedMutant, ResolvedRobot, ResolvedDrone}
)

func fixed(s Resolved) func(Input, Rand) Resolved {
	return func(Input, Rand) Resolved { return s }
}

func uniform(pool []Resolved) func(Input, Rand) Resolved {
	return func(_ Input, r Rand) Resolved { return pool[r.IntN(len(pool))] }
}

var speciesRules = []speciesRule{
	{
		name:    "reserved",
		match:   func(_ Input, id Identity) bool { return id.IsReserved },
		resolve: fixed(ResolvedAndroid),
	},
	{
		name:    "defective",
		match:   func(_ Input, id Identity) bool { return id.IsDefective },
		resolve: fixed(ResolvedDefective),
	},
	{
		name:    "other-other",
		match:   func(in Input, _ Identity) bool { return in.Species == SpeciesOther && in.Gender == GenderOther },
		resolve: uniform(otherOtherPool),
	},
	{
		name:    "other",
		match:   func(in Input, _ Identity) bool { return in.Species == SpeciesOther },
		resolve: uniform(otherPool),
	},
	{
		name:    "passthrough",
		match:   func(Input, Identity) bool { return true },
		resolve: func(in Input, _ Rand) Resolved { return Resolved(in.Species) },
	},
}

// ResolveSpecies walks the ladder and returns the species plus the name of
// the rule that produced it.
func ResolveSpecies(in Input, id Identity, r Rand) (Resolved, string) {
	for _, rule := range speciesRules {
		if rule.match(in, id) {
			return rule.resolve(in, r), rule.name
		}
	}
	// unreachable: passthrough always matches
	return Resolved(in.Species), "passthrough"
}
