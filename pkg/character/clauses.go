package character

import (
	"fmt"
)

// variant is one pre-authored option with its relative weight.
type variant struct {
	weight int
	text   string
}

func pick(r Rand, vs []variant) string {
	total := 0
	for _, v := range vs {
		total += v.weight
	}
	if total <= 0 {
		return ""
	}
	n := r.IntN(total)
	for _, v := range vs {
		if n < v.weight {
			return v.text
		}
		n -= v.weight
	}
	return vs[len(vs)-1].text
}

func even(texts ...string) []variant {
	vs := make([]variant, len(texts))
	for i, t := range texts {
		vs[i] = variant{weight: 1, text: t}
	}
	return vs
}

const (
	RoleSoldier   = "soldier"
	RoleScientist = "scientist"
	RoleCivilian  = "civilian"
)

var (
	humanRoles       = []string{RoleSoldier, RoleScientist, RoleCivilian}
	humanEthnicities = even(
		"of East Asian descent",
		"of West African descent",
		"of Latin American descent",
		"of Northern European descent",
		"of South Asian descent",
	)
	humanBodies = even(
		"lean and wiry from years of rationing",
		"gaunt, with hollow cheeks and sharp collarbones",
		"short and compact, hardened by scavenging",
		"tall but visibly underfed",
	)
	referenceBody = "with a body type that matches the reference photo"

	roleClothing = map[string]string{
		RoleSoldier:   "patched tactical armor over a faded fatigue jacket, ammunition webbing and scuffed combat boots",
		RoleScientist: "a stained, frayed lab coat over layered thermal clothing, with goggles pushed up on the forehead",
		RoleCivilian:  "mismatched scavenged clothing, a tattered scarf and a makeshift satchel",
	}
	roleLocation = map[string]string{
		RoleSoldier:   "a fortified checkpoint built from scrap metal and sandbags",
		RoleScientist: "a dim makeshift laboratory lit by flickering salvaged monitors",
		RoleCivilian:  "a crowded ration market among the ruins of a collapsed city",
	}
)

// BodyPlan is the archetype a non-humanoid drone or creature is built on.
type BodyPlan struct {
	Key     string
	Machine string
	Organic string
}

var bodyPlans = []BodyPlan{
	{"flying", "a hovering frame held aloft by whirring rotors", "broad, leathery wings"},
	{"insectoid", "a segmented insect-like frame on six articulated legs", "a chitinous insectoid body"},
	{"serpentine", "a long serpentine frame of linked metal segments", "a long, coiling serpentine body"},
	{"spherical", "a compact spherical shell ringed with sensor lenses", "a bloated, rounded body"},
	{"multi-limbed", "a squat core sprouting many jointed manipulator arms", "an excess of jointed limbs"},
}

// Traits are the random rolls made for one run. Which fields are set
// depends on the resolved species.
type Traits struct {
	Role      string `json:"role,omitempty"`
	Ethnicity string `json:"ethnicity,omitempty"`
	Body      string `json:"body,omitempty"`
	BodyPlan  string `json:"bodyPlan,omitempty"`
	Variant   string `json:"variant,omitempty"`
}

// clauseSet is the table row for one resolved species.
type clauseSet struct {
	clothing    func(t Traits) string
	location    func(t Traits) string
	nameDisplay string
	variants    []variant
	bodyPlan    func(p BodyPlan) string
	appearance  func(g Gender, t Traits) string
}

func constant(s string) func(Traits) string {
	return func(Traits) string { return s }
}

var clauseTable = map[Resolved]clauseSet{
	ResolvedHuman: {
		clothing:    func(t Traits) string { return roleClothing[t.Role] },
		location:    func(t Traits) string { return roleLocation[t.Role] },
		nameDisplay: `a stitched name tag on the chest that clearly reads "%s"`,
		appearance: func(g Gender, t Traits) string {
			return fmt.Sprintf("a weathered %s %s working as a %s, %s", humanNoun(g), t.Ethnicity, t.Role, t.Body)
		},
	},
	ResolvedAndroid: {
		clothing:    constant("a utilitarian synthetic bodysuit with faded unit markings"),
		location:    constant("a derelict android maintenance bay strewn with spare parts"),
		nameDisplay: `the designation "%s" stenciled across the left shoulder plate`,
		variants: []variant{
			{3, "pale"},
			{2, "scuffed, grey-tinted"},
			{1, "partially peeled"},
		},
		appearance: func(g Gender, t Traits) string {
			return fmt.Sprintf("a humanoid android with a smooth white face plate, glowing optic sensors and visible seams along its %s synthetic skin, built with %s proportions", t.Variant, genderAdj(g))
		},
	},
	ResolvedRobot: {
		clothing:    constant("a tattered tarp worn as a cloak over exposed plating"),
		location:    constant("an abandoned automated factory floor"),
		nameDisplay: `"%s" etched into a riveted metal plate on its chest`,
		variants: []variant{
			{3, "a heavy industrial robot with hydraulic limbs and a dented, rust-streaked chassis"},
			{2, "a scrap-built robot pieced together from mismatched salvaged panels"},
			{1, "a sleek former security robot with a cracked visor and scorched armor"},
		},
		appearance: func(g Gender, t Traits) string {
			return fmt.Sprintf("%s, with a %s silhouette", t.Variant, genderAdj(g))
		},
	},
	ResolvedDrone: {
		clothing:    constant("strips of scavenged cloth and cargo netting lashed to its frame"),
		location:    constant("a scrapyard of wrecked vehicles under a smog-choked sky"),
		nameDisplay: `"%s" spray-painted in block letters across its hull`,
		bodyPlan:    func(p BodyPlan) string { return p.Machine },
		appearance: func(g Gender, t Traits) string {
			return fmt.Sprintf("a scavenger drone built as %s, its single red sensor eye glowing through the grime, its design carrying subtle %s cues", t.Body, genderAdj(g))
		},
	},
	ResolvedCreature: {
		clothing:    constant("scraps of hide and salvaged wire wrapped around its body as crude armor"),
		location:    constant("a toxic marshland beneath a bruised, ash-filled sky"),
		nameDisplay: `a crude tag reading "%s" hanging from a cord around its neck`,
		bodyPlan:    func(p BodyPlan) string { return p.Organic },
		appearance: func(g Gender, t Traits) string {
			return fmt.Sprintf("a mutated wasteland creature with %s, patchy hide and too many eyes, %s in bearing", t.Body, genderAdj(g))
		},
	},
	ResolvedCyborg: {
		clothing:    constant("a long weatherproof coat over a patched harness of cables and power cells"),
		location:    constant("a neon-lit black-market clinic in an underground bunker"),
		nameDisplay: `"%s" shown on a cracked wrist-mounted screen`,
		variants: []variant{
			{2, "a cybernetic arm of exposed pistons"},
			{2, "half of the face replaced by riveted metal around a glowing ocular implant"},
			{1, "crude mechanical legs bolted on below the knees"},
		},
		appearance: func(g Gender, t Traits) string {
			return fmt.Sprintf("a %s cyborg, part flesh and part salvaged machinery, with %s", humanNoun(g), t.Variant)
		},
	},
	ResolvedMutant: {
		clothing:    constant("ragged, radiation-stained clothing patched together with duct tape"),
		location:    constant("the irradiated outskirts of a bombed-out city"),
		nameDisplay: `"%s" scrawled on a strip of cloth tied around the upper arm`,
		variants: []variant{
			{2, "mottled, scaled skin"},
			{2, "clusters of bioluminescent growths along the neck and arms"},
			{1, "an extra pair of eyes and elongated fingers"},
		},
		appearance: func(g Gender, t Traits) string {
			return fmt.Sprintf("a %s mutant, humanoid but twisted by radiation, with %s", humanNoun(g), t.Variant)
		},
	},
	ResolvedDefective: {
		clothing:    constant("a torn factory-issue bodysuit stamped REJECTED"),
		location:    constant("a recycling pit piled high with discarded units"),
		nameDisplay: `a glitching display that flickers between "%s" and error codes`,
		variants: []variant{
			{2, "sparking wiring spilling from a cracked chest casing"},
			{1, "one arm hanging limp from a severed actuator"},
			{1, "a head tilted at a broken angle, twitching"},
		},
		appearance: func(g Gender, t Traits) string {
			return fmt.Sprintf("a defective synthetic unit with %s, one optic sensor dead and the other flickering, built with %s proportions", t.Variant, genderAdj(g))
		},
	},
}

func humanNoun(g Gender) string {
	switch g {
	case GenderMale:
		return "man"
	case GenderFemale:
		return "woman"
	}
	return "person"
}

func genderAdj(g Gender) string {
	switch g {
	case GenderMale:
		return "masculine"
	case GenderFemale:
		return "feminine"
	}
	return "androgynous"
}

// RollTraits makes every random choice a species needs. It is the only
// place sub-variants are picked.
func RollTraits(s Resolved, r Rand, hasPhoto bool) Traits {
	var t Traits
	if s == ResolvedHuman {
		t.Ethnicity = pick(r, humanEthnicities)
		t.Role = humanRoles[r.IntN(len(humanRoles))]
		t.Body = pick(r, humanBodies)
		if hasPhoto {
			t.Body = referenceBody
		}
		return t
	}

	set := clauseTable[s]
	if len(set.variants) > 0 {
		t.Variant = pick(r, set.variants)
	}
	if set.bodyPlan != nil {
		p := bodyPlans[r.IntN(len(bodyPlans))]
		t.BodyPlan = p.Key
		t.Body = set.bodyPlan(p)
	}
	return t
}

// BuildClauses fills clothing, location, name display and appearance from
// the table. Theme and reference clauses are added by the caller.
func BuildClauses(s Resolved, g Gender, name string, t Traits) Clauses {
	set, ok := clauseTable[s]
	if !ok {
		panic(fmt.Sprintf("character: no clause set for species %q", s))
	}
	return Clauses{
		Clothing:    set.clothing(t),
		Location:    set.location(t),
		NameDisplay: fmt.Sprintf(set.nameDisplay, name),
		Appearance:  set.appearance(g, t),
	}
}
