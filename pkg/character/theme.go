package character

import (
	"folio/pkg/utils"
)

type themeRule struct {
	name     string
	keywords []string
	clause   string
}

// themeRules are checked top to bottom; the first group with a keyword
// inside the name wins.
var themeRules = []themeRule{
	{
		name:     "combat",
		keywords: []string{"blade", "sword", "knife", "razor", "edge", "steel", "fang", "claw", "war", "slash", "spike"},
		clause:   "Their look carries a sharp, dangerous edge, with blade-like accents and battle scars that echo a fighter's name",
	},
	{
		name:     "elemental",
		keywords: []string{"fire", "flame", "ember", "blaze", "frost", "ice", "storm", "thunder", "ash", "stone", "tide"},
		clause:   "Elemental motifs of heat, frost or storm are worked into their colors and wear, echoing the forces in their name",
	},
	{
		name:     "tech",
		keywords: []string{"cyber", "byte", "data", "volt", "tech", "chrome", "pixel", "code", "nano", "circuit", "neon", "glitch"},
		clause:   "Glowing circuitry, exposed wiring and digital glyphs hint at the technological roots of their name",
	},
	{
		name:     "animal",
		keywords: []string{"wolf", "fox", "raven", "hawk", "crow", "cat", "snake", "viper", "bear", "tiger", "rat", "moth"},
		clause:   "Subtle animal traits in posture, markings or gear mirror the creature their name evokes",
	},
	{
		name:     "abstract",
		keywords: []string{"ghost", "soul", "dream", "void", "spirit", "echo", "hope", "chaos", "fate", "null", "zero"},
		clause:   "An eerie, almost symbolic quality hangs over them, as if they embody the idea their name suggests",
	},
}

const defaultTheme = "Their overall design reflects the unique essence of their name"

// InferTheme returns the clause for the first keyword group found in name
// along with the group name, or the generic clause and "".
func InferTheme(name string) (string, string) {
	for _, rule := range themeRules {
		if utils.StringContains(name, false, rule.keywords...) {
			return rule.clause, rule.name
		}
	}
	return defaultTheme, ""
}
