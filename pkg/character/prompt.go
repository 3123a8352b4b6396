package character

import (
	"fmt"
	"strings"
)

// DefaultReservedReference is the bucket/file of the stored portrait the
// reserved character is redrawn from.
const DefaultReservedReference = "characters/paradoxxia.png"

const renderingStyle = "Square 1:1 aspect ratio. Dark, gritty, post-apocalyptic rendering style with muted colors, harsh directional lighting, film grain and a cinematic atmosphere."

const reservedTemplate = "Create a new image of %[1]s, the android shown in the attached reference image. " +
	"Keep her exact design: the smooth white face plate, the glowing optic sensors, the same colors, markings and outfit. " +
	"Show her in a different, dynamic pose from a new camera angle, standing in the ruins of a collapsed city at dusk. " +
	"Show only this one character, with no other figures in the frame. " +
	"Her name tag must be clearly legible and read exactly \"%[1]s\". " +
	renderingStyle

// Engine turns wizard selections into one image-generation prompt.
// It performs no I/O and is safe for concurrent use when its Rand is.
type Engine struct {
	rand              Rand
	reservedReference string
}

type Option func(*Engine)

// WithRand injects the random source; tests pass a seeded one.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rand = r }
}

func WithReservedReference(ref string) Option {
	return func(e *Engine) {
		if ref != "" {
			e.reservedReference = ref
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rand:              globalRand{},
		reservedReference: DefaultReservedReference,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Build assembles the prompt for in. Callers must Validate first; an
// unknown species or gender here is a programming error and panics.
func (e *Engine) Build(in Input) Result {
	if err := in.Validate(); err != nil {
		panic("character: " + err.Error())
	}

	id := Normalize(in.Name, e.rand)
	species, rule := ResolveSpecies(in, id, e.rand)

	if id.IsReserved {
		return Result{
			Prompt:         fmt.Sprintf(reservedTemplate, id.ProcessedName),
			Species:        species,
			DisplayName:    id.ProcessedName,
			Identity:       id,
			Rule:           rule,
			ReferenceImage: e.reservedReference,
		}
	}

	hasPhoto := UsablePhoto(in.ReferencePhoto)
	traits := RollTraits(species, e.rand, hasPhoto)
	clauses := BuildClauses(species, in.Gender, id.ProcessedName, traits)
	clauses.Theme, _ = InferTheme(id.ProcessedName)
	if hasPhoto {
		clauses.Reference = referenceClause(species, in.Gender, in.ReferenceGender)
	}

	return Result{
		Prompt:      Assemble(species, in.Gender, id.ProcessedName, clauses),
		Species:     species,
		DisplayName: id.ProcessedName,
		Identity:    id,
		Clauses:     clauses,
		Traits:      traits,
		Rule:        rule,
	}
}

// Assemble joins the clauses into the narrative template. Empty clauses
// leave no trace in the output.
func Assemble(s Resolved, g Gender, name string, c Clauses) string {
	segments := []string{
		sentence("Create a single character portrait of %s, %s", name, c.Appearance),
		sentence("They wear %s", c.Clothing),
		sentence("They are standing in %s", c.Location),
		sentence("Their name appears as %s", c.NameDisplay),
		sentence("%s", c.Theme),
		c.Reference,
		fmt.Sprintf("Show only this one %s %s character, with no other figures in the frame.", genderAdj(g), s),
		fmt.Sprintf("The name tag text must be clearly legible and spelled exactly \"%s\".", name),
		renderingStyle,
	}

	parts := segments[:0]
	for _, seg := range segments {
		if seg = strings.TrimSpace(seg); seg != "" {
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, " ")
}

// sentence formats a clause sentence, or returns "" when any argument is
// empty.
func sentence(format string, args ...string) string {
	vals := make([]any, len(args))
	for i, a := range args {
		if strings.TrimSpace(a) == "" {
			return ""
		}
		vals[i] = a
	}
	return strings.TrimSuffix(fmt.Sprintf(format, vals...), ".") + "."
}
