package character

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Build_Max(t *testing.T) {
	e := NewEngine(WithRand(NewSeeded(1)))
	res := e.Build(Input{Species: SpeciesHuman, Gender: GenderMale, Name: "Max"})

	assert.Equal(t, "Maxx", res.DisplayName)
	assert.Equal(t, ResolvedHuman, res.Species)
	assert.Contains(t, res.Prompt, `"Maxx"`)
	assert.Empty(t, res.ReferenceImage)
}

func TestEngine_Build_Reserved(t *testing.T) {
	for _, in := range []Input{
		{Species: SpeciesHuman, Gender: GenderMale, Name: "Paradoxia"},
		{Species: SpeciesOther, Gender: GenderOther, Name: "paradoxia"},
		{Species: SpeciesAndroid, Gender: GenderFemale, Name: "PARADOXXXIA"},
	} {
		e := NewEngine(WithReservedReference("refs/pdx.webp"))
		res := e.Build(in)

		assert.Equal(t, ResolvedAndroid, res.Species)
		assert.Equal(t, ReservedName, res.DisplayName)
		assert.True(t, res.Identity.IsReserved)
		assert.Equal(t, "reserved", res.Rule)
		assert.Equal(t, "refs/pdx.webp", res.ReferenceImage)
		assert.Equal(t, Clauses{}, res.Clauses)
		assert.Contains(t, res.Prompt, "white face plate")
		assert.Contains(t, res.Prompt, "different, dynamic pose")
	}
}

func TestEngine_Build_ReservedIgnoresPhoto(t *testing.T) {
	e := NewEngine()
	res := e.Build(Input{Species: SpeciesHuman, Gender: GenderMale, Name: "Paradoxia", ReferencePhoto: pngPhoto(t)})
	assert.NotContains(t, res.Prompt, "reference photo")
	assert.Equal(t, DefaultReservedReference, res.ReferenceImage)
}

func TestEngine_Build_Boxxer(t *testing.T) {
	r := NewSeeded(3)
	e := NewEngine(WithRand(r))
	for i := 0; i < 50; i++ {
		res := e.Build(Input{Species: SpeciesOther, Gender: GenderOther, Name: "Boxxer"})
		assert.False(t, res.Identity.IsDefective)
		assert.NotEqual(t, ResolvedDefective, res.Species)
		assert.Contains(t, []Resolved{ResolvedCreature, ResolvedRobot, ResolvedDrone, ResolvedMutant}, res.Species)
	}
}

func TestEngine_Build_DefectiveOverridesLadder(t *testing.T) {
	for _, sp := range []Species{SpeciesHuman, SpeciesAndroid, SpeciesOther} {
		res := NewEngine().Build(Input{Species: sp, Gender: GenderFemale, Name: "Trixxxie"})
		assert.Equal(t, ResolvedDefective, res.Species, sp)
		assert.Equal(t, "defective", res.Rule)
	}
}

func TestEngine_Build_HumanAlwaysHuman(t *testing.T) {
	roles := map[string]bool{}
	ethnicities := map[string]bool{}
	bodies := map[string]bool{}
	for seed := uint64(0); seed < 100; seed++ {
		e := NewEngine(WithRand(NewSeeded(seed)))
		res := e.Build(Input{Species: SpeciesHuman, Gender: GenderMale, Name: "Alex"})
		require.Equal(t, ResolvedHuman, res.Species)
		require.Equal(t, "Alexx", res.DisplayName)
		roles[res.Traits.Role] = true
		ethnicities[res.Traits.Ethnicity] = true
		bodies[res.Traits.Body] = true
	}
	assert.Greater(t, len(roles), 1)
	assert.Greater(t, len(ethnicities), 1)
	assert.Greater(t, len(bodies), 1)
}

func TestEngine_Build_Deterministic(t *testing.T) {
	inputs := []Input{
		{Species: SpeciesHuman, Gender: GenderFemale, Name: "Nova"},
		{Species: SpeciesOther, Gender: GenderOther, Name: ""},
		{Species: SpeciesOther, Gender: GenderMale, Name: "Stormfang"},
		{Species: SpeciesAndroid, Gender: GenderOther, Name: "Unit 7"},
	}
	for _, in := range inputs {
		a := NewEngine(WithRand(NewSeeded(42))).Build(in)
		b := NewEngine(WithRand(NewSeeded(42))).Build(in)
		assert.Equal(t, a.Prompt, b.Prompt)
		assert.Equal(t, a, b)
	}
}

func TestEngine_Build_WhiteFacePlateOnlyOnAndroid(t *testing.T) {
	seen := map[Resolved]bool{}
	for seed := uint64(0); seed < 300; seed++ {
		e := NewEngine(WithRand(NewSeeded(seed)))
		for _, g := range []Gender{GenderMale, GenderFemale, GenderOther} {
			res := e.Build(Input{Species: SpeciesOther, Gender: g, Name: "Kestrel"})
			seen[res.Species] = true
			if res.Species != ResolvedAndroid {
				assert.NotContains(t, res.Prompt, "white face plate", res.Species)
			}
		}
	}
	for _, s := range []Resolved{ResolvedRobot, ResolvedDrone, ResolvedCreature} {
		assert.True(t, seen[s], "never resolved %s", s)
	}

	res := NewEngine().Build(Input{Species: SpeciesAndroid, Gender: GenderFemale, Name: "Iris"})
	assert.Contains(t, res.Prompt, "white face plate")
}

func TestEngine_Build_TableCoversEveryBranch(t *testing.T) {
	for _, s := range AllResolved {
		_, ok := clauseTable[s]
		require.True(t, ok, s)

		// every roll repeats v, which walks each table past its largest weight
		for v := 0; v < 12; v++ {
			traits := RollTraits(s, &seqRand{vals: []int{v}}, false)
			for _, g := range []Gender{GenderMale, GenderFemale, GenderOther} {
				c := BuildClauses(s, g, "Vexx", traits)
				assert.NotEmpty(t, c.Clothing, s)
				assert.NotEmpty(t, c.Location, s)
				assert.Contains(t, c.NameDisplay, `"Vexx"`, s)
				assert.NotEmpty(t, c.Appearance, s)
				assert.NotContains(t, c.Appearance, "%!", s)
				if s != ResolvedAndroid {
					assert.NotContains(t, c.Appearance, "white face plate", s)
				}
			}
		}
	}
}

func TestRollTraits_BodyPlans(t *testing.T) {
	for _, s := range []Resolved{ResolvedDrone, ResolvedCreature} {
		for i, p := range bodyPlans {
			traits := RollTraits(s, &seqRand{vals: []int{i}}, false)
			assert.Equal(t, p.Key, traits.BodyPlan)
		}
	}
	assert.Empty(t, RollTraits(ResolvedRobot, &seqRand{}, false).BodyPlan)
}

func TestRollTraits_HumanRoles(t *testing.T) {
	// ethnicity roll, role roll, body roll
	for i, role := range humanRoles {
		traits := RollTraits(ResolvedHuman, &seqRand{vals: []int{0, i, 0}}, false)
		assert.Equal(t, role, traits.Role)
		c := BuildClauses(ResolvedHuman, GenderFemale, "Ada", traits)
		assert.Equal(t, roleClothing[role], c.Clothing)
		assert.Equal(t, roleLocation[role], c.Location)
		assert.Contains(t, c.Appearance, "woman")
	}
}

func TestEngine_Build_ReferencePhoto(t *testing.T) {
	photo := pngPhoto(t)

	t.Run("human body type follows the photo", func(t *testing.T) {
		res := NewEngine(WithRand(NewSeeded(5))).Build(Input{Species: SpeciesHuman, Gender: GenderMale, Name: "Ivan", ReferencePhoto: photo})
		assert.Equal(t, referenceBody, res.Traits.Body)
		assert.Contains(t, res.Prompt, "skin tone, facial structure and body proportions")
		assert.Contains(t, res.Prompt, "If the person in the photo does not appear male")
	})

	t.Run("known conflicting gender gives explicit transform", func(t *testing.T) {
		res := NewEngine().Build(Input{Species: SpeciesHuman, Gender: GenderFemale, Name: "Ivy", ReferencePhoto: photo, ReferenceGender: GenderMale})
		assert.Contains(t, res.Prompt, "appears male; transform them convincingly into a female version")
	})

	t.Run("matching gender gives no transform", func(t *testing.T) {
		res := NewEngine().Build(Input{Species: SpeciesHuman, Gender: GenderFemale, Name: "Ivy", ReferencePhoto: photo, ReferenceGender: GenderFemale})
		assert.NotContains(t, res.Prompt, "transform them")
		assert.NotContains(t, res.Prompt, "does not appear")
	})

	t.Run("creature disguises the face", func(t *testing.T) {
		// other+other, roll 0 is creature
		e := NewEngine(WithRand(&seqRand{}))
		res := e.Build(Input{Species: SpeciesOther, Gender: GenderOther, Name: "Moss", ReferencePhoto: photo})
		require.Equal(t, ResolvedCreature, res.Species)
		assert.Contains(t, res.Prompt, "heavily disguise and stylize the face")
		assert.NotContains(t, res.Prompt, "faithfully reproduce")
	})

	t.Run("malformed photo degrades to no photo", func(t *testing.T) {
		in := Input{Species: SpeciesHuman, Gender: GenderMale, Name: "Ivan"}
		plain := NewEngine(WithRand(NewSeeded(9))).Build(in)
		in.ReferencePhoto = []byte("definitely not an image")
		bad := NewEngine(WithRand(NewSeeded(9))).Build(in)
		assert.Equal(t, plain.Prompt, bad.Prompt)
		assert.Empty(t, bad.Clauses.Reference)
	})
}

func TestAssemble_SkipsEmptyClauses(t *testing.T) {
	prompt := Assemble(ResolvedRobot, GenderOther, "Bolt", Clauses{
		Clothing:    "a tarp",
		Location:    "a factory",
		NameDisplay: `"Bolt" on a plate`,
		Appearance:  "a heavy robot",
	})
	assert.NotContains(t, prompt, "  ")
	assert.NotContains(t, prompt, "..")
	assert.NotContains(t, prompt, "%!")
	assert.NotContains(t, prompt, "reference photo")
	assert.True(t, strings.HasPrefix(prompt, "Create a single character portrait of Bolt, a heavy robot."))
	assert.Contains(t, prompt, "Square 1:1 aspect ratio.")
	assert.Contains(t, prompt, "Show only this one androgynous robot character")
	assert.Contains(t, prompt, `spelled exactly "Bolt"`)
}

func TestEngine_Build_PanicsOnUnknownEnum(t *testing.T) {
	e := NewEngine()
	assert.Panics(t, func() { e.Build(Input{Species: "elf", Gender: GenderMale}) })
	assert.Panics(t, func() { e.Build(Input{Species: SpeciesHuman}) })
}

func TestInput_Validate(t *testing.T) {
	assert.NoError(t, Input{Species: SpeciesHuman, Gender: GenderMale}.Validate())
	assert.ErrorIs(t, Input{Species: "elf", Gender: GenderMale}.Validate(), ErrUnknownSpecies)
	assert.ErrorIs(t, Input{Species: SpeciesHuman, Gender: ""}.Validate(), ErrUnknownGender)
	assert.ErrorIs(t, Input{Species: SpeciesHuman, Gender: GenderMale, ReferenceGender: "x"}.Validate(), ErrUnknownGender)
}

func TestParse(t *testing.T) {
	sp, err := ParseSpecies(" Android ")
	require.NoError(t, err)
	assert.Equal(t, SpeciesAndroid, sp)

	g, err := ParseGender("FEMALE")
	require.NoError(t, err)
	assert.Equal(t, GenderFemale, g)

	_, err = ParseSpecies("")
	assert.ErrorIs(t, err, ErrUnknownSpecies)
}

func TestEngine_Build_NameIsQuotedLiterally(t *testing.T) {
	for _, s := range []Species{SpeciesHuman, SpeciesAndroid, SpeciesOther} {
		res := NewEngine(WithRand(NewSeeded(4))).Build(Input{Species: s, Gender: GenderFemale, Name: `Bo"b`})
		assert.Contains(t, res.Prompt, `spelled exactly "Bo"b".`, s)
		assert.Contains(t, res.Clauses.NameDisplay, `"Bo"b"`, s)
		assert.NotContains(t, res.Prompt, `\"`, s)
	}
}
