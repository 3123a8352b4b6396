package character

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

type Species string

const (
	SpeciesHuman   Species = "human"
	SpeciesAndroid Species = "android"
	SpeciesOther   Species = "other"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Resolved is the concrete species used to pick clauses.
type Resolved string

const (
	ResolvedHuman     Resolved = "human"
	ResolvedAndroid   Resolved = "android"
	ResolvedRobot     Resolved = "robot"
	ResolvedDrone     Resolved = "drone"
	ResolvedCreature  Resolved = "creature"
	ResolvedCyborg    Resolved = "cyborg"
	ResolvedMutant    Resolved = "mutant"
	ResolvedDefective Resolved = "defective"
)

// AllResolved lists every species the resolver can produce.
var AllResolved = []Resolved{
	ResolvedHuman, ResolvedAndroid, ResolvedRobot, ResolvedDrone,
	ResolvedCreature, ResolvedCyborg, ResolvedMutant, ResolvedDefective,
}

var (
	ErrUnknownSpecies = errors.New("unknown species")
	ErrUnknownGender  = errors.New("unknown gender")
)

func ParseSpecies(s string) (Species, error) {
	switch sp := Species(strings.ToLower(strings.TrimSpace(s))); sp {
	case SpeciesHuman, SpeciesAndroid, SpeciesOther:
		return sp, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSpecies, s)
}

func ParseGender(s string) (Gender, error) {
	switch g := Gender(strings.ToLower(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale, GenderOther:
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGender, s)
}

// Input is one committed run of the selection wizard.
type Input struct {
	Species Species
	Gender  Gender
	Name    string

	// ReferencePhoto is the raw image the user uploaded, if any.
	ReferencePhoto []byte
	// ReferenceGender is the apparent gender of the person in the photo when
	// the caller knows it. Empty means unknown.
	ReferenceGender Gender
}

// Validate reports selections that must never reach Build.
func (in Input) Validate() error {
	if _, err := ParseSpecies(string(in.Species)); err != nil {
		return err
	}
	if _, err := ParseGender(string(in.Gender)); err != nil {
		return err
	}
	if in.ReferenceGender != "" {
		if _, err := ParseGender(string(in.ReferenceGender)); err != nil {
			return fmt.Errorf("reference gender: %w", err)
		}
	}
	return nil
}

// Identity is derived from the name alone.
type Identity struct {
	ProcessedName string `json:"processedName"`
	IsReserved    bool   `json:"isReserved"`
	IsDefective   bool   `json:"isDefective"`
}

// Clauses are the prompt fragments chosen for one run. Empty fields are
// omitted from the final prompt.
type Clauses struct {
	Clothing    string `json:"clothing,omitempty"`
	Location    string `json:"location,omitempty"`
	NameDisplay string `json:"nameDisplay,omitempty"`
	Appearance  string `json:"appearance,omitempty"`
	Theme       string `json:"theme,omitempty"`
	Reference   string `json:"reference,omitempty"`
}

type Result struct {
	Prompt      string   `json:"prompt"`
	Species     Resolved `json:"resolvedSpecies"`
	DisplayName string   `json:"displayName"`
	Identity    Identity `json:"identity"`
	Clauses     Clauses  `json:"clauses"`
	Traits      Traits   `json:"traits"`
	// Rule is the species rule that fired.
	Rule string `json:"rule"`

	// ReferenceImage names the stored image that must accompany Prompt.
	// Only the reserved-name branch sets it.
	ReferenceImage string `json:"referenceImage,omitempty"`
}

// Rand is the only source of randomness the engine uses.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// NewSeeded returns a deterministic source for reproducible prompts.
func NewSeeded(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
