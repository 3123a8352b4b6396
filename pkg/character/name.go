package character

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// TriggerLetter is doubled when it stands alone and marks a defective
	// unit when it repeats three times.
	TriggerLetter = 'x'
	ReservedName  = "Paradoxxia"
)

var reservedPattern = regexp.MustCompile(`(?i)^parado` + string(TriggerLetter) + `{3,}ia$`)

var (
	namePrefixes = []string{"Zar", "Kor", "Vel", "Ny", "Ral", "Syl", "Dra", "Mor", "Tev", "Quo"}
	nameInfixes  = []string{"a", "o", "ri", "ul", "en", "ith"}
	nameSuffixes = []string{"ion", "ix", "ara", "eth", "os", "yn", "ek", "une"}
)

func isTrigger(r rune) bool {
	return unicode.ToLower(r) == TriggerLetter
}

// doubleTrigger repeats every isolated trigger letter. Letters that already
// touch another trigger letter are left as they are, so the transform is
// idempotent on its own output. Every other byte is copied through as is,
// including invalid UTF-8.
func doubleTrigger(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	prevTrigger := false
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		b.WriteString(s[i : i+size])
		if !isTrigger(r) {
			prevTrigger = false
			i += size
			continue
		}
		next, _ := utf8.DecodeRuneInString(s[i+size:])
		if !prevTrigger && (i+size == len(s) || !isTrigger(next)) {
			b.WriteString(s[i : i+size])
		}
		prevTrigger = true
		i += size
	}
	return b.String()
}

func hasTripleTrigger(s string) bool {
	run := 0
	for _, r := range s {
		if !isTrigger(r) {
			run = 0
			continue
		}
		run++
		if run >= 3 {
			return true
		}
	}
	return false
}

// FallbackName builds a pseudo-random fantasy name for a blank input.
func FallbackName(r Rand) string {
	var b strings.Builder
	b.WriteString(namePrefixes[r.IntN(len(namePrefixes))])
	if r.IntN(2) == 1 {
		b.WriteString(nameInfixes[r.IntN(len(nameInfixes))])
	}
	b.WriteString(nameSuffixes[r.IntN(len(nameSuffixes))])
	return b.String()
}

// Normalize turns raw wizard text into the in-universe name.
//
// The reserved check runs before the defective check; a name that collapses
// to ReservedName is never defective.
func Normalize(raw string, r Rand) Identity {
	name := raw
	if strings.TrimSpace(name) == "" {
		name = FallbackName(r)
	}

	name = doubleTrigger(name)
	if reservedPattern.MatchString(name) {
		name = ReservedName
	}

	if strings.EqualFold(name, ReservedName) {
		return Identity{ProcessedName: ReservedName, IsReserved: true}
	}

	return Identity{
		ProcessedName: name,
		IsDefective:   hasTripleTrigger(name),
	}
}
