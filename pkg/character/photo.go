package character

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "github.com/gen2brain/webp"
)

// UsablePhoto reports whether data decodes as an image. Anything else is
// treated as if no photo had been supplied.
func UsablePhoto(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return false
	}
	return cfg.Width > 0 && cfg.Height > 0
}

func referenceClause(s Resolved, g, photoGender Gender) string {
	var b strings.Builder
	if s == ResolvedCreature {
		b.WriteString("Use the attached reference photo only loosely: keep its skin tone and body proportions, but heavily disguise and stylize the face so it reads as a creature, and never reproduce the facial likeness directly.")
	} else {
		b.WriteString("Use the attached reference photo as the basis for this character and faithfully reproduce the person's skin tone, facial structure and body proportions.")
	}

	switch {
	case g == GenderOther && photoGender != "" && photoGender != GenderOther:
		b.WriteString(" Soften the gendered features from the photo toward an androgynous look while keeping them recognizable.")
	case g == GenderOther:
	case photoGender != "" && photoGender != g:
		fmt.Fprintf(&b, " The person in the photo appears %s; transform them convincingly into a %s version of themselves while keeping their recognizable traits.", photoGender, g)
	case photoGender == "":
		fmt.Fprintf(&b, " If the person in the photo does not appear %s, adapt their features to read as %s while keeping them recognizable.", g, g)
	}
	return b.String()
}
