package character

import (
	"strings"

	"folio/pkg/utils"
)

// NameDiff shows how the normalizer changed raw so the wizard can
// highlight inserted letters. A blank raw name diffs against "".
func NameDiff(raw, processed string) []utils.Delta {
	if strings.TrimSpace(raw) == "" {
		raw = ""
	}
	return utils.DiffRunes(raw, processed)
}
