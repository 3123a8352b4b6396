package utils

import (
	"github.com/aryann/difflib"
)

type Delta struct {
	Op   int    `json:"op"`
	Text string `json:"text"`
}

// DiffRunes diffs a and b one rune at a time and merges neighbouring runes
// that share an operation. Op is 0 for common text, -1 for text only in a
// and +1 for text only in b.
func DiffRunes(a, b string) []Delta {
	recs := difflib.Diff(splitRunes(a), splitRunes(b))
	out := make([]Delta, 0, len(recs))
	for _, r := range recs {
		op := 0
		switch r.Delta {
		case difflib.LeftOnly:
			op = -1
		case difflib.RightOnly:
			op = +1
		}
		if n := len(out); n > 0 && out[n-1].Op == op {
			out[n-1].Text += r.Payload
			continue
		}
		out = append(out, Delta{Op: op, Text: r.Payload})
	}
	return out
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
